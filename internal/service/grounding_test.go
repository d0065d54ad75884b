package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/skyvqa/internal/domain"
)

func TestClassifyDetections(t *testing.T) {
	tests := []struct {
		name     string
		result   *domain.VQAResult
		expected DetectionSource
	}{
		{"nil result", nil, DetectionsNone},
		{"answer only", &domain.VQAResult{Answer: "3 ships"}, DetectionsNone},
		{
			"structured list",
			&domain.VQAResult{Grounding: json.RawMessage(`[{"label":"ship","box":[25,25,75,75,0]}]`)},
			DetectionsStructured,
		},
		{
			"structured wins over raw",
			&domain.VQAResult{Grounding: json.RawMessage(`[]`), RawOutput: "[{'label': 'x', 'box': [1,2,3,4]}]"},
			DetectionsStructured,
		},
		{
			"grounding not a list falls back to raw",
			&domain.VQAResult{Grounding: json.RawMessage(`{"label":"ship"}`), RawOutput: "text"},
			DetectionsEmbedded,
		},
		{"null grounding", &domain.VQAResult{Grounding: json.RawMessage(`null`)}, DetectionsNone},
		{"raw only", &domain.VQAResult{RawOutput: "boxes: [{'label': 'ship'}]"}, DetectionsEmbedded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDetections(tt.result).Source)
		})
	}
}

func TestParsedDetections_StructuredBoxes(t *testing.T) {
	result := &domain.VQAResult{
		Grounding: json.RawMessage(`[
			{"label":"ship","box":[25,25,75,75,0]},
			{"label":"plane","box":[1,2,3]},
			{"box":[10,10,20,20]},
			"garbage"
		]`),
	}

	boxes, err := ClassifyDetections(result).Boxes()
	require.NoError(t, err)
	require.Len(t, boxes, 4)

	assert.Equal(t, domain.DetectionBox{Label: "ship", Coords: []float64{25, 25, 75, 75, 0}}, boxes[0])
	assert.False(t, boxes[1].Valid())
	assert.Equal(t, "", boxes[2].Label)
	assert.True(t, boxes[2].Valid())
	assert.False(t, boxes[3].Valid())
}

func TestParseEmbeddedList(t *testing.T) {
	raw := "Found objects: [{'label': 'storage tank', 'box': [10, 20, 30, 40, 15]}, {box: [50, 50, 60, 70]}] done"

	boxes, err := ParseEmbeddedList(raw)
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	assert.Equal(t, "storage tank", boxes[0].Label)
	assert.Equal(t, []float64{10, 20, 30, 40, 15}, boxes[0].Coords)
	assert.Equal(t, 15.0, boxes[0].Angle())

	assert.Equal(t, "detected_object", boxes[1].Label)
	assert.Equal(t, []float64{50, 50, 60, 70}, boxes[1].Coords)
	assert.Equal(t, 0.0, boxes[1].Angle())
}

func TestParseEmbeddedList_NoList(t *testing.T) {
	boxes, err := ParseEmbeddedList("There are no ships in this image.")
	require.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestParseEmbeddedList_BadSyntax(t *testing.T) {
	_, err := ParseEmbeddedList("[{'label': 'ship', 'box': [1, 2, 3, 4], 'ok': True,}]")
	assert.Error(t, err)
}

func TestParsedDetections_EmbeddedError(t *testing.T) {
	parsed := ClassifyDetections(&domain.VQAResult{RawOutput: "[{label: None}"})
	assert.Equal(t, DetectionsEmbedded, parsed.Source)

	boxes, err := parsed.Boxes()
	assert.NoError(t, err, "no closing bracket means no list")
	assert.Empty(t, boxes)

	_, err = ClassifyDetections(&domain.VQAResult{RawOutput: "[{label: None}]"}).Boxes()
	assert.Error(t, err)
}
