package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBoxes_YAMLList(t *testing.T) {
	boxes, err := LoadBoxes(strings.NewReader(`
- label: ship
  box: [10, 20, 30, 40, 15]
- label: pier
  box: [50.5, 60, 70, 80]
`))
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, "ship", boxes[0].Label)
	assert.Equal(t, []float64{10, 20, 30, 40, 15}, boxes[0].Coords)
	assert.Equal(t, 15.0, boxes[0].Angle())
	assert.Equal(t, 0.0, boxes[1].Angle())
}

func TestLoadBoxes_JSONResponse(t *testing.T) {
	boxes, err := LoadBoxes(strings.NewReader(`{"answer":"2 ships","grounding":[{"label":"ship","box":[1,2,3,4]}]}`))
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, []float64{1, 2, 3, 4}, boxes[0].Coords)
}

func TestLoadBoxes_EmptyAndInvalid(t *testing.T) {
	boxes, err := LoadBoxes(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, boxes)

	_, err = LoadBoxes(strings.NewReader("just a string"))
	assert.Error(t, err)

	_, err = LoadBoxes(strings.NewReader("- label: x\n  box: [a, b]"))
	assert.Error(t, err)
}
