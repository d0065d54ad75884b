package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
)

// DetectionSource tells where a response carried its grounding boxes.
type DetectionSource int

const (
	DetectionsNone DetectionSource = iota
	DetectionsStructured
	DetectionsEmbedded
)

func (s DetectionSource) String() string {
	switch s {
	case DetectionsStructured:
		return "structured"
	case DetectionsEmbedded:
		return "embedded"
	default:
		return "none"
	}
}

// ParsedDetections is Structured(list) | Embedded(rawText) | None.
type ParsedDetections struct {
	Source DetectionSource
	List   []domain.DetectionBox
	Raw    string
}

// ClassifyDetections sniffs the shape of a backend result. A JSON array under
// grounding wins; otherwise a non-empty raw_output is kept for text parsing.
func ClassifyDetections(result *domain.VQAResult) ParsedDetections {
	if result == nil {
		return ParsedDetections{}
	}

	if trimmed := bytes.TrimSpace(result.Grounding); len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err == nil {
			return ParsedDetections{Source: DetectionsStructured, List: decodeBoxes(entries, "")}
		}
	}

	if result.RawOutput != "" {
		return ParsedDetections{Source: DetectionsEmbedded, Raw: result.RawOutput}
	}
	return ParsedDetections{}
}

// Boxes resolves the variant into a box list.
func (p ParsedDetections) Boxes() ([]domain.DetectionBox, error) {
	switch p.Source {
	case DetectionsStructured:
		return p.List, nil
	case DetectionsEmbedded:
		return ParseEmbeddedList(p.Raw)
	default:
		return nil, nil
	}
}

var (
	embeddedListRe = regexp.MustCompile(`\[[\s\S]*\]`)
	bareKeyRe      = regexp.MustCompile(`(\w+):`)
)

// ParseEmbeddedList pulls a Python-style list literal such as
// [{'label': 'ship', 'box': [1, 2, 3, 4, 0]}] out of free text.
// No list in the text is not an error and yields no boxes.
func ParseEmbeddedList(raw string) ([]domain.DetectionBox, error) {
	literal := embeddedListRe.FindString(raw)
	if literal == "" {
		return nil, nil
	}

	jsonReady := strings.ReplaceAll(literal, "'", `"`)
	jsonReady = bareKeyRe.ReplaceAllString(jsonReady, `"$1":`)

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(jsonReady), &entries); err != nil {
		return nil, fmt.Errorf("parse embedded grounding list: %w", err)
	}
	return decodeBoxes(entries, config.DefaultDetectionLabel), nil
}

// decodeBoxes decodes entries one by one. An entry that is not an object or
// whose box is not a list of numbers keeps its place with no coordinates.
func decodeBoxes(entries []json.RawMessage, defaultLabel string) []domain.DetectionBox {
	boxes := make([]domain.DetectionBox, 0, len(entries))
	for _, raw := range entries {
		var entry struct {
			Label any               `json:"label"`
			Box   []json.RawMessage `json:"box"`
		}
		box := domain.DetectionBox{Label: defaultLabel}
		if err := json.Unmarshal(raw, &entry); err != nil {
			boxes = append(boxes, box)
			continue
		}

		if label, ok := entry.Label.(string); ok && label != "" {
			box.Label = label
		}

		coords := make([]float64, 0, len(entry.Box))
		for _, v := range entry.Box {
			var f float64
			if err := json.Unmarshal(v, &f); err != nil {
				coords = nil
				break
			}
			coords = append(coords, f)
		}
		box.Coords = coords
		boxes = append(boxes, box)
	}
	return boxes
}
