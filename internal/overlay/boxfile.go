package overlay

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/set-night/skyvqa/internal/domain"
)

// LoadBoxes reads detections from YAML or JSON. The document is either a
// list of {label, box} entries or a backend response with a grounding list.
func LoadBoxes(r io.Reader) ([]domain.DetectionBox, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse box file: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	var boxes []domain.DetectionBox
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&boxes); err != nil {
			return nil, fmt.Errorf("decode boxes: %w", err)
		}
	case yaml.MappingNode:
		var wrapped struct {
			Grounding []domain.DetectionBox `yaml:"grounding"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("decode grounding: %w", err)
		}
		boxes = wrapped.Grounding
	default:
		return nil, fmt.Errorf("box file must hold a list or a grounding mapping")
	}
	return boxes, nil
}
