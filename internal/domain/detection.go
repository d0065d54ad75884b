package domain

import "encoding/json"

// DetectionBox is one grounding region: x1,y1,x2,y2 on a 0-100 scale of the
// image size, optionally followed by a rotation angle in degrees.
type DetectionBox struct {
	Label  string    `json:"label" yaml:"label"`
	Coords []float64 `json:"box" yaml:"box"`
}

// Valid reports whether the box carries at least the two corners.
func (b DetectionBox) Valid() bool {
	return len(b.Coords) >= 4
}

// Angle returns the rotation in degrees, 0 when absent.
func (b DetectionBox) Angle() float64 {
	if len(b.Coords) < 5 {
		return 0
	}
	return b.Coords[4]
}

// VQARequest is one question sent to the inference backend.
type VQARequest struct {
	Image     *ImageBlob
	Question  string
	QueryType string
	// GSD is the ground sample distance, empty unless answering a clarification.
	GSD string
}

const ResultTypeMissingGSD = "missing_gsd"

// VQAResult is the loosely typed backend response.
type VQAResult struct {
	Type      string          `json:"_type,omitempty"`
	Answer    string          `json:"answer,omitempty"`
	Grounding json.RawMessage `json:"grounding,omitempty"`
	RawOutput string          `json:"raw_output,omitempty"`
}

func (r *VQAResult) MissingGSD() bool {
	return r != nil && r.Type == ResultTypeMissingGSD
}
