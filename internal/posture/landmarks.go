// Package posture converts pose-estimation landmarks into posture scores
// and live form feedback. All functions are pure; the same input always
// produces the same output.
package posture

import (
	"encoding/json"
	"fmt"
	"math"
)

// LandmarkCount is the number of points in a full pose frame.
const LandmarkCount = 33

// Landmark indices for the points the scorer reads. The indexing follows
// the standard 33-point pose topology produced by the capture layer.
const (
	idxNose          = 0
	idxLeftShoulder  = 11
	idxRightShoulder = 12
	idxLeftElbow     = 13
	idxRightElbow    = 14
	idxLeftWrist     = 15
	idxRightWrist    = 16
	idxLeftHip       = 23
	idxRightHip      = 24
	idxLeftKnee      = 25
	idxRightKnee     = 26
	idxLeftAnkle     = 27
	idxRightAnkle    = 28
)

// keyIndices are the nine landmarks that must be visible for full scoring.
var keyIndices = [9]int{
	idxNose,
	idxLeftShoulder, idxRightShoulder,
	idxLeftHip, idxRightHip,
	idxLeftKnee, idxRightKnee,
	idxLeftAnkle, idxRightAnkle,
}

// visibleThreshold is the minimum visibility for a landmark to count as
// detected.
const visibleThreshold = 0.5

// Landmark is one labeled body-joint estimate in normalized [0,1]
// coordinates with a visibility confidence.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Frame is one delivered pose frame: 33 landmarks plus the pixel
// dimensions of the source image.
type Frame struct {
	Landmarks []Landmark `json:"landmarks"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
}

// DecodeLandmarks parses a landmark array from JSON. Clients send either
// an array of {x,y,z,visibility} objects or a flat [x,y,z,v,...] float
// array; both shapes are accepted.
func DecodeLandmarks(raw json.RawMessage) ([]Landmark, error) {
	var objs []Landmark
	if err := json.Unmarshal(raw, &objs); err == nil {
		return objs, nil
	}

	var flat []float64
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("landmarks: unrecognized shape: %w", err)
	}
	if len(flat)%4 != 0 {
		return nil, fmt.Errorf("landmarks: flat array length %d is not a multiple of 4", len(flat))
	}
	out := make([]Landmark, 0, len(flat)/4)
	for i := 0; i+3 < len(flat); i += 4 {
		out = append(out, Landmark{X: flat[i], Y: flat[i+1], Z: flat[i+2], Visibility: flat[i+3]})
	}
	return out, nil
}

// countVisibleKey returns how many of the nine key landmarks are visible.
func countVisibleKey(landmarks []Landmark) int {
	n := 0
	for _, idx := range keyIndices {
		if landmarks[idx].Visibility > visibleThreshold {
			n++
		}
	}
	return n
}

// angleAt computes the angle in degrees at vertex p1 between the segments
// p1-p2 and p1-p3.
func angleAt(p1, p2, p3 Landmark) float64 {
	a := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
	b := math.Hypot(p3.X-p1.X, p3.Y-p1.Y)
	c := math.Hypot(p3.X-p2.X, p3.Y-p2.Y)
	if a == 0 || b == 0 {
		return 0
	}
	cos := (a*a + b*b - c*c) / (2 * a * b)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
