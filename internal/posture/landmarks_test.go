package posture

import (
	"encoding/json"
	"testing"
)

// TestDecodeLandmarks_ObjectArray verifies decoding the object shape
// {x,y,z,visibility} sent by the browser client.
func TestDecodeLandmarks_ObjectArray(t *testing.T) {
	raw := json.RawMessage(`[{"x":0.5,"y":0.3,"z":0.1,"visibility":0.9},{"x":0.4,"y":0.2,"z":0,"visibility":0.8}]`)
	landmarks, err := DecodeLandmarks(raw)
	if err != nil {
		t.Fatalf("DecodeLandmarks: %v", err)
	}
	if len(landmarks) != 2 {
		t.Fatalf("len = %d, want 2", len(landmarks))
	}
	if landmarks[0].X != 0.5 || landmarks[0].Visibility != 0.9 {
		t.Errorf("first landmark = %+v", landmarks[0])
	}
}

// TestDecodeLandmarks_FlatArray verifies decoding the flat [x,y,z,v,...]
// shape some capture clients send.
func TestDecodeLandmarks_FlatArray(t *testing.T) {
	raw := json.RawMessage(`[0.5,0.3,0.1,0.9,0.4,0.2,0,0.8]`)
	landmarks, err := DecodeLandmarks(raw)
	if err != nil {
		t.Fatalf("DecodeLandmarks: %v", err)
	}
	if len(landmarks) != 2 {
		t.Fatalf("len = %d, want 2", len(landmarks))
	}
	if landmarks[1].Y != 0.2 || landmarks[1].Visibility != 0.8 {
		t.Errorf("second landmark = %+v", landmarks[1])
	}
}

// TestDecodeLandmarks_BadShapes verifies that malformed payloads are
// rejected with an error rather than silently producing garbage.
func TestDecodeLandmarks_BadShapes(t *testing.T) {
	cases := []string{
		`{"not":"an array"}`,
		`[0.5,0.3,0.1]`,
		`"string"`,
	}
	for _, raw := range cases {
		if _, err := DecodeLandmarks(json.RawMessage(raw)); err == nil {
			t.Errorf("DecodeLandmarks(%s): expected error", raw)
		}
	}
}
