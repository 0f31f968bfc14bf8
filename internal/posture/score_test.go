package posture

import (
	"reflect"
	"testing"
)

// alignedFrame returns a full 33-landmark frame with every key point
// visible and the body perfectly vertically aligned, which scores 100.
func alignedFrame() []Landmark {
	landmarks := make([]Landmark, LandmarkCount)
	for i := range landmarks {
		landmarks[i] = Landmark{X: 0.5, Y: 0.5, Visibility: 0.9}
	}
	landmarks[idxNose] = Landmark{X: 0.5, Y: 0.2, Visibility: 0.9}
	landmarks[idxLeftShoulder] = Landmark{X: 0.5, Y: 0.3, Visibility: 0.9}
	landmarks[idxRightShoulder] = Landmark{X: 0.5, Y: 0.3, Visibility: 0.9}
	landmarks[idxLeftElbow] = Landmark{X: 0.5, Y: 0.45, Visibility: 0.9}
	landmarks[idxRightElbow] = Landmark{X: 0.5, Y: 0.45, Visibility: 0.9}
	landmarks[idxLeftHip] = Landmark{X: 0.5, Y: 0.38, Visibility: 0.9}
	landmarks[idxRightHip] = Landmark{X: 0.5, Y: 0.38, Visibility: 0.9}
	landmarks[idxLeftKnee] = Landmark{X: 0.5, Y: 0.6, Visibility: 0.9}
	landmarks[idxRightKnee] = Landmark{X: 0.5, Y: 0.6, Visibility: 0.9}
	landmarks[idxLeftAnkle] = Landmark{X: 0.5, Y: 0.8, Visibility: 0.9}
	landmarks[idxRightAnkle] = Landmark{X: 0.5, Y: 0.8, Visibility: 0.9}
	return landmarks
}

// TestScore_PerfectAlignment verifies that a fully visible, perfectly
// aligned frame scores exactly 100 (no penalties, +5 bonus capped).
func TestScore_PerfectAlignment(t *testing.T) {
	score, tags := Score(alignedFrame(), 640, 480)
	if score != 100 {
		t.Errorf("Score() = %d, want 100", score)
	}
	if len(tags) != 0 {
		t.Errorf("unexpected error tags: %v", tags)
	}
}

// TestScore_Deterministic verifies that identical inputs produce
// identical outputs across calls.
func TestScore_Deterministic(t *testing.T) {
	landmarks := alignedFrame()
	landmarks[idxLeftKnee].X = 0.62

	s1, t1 := Score(landmarks, 640, 480)
	s2, t2 := Score(landmarks, 640, 480)
	if s1 != s2 {
		t.Errorf("scores differ across calls: %d vs %d", s1, s2)
	}
	if !reflect.DeepEqual(t1, t2) {
		t.Errorf("tags differ across calls: %v vs %v", t1, t2)
	}
}

// TestScore_IncompleteFrame verifies that fewer than 33 landmarks scores 0.
func TestScore_IncompleteFrame(t *testing.T) {
	if score, _ := Score(make([]Landmark, 20), 640, 480); score != 0 {
		t.Errorf("Score() = %d, want 0", score)
	}
	if score, _ := Score(nil, 640, 480); score != 0 {
		t.Errorf("Score(nil) = %d, want 0", score)
	}
}

// TestScore_DegradedVisibility verifies the degraded path: with exactly 4
// of 9 key landmarks visible the score is (4/5)*50 = 40 with no tags.
func TestScore_DegradedVisibility(t *testing.T) {
	landmarks := alignedFrame()
	for _, idx := range []int{idxRightHip, idxLeftKnee, idxRightKnee, idxLeftAnkle, idxRightAnkle} {
		landmarks[idx].Visibility = 0.2
	}

	score, tags := Score(landmarks, 640, 480)
	if score != 40 {
		t.Errorf("Score() = %d, want 40", score)
	}
	if len(tags) != 0 {
		t.Errorf("degraded path should carry no tags, got %v", tags)
	}
}

// TestScore_DegradedScale verifies the degraded score for each detected
// count below the threshold.
func TestScore_DegradedScale(t *testing.T) {
	cases := []struct {
		visible int
		want    int
	}{
		{0, 0},
		{1, 10},
		{2, 20},
		{3, 30},
		{4, 40},
	}
	for _, tc := range cases {
		landmarks := make([]Landmark, LandmarkCount)
		for i := 0; i < tc.visible; i++ {
			landmarks[keyIndices[i]].Visibility = 0.9
		}
		if score, _ := Score(landmarks, 640, 480); score != tc.want {
			t.Errorf("Score with %d visible = %d, want %d", tc.visible, score, tc.want)
		}
	}
}

// TestScore_KneeValgusPenalty verifies the -20 penalty when a knee
// deviates from its ankle by more than 5% of frame width.
func TestScore_KneeValgusPenalty(t *testing.T) {
	landmarks := alignedFrame()
	// Right knee so the left-side vertical alignment chain stays clean.
	landmarks[idxRightKnee].X = 0.58 // 8% of width off the ankle

	score, tags := Score(landmarks, 640, 480)
	// -20 valgus penalty plus the +5 full-visibility bonus.
	if score != 85 {
		t.Errorf("Score() = %d, want 85", score)
	}
	found := false
	for _, tag := range tags {
		if tag == TagKneeValgus {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s tag, got %v", TagKneeValgus, tags)
	}
}

// TestScore_BackCurvaturePenalties verifies the two-level back curvature
// penalty (-10 above 0.10, -25 above 0.15).
func TestScore_BackCurvaturePenalties(t *testing.T) {
	cases := []struct {
		hipY float64
		want int
	}{
		{0.42, 95}, // curvature 0.12 -> -10, +5 bonus
		{0.48, 80}, // curvature 0.18 -> -25, +5 bonus
	}
	for _, tc := range cases {
		landmarks := alignedFrame()
		landmarks[idxLeftHip].Y = tc.hipY
		landmarks[idxRightHip].Y = tc.hipY

		if score, _ := Score(landmarks, 640, 480); score != tc.want {
			t.Errorf("Score with hip Y %v = %d, want %d", tc.hipY, score, tc.want)
		}
	}
}

// TestScore_TiltPenalties verifies the shoulder and hip tilt penalties.
func TestScore_TiltPenalties(t *testing.T) {
	landmarks := alignedFrame()
	landmarks[idxRightShoulder].Y = 0.37 // tilt 0.07 -> -10

	score, _ := Score(landmarks, 640, 480)
	// Shoulder tilt also shifts the shoulder midline toward the hips,
	// keeping curvature under 0.10, so only the tilt penalty applies
	// alongside the +5 full-visibility bonus.
	if score != 95 {
		t.Errorf("Score with tilted shoulder = %d, want 95", score)
	}
}
