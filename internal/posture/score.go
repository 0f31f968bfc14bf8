package posture

import "math"

// Error tags attached to a frame score.
const (
	TagVerticalMisalignment = "vertical_misalignment"
	TagBackCurvature        = "back_curvature"
	TagShoulderTilt         = "shoulder_tilt"
	TagHipTilt              = "hip_tilt"
	TagKneeValgus           = "knee_valgus"
	TagHeadMisalignment     = "head_misalignment"
)

// Score rates a single pose frame from 0 to 100. Fewer than 33 landmarks
// scores 0. With fewer than 5 of the 9 key landmarks visible the score
// degrades to (detected/5)*50 with no error tags. Otherwise penalties are
// subtracted from 100 and a +5 bonus applies when all 9 key landmarks are
// visible. The result is rounded and clamped to [0,100].
func Score(landmarks []Landmark, width, height float64) (int, []string) {
	if len(landmarks) < LandmarkCount {
		return 0, nil
	}

	detected := countVisibleKey(landmarks)
	if detected < 5 {
		return int(math.Max(0, float64(detected)/5*50)), nil
	}

	score := 100.0
	var tags []string

	leftShoulder := landmarks[idxLeftShoulder]
	rightShoulder := landmarks[idxRightShoulder]
	leftHip := landmarks[idxLeftHip]
	rightHip := landmarks[idxRightHip]
	leftKnee := landmarks[idxLeftKnee]
	rightKnee := landmarks[idxRightKnee]
	leftAnkle := landmarks[idxLeftAnkle]
	rightAnkle := landmarks[idxRightAnkle]
	nose := landmarks[idxNose]

	// Vertical alignment down the left side, proportional up to -30.
	shoulderX := leftShoulder.X * width
	hipX := leftHip.X * width
	kneeX := leftKnee.X * width
	ankleX := leftAnkle.X * width
	deviation := math.Abs(shoulderX-hipX) + math.Abs(hipX-kneeX) + math.Abs(kneeX-ankleX)
	maxDeviation := width * 0.1
	if maxDeviation > 0 && deviation > maxDeviation {
		score -= math.Min(30, deviation/maxDeviation*30)
		tags = append(tags, TagVerticalMisalignment)
	}

	// Back curvature from the shoulder/hip midline gap.
	backCurvature := math.Abs((leftShoulder.Y+rightShoulder.Y)/2 - (leftHip.Y+rightHip.Y)/2)
	switch {
	case backCurvature > 0.15:
		score -= 25
		tags = append(tags, TagBackCurvature)
	case backCurvature > 0.1:
		score -= 10
		tags = append(tags, TagBackCurvature)
	}

	if math.Abs(leftShoulder.Y-rightShoulder.Y) > 0.05 {
		score -= 10
		tags = append(tags, TagShoulderTilt)
	}

	if math.Abs(leftHip.Y-rightHip.Y) > 0.05 {
		score -= 10
		tags = append(tags, TagHipTilt)
	}

	// Knee valgus on either side, against 5% of frame width.
	leftValgus := math.Abs(leftKnee.X*width - leftAnkle.X*width)
	rightValgus := math.Abs(rightKnee.X*width - rightAnkle.X*width)
	if threshold := width * 0.05; leftValgus > threshold || rightValgus > threshold {
		score -= 20
		tags = append(tags, TagKneeValgus)
	}

	if math.Abs(nose.X-(leftShoulder.X+rightShoulder.X)/2) > 0.1 {
		score -= 5
		tags = append(tags, TagHeadMisalignment)
	}

	if detected >= 9 {
		score += 5
	}

	return int(math.Max(0, math.Min(100, math.Round(score)))), tags
}
