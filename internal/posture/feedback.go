package posture

import "math"

// Issue severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Issue error types.
const (
	IssueBackRounded           = "back_rounded"
	IssueKneeValgus            = "knee_valgus"
	IssueInsufficientAmplitude = "insufficient_amplitude"
	IssueShoulderMisalignment  = "shoulder_misalignment"
	IssueArmAngle              = "arm_angle"
	IssueHeadMisalignment      = "head_misalignment"
)

// Instructional thresholds, tuned separately from the scoring penalties.
const (
	thresholdBackCurvature     = 0.15
	thresholdKneeValgus        = 0.05 // fraction of frame width
	thresholdMinAmplitude      = 0.15 // fraction of frame height
	thresholdShoulderAlignment = 0.1
	thresholdArmAngle          = 45.0 // degrees
	thresholdHeadDeviation     = 0.2
)

// Issue is one advisory form correction for the current frame.
type Issue struct {
	Type     string  `json:"errorType"`
	Message  string  `json:"message"`
	Severity string  `json:"severity"`
	Value    float64 `json:"value,omitempty"`
}

// HighSeverity reports whether any issue in the list is high severity.
// High-severity issues can trigger the session safety stop.
func HighSeverity(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// Analyze produces live instructional feedback for a pose frame. It is
// independent of Score: both read the same landmarks but flag issues with
// their own thresholds and phrasing. Returns nil for an incomplete frame.
func Analyze(landmarks []Landmark, width, height float64) []Issue {
	if len(landmarks) < LandmarkCount {
		return nil
	}

	var issues []Issue

	nose := landmarks[idxNose]
	leftShoulder := landmarks[idxLeftShoulder]
	rightShoulder := landmarks[idxRightShoulder]
	leftHip := landmarks[idxLeftHip]
	rightHip := landmarks[idxRightHip]
	leftKnee := landmarks[idxLeftKnee]
	rightKnee := landmarks[idxRightKnee]
	leftAnkle := landmarks[idxLeftAnkle]
	rightAnkle := landmarks[idxRightAnkle]
	leftElbow := landmarks[idxLeftElbow]
	rightElbow := landmarks[idxRightElbow]

	// Rounded back.
	backCurvature := math.Abs((leftShoulder.Y+rightShoulder.Y)/2 - (leftHip.Y+rightHip.Y)/2)
	if backCurvature > thresholdBackCurvature {
		issues = append(issues, Issue{
			Type:     IssueBackRounded,
			Message:  "Gardez le dos droit !",
			Severity: SeverityHigh,
			Value:    backCurvature,
		})
	}

	// Knees caving inward.
	leftValgus := math.Abs(leftKnee.X*width - leftAnkle.X*width)
	rightValgus := math.Abs(rightKnee.X*width - rightAnkle.X*width)
	if threshold := width * thresholdKneeValgus; leftValgus > threshold || rightValgus > threshold {
		worst := math.Max(leftValgus, rightValgus)
		severity := SeverityMedium
		if worst > threshold*1.5 {
			severity = SeverityHigh
		}
		issues = append(issues, Issue{
			Type:     IssueKneeValgus,
			Message:  "Alignez vos genoux avec vos chevilles !",
			Severity: severity,
			Value:    worst,
		})
	}

	// Squat depth: hips still above the knees with too little travel.
	hipY := leftHip.Y * height
	kneeY := leftKnee.Y * height
	if minAmplitude := height * thresholdMinAmplitude; math.Abs(hipY-kneeY) < minAmplitude && kneeY > hipY {
		value := 0.0
		if minAmplitude > 0 {
			value = math.Abs(hipY-kneeY) / minAmplitude
		}
		issues = append(issues, Issue{
			Type:     IssueInsufficientAmplitude,
			Message:  "Descendez plus bas pour une meilleure amplitude",
			Severity: SeverityLow,
			Value:    value,
		})
	}

	if math.Abs(leftShoulder.X-rightShoulder.X) > thresholdShoulderAlignment {
		issues = append(issues, Issue{
			Type:     IssueShoulderMisalignment,
			Message:  "Gardez les épaules alignées",
			Severity: SeverityLow,
		})
	}

	// Arm angle against the vertical above each shoulder.
	upLeft := Landmark{X: leftShoulder.X, Y: leftShoulder.Y - 0.1}
	upRight := Landmark{X: rightShoulder.X, Y: rightShoulder.Y - 0.1}
	leftArm := angleAt(leftShoulder, leftElbow, upLeft)
	rightArm := angleAt(rightShoulder, rightElbow, upRight)
	if leftArm < thresholdArmAngle || rightArm < thresholdArmAngle {
		issues = append(issues, Issue{
			Type:     IssueArmAngle,
			Message:  "Gardez les bras à 90°",
			Severity: SeverityLow,
		})
	}

	if math.Abs(nose.Y-(leftShoulder.Y+rightShoulder.Y)/2) > thresholdHeadDeviation {
		issues = append(issues, Issue{
			Type:     IssueHeadMisalignment,
			Message:  "Gardez la tête alignée avec le corps",
			Severity: SeverityMedium,
		})
	}

	return issues
}
