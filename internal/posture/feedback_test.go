package posture

import "testing"

func findIssue(issues []Issue, issueType string) (Issue, bool) {
	for _, is := range issues {
		if is.Type == issueType {
			return is, true
		}
	}
	return Issue{}, false
}

// TestAnalyze_CleanFrame verifies that a well-aligned frame produces no
// advisory feedback.
func TestAnalyze_CleanFrame(t *testing.T) {
	issues := Analyze(alignedFrame(), 640, 480)
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

// TestAnalyze_IncompleteFrame verifies that fewer than 33 landmarks
// yields no feedback at all.
func TestAnalyze_IncompleteFrame(t *testing.T) {
	if issues := Analyze(make([]Landmark, 10), 640, 480); issues != nil {
		t.Errorf("expected nil for incomplete frame, got %v", issues)
	}
}

// TestAnalyze_BackRounded verifies that excessive shoulder/hip midline
// separation raises a high-severity back warning.
func TestAnalyze_BackRounded(t *testing.T) {
	landmarks := alignedFrame()
	landmarks[idxLeftHip].Y = 0.5
	landmarks[idxRightHip].Y = 0.5 // curvature 0.2 > 0.15

	issues := Analyze(landmarks, 640, 480)
	issue, ok := findIssue(issues, IssueBackRounded)
	if !ok {
		t.Fatalf("expected %s issue, got %v", IssueBackRounded, issues)
	}
	if issue.Severity != SeverityHigh {
		t.Errorf("severity = %q, want %q", issue.Severity, SeverityHigh)
	}
	if !HighSeverity(issues) {
		t.Error("HighSeverity() = false, want true")
	}
}

// TestAnalyze_KneeValgusSeverity verifies the medium/high severity split
// at 1.5x the valgus threshold.
func TestAnalyze_KneeValgusSeverity(t *testing.T) {
	cases := []struct {
		kneeX        float64
		wantSeverity string
	}{
		{0.5625, SeverityMedium}, // 40px deviation, threshold 32px
		{0.6, SeverityHigh},      // 64px deviation, above 1.5x threshold
	}
	for _, tc := range cases {
		landmarks := alignedFrame()
		landmarks[idxRightKnee].X = tc.kneeX

		issues := Analyze(landmarks, 640, 480)
		issue, ok := findIssue(issues, IssueKneeValgus)
		if !ok {
			t.Fatalf("expected %s issue for knee X %v, got %v", IssueKneeValgus, tc.kneeX, issues)
		}
		if issue.Severity != tc.wantSeverity {
			t.Errorf("knee X %v: severity = %q, want %q", tc.kneeX, issue.Severity, tc.wantSeverity)
		}
	}
}

// TestAnalyze_InsufficientAmplitude verifies the shallow-squat hint when
// the hips stay close above the knees.
func TestAnalyze_InsufficientAmplitude(t *testing.T) {
	landmarks := alignedFrame()
	landmarks[idxLeftHip].Y = 0.52
	landmarks[idxRightHip].Y = 0.52 // 38px above the knees, min travel 72px

	issues := Analyze(landmarks, 640, 480)
	issue, ok := findIssue(issues, IssueInsufficientAmplitude)
	if !ok {
		t.Fatalf("expected %s issue, got %v", IssueInsufficientAmplitude, issues)
	}
	if issue.Severity != SeverityLow {
		t.Errorf("severity = %q, want %q", issue.Severity, SeverityLow)
	}
}

// TestAnalyze_HeadMisalignment verifies the medium warning when the head
// drifts too far from the shoulder midline.
func TestAnalyze_HeadMisalignment(t *testing.T) {
	landmarks := alignedFrame()
	landmarks[idxNose].Y = 0.02 // 0.28 from the shoulder midline

	issues := Analyze(landmarks, 640, 480)
	issue, ok := findIssue(issues, IssueHeadMisalignment)
	if !ok {
		t.Fatalf("expected %s issue, got %v", IssueHeadMisalignment, issues)
	}
	if issue.Severity != SeverityMedium {
		t.Errorf("severity = %q, want %q", issue.Severity, SeverityMedium)
	}
}

// TestHighSeverity verifies the latch trigger helper.
func TestHighSeverity(t *testing.T) {
	if HighSeverity(nil) {
		t.Error("HighSeverity(nil) = true, want false")
	}
	low := []Issue{{Type: IssueArmAngle, Severity: SeverityLow}}
	if HighSeverity(low) {
		t.Error("HighSeverity(low) = true, want false")
	}
	mixed := append(low, Issue{Type: IssueBackRounded, Severity: SeverityHigh})
	if !HighSeverity(mixed) {
		t.Error("HighSeverity(mixed) = false, want true")
	}
}
