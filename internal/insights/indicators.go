// Package insights derives progress indicators and post-session advice
// from stored session history.
package insights

import (
	"math"
	"sort"
	"time"

	"github.com/claude/formcoach/internal/models"
)

// monthlySessionTarget is the adherence reference: three sessions a week
// over a 30-day window.
const monthlySessionTarget = 12

// Adherence measures how close the last 30 days came to the session
// target.
type Adherence struct {
	SessionsLast30Days int     `json:"sessionsLast30Days"`
	Target             int     `json:"target"`
	Percentage         float64 `json:"percentage"`
	Status             string  `json:"status"`
}

// Consistency measures how regular the spacing between sessions is.
type Consistency struct {
	Score  float64 `json:"score"`
	Status string  `json:"status"`
}

// Progression compares recent posture scores to the earliest ones.
type Progression struct {
	Delta  float64 `json:"delta"`
	Status string  `json:"status"`
}

// Performance aggregates posture quality over the window.
type Performance struct {
	AvgPostureScore float64 `json:"avgPostureScore"`
	AvgDurationSec  float64 `json:"avgDurationSec"`
	Status          string  `json:"status"`
}

// Indicators is the full progress report.
type Indicators struct {
	Adherence   Adherence   `json:"adherence"`
	Consistency Consistency `json:"consistency"`
	Progression Progression `json:"progression"`
	Performance Performance `json:"performance"`
	ComputedAt  time.Time   `json:"computedAt"`
}

// ComputeIndicators derives the progress report from session history.
// Adherence and performance consider only the 30 days preceding now;
// consistency and progression use the full history.
func ComputeIndicators(sessions []models.SessionRecord, now time.Time) Indicators {
	sorted := make([]models.SessionRecord, len(sessions))
	copy(sorted, sessions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
	})

	cutoff := now.AddDate(0, 0, -30)
	var recent []models.SessionRecord
	for _, s := range sorted {
		if !s.CompletedAt.Before(cutoff) {
			recent = append(recent, s)
		}
	}

	return Indicators{
		Adherence:   computeAdherence(recent),
		Consistency: computeConsistency(sorted),
		Progression: computeProgression(sorted),
		Performance: computePerformance(recent),
		ComputedAt:  now,
	}
}

func computeAdherence(recent []models.SessionRecord) Adherence {
	count := len(recent)
	pct := math.Min(100, float64(count)/monthlySessionTarget*100)
	status := "poor"
	switch {
	case count >= 12:
		status = "excellent"
	case count >= 8:
		status = "good"
	case count >= 4:
		status = "fair"
	}
	return Adherence{
		SessionsLast30Days: count,
		Target:             monthlySessionTarget,
		Percentage:         pct,
		Status:             status,
	}
}

// computeConsistency scores the regularity of training: the standard
// deviation of day-gaps between consecutive sessions, mapped so that
// perfectly even spacing scores 100 and each deviation day costs 10
// points.
func computeConsistency(sorted []models.SessionRecord) Consistency {
	if len(sorted) <= 1 {
		return Consistency{Score: 100, Status: "excellent"}
	}

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].CompletedAt.Sub(sorted[i-1].CompletedAt).Hours()/24)
	}
	mean := 0.0
	for _, g := range gaps {
		mean += g
	}
	mean /= float64(len(gaps))
	variance := 0.0
	for _, g := range gaps {
		variance += (g - mean) * (g - mean)
	}
	variance /= float64(len(gaps))
	stdDev := math.Sqrt(variance)

	score := math.Max(0, math.Min(100, 100-stdDev*10))
	status := "poor"
	switch {
	case score >= 80:
		status = "excellent"
	case score >= 60:
		status = "good"
	case score >= 40:
		status = "fair"
	}
	return Consistency{Score: score, Status: status}
}

// computeProgression compares the mean posture score of the five most
// recent sessions against the five earliest. Fewer than five sessions is
// too little signal.
func computeProgression(sorted []models.SessionRecord) Progression {
	if len(sorted) < 5 {
		return Progression{Status: "insufficient_data"}
	}

	oldest := sorted[:5]
	newest := sorted[len(sorted)-5:]
	delta := meanScore(newest) - meanScore(oldest)

	status := "declining"
	switch {
	case delta > 5:
		status = "improving"
	case delta > 0:
		status = "stable"
	}
	return Progression{Delta: delta, Status: status}
}

func computePerformance(recent []models.SessionRecord) Performance {
	if len(recent) == 0 {
		return Performance{Status: "no_data"}
	}
	durSum := 0.0
	for _, s := range recent {
		durSum += float64(s.DurationSeconds)
	}
	avgScore := meanScore(recent)

	status := "needs_work"
	switch {
	case avgScore >= 80:
		status = "excellent"
	case avgScore >= 70:
		status = "good"
	case avgScore >= 60:
		status = "fair"
	}
	return Performance{
		AvgPostureScore: avgScore,
		AvgDurationSec:  durSum / float64(len(recent)),
		Status:          status,
	}
}

func meanScore(sessions []models.SessionRecord) float64 {
	if len(sessions) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range sessions {
		sum += s.PostureScore
	}
	return sum / float64(len(sessions))
}
