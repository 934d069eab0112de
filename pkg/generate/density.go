package generate

import (
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-deckgen/pkg/spec"
)

// densityFloor is the minimum acceptable fill ratio. Below it the field is
// sparse; above 1.0 it overflows.
const densityFloor = 0.9

// densityReport summarizes how well a candidate fills its declared capacity.
type densityReport struct {
	// density is the maximum observed/max ratio across declared metrics.
	density  float64
	overflow bool
	pass     bool
}

// Measure returns the observed size of plain text for one metric. Marked
// text must be projected to plain form first.
func Measure(text string, metric spec.CapacityMetric) int {
	switch metric {
	case spec.MetricCharacters:
		return utf8.RuneCountInString(text)
	case spec.MetricWords:
		return len(strings.Fields(text))
	case spec.MetricLines:
		if text == "" {
			return 0
		}
		count := 0
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				count++
			}
		}
		return count
	default:
		return 0
	}
}

// evaluateDensity scores plain text against the field's capacity limits.
// A candidate passes when no metric overflows and the binding metric fills
// at least the floor.
func evaluateDensity(text string, capacity []spec.CapacityLimit) densityReport {
	report := densityReport{}
	for _, limit := range capacity {
		observed := Measure(text, limit.Metric)
		ratio := float64(observed) / float64(limit.Max)
		if ratio > report.density {
			report.density = ratio
		}
		if ratio > 1.0 {
			report.overflow = true
		}
	}
	report.pass = !report.overflow && report.density >= densityFloor
	return report
}

// betterCandidate picks the candidate to keep once retries are exhausted:
// the densest one that still fits, else the least-overflowing one.
func betterCandidate(a, b densityReport) bool {
	aFits, bFits := !a.overflow, !b.overflow
	switch {
	case aFits && !bFits:
		return true
	case !aFits && bFits:
		return false
	case aFits:
		return a.density > b.density
	default:
		return a.density < b.density
	}
}
