// Package scoring turns aggregate metrics into a single bounded quality
// score with an interpretable penalty breakdown.
package scoring

import (
	"math"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

// Per-severity penalty multipliers. High findings carry roughly 7.5x the
// weight of low and 3.2x medium.
const (
	WeightLow    = 6.0
	WeightMedium = 14.0
	WeightHigh   = 45.0
)

// FallbackLOC stands in when the metrics stage recorded no line count:
// a medium-size codebase as neutral prior, and never zero so density math
// cannot divide by zero.
const FallbackLOC = 1000

const method = "density_log_v1"

// Compute derives the quality score from issue densities per KLOC with
// log damping, so marginal issues matter less as volume grows. Total
// function: negative counts are treated as zero and the result always
// lands in [0,100].
func Compute(m model.MetricsReport) model.ScoreReport {
	low := nonNegative(m.Totals.BySeverity[string(model.SeverityLow)])
	medium := nonNegative(m.Totals.BySeverity[string(model.SeverityMedium)])
	high := nonNegative(m.Totals.BySeverity[string(model.SeverityHigh)])

	loc := m.Totals.LOC
	if loc <= 0 {
		loc = FallbackLOC
	}

	dLow := float64(low) / float64(loc) * 1000.0
	dMedium := float64(medium) / float64(loc) * 1000.0
	dHigh := float64(high) / float64(loc) * 1000.0

	pLow := WeightLow * math.Log1p(dLow)
	pMedium := WeightMedium * math.Log1p(dMedium)
	pHigh := WeightHigh * math.Log1p(dHigh)

	penalty := pLow + pMedium + pHigh
	final := clamp(100.0-penalty, 0.0, 100.0)

	return model.ScoreReport{
		FinalScore: round2(final),
		Penalty:    round2(penalty),
		Weights: model.SeverityWeights{
			Low: WeightLow, Medium: WeightMedium, High: WeightHigh,
		},
		Breakdown: model.SeverityCounts{Low: low, Medium: medium, High: high},
		Method:    method,
		LOC:       loc,
		DensityPerKLOC: model.SeverityValues{
			Low: round2(dLow), Medium: round2(dMedium), High: round2(dHigh),
		},
		PenaltyBreakdown: model.SeverityValues{
			Low: round2(pLow), Medium: round2(pMedium), High: round2(pHigh),
		},
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
