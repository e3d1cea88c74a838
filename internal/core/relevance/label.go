package relevance

import (
	"math"

	"github.com/curamai/sitesearch/internal/core/domain"
)

const (
	maxExpectedScore = 100
	highThreshold    = 70
	mediumThreshold  = 40
)

// RelevancePercent normalizes a score against the expected maximum, capped at 100.
func RelevancePercent(score int) int {
	percent := int(math.Round(float64(score) / maxExpectedScore * 100))
	if percent > 100 {
		return 100
	}
	return percent
}

func RelevanceLabel(percent int) string {
	switch {
	case percent >= highThreshold:
		return domain.LabelHigh
	case percent >= mediumThreshold:
		return domain.LabelMedium
	default:
		return domain.LabelLow
	}
}
