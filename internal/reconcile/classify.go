package reconcile

import "scanform/internal/domain"

// Confidence thresholds for tier classification. Boundary values belong to
// the higher tier.
const (
	strongThreshold  = 0.80
	partialThreshold = 0.60
)

// Classify maps a verification confidence score into its display tier.
func Classify(confidence float64) domain.Tier {
	switch {
	case confidence >= strongThreshold:
		return domain.TierStrong
	case confidence >= partialThreshold:
		return domain.TierPartial
	default:
		return domain.TierWeak
	}
}
