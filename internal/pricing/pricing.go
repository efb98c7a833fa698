// Package pricing is the rate-resolution and rights-multiplier engine.
// Every function here is total: missing or malformed rate-card entries
// degrade to documented defaults (multiplier 1.0, tier micro) instead of
// failing the calculation.
package pricing

import (
	"math"
	"strings"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/internal/common"
)

// Multiplier derives the rights multiplier for r. A manual override always
// wins; otherwise it is the product of the usage, exclusivity and
// territory multipliers.
func Multiplier(cfg *config.Pricing, r common.Rights) float64 {
	if r.Overridden {
		return r.Multiplier
	}

	usage, ok := cfg.UsageMultipliers[r.Usage]
	if !ok {
		usage = 1.0
	}

	terr, ok := cfg.TerritoryMultipliers[r.Territory]
	if !ok {
		terr = 1.0
	}

	return usage * exclusivityMultiplier(cfg, r) * terr
}

func exclusivityMultiplier(cfg *config.Pricing, r common.Rights) float64 {
	if !r.Exclusivity {
		return 1.0
	}

	byCount, ok := cfg.ExclusivityMultipliers[r.Duration]
	if !ok {
		byCount, ok = cfg.ExclusivityMultipliers[snapDuration(cfg, r.Duration)]
		if !ok {
			return 1.0
		}
	}

	if v, ok := byCount[r.CompetitorCount]; ok {
		return v
	}

	// Competitor counts beyond the table use the highest configured entry.
	var maxCount int
	for count := range byCount {
		if count > maxCount {
			maxCount = count
		}
	}
	if v, ok := byCount[maxCount]; ok {
		return v
	}
	return 1.0
}

// snapDuration maps a duration the table doesn't know to the largest
// configured bucket at or below it; below the smallest bucket, the
// smallest is used.
func snapDuration(cfg *config.Pricing, duration int) int {
	var (
		best     = -1
		smallest = -1
	)
	for d := range cfg.ExclusivityMultipliers {
		if smallest == -1 || d < smallest {
			smallest = d
		}
		if d <= duration && d > best {
			best = d
		}
	}
	if best == -1 {
		return smallest
	}
	return best
}

// InferTier guesses a creator tier from a free-text cohort/archetype
// label. Substring match on the known tier keywords; micro when nothing
// matches. Fragile on reworded labels, but the label is the only signal
// cohort rows carry.
func InferTier(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, common.TierNano):
		return common.TierNano
	case strings.Contains(l, common.TierMicro):
		return common.TierMicro
	case strings.Contains(l, common.TierMid):
		return common.TierMid
	case strings.Contains(l, common.TierMacro):
		return common.TierMacro
	}
	return common.TierMicro
}

// UnitRate resolves the per-unit price of a row. Manual overrides win;
// label-based rows (cohort/archetype) try the rate card via tier
// inference; everything else keeps the row's own fee.
func UnitRate(cfg *config.Pricing, row *common.DeliverableRow) float64 {
	if row.PriceOverridden {
		return row.UnitFee
	}

	if row.CreatorInfo.Creator == nil {
		tier := InferTier(row.CreatorInfo.Label)
		if rate := cfg.BaseRates[tier][row.Platform][row.DeliverableType]; rate > 0 {
			return rate
		}
	}

	return row.UnitFee
}

func deliverableMultiplier(cfg *config.Pricing, platform, deliverableType string) float64 {
	if m := cfg.DeliverableMultipliers[platform][deliverableType]; m > 0 {
		return m
	}
	return 1.0
}

// RowCost is the row's total cost rounded to the nearest whole currency
// unit: rate x type multiplier x rights multiplier x effective quantity.
func RowCost(cfg *config.Pricing, row *common.DeliverableRow) float64 {
	cost := UnitRate(cfg, row) *
		deliverableMultiplier(cfg, row.Platform, row.DeliverableType) *
		Multiplier(cfg, row.Rights) *
		float64(row.EffectiveQuantity())
	return math.Round(cost)
}

func RowViews(row *common.DeliverableRow) float64 {
	return float64(row.EffectiveQuantity()) * row.EstimatedViews
}

func RowEngagements(row *common.DeliverableRow) float64 {
	return float64(row.EffectiveQuantity()) * row.EstimatedEngagements
}

// InfluencerCount estimates headcount per row: cohort size for cohorts,
// one for a specific creator, quantity as a proxy for archetypes.
func InfluencerCount(row *common.DeliverableRow) int {
	if row.CreatorType == common.CreatorCohort && row.CohortSize > 0 {
		return row.CohortSize
	}
	if row.CreatorType == common.CreatorSpecific {
		return 1
	}
	return row.Quantity
}

func ContentPieces(row *common.DeliverableRow) int {
	return InfluencerCount(row) * row.Quantity
}
