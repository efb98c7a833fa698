package pricing

import (
	"math"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/internal/common"
)

// Validate runs the advisory business-rule pass over a row and returns
// human-readable violations. Violations never block a mutation; they mark
// the row for approval and visual flagging only.
func Validate(cfg *config.Pricing, row *common.DeliverableRow) []string {
	var errs []string

	if row.Type == common.RowPaid && row.Rights.Usage == common.UsageOrganic {
		errs = append(errs, "Paid amplification requires paid usage rights")
	}

	if row.Rights.Duration < 1 {
		errs = append(errs, "Rights duration must be at least 1 month")
	}

	if row.UnitFee <= 0 {
		errs = append(errs, "Unit fee must be greater than 0")
	}

	if row.Quantity <= 0 {
		errs = append(errs, "Quantity must be greater than 0")
	}

	if exceedsExclusivityThreshold(cfg, row) {
		errs = append(errs, "Exclusivity duration requires approval")
	}

	if exceedsCompetitorThreshold(cfg, row) {
		errs = append(errs, "High competitor count requires approval")
	}

	if exceedsOverrideThreshold(cfg, row) {
		errs = append(errs, "Price override exceeds threshold and requires approval")
	}

	return errs
}

// NeedsApproval reports whether the row trips any of the configured
// approval thresholds. Recomputed on every mutation that touches the row.
func NeedsApproval(cfg *config.Pricing, row *common.DeliverableRow) bool {
	return exceedsExclusivityThreshold(cfg, row) ||
		exceedsCompetitorThreshold(cfg, row) ||
		exceedsOverrideThreshold(cfg, row)
}

func exceedsExclusivityThreshold(cfg *config.Pricing, row *common.DeliverableRow) bool {
	// The threshold is configured in days; rights duration is months.
	return row.Rights.Exclusivity && row.Rights.Duration > cfg.Thresholds.ExclusivityDuration/30
}

func exceedsCompetitorThreshold(cfg *config.Pricing, row *common.DeliverableRow) bool {
	return row.Rights.CompetitorCount >= cfg.Thresholds.CompetitorCount && row.Rights.CompetitorCount > 0
}

func exceedsOverrideThreshold(cfg *config.Pricing, row *common.DeliverableRow) bool {
	if !row.PriceOverridden || row.BaseRate == 0 {
		return false
	}
	pct := math.Abs((row.UnitFee-row.BaseRate)/row.BaseRate) * 100
	return pct > cfg.Thresholds.PriceOverridePercentage
}
