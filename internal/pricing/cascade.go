package pricing

import (
	"fmt"
	"math"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/internal/common"
)

// InheritRights builds a child rights spec from its parent plus optional
// overrides. When the merged result is flagged overridden the supplied
// multiplier stands; otherwise the multiplier is recomputed from the
// merged fields.
func InheritRights(cfg *config.Pricing, parent common.Rights, overrides *common.RightsPatch) common.Rights {
	merged := overrides.Apply(parent)
	if !merged.Overridden {
		merged.Multiplier = Multiplier(cfg, merged)
	}
	return merged
}

// ApplyBulkEdit merges updates into every row whose id is selected, at any
// depth. Children are visited independently of their parent's selection
// state. Rights edits always recompute the multiplier; a bulk edit is
// never a manual override of the multiplier itself. Returns a new tree.
func ApplyBulkEdit(cfg *config.Pricing, rows []*common.DeliverableRow, selected []string, updates *common.BulkEdit) []*common.DeliverableRow {
	if updates == nil || len(selected) == 0 {
		return rows
	}

	sel := make(map[string]bool, len(selected))
	for _, id := range selected {
		sel[id] = true
	}
	return bulkEdit(cfg, rows, sel, updates)
}

func bulkEdit(cfg *config.Pricing, rows []*common.DeliverableRow, sel map[string]bool, updates *common.BulkEdit) []*common.DeliverableRow {
	out := make([]*common.DeliverableRow, len(rows))
	for i, row := range rows {
		edited := row
		if sel[row.Id] {
			c := row.Clone()
			applyBulkFields(c, updates)
			if updates.Rights != nil {
				c.Rights = updates.Rights.Apply(c.Rights)
				derived := c.Rights
				derived.Overridden = false
				c.Rights.Multiplier = Multiplier(cfg, derived)
			}
			c.NeedsApproval = NeedsApproval(cfg, c)
			edited = c
		}
		if len(edited.Children) > 0 {
			if edited == row {
				edited = row.Clone()
			}
			edited.Children = bulkEdit(cfg, edited.Children, sel, updates)
		}
		out[i] = edited
	}
	return out
}

func applyBulkFields(d *common.DeliverableRow, u *common.BulkEdit) {
	if u.DeliverableType != nil {
		d.DeliverableType = *u.DeliverableType
	}
	if u.Platform != nil {
		d.Platform = *u.Platform
	}
	if u.Quantity != nil {
		d.Quantity = *u.Quantity
	}
	if u.UnitFee != nil {
		d.UnitFee = *u.UnitFee
	}
}

// MaterializeCohort converts a cohort allocation into specific-creator
// rows, one per supplied creator. Each row keeps the cohort's platform,
// deliverable type, rights and quantity; pricing and estimates come from
// the creator (specific-creator rates always win over cohort pricing).
// The produced rows are paid children of the cohort row; the caller
// appends them and marks the cohort materialized.
func MaterializeCohort(cohort *common.DeliverableRow, creators []*common.Creator) []*common.DeliverableRow {
	out := make([]*common.DeliverableRow, 0, len(creators))
	for i, cr := range creators {
		tagged := *cr
		tagged.ParentCohortId = cohort.Id

		row := cohort.Clone()
		row.Id = fmt.Sprintf("%s_materialized_%d", cohort.Id, i)
		row.Type = common.RowPaid
		row.ParentId = cohort.Id
		row.CreatorType = common.CreatorSpecific
		row.CreatorInfo = common.CreatorRef{Creator: &tagged}
		row.CohortSize = 0
		row.UnitFee = cr.BaseRate
		row.BaseRate = cr.BaseRate
		row.PriceOverridden = false
		row.IsMaterialized = true
		row.IsExpanded = false
		row.Children = nil
		// 10% reach estimate
		row.EstimatedViews = math.Round(float64(cr.Followers) * 0.1)
		row.EstimatedEngagements = math.Round(float64(cr.Followers) * cr.EngagementRate / 100)
		out = append(out, row)
	}
	return out
}
