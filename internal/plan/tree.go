// Package plan owns the deliverable tree mutation model: every operation
// takes a tree and returns a new one, cloning only the paths it touches.
// Operations aimed at a missing id, or violating a structural precondition,
// are silent no-ops; the tree comes back unchanged. The UI disables invalid
// actions, the model still guards against them.
package plan

import (
	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/internal/common"
	"github.com/domears/negotiator2/internal/pricing"
	"github.com/domears/negotiator2/misc"
)

const DefaultCohortSize = 5

// NewDefaultRow is the template row the add-deliverable action starts
// from: an organic Instagram post for a micro-tier cohort of five.
func NewDefaultRow() *common.DeliverableRow {
	return &common.DeliverableRow{
		Id:              misc.PseudoUUID(),
		Type:            common.RowOrganic,
		Platform:        "instagram",
		DeliverableType: "Post",
		CreatorType:     common.CreatorCohort,
		CreatorInfo:     common.CreatorRef{Label: "Micro Influencers (10K-100K)"},
		CohortSize:      DefaultCohortSize,
		Quantity:        1,
		UnitFee:         500,
		BaseRate:        500,
		Rights: common.Rights{
			Usage:      common.UsageOrganic,
			Duration:   6,
			Territory:  common.TerritoryDomestic,
			Multiplier: 1.0,
		},
		EstimatedViews:       25000,
		EstimatedEngagements: 2000,
	}
}

// UpdateRow merges a partial update into the row with the given id,
// located depth-first. A rights edit on a non-overridden row recomputes
// its multiplier, and cascades to children that have not been individually
// overridden. Unknown ids are a no-op.
func UpdateRow(cfg *config.Pricing, rows []*common.DeliverableRow, id string, update *common.RowUpdate) []*common.DeliverableRow {
	if update == nil || common.FindDeliverable(rows, id) == nil {
		return rows
	}

	out := make([]*common.DeliverableRow, len(rows))
	for i, row := range rows {
		if row.Id == id {
			c := row.Clone()
			update.Apply(c)

			if update.Rights != nil {
				if !c.Rights.Overridden {
					c.Rights.Multiplier = pricing.Multiplier(cfg, c.Rights)
				}
				// Cascade the new rights to children that still follow
				// the parent; an overridden child is left untouched.
				for j, child := range c.Children {
					if child.Rights.Overridden {
						continue
					}
					cc := child.Clone()
					cc.Rights = pricing.InheritRights(cfg, c.Rights, common.PatchFromRights(child.Rights))
					c.Children[j] = cc
				}
			}

			c.NeedsApproval = pricing.NeedsApproval(cfg, c)
			out[i] = c
			continue
		}

		if len(row.Children) > 0 && common.FindDeliverable(row.Children, id) != nil {
			c := row.Clone()
			c.Children = UpdateRow(cfg, c.Children, id, update)
			out[i] = c
			continue
		}

		out[i] = row
	}
	return out
}

// ToggleExpanded flips the expand/collapse flag on the row with the given
// id. No-op on unknown ids.
func ToggleExpanded(cfg *config.Pricing, rows []*common.DeliverableRow, id string) []*common.DeliverableRow {
	row := common.FindDeliverable(rows, id)
	if row == nil {
		return rows
	}
	expanded := !row.IsExpanded
	return UpdateRow(cfg, rows, id, &common.RowUpdate{IsExpanded: &expanded})
}

// AddRow appends a fresh default deliverable at the top level.
func AddRow(rows []*common.DeliverableRow) []*common.DeliverableRow {
	out := make([]*common.DeliverableRow, len(rows), len(rows)+1)
	copy(out, rows)
	return append(out, NewDefaultRow())
}

// AddChild appends a paid amplification add-on under an organic parent.
// The child inherits the parent's platform and creator selection, takes
// 40% of the parent's unit fee, and seeds paid 3-month rights through the
// cascade. No-op when the parent is missing or not organic.
func AddChild(cfg *config.Pricing, rows []*common.DeliverableRow, parentId string) []*common.DeliverableRow {
	parent := common.FindDeliverable(rows, parentId)
	if parent == nil || parent.Type != common.RowOrganic {
		return rows
	}

	var (
		paid     = common.UsagePaid
		duration = 3
		seed     = 1.5
	)
	fee := parent.UnitFee * 0.4
	child := &common.DeliverableRow{
		Id:              misc.PseudoUUID(),
		Type:            common.RowPaid,
		ParentId:        parent.Id,
		Platform:        parent.Platform,
		DeliverableType: "Boosted " + parent.DeliverableType,
		CreatorType:     parent.CreatorType,
		CreatorInfo:     parent.CreatorInfo,
		CohortSize:      parent.CohortSize,
		Quantity:        1,
		UnitFee:         fee,
		BaseRate:        fee,
		Rights: pricing.InheritRights(cfg, parent.Rights, &common.RightsPatch{
			Usage:      &paid,
			Duration:   &duration,
			Multiplier: &seed,
		}),
		EstimatedViews:       parent.EstimatedViews * 2,
		EstimatedEngagements: parent.EstimatedEngagements * 1.5,
	}
	child.NeedsApproval = pricing.NeedsApproval(cfg, child)

	out := make([]*common.DeliverableRow, len(rows))
	for i, row := range rows {
		if row.Id == parentId {
			c := row.Clone()
			c.Children = append(c.Children, child)
			c.IsExpanded = true
			out[i] = c
			continue
		}
		out[i] = row
	}
	return out
}

// DeleteRow removes the row with the given id at any level. Unknown ids
// are a no-op; the caller also drops the id from any live selection.
func DeleteRow(rows []*common.DeliverableRow, id string) []*common.DeliverableRow {
	out := make([]*common.DeliverableRow, 0, len(rows))
	for _, row := range rows {
		if row.Id == id {
			continue
		}
		if len(row.Children) > 0 && common.FindDeliverable(row.Children, id) != nil {
			c := row.Clone()
			c.Children = DeleteRow(c.Children, id)
			row = c
		}
		out = append(out, row)
	}
	return out
}

// Materialize converts the cohort row with the given id into specific
// creator rows appended to its children. The cohort row itself stays and
// is flagged materialized. Pulls at most min(cohort size, available)
// creators; fewer available than requested silently yields fewer rows.
// No-op when the target is missing or not a cohort.
func Materialize(cfg *config.Pricing, rows []*common.DeliverableRow, cohortId string, available []*common.Creator) []*common.DeliverableRow {
	// Only top-level rows can be materialized; a boosted child keeps its
	// parent's cohort label but is never expanded itself.
	var target *common.DeliverableRow
	for _, row := range rows {
		if row.Id == cohortId {
			target = row
			break
		}
	}
	if target == nil || target.CreatorType != common.CreatorCohort || target.IsMaterialized {
		return rows
	}

	size := target.CohortSize
	if size <= 0 {
		size = DefaultCohortSize
	}
	if size > len(available) {
		size = len(available)
	}
	produced := pricing.MaterializeCohort(target, available[:size])

	out := make([]*common.DeliverableRow, len(rows))
	for i, row := range rows {
		if row.Id == cohortId {
			c := row.Clone()
			c.IsMaterialized = true
			c.Children = append(c.Children, produced...)
			out[i] = c
			continue
		}
		out[i] = row
	}
	return out
}

// Selection is the set of bulk-selected row ids. It lives beside the tree,
// not in it; bulk operations read it but do not own it.
type Selection struct {
	ids []string
}

func (s *Selection) Toggle(id string) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

func (s *Selection) Remove(id string) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

func (s *Selection) Clear() {
	s.ids = nil
}

func (s *Selection) Has(id string) bool {
	return misc.Contains(s.ids, id)
}

// List returns the selected ids in selection order.
func (s *Selection) List() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Selection) Len() int {
	return len(s.ids)
}
