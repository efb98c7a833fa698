package plan

import (
	"math"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/internal/common"
	"github.com/domears/negotiator2/internal/pricing"
)

// Metrics is the scenario rollup for a deliverable tree. Cost and reach
// totals cover every row at every level; the influencer count only covers
// top-level rows so a materialized cohort is not double counted.
type Metrics struct {
	TotalCost         float64 `json:"totalCost"`
	TotalViews        float64 `json:"totalViews"`
	TotalEngagements  float64 `json:"totalEngagements"`
	CPM               float64 `json:"cpm"`
	CPV               float64 `json:"cpv"`
	CPE               float64 `json:"cpe"`
	OrganicCost       float64 `json:"organicCost"`
	PaidCost          float64 `json:"paidCost"`
	TotalInfluencers  int     `json:"totalInfluencers"`
	TotalContentPiece int     `json:"totalContentPieces"`
	CampaignScore     float64 `json:"campaignScore"`
}

// CalculateMetrics aggregates the tree into a Metrics snapshot. All
// rate metrics guard against zero denominators and report 0.
func CalculateMetrics(cfg *config.Pricing, rows []*common.DeliverableRow) *Metrics {
	m := &Metrics{}
	flat := common.FlattenDeliverables(rows)

	for _, row := range flat {
		cost := pricing.RowCost(cfg, row)
		m.TotalCost += cost
		m.TotalViews += pricing.RowViews(row)
		m.TotalEngagements += pricing.RowEngagements(row)
		m.TotalContentPiece += pricing.ContentPieces(row)
		if row.Type == common.RowOrganic {
			m.OrganicCost += cost
		} else {
			m.PaidCost += cost
		}
	}

	for _, row := range rows {
		m.TotalInfluencers += pricing.InfluencerCount(row)
	}

	if m.TotalViews > 0 {
		m.CPM = m.TotalCost / (m.TotalViews / 1000)
		m.CPV = m.TotalCost / m.TotalViews
	}
	if m.TotalEngagements > 0 {
		m.CPE = m.TotalCost / m.TotalEngagements
	}
	if m.CPE > 0 {
		m.CampaignScore = math.Min(math.Round(100/m.CPE), 100)
	}
	return m
}
