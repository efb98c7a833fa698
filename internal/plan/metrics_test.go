package plan

import (
	"testing"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/internal/common"
)

func TestCalculateMetricsEmpty(t *testing.T) {
	m := CalculateMetrics(config.DefaultPricing(), nil)
	if m.TotalCost != 0 || m.CPM != 0 || m.CPV != 0 || m.CPE != 0 || m.CampaignScore != 0 {
		t.Errorf("empty tree should be all zeros: %+v", m)
	}
}

func TestCalculateMetrics(t *testing.T) {
	cfg := config.DefaultPricing()
	rows := fixture()

	m := CalculateMetrics(cfg, rows)

	// a: 500 (card rate for micro/instagram/Post) x 1.0 x 1.0 x 5 = 2500
	// a1: 200 x 1.0 x 1.5 x 5 = 1500
	// b: 1000 x 1.0 x 1.0 x 2 = 2000
	if m.TotalCost != 6000 {
		t.Errorf("total cost: got %v, wanted 6000", m.TotalCost)
	}
	if m.OrganicCost != 4500 || m.PaidCost != 1500 {
		t.Errorf("split: %v organic, %v paid", m.OrganicCost, m.PaidCost)
	}

	// a: 5x25000, a1: 5x50000, b: 2x100000
	if m.TotalViews != 575000 {
		t.Errorf("views: got %v, wanted 575000", m.TotalViews)
	}
	// a: 5x2000, a1: 5x3000, b: 2x8000
	if m.TotalEngagements != 41000 {
		t.Errorf("engagements: got %v, wanted 41000", m.TotalEngagements)
	}

	// Influencer headcount counts top-level rows only: cohort of 5 plus one
	// specific creator. The nested boost reuses the same people.
	if m.TotalInfluencers != 6 {
		t.Errorf("influencers: got %v, wanted 6", m.TotalInfluencers)
	}
	// Content counts every level: a 5x1, a1 5x1, b 1x2.
	if m.TotalContentPiece != 12 {
		t.Errorf("content pieces: got %v, wanted 12", m.TotalContentPiece)
	}

	if m.CPM != 6000/575.0 {
		t.Errorf("cpm: got %v", m.CPM)
	}
	if m.CPV != 6000/575000.0 {
		t.Errorf("cpv: got %v", m.CPV)
	}
	if m.CPE != 6000/41000.0 {
		t.Errorf("cpe: got %v", m.CPE)
	}
}

func TestCampaignScoreCap(t *testing.T) {
	cfg := config.DefaultPricing()

	// Absurdly cheap engagement pins the score at 100.
	rows := []*common.DeliverableRow{{
		Id: "x", Type: common.RowOrganic, Platform: "other", DeliverableType: "Custom",
		CreatorType: common.CreatorSpecific, CreatorInfo: common.CreatorRef{Creator: &common.Creator{Name: "@x"}},
		Quantity: 1, UnitFee: 1,
		Rights:         common.Rights{Usage: "organic", Territory: "domestic", Multiplier: 1.0},
		EstimatedViews: 1000000, EstimatedEngagements: 1000000,
	}}
	m := CalculateMetrics(cfg, rows)
	if m.CampaignScore != 100 {
		t.Errorf("score: got %v, wanted the 100 cap", m.CampaignScore)
	}
}

func TestCalculateMetricsMixedScenario(t *testing.T) {
	cfg := config.DefaultPricing()

	rows := []*common.DeliverableRow{
		{
			Id: "cohort", Type: common.RowOrganic, Platform: "instagram", DeliverableType: "Post",
			CreatorType: common.CreatorCohort,
			CreatorInfo: common.CreatorRef{Label: "Micro Influencers (10K-100K)"},
			CohortSize:  5, Quantity: 1, UnitFee: 500,
			Rights: common.Rights{Usage: "organic", Duration: 6, Territory: "domestic", Multiplier: 1.0},
		},
		{
			Id: "tiktok", Type: common.RowOrganic, Platform: "tiktok", DeliverableType: "Video",
			CreatorType: common.CreatorSpecific,
			CreatorInfo: common.CreatorRef{Creator: &common.Creator{Name: "@star"}},
			Quantity:    2, UnitFee: 2500,
			Rights: common.Rights{
				Usage: "both", Duration: 12, Territory: "global",
				Exclusivity: true, CompetitorCount: 2,
			},
		},
	}

	// 500 x 5 for the cohort; 2500 x (2.0 x 2.5 x 1.3) x 2 for the creator.
	m := CalculateMetrics(cfg, rows)
	if m.OrganicCost != 35000 {
		t.Errorf("organic cost: got %v, wanted 35000", m.OrganicCost)
	}
	if m.TotalCost != 35000 {
		t.Errorf("total cost: got %v, wanted 35000", m.TotalCost)
	}
	if m.TotalInfluencers != 6 {
		t.Errorf("influencers: got %v, wanted 6", m.TotalInfluencers)
	}
}
