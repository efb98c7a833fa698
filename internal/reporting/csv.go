// Package reporting renders campaign plans for export.
package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/internal/common"
	"github.com/domears/negotiator2/internal/plan"
	"github.com/domears/negotiator2/internal/pricing"
	"github.com/domears/negotiator2/misc"
)

var csvHeaders = []string{
	"Type",
	"Creator Type",
	"Platform",
	"Deliverable",
	"Creator/Cohort",
	"Cohort Size",
	"Quantity",
	"Unit Fee",
	"Price Overridden",
	"Rights Usage",
	"Rights Duration (months)",
	"Rights Territory",
	"Rights Exclusivity",
	"Competitor Count",
	"Rights Multiplier",
	"Total Cost",
	"Estimated Views",
	"Estimated Engagements",
	"Parent Cohort ID",
	"Needs Approval",
}

// CsvFilename derives the download name for a plan export.
func CsvFilename(scenarioName string) string {
	return strings.Join(strings.Fields(scenarioName), "_") + "_campaign_plan.csv"
}

// WriteCsv streams the flattened plan plus a summary block. Every row at
// every depth is emitted, children directly after their parent.
func WriteCsv(w io.Writer, cfg *config.Pricing, f *misc.Formatters, rows []*common.DeliverableRow, m *plan.Metrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}

	for _, row := range common.FlattenDeliverables(rows) {
		cohortSize := ""
		if row.CohortSize > 0 {
			cohortSize = strconv.Itoa(row.CohortSize)
		}
		parentCohort := ""
		if row.CreatorInfo.Creator != nil {
			parentCohort = row.CreatorInfo.Creator.ParentCohortId
		}
		rec := []string{
			row.Type,
			row.CreatorType,
			row.Platform,
			row.DeliverableType,
			row.CreatorInfo.Display(),
			cohortSize,
			strconv.Itoa(row.Quantity),
			formatFloat(row.UnitFee),
			yesNo(row.PriceOverridden),
			row.Rights.Usage,
			strconv.Itoa(row.Rights.Duration),
			row.Rights.Territory,
			strconv.FormatBool(row.Rights.Exclusivity),
			strconv.Itoa(row.Rights.CompetitorCount),
			formatFloat(row.Rights.Multiplier),
			formatFloat(pricing.RowCost(cfg, row)),
			formatFloat(row.EstimatedViews),
			formatFloat(row.EstimatedEngagements),
			parentCohort,
			yesNo(row.NeedsApproval),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	summary := [][2]string{
		{"Total Cost", f.CurrencyFull(m.TotalCost)},
		{"Organic Cost", f.CurrencyFull(m.OrganicCost)},
		{"Paid Cost", f.CurrencyFull(m.PaidCost)},
		{"Total Influencers", strconv.Itoa(m.TotalInfluencers)},
		{"Total Content Pieces", strconv.Itoa(m.TotalContentPiece)},
		{"Total Views", formatFloat(m.TotalViews)},
		{"Total Engagements", formatFloat(m.TotalEngagements)},
		{"CPM", fmt.Sprintf("%s%.2f", f.Symbol(), m.CPM)},
		{"CPV", fmt.Sprintf("%s%.4f", f.Symbol(), m.CPV)},
		{"CPE", fmt.Sprintf("%s%.2f", f.Symbol(), m.CPE)},
		{"Campaign Score", formatFloat(m.CampaignScore) + "%"},
		{"Exported On", common.GetDate()},
	}

	blank := make([]string, len(csvHeaders))
	if err := cw.Write(blank); err != nil {
		return err
	}
	title := make([]string, len(csvHeaders))
	title[0] = "CAMPAIGN SUMMARY"
	if err := cw.Write(title); err != nil {
		return err
	}
	for _, line := range summary {
		rec := make([]string, len(csvHeaders))
		rec[0] = line[0]
		rec[len(rec)-1] = line[1]
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
