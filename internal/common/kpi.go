package common

import (
	"fmt"

	"github.com/domears/negotiator2/misc"
)

// KpiConfig describes one selectable KPI: its value kind, display unit,
// and the sanity bounds a target is validated against. Bounds are in the
// KPI's canonical unit (percent KPIs in basis points).
type KpiConfig struct {
	Kind        string  `json:"type"`
	Unit        string  `json:"unit"`
	Placeholder string  `json:"placeholder"`
	Suggestion  string  `json:"suggestion"`
	Min         float64 `json:"minValue"`
	Max         float64 `json:"maxValue"`
}

var KpiConfigs = map[string]KpiConfig{
	"Reach":                {Kind: misc.KindCount, Unit: "people", Placeholder: "1,000,000", Suggestion: "Consider your target market size", Min: 1000, Max: 1e9},
	"Impressions":          {Kind: misc.KindCount, Unit: "impressions", Placeholder: "5,000,000", Suggestion: "Typically 3-5x your reach goal", Min: 1000, Max: 1e12},
	"Views":                {Kind: misc.KindCount, Unit: "views", Placeholder: "500,000", Suggestion: "Video completion views or page views", Min: 100, Max: 1e9},
	"Engagements":          {Kind: misc.KindCount, Unit: "interactions", Placeholder: "50,000", Suggestion: "Likes, shares, comments combined", Min: 100, Max: 1e8},
	"Clicks":               {Kind: misc.KindCount, Unit: "clicks", Placeholder: "25,000", Suggestion: "Link clicks or CTA interactions", Min: 10, Max: 1e8},
	"Conversions":          {Kind: misc.KindCount, Unit: "conversions", Placeholder: "1,000", Suggestion: "Completed desired actions", Min: 1, Max: 1e7},
	"Brand Lift":           {Kind: misc.KindPercent, Unit: "% lift", Placeholder: "5.0", Suggestion: "Typical lift ranges 2-10%", Min: 10, Max: 10000},
	"Purchase Intent":      {Kind: misc.KindPercent, Unit: "% increase", Placeholder: "15.0", Suggestion: "Intent increase among exposed audience", Min: 10, Max: 10000},
	"Website Traffic":      {Kind: misc.KindCount, Unit: "sessions", Placeholder: "100,000", Suggestion: "New sessions from campaign", Min: 100, Max: 1e8},
	"Lead Generation":      {Kind: misc.KindCount, Unit: "leads", Placeholder: "500", Suggestion: "Qualified leads captured", Min: 1, Max: 1e6},
	"Sales Revenue":        {Kind: misc.KindCurrency, Unit: "", Placeholder: "50,000", Suggestion: "Direct revenue attribution", Min: 100, Max: 1e8},
	"Cost Per Acquisition": {Kind: misc.KindCurrency, Unit: "", Placeholder: "25", Suggestion: "Target cost per conversion", Min: 0.01, Max: 1e4},
	"Return on Ad Spend":   {Kind: misc.KindRatio, Unit: ":1", Placeholder: "4.0", Suggestion: "Revenue return per dollar spent", Min: 0.1, Max: 100},
}

// KpiKind reports the value kind used to parse a KPI's target input.
// Unknown KPIs parse as counts.
func KpiKind(name string) string {
	if cfg, ok := KpiConfigs[name]; ok {
		return cfg.Kind
	}
	return misc.KindCount
}

// ValidateKpiTarget checks a canonical-unit target against the KPI's
// bounds. Unknown KPIs pass; the value was already parse-validated.
func ValidateKpiTarget(name string, value float64) (bool, string) {
	cfg, ok := KpiConfigs[name]
	if !ok {
		return true, ""
	}
	if value < cfg.Min {
		return false, fmt.Sprintf("%s must be at least %v", name, cfg.Min)
	}
	if value > cfg.Max {
		return false, fmt.Sprintf("%s cannot exceed %v", name, cfg.Max)
	}
	return true, ""
}

// CheckKpiGoals validates every goal in the list and returns the advisory
// violations; it never blocks the save.
func CheckKpiGoals(goals []KpiGoal) []string {
	var errs []string
	for _, g := range goals {
		if ok, msg := ValidateKpiTarget(g.Name, g.Target); !ok {
			errs = append(errs, msg)
		}
	}
	return errs
}
