package common

const (
	UsageOrganic = "organic"
	UsagePaid    = "paid"
	UsageBoth    = "both"

	TerritoryDomestic = "domestic"
	TerritoryGlobal   = "global"
)

// Rights is the usage-rights spec attached to a deliverable. As long as
// Overridden is false, Multiplier must equal the value the pricing engine
// derives from the other fields; every mutation path that touches these
// fields is responsible for triggering that recompute.
type Rights struct {
	Usage           string  `json:"usage"`
	Duration        int     `json:"duration"` // In months
	Territory       string  `json:"territory"`
	Exclusivity     bool    `json:"exclusivity"`
	CompetitorCount int     `json:"competitorCount,omitempty"`
	Multiplier      float64 `json:"multiplier"`
	Overridden      bool    `json:"overridden,omitempty"`
}

// RightsPatch is a partial Rights used for cascades and bulk edits. Nil
// fields are left untouched.
type RightsPatch struct {
	Usage           *string  `json:"usage,omitempty"`
	Duration        *int     `json:"duration,omitempty"`
	Territory       *string  `json:"territory,omitempty"`
	Exclusivity     *bool    `json:"exclusivity,omitempty"`
	CompetitorCount *int     `json:"competitorCount,omitempty"`
	Multiplier      *float64 `json:"multiplier,omitempty"`
	Overridden      *bool    `json:"overridden,omitempty"`
}

// Apply returns a merged copy; r itself is never mutated.
func (p *RightsPatch) Apply(r Rights) Rights {
	if p == nil {
		return r
	}
	if p.Usage != nil {
		r.Usage = *p.Usage
	}
	if p.Duration != nil {
		r.Duration = *p.Duration
	}
	if p.Territory != nil {
		r.Territory = *p.Territory
	}
	if p.Exclusivity != nil {
		r.Exclusivity = *p.Exclusivity
	}
	if p.CompetitorCount != nil {
		r.CompetitorCount = *p.CompetitorCount
	}
	if p.Multiplier != nil {
		r.Multiplier = *p.Multiplier
	}
	if p.Overridden != nil {
		r.Overridden = *p.Overridden
	}
	return r
}

// PatchFromRights spells out every pricing-relevant field of r as a patch.
// Used when a parent's rights cascade onto a child that keeps its own
// field values but needs its multiplier recomputed.
func PatchFromRights(r Rights) *RightsPatch {
	return &RightsPatch{
		Usage:           &r.Usage,
		Duration:        &r.Duration,
		Territory:       &r.Territory,
		Exclusivity:     &r.Exclusivity,
		CompetitorCount: &r.CompetitorCount,
		Overridden:      &r.Overridden,
	}
}
