package common

const (
	RowOrganic = "organic"
	RowPaid    = "paid"
)

const (
	CreatorCohort    = "cohort"
	CreatorSpecific  = "specific"
	CreatorArchetype = "archetype"
)

// CreatorRef is a tagged reference to whoever produces the content: cohort
// and archetype rows carry a display label, specific rows carry the full
// creator. The row's CreatorType is the discriminant.
type CreatorRef struct {
	Label   string   `json:"label,omitempty"`
	Creator *Creator `json:"creator,omitempty"`
}

func (cr CreatorRef) Display() string {
	if cr.Creator != nil {
		return cr.Creator.Name
	}
	return cr.Label
}

// DeliverableRow is one priced unit of sponsored content. Rows form a
// two-level tree: organic top-level rows may own paid child rows (paid
// amplification add-ons and materialized cohort members); children never
// have children of their own.
type DeliverableRow struct {
	Id       string `json:"id"`
	Type     string `json:"type"`               // organic or paid
	ParentId string `json:"parentId,omitempty"` // Set only on child rows

	Platform        string `json:"platform"`
	DeliverableType string `json:"deliverableType"`

	CreatorType string     `json:"creatorType"` // cohort, specific or archetype
	CreatorInfo CreatorRef `json:"creatorInfo"`
	CohortSize  int        `json:"cohortSize,omitempty"` // Only meaningful for cohort rows

	Quantity        int     `json:"quantity"`
	UnitFee         float64 `json:"unitFee"`
	BaseRate        float64 `json:"baseRate,omitempty"` // Original rate before overrides
	PriceOverridden bool    `json:"priceOverridden,omitempty"`

	Rights Rights `json:"rights"`

	EstimatedViews       float64 `json:"estimatedViews"`
	EstimatedEngagements float64 `json:"estimatedEngagements"`

	IsExpanded     bool              `json:"isExpanded,omitempty"`
	Children       []*DeliverableRow `json:"children,omitempty"`
	IsMaterialized bool              `json:"isMaterialized,omitempty"`
	NeedsApproval  bool              `json:"needsApproval,omitempty"`
}

// EffectiveQuantity is the unit count cost/views/engagements scale by:
// cohort rows multiply by the cohort size, everything else is Quantity.
func (d *DeliverableRow) EffectiveQuantity() int {
	if d.CreatorType == CreatorCohort && d.CohortSize > 0 {
		return d.CohortSize * d.Quantity
	}
	return d.Quantity
}

// Clone deep-copies the row and its subtree. Mutation operations clone
// every row they touch so callers can rely on getting a new tree back.
func (d *DeliverableRow) Clone() *DeliverableRow {
	c := *d
	if d.Children != nil {
		c.Children = make([]*DeliverableRow, len(d.Children))
		for i, child := range d.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// FindDeliverable walks the tree depth-first, checking each row before its
// children. The model guarantees depth 1 but the walk is written general.
func FindDeliverable(rows []*DeliverableRow, id string) *DeliverableRow {
	for _, row := range rows {
		if row.Id == id {
			return row
		}
		if row.Children != nil {
			if found := FindDeliverable(row.Children, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// FlattenDeliverables lists every top-level row followed by its children.
// Depth-1 flattening only; grandchildren would be a model violation.
func FlattenDeliverables(rows []*DeliverableRow) []*DeliverableRow {
	flattened := make([]*DeliverableRow, 0, len(rows))
	for _, row := range rows {
		flattened = append(flattened, row)
		if len(row.Children) > 0 {
			flattened = append(flattened, row.Children...)
		}
	}
	return flattened
}

// RowUpdate is a partial DeliverableRow for point edits. Nil fields are
// left untouched.
type RowUpdate struct {
	Platform        *string      `json:"platform,omitempty"`
	DeliverableType *string      `json:"deliverableType,omitempty"`
	CreatorType     *string      `json:"creatorType,omitempty"`
	CreatorInfo     *CreatorRef  `json:"creatorInfo,omitempty"`
	CohortSize      *int         `json:"cohortSize,omitempty"`
	Quantity        *int         `json:"quantity,omitempty"`
	UnitFee         *float64     `json:"unitFee,omitempty"`
	PriceOverridden *bool        `json:"priceOverridden,omitempty"`
	Rights          *RightsPatch `json:"rights,omitempty"`
	EstimatedViews  *float64     `json:"estimatedViews,omitempty"`
	EstimatedEngs   *float64     `json:"estimatedEngagements,omitempty"`
	IsExpanded      *bool        `json:"isExpanded,omitempty"`
}

// Apply merges the update into d in place. Callers pass a clone; the
// rights multiplier recompute is the mutation layer's job, not Apply's.
func (u *RowUpdate) Apply(d *DeliverableRow) {
	if u == nil {
		return
	}
	if u.Platform != nil {
		d.Platform = *u.Platform
	}
	if u.DeliverableType != nil {
		d.DeliverableType = *u.DeliverableType
	}
	if u.CreatorType != nil {
		d.CreatorType = *u.CreatorType
	}
	if u.CreatorInfo != nil {
		d.CreatorInfo = *u.CreatorInfo
	}
	if u.CohortSize != nil {
		d.CohortSize = *u.CohortSize
	}
	if u.Quantity != nil {
		d.Quantity = *u.Quantity
	}
	if u.UnitFee != nil {
		d.UnitFee = *u.UnitFee
	}
	if u.PriceOverridden != nil {
		d.PriceOverridden = *u.PriceOverridden
	}
	if u.Rights != nil {
		d.Rights = u.Rights.Apply(d.Rights)
	}
	if u.EstimatedViews != nil {
		d.EstimatedViews = *u.EstimatedViews
	}
	if u.EstimatedEngs != nil {
		d.EstimatedEngagements = *u.EstimatedEngs
	}
	if u.IsExpanded != nil {
		d.IsExpanded = *u.IsExpanded
	}
}

// BulkEdit is the subset of fields a bulk edit may touch across the
// current selection.
type BulkEdit struct {
	DeliverableType *string      `json:"deliverableType,omitempty"`
	Platform        *string      `json:"platform,omitempty"`
	Rights          *RightsPatch `json:"rights,omitempty"`
	Quantity        *int         `json:"quantity,omitempty"`
	UnitFee         *float64     `json:"unitFee,omitempty"`
}
