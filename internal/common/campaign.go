package common

import (
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/boltdb/bolt"

	"github.com/domears/negotiator2/config"
)

const (
	PlanningGeneric  = "generic"
	PlanningSpecific = "specific"
	PlanningBlended  = "blended"

	BudgetCampaign = "campaign"
	BudgetScenario = "scenario"
)

var (
	ErrCampaignName = errors.New("campaign needs a name, client and brand")
	ErrMarkets      = errors.New("campaign needs at least one target market")
	ErrCurrency     = errors.New("campaign needs a currency")
	ErrBudget       = errors.New("campaign budget must be greater than 0")
	ErrDates        = errors.New("campaign end date must be after the start date")
)

// KpiGoal is a KPI with a numeric target in the KPI's canonical unit
// (counts as-is, currency in whole units, percent KPIs in basis points).
type KpiGoal struct {
	Name   string  `json:"name"`
	Target float64 `json:"target"`
}

// Campaign is the planning container. Each campaign owns a single
// deliverable tree plus its planning mode.
type Campaign struct {
	Id     string `json:"id"` // Should not be passed for putCampaign
	Name   string `json:"name"`
	Client string `json:"client"`
	Brand  string `json:"brand"`
	UserId string `json:"userId,omitempty"`

	Markets  []string `json:"markets"`
	Currency string   `json:"currency"`

	PrimaryObjective string    `json:"primaryObjective,omitempty"`
	PrimaryKpis      []KpiGoal `json:"primaryKpis,omitempty"`
	SecondaryKpis    []KpiGoal `json:"secondaryKpis,omitempty"`
	TertiaryKpis     []KpiGoal `json:"tertiaryKpis,omitempty"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Duration  int       `json:"duration,omitempty"` // In days, derived from the range

	BudgetType   string  `json:"budgetType"` // campaign or scenario
	BudgetAmount float64 `json:"budgetAmount"`

	IndustryTags  []string `json:"industryTags,omitempty"`
	ContentThemes []string `json:"contentThemes,omitempty"`

	PlanningMode string            `json:"planningMode"`
	Deliverables []*DeliverableRow `json:"deliverables,omitempty"`

	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

func (cmp *Campaign) Check() error {
	if cmp.Name == "" || cmp.Client == "" || cmp.Brand == "" {
		return ErrCampaignName
	}
	if len(cmp.Markets) == 0 {
		return ErrMarkets
	}
	if cmp.Currency == "" {
		return ErrCurrency
	}
	if cmp.BudgetAmount <= 0 {
		return ErrBudget
	}
	if !cmp.EndDate.After(cmp.StartDate) {
		return ErrDates
	}
	return nil
}

func (cmp *Campaign) SetDuration() {
	cmp.Duration = DaysBetween(cmp.StartDate, cmp.EndDate)
}

func (cmp *Campaign) IsActive(now time.Time) bool {
	return !cmp.StartDate.After(now) && !cmp.EndDate.Before(now)
}

type Campaigns struct {
	mux   sync.RWMutex
	store map[string]*Campaign
}

func NewCampaigns() *Campaigns {
	return &Campaigns{
		store: make(map[string]*Campaign),
	}
}

func (p *Campaigns) Set(db *bolt.DB, cfg *config.Config) {
	cmps := GetAllCampaigns(db, cfg)
	p.mux.Lock()
	p.store = cmps
	p.mux.Unlock()
}

func (p *Campaigns) SetCampaign(id string, cmp *Campaign) {
	p.mux.Lock()
	p.store[id] = cmp
	p.mux.Unlock()
}

func (p *Campaigns) Del(id string) {
	p.mux.Lock()
	delete(p.store, id)
	p.mux.Unlock()
}

func (p *Campaigns) Get(id string) (*Campaign, bool) {
	p.mux.RLock()
	val, ok := p.store[id]
	p.mux.RUnlock()
	return val, ok
}

// GetAll lists campaigns newest first for the dashboard.
func (p *Campaigns) GetAll() []*Campaign {
	p.mux.RLock()
	out := make([]*Campaign, 0, len(p.store))
	for _, cmp := range p.store {
		out = append(out, cmp)
	}
	p.mux.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].Id < out[j].Id
	})
	return out
}

func GetAllCampaigns(db *bolt.DB, cfg *config.Config) map[string]*Campaign {
	campaignList := make(map[string]*Campaign)

	if err := db.View(func(tx *bolt.Tx) error {
		tx.Bucket([]byte(cfg.Bucket.Campaign)).ForEach(func(k, v []byte) (err error) {
			cmp := &Campaign{}
			if err := json.Unmarshal(v, cmp); err != nil {
				log.Println("error when unmarshalling campaign", string(v))
				return nil
			}
			campaignList[cmp.Id] = cmp
			return
		})
		return nil
	}); err != nil {
		log.Println("Err getting all campaigns", err)
	}
	return campaignList
}

func GetCampaign(cid string, db *bolt.DB, cfg *config.Config) *Campaign {
	var (
		v   []byte
		err error
		g   Campaign
	)

	if err := db.View(func(tx *bolt.Tx) error {
		v = tx.Bucket([]byte(cfg.Bucket.Campaign)).Get([]byte(cid))
		return nil
	}); err != nil {
		return nil
	}

	if err = json.Unmarshal(v, &g); err != nil {
		return nil
	}

	return &g
}
