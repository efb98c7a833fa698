package common

import (
	"encoding/json"
	"log"
	"sort"
	"sync"

	"github.com/boltdb/bolt"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/misc"
)

const (
	TierNano  = "nano"
	TierMicro = "micro"
	TierMid   = "mid"
	TierMacro = "macro"
	TierMega  = "mega"
)

// Creator is an influencer account. Immutable once written, except for
// ParentCohortId which is stamped at materialization time.
type Creator struct {
	Id             string  `json:"id"`
	Name           string  `json:"name"`
	Tier           string  `json:"tier"`
	SubTier        string  `json:"subTier,omitempty"` // e.g. "Nano Tier 1: 1K-2.5K"
	Followers      int64   `json:"followers"`
	EngagementRate float64 `json:"engagementRate"` // In percent
	BaseRate       float64 `json:"baseRate"`
	IsArchetype    bool    `json:"isArchetype,omitempty"`
	ParentCohortId string  `json:"parentCohortId,omitempty"` // For materialized creators
}

type Creators struct {
	mux   sync.RWMutex
	store map[string]*Creator
}

func NewCreators() *Creators {
	return &Creators{
		store: make(map[string]*Creator),
	}
}

func (p *Creators) Set(db *bolt.DB, cfg *config.Config) {
	crs := GetAllCreators(db, cfg)
	p.mux.Lock()
	p.store = crs
	p.mux.Unlock()
}

func (p *Creators) SetCreator(id string, cr *Creator) {
	p.mux.Lock()
	p.store[id] = cr
	p.mux.Unlock()
}

func (p *Creators) Get(id string) (*Creator, bool) {
	p.mux.RLock()
	val, ok := p.store[id]
	p.mux.RUnlock()
	return val, ok
}

func (p *Creators) GetStore() map[string]*Creator {
	store := make(map[string]*Creator)
	p.mux.RLock()
	for id, cr := range p.store {
		store[id] = cr
	}
	p.mux.RUnlock()
	return store
}

// Bookable returns non-archetype creators in a stable order so cohort
// materialization is deterministic.
func (p *Creators) Bookable() []*Creator {
	p.mux.RLock()
	out := make([]*Creator, 0, len(p.store))
	for _, cr := range p.store {
		if !cr.IsArchetype {
			out = append(out, cr)
		}
	}
	p.mux.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func GetAllCreators(db *bolt.DB, cfg *config.Config) map[string]*Creator {
	creatorList := make(map[string]*Creator)

	if err := db.View(func(tx *bolt.Tx) error {
		tx.Bucket([]byte(cfg.Bucket.Creator)).ForEach(func(k, v []byte) (err error) {
			cr := &Creator{}
			if err := json.Unmarshal(v, cr); err != nil {
				log.Println("error when unmarshalling creator", string(v))
				return nil
			}
			creatorList[cr.Id] = cr
			return
		})
		return nil
	}); err != nil {
		log.Println("Err getting all creators", err)
	}
	return creatorList
}

// SeedCreators fills an empty creator bucket with the starter catalog.
func SeedCreators(db *bolt.DB, cfg *config.Config) error {
	return db.Update(func(tx *bolt.Tx) error {
		b := misc.GetBucket(tx, cfg.Bucket.Creator)
		if k, _ := b.Cursor().First(); k != nil {
			return nil
		}
		for _, cr := range SeedCatalog {
			if err := misc.PutTxJson(tx, cfg.Bucket.Creator, cr.Id, cr); err != nil {
				return err
			}
		}
		return nil
	})
}

var SeedCatalog = []*Creator{
	{Id: "1", Name: "@fashionista_jane", Tier: TierMacro, Followers: 250000, EngagementRate: 4.2, BaseRate: 2500},
	{Id: "2", Name: "@fitness_guru_mike", Tier: TierMid, Followers: 75000, EngagementRate: 6.1, BaseRate: 1200},
	{Id: "3", Name: "@beauty_blogger_sarah", Tier: TierMicro, Followers: 25000, EngagementRate: 8.3, BaseRate: 500},
	{Id: "4", Name: "@lifestyle_emma", Tier: TierNano, Followers: 5000, EngagementRate: 12.5, BaseRate: 150, IsArchetype: true},
	{Id: "5", Name: "@tech_reviewer_alex", Tier: TierMacro, Followers: 500000, EngagementRate: 3.8, BaseRate: 4000},
}

type CohortSubTier struct {
	Id       string  `json:"id"`
	Name     string  `json:"name"`
	BaseRate float64 `json:"baseRate"`
}

type CohortTier struct {
	Id       string          `json:"id"`
	Name     string          `json:"name"`
	BaseRate float64         `json:"baseRate"`
	SubTiers []CohortSubTier `json:"subTiers,omitempty"`
}

// CohortTiers is the menu of generic tier-based groups a planner can pick
// before binding real creators.
var CohortTiers = []CohortTier{
	{
		Id: TierNano, Name: "Nano Influencers (1K-10K)", BaseRate: 100,
		SubTiers: []CohortSubTier{
			{Id: "nano-1", Name: "Nano Tier 1 (1K-2.5K)", BaseRate: 75},
			{Id: "nano-2", Name: "Nano Tier 2 (2.5K-5K)", BaseRate: 100},
			{Id: "nano-3", Name: "Nano Tier 3 (5K-10K)", BaseRate: 150},
		},
	},
	{
		Id: TierMicro, Name: "Micro Influencers (10K-100K)", BaseRate: 500,
		SubTiers: []CohortSubTier{
			{Id: "micro-1", Name: "Micro Tier 1 (10K-25K)", BaseRate: 350},
			{Id: "micro-2", Name: "Micro Tier 2 (25K-50K)", BaseRate: 500},
			{Id: "micro-3", Name: "Micro Tier 3 (50K-100K)", BaseRate: 750},
		},
	},
	{
		Id: TierMid, Name: "Mid-Tier Influencers (100K-1M)", BaseRate: 1500,
		SubTiers: []CohortSubTier{
			{Id: "mid-1", Name: "Mid Tier 1 (100K-250K)", BaseRate: 1200},
			{Id: "mid-2", Name: "Mid Tier 2 (250K-500K)", BaseRate: 1500},
			{Id: "mid-3", Name: "Mid Tier 3 (500K-1M)", BaseRate: 2000},
		},
	},
	{
		Id: TierMacro, Name: "Macro Influencers (1M+)", BaseRate: 5000,
		SubTiers: []CohortSubTier{
			{Id: "macro-1", Name: "Macro Tier 1 (1M-2.5M)", BaseRate: 4000},
			{Id: "macro-2", Name: "Macro Tier 2 (2.5M-5M)", BaseRate: 6000},
			{Id: "macro-3", Name: "Macro Tier 3 (5M+)", BaseRate: 10000},
		},
	},
}

// PlatformDeliverables maps each platform to its deliverable-type menu.
// Open-ended key space; pricing falls back to defaults for entries the
// rate card doesn't know about.
var PlatformDeliverables = map[string][]string{
	"instagram": {"Post", "Story", "Reel", "IGTV", "Carousel"},
	"tiktok":    {"Video", "Live Stream", "Spark Ad"},
	"youtube":   {"Video", "Short", "Community Post", "Live Stream"},
	"twitter":   {"Tweet", "Thread", "Space", "Video"},
}
