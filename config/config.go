package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

func New(loc string) (*Config, error) {
	c := &Config{}

	if loc != "" {
		f, err := os.Open(loc)
		if err != nil {
			log.Println("Config error", err)
			return nil, err
		}
		defer f.Close()

		if err := json.NewDecoder(f).Decode(c); err != nil {
			log.Println("Config error", err)
			return nil, err
		}
	}

	c.fillDefaults()

	if c.Bucket.Campaign == "" || c.Bucket.Creator == "" || c.Bucket.User == "" {
		return nil, ErrInvalidConfig
	}

	return c, nil
}

type Config struct {
	Host    string `json:"host"`
	Port    string `json:"port"`
	Sandbox bool   `json:"sandbox"`

	DBPath string `json:"dbPath"`
	DBName string `json:"dbName"`

	SessionTimeout int32 `json:"sessionTimeout"` // In hours

	Bucket struct {
		Campaign string   `json:"campaign"`
		Creator  string   `json:"creator"`
		User     string   `json:"user"`
		Token    string   `json:"token"`
		All      []string `json:"all"`
	} `json:"bucket"`

	Pricing *Pricing `json:"pricing"`
}

// Pricing is the rate card the engine reads from. It is owned by an admin
// surface; the engine treats it as read-only.
type Pricing struct {
	// tier -> platform -> deliverable type
	BaseRates map[string]map[string]map[string]float64 `json:"baseRates"`

	// platform -> deliverable type
	DeliverableMultipliers map[string]map[string]float64 `json:"deliverableMultipliers"`

	UsageMultipliers map[string]float64 `json:"usageMultipliers"`

	// duration in months -> competitor count
	ExclusivityMultipliers map[int]map[int]float64 `json:"exclusivityMultipliers"`

	TerritoryMultipliers map[string]float64 `json:"territoryMultipliers"`

	Thresholds ApprovalThresholds `json:"approvalThresholds"`
}

type ApprovalThresholds struct {
	ExclusivityDuration     int     `json:"exclusivityDuration"` // In days
	CompetitorCount         int     `json:"competitorCount"`
	PriceOverridePercentage float64 `json:"priceOverridePercentage"`
}

func (c *Config) fillDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.DBName == "" {
		c.DBName = "negotiator"
	}
	if c.SessionTimeout == 0 {
		c.SessionTimeout = 24 * 7
	}
	if c.Bucket.Campaign == "" {
		c.Bucket.Campaign = "campaign"
	}
	if c.Bucket.Creator == "" {
		c.Bucket.Creator = "creator"
	}
	if c.Bucket.User == "" {
		c.Bucket.User = "user"
	}
	if c.Bucket.Token == "" {
		c.Bucket.Token = "token"
	}
	if len(c.Bucket.All) == 0 {
		c.Bucket.All = []string{c.Bucket.Campaign, c.Bucket.Creator, c.Bucket.User, c.Bucket.Token}
	}
	if c.Pricing == nil {
		c.Pricing = DefaultPricing()
	} else {
		c.Pricing.fillDefaults()
	}
}

// Any pricing section missing from the config file falls back to the
// compiled-in rate card. Partial files are fine.
func (p *Pricing) fillDefaults() {
	def := DefaultPricing()
	if len(p.BaseRates) == 0 {
		p.BaseRates = def.BaseRates
	}
	if len(p.DeliverableMultipliers) == 0 {
		p.DeliverableMultipliers = def.DeliverableMultipliers
	}
	if len(p.UsageMultipliers) == 0 {
		p.UsageMultipliers = def.UsageMultipliers
	}
	if len(p.ExclusivityMultipliers) == 0 {
		p.ExclusivityMultipliers = def.ExclusivityMultipliers
	}
	if len(p.TerritoryMultipliers) == 0 {
		p.TerritoryMultipliers = def.TerritoryMultipliers
	}
	if p.Thresholds.ExclusivityDuration == 0 {
		p.Thresholds = def.Thresholds
	}
}

func DefaultPricing() *Pricing {
	return &Pricing{
		BaseRates: map[string]map[string]map[string]float64{
			"nano": {
				"instagram": {"Post": 100, "Story": 50, "Reel": 150},
				"tiktok":    {"Video": 120, "Live Stream": 80},
				"youtube":   {"Video": 200, "Short": 100},
				"twitter":   {"Tweet": 75, "Thread": 100},
			},
			"micro": {
				"instagram": {"Post": 500, "Story": 250, "Reel": 750},
				"tiktok":    {"Video": 600, "Live Stream": 400},
				"youtube":   {"Video": 1000, "Short": 500},
				"twitter":   {"Tweet": 300, "Thread": 450},
			},
			"mid": {
				"instagram": {"Post": 1500, "Story": 750, "Reel": 2250},
				"tiktok":    {"Video": 1800, "Live Stream": 1200},
				"youtube":   {"Video": 3000, "Short": 1500},
				"twitter":   {"Tweet": 900, "Thread": 1350},
			},
			"macro": {
				"instagram": {"Post": 5000, "Story": 2500, "Reel": 7500},
				"tiktok":    {"Video": 6000, "Live Stream": 4000},
				"youtube":   {"Video": 10000, "Short": 5000},
				"twitter":   {"Tweet": 3000, "Thread": 4500},
			},
		},
		DeliverableMultipliers: map[string]map[string]float64{
			"instagram": {"Post": 1.0, "Story": 0.5, "Reel": 1.5, "Carousel": 1.2},
			"tiktok":    {"Video": 1.0, "Live Stream": 0.8, "Spark Ad": 1.3},
			"youtube":   {"Video": 1.0, "Short": 0.6, "Community Post": 0.3},
			"twitter":   {"Tweet": 1.0, "Thread": 1.5, "Space": 1.2},
		},
		UsageMultipliers: map[string]float64{
			"organic": 1.0,
			"paid":    1.5,
			"both":    2.0,
		},
		ExclusivityMultipliers: map[int]map[int]float64{
			1:  {0: 1.0, 1: 1.2, 2: 1.4, 3: 1.6},
			3:  {0: 1.1, 1: 1.3, 2: 1.5, 3: 1.8},
			6:  {0: 1.2, 1: 1.5, 2: 1.8, 3: 2.2},
			12: {0: 1.5, 1: 2.0, 2: 2.5, 3: 3.0},
		},
		TerritoryMultipliers: map[string]float64{
			"domestic": 1.0,
			"global":   1.3,
		},
		Thresholds: ApprovalThresholds{
			ExclusivityDuration:     90, // days
			CompetitorCount:         3,
			PriceOverridePercentage: 25,
		},
	}
}
