package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "localhost" || cfg.Port != "8080" {
		t.Errorf("server defaults: %s:%s", cfg.Host, cfg.Port)
	}
	if cfg.Bucket.Campaign == "" || cfg.Bucket.Token == "" || len(cfg.Bucket.All) != 4 {
		t.Errorf("bucket defaults: %+v", cfg.Bucket)
	}
	if cfg.Pricing == nil {
		t.Fatal("no pricing defaults")
	}
	if cfg.Pricing.UsageMultipliers["paid"] != 1.5 {
		t.Errorf("rate card defaults missing: %+v", cfg.Pricing.UsageMultipliers)
	}
	if cfg.Pricing.Thresholds.CompetitorCount != 3 {
		t.Errorf("thresholds: %+v", cfg.Pricing.Thresholds)
	}
}

func TestNewPartialFile(t *testing.T) {
	// A config file that only sets the port keeps every other default,
	// including the compiled-in rate card.
	loc := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(loc, []byte(`{"port": "9090"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(loc)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port: %s", cfg.Port)
	}
	if cfg.Pricing == nil || cfg.Pricing.BaseRates["micro"]["instagram"]["Post"] != 500 {
		t.Error("partial file dropped the rate card defaults")
	}
}

func TestNewMissingFile(t *testing.T) {
	if _, err := New("does/not/exist.json"); err == nil {
		t.Error("missing file should error")
	}
}
