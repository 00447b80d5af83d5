package config

import "testing"

func TestGetDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Postgres.User = "dealer"
	cfg.Postgres.Pass = "p@ss word"
	cfg.Postgres.Host = "db"
	cfg.Postgres.Port = 5433
	cfg.Postgres.Name = "listings"
	cfg.Postgres.SslMode = "disable"

	want := "postgres://dealer:p%40ss%20word@db:5433/listings?sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q; want %q", got, want)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Setenv("POSTGRES_USER", "dealer")
	t.Setenv("LISTINGS_EXTRA_KEYWORDS", "camper,quad")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Errorf("App.Port = %d; want 8080", cfg.App.Port)
	}
	if cfg.Graph.PageSize != 25 {
		t.Errorf("Graph.PageSize = %d; want 25", cfg.Graph.PageSize)
	}
	if cfg.Listings.FacebookPermalinkBase != "https://www.facebook.com/" {
		t.Errorf("FacebookPermalinkBase = %q", cfg.Listings.FacebookPermalinkBase)
	}
	if len(cfg.Listings.ExtraKeywords) != 2 || cfg.Listings.ExtraKeywords[1] != "quad" {
		t.Errorf("ExtraKeywords = %v", cfg.Listings.ExtraKeywords)
	}
	if cfg.Inventory.Store != "postgres" {
		t.Errorf("Inventory.Store = %q; want postgres", cfg.Inventory.Store)
	}
}
