package citybook

import "testing"

func TestConfigDefaults(t *testing.T) {
	cfg := newConfig(nil)
	if cfg.DataFile != "./cities.txt" {
		t.Errorf("DataFile = %q, want ./cities.txt", cfg.DataFile)
	}
	if cfg.SuggestDistance != 2 {
		t.Errorf("SuggestDistance = %d, want 2", cfg.SuggestDistance)
	}
	if cfg.Seed {
		t.Error("Seed should default to false")
	}
	if cfg.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := newConfig([]Option{
		WithDataFile("/tmp/x.txt"),
		WithSuggestDistance(10),
		WithSeed(true),
		WithLogger(nil),
	})
	if cfg.DataFile != "/tmp/x.txt" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.SuggestDistance != maxSuggestDistance {
		t.Errorf("SuggestDistance = %d, want capped at %d", cfg.SuggestDistance, maxSuggestDistance)
	}
	if !cfg.Seed {
		t.Error("Seed = false, want true")
	}
	if cfg.Logger == nil {
		t.Error("nil logger should fall back to the default")
	}

	if got := newConfig([]Option{WithSuggestDistance(-1)}).SuggestDistance; got != 0 {
		t.Errorf("negative SuggestDistance = %d, want 0", got)
	}
}
