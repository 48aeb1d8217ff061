package main

import "testing"

func TestPredefinedConfigsAreValid(t *testing.T) {
	configs := GetPredefinedConfigs()
	if len(configs) == 0 {
		t.Fatal("expected at least one predefined scenario")
	}
	seen := make(map[string]bool)
	for _, nc := range configs {
		if nc.Name == "" || nc.Description == "" {
			t.Fatalf("scenario missing name or description: %+v", nc)
		}
		if seen[nc.Name] {
			t.Fatalf("duplicate scenario name %q", nc.Name)
		}
		seen[nc.Name] = true
		if err := nc.Config.Validate(); err != nil {
			t.Fatalf("scenario %s invalid: %v", nc.Name, err)
		}
	}
}

func TestGetConfigByName(t *testing.T) {
	cfg := GetConfigByName("classic")
	if cfg == nil {
		t.Fatal("classic scenario missing")
	}
	if cfg.BufferSize != 1 || cfg.ProducerCount != 1 || cfg.ConsumerCount != 1 {
		t.Fatalf("classic scenario wrong: %+v", cfg)
	}
	// Returned config is a copy.
	cfg.BufferSize = 9
	if GetConfigByName("classic").BufferSize == 9 {
		t.Fatal("GetConfigByName must return a copy")
	}
	if GetConfigByName("does-not-exist") != nil {
		t.Fatal("unknown scenario should return nil")
	}
}
