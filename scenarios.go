package main

import "sem_sim/core"

// NamedConfig pairs a preset configuration with its catalog entry.
type NamedConfig struct {
	Name        string
	Description string
	Config      core.Config
}

// GetPredefinedConfigs returns the preset scenario catalog in display
// order. The first entry is the default scenario.
func GetPredefinedConfigs() []NamedConfig {
	return []NamedConfig{
		{
			Name:        "classic",
			Description: "Single producer, single consumer, one slot: the textbook hand-off",
			Config:      core.Config{BufferSize: 1, ProducerCount: 1, ConsumerCount: 1, AnimationSpeed: 1.0},
		},
		{
			Name:        "balanced",
			Description: "Two producers and two consumers over a five-slot buffer",
			Config:      core.Config{BufferSize: 5, ProducerCount: 2, ConsumerCount: 2, AnimationSpeed: 1.0},
		},
		{
			Name:        "contended",
			Description: "Three producers racing one consumer into a two-slot buffer",
			Config:      core.Config{BufferSize: 2, ProducerCount: 3, ConsumerCount: 1, AnimationSpeed: 1.0},
		},
		{
			Name:        "drained",
			Description: "One producer feeding three consumers, most of them starved",
			Config:      core.Config{BufferSize: 3, ProducerCount: 1, ConsumerCount: 3, AnimationSpeed: 1.0},
		},
		{
			Name:        "saturated",
			Description: "Maximum population: five producers, five consumers, ten slots",
			Config:      core.Config{BufferSize: 10, ProducerCount: 5, ConsumerCount: 5, AnimationSpeed: 1.0},
		},
	}
}

// GetConfigByName returns the preset configuration for a name, or nil.
func GetConfigByName(name string) *core.Config {
	for _, nc := range GetPredefinedConfigs() {
		if nc.Name == name {
			cfg := nc.Config
			return &cfg
		}
	}
	return nil
}
