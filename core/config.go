package core

import "fmt"

// Closed configuration ranges. Values outside these bounds are rejected.
const (
	MinBufferSize     = 1
	MaxBufferSize     = 10
	MinProcessCount   = 1
	MaxProcessCount   = 5
	MinAnimationSpeed = 0.5
	MaxAnimationSpeed = 3.0
)

// Config holds the simulation configuration. AnimationSpeed is opaque to
// the stepping logic; it only parameterizes autoplay pacing and trace
// timestamps.
type Config struct {
	BufferSize     int     `json:"bufferSize" yaml:"buffer_size"`
	ProducerCount  int     `json:"producerCount" yaml:"producer_count"`
	ConsumerCount  int     `json:"consumerCount" yaml:"consumer_count"`
	AnimationSpeed float64 `json:"animationSpeed" yaml:"animation_speed"`
}

// Validate applies the closed-range checks from the configuration contract.
func (c Config) Validate() error {
	if c.BufferSize < MinBufferSize || c.BufferSize > MaxBufferSize {
		return fmt.Errorf("buffer size must be within [%d,%d], got %d", MinBufferSize, MaxBufferSize, c.BufferSize)
	}
	if c.ProducerCount < MinProcessCount || c.ProducerCount > MaxProcessCount {
		return fmt.Errorf("producer count must be within [%d,%d], got %d", MinProcessCount, MaxProcessCount, c.ProducerCount)
	}
	if c.ConsumerCount < MinProcessCount || c.ConsumerCount > MaxProcessCount {
		return fmt.Errorf("consumer count must be within [%d,%d], got %d", MinProcessCount, MaxProcessCount, c.ConsumerCount)
	}
	if err := ValidateSpeed(c.AnimationSpeed); err != nil {
		return err
	}
	return nil
}

// ValidateSpeed checks an animation speed against its closed range.
func ValidateSpeed(speed float64) error {
	if speed < MinAnimationSpeed || speed > MaxAnimationSpeed {
		return fmt.Errorf("animation speed must be within [%.1f,%.1f], got %.2f", MinAnimationSpeed, MaxAnimationSpeed, speed)
	}
	return nil
}

// DefaultConfig returns the balanced two-producer two-consumer setup.
func DefaultConfig() Config {
	return Config{
		BufferSize:     5,
		ProducerCount:  2,
		ConsumerCount:  2,
		AnimationSpeed: 1.0,
	}
}
