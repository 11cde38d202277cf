// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "github.com/gogpu/gputypes"

// Config holds HAL backend configuration.
type Config struct {
	// SampleCount is the MSAA sample count of the render pass the backend
	// records into. Must be 1 or 4. Default: 1
	SampleCount uint32

	// Format is the color attachment format. Default: BGRA8Unorm
	Format gputypes.TextureFormat

	// SPIRV hands pipelines naga-compiled SPIR-V instead of WGSL source.
	// Default: false
	SPIRV bool
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		SampleCount: 1,
		Format:      gputypes.TextureFormatBGRA8Unorm,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleCount != 1 && c.SampleCount != 4 {
		return &ConfigError{Field: "SampleCount", Reason: "must be 1 or 4"}
	}
	if c.Format == gputypes.TextureFormatUndefined {
		return &ConfigError{Field: "Format", Reason: "must be defined"}
	}
	return nil
}

// Option configures a HAL backend during creation.
//
// Example:
//
//	b, err := render.NewHALBackend(device, queue,
//	    render.WithSampleCount(4),
//	    render.WithTargetFormat(gputypes.TextureFormatRGBA8Unorm))
type Option func(*Config)

// WithSampleCount sets the MSAA sample count.
func WithSampleCount(n uint32) Option {
	return func(c *Config) {
		c.SampleCount = n
	}
}

// WithTargetFormat sets the color attachment format.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(c *Config) {
		c.Format = f
	}
}

// WithSPIRV makes the backend compile programs to SPIR-V with naga before
// creating shader modules.
func WithSPIRV(enabled bool) Option {
	return func(c *Config) {
		c.SPIRV = enabled
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}
