// Package config defines the deliberation engine's tunables (C6): timeout
// budgets, the success threshold, and attachment limits, as a YAML-tagged
// struct with defaults.
package config

import "time"

// Config holds every recognized option with its documented default.
type Config struct {
	RequestTimeoutMs              int64   `yaml:"requestTimeoutMs"`
	ModelTimeoutMs                int64   `yaml:"modelTimeoutMs"`
	ProviderCallTimeoutMs         int64   `yaml:"providerCallTimeoutMs"`
	JustifierTimeoutMs            int64   `yaml:"justifierTimeoutMs"`
	MinSuccessfulModelsFraction   float64 `yaml:"minSuccessfulModelsFraction"`
	AllowPartialResults           bool    `yaml:"allowPartialResults"`
	ReasoningModelMaxOutputTokens int     `yaml:"reasoningModelMaxOutputTokens"`
	MaxAttachmentBytes            int64   `yaml:"maxAttachmentBytes"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		RequestTimeoutMs:              240000,
		ModelTimeoutMs:                120000,
		ProviderCallTimeoutMs:         90000,
		JustifierTimeoutMs:            45000,
		MinSuccessfulModelsFraction:   0.5,
		AllowPartialResults:           true,
		ReasoningModelMaxOutputTokens: 16000,
		MaxAttachmentBytes:            20 * 1024 * 1024,
	}
}

func (c Config) RequestTimeout() time.Duration {
	return durationOrDefault(c.RequestTimeoutMs, Default().RequestTimeoutMs)
}

func (c Config) ModelTimeout() time.Duration {
	return durationOrDefault(c.ModelTimeoutMs, Default().ModelTimeoutMs)
}

func (c Config) ProviderCallTimeout() time.Duration {
	return durationOrDefault(c.ProviderCallTimeoutMs, Default().ProviderCallTimeoutMs)
}

func (c Config) JustifierTimeout() time.Duration {
	return durationOrDefault(c.JustifierTimeoutMs, Default().JustifierTimeoutMs)
}

func durationOrDefault(ms, fallbackMs int64) time.Duration {
	if ms <= 0 {
		ms = fallbackMs
	}
	return time.Duration(ms) * time.Millisecond
}

// WithDefaults fills zero-valued fields of c with Default()'s values,
// leaving explicitly-set fields untouched. AllowPartialResults is a bool and
// is never filled: a Config that leaves it false keeps false, although
// Default() sets it true.
func WithDefaults(c Config) Config {
	d := Default()
	if c.RequestTimeoutMs <= 0 {
		c.RequestTimeoutMs = d.RequestTimeoutMs
	}
	if c.ModelTimeoutMs <= 0 {
		c.ModelTimeoutMs = d.ModelTimeoutMs
	}
	if c.ProviderCallTimeoutMs <= 0 {
		c.ProviderCallTimeoutMs = d.ProviderCallTimeoutMs
	}
	if c.JustifierTimeoutMs <= 0 {
		c.JustifierTimeoutMs = d.JustifierTimeoutMs
	}
	if c.MinSuccessfulModelsFraction <= 0 {
		c.MinSuccessfulModelsFraction = d.MinSuccessfulModelsFraction
	}
	if c.ReasoningModelMaxOutputTokens <= 0 {
		c.ReasoningModelMaxOutputTokens = d.ReasoningModelMaxOutputTokens
	}
	if c.MaxAttachmentBytes <= 0 {
		c.MaxAttachmentBytes = d.MaxAttachmentBytes
	}
	return c
}
