package base

import (
	"net/http"
	"time"
)

// Config aggregates common client parameters used by all LLM providers.  It is
// embedded into every concrete provider.Client to remove the need for
// per-package boiler-plate.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Model      string
	Timeout    time.Duration

	// UsageListener is stored by WithUsageListener. None of the adapters in
	// this module invokes it, so it receives no usage information.
	UsageListener UsageListener
}

// ClientOption mutates Config; providers expose it via type alias (e.g.
// openai.ClientOption), so the With* constructors below serve every provider.
type ClientOption func(*Config)

// WithBaseURL overrides the default endpoint of the provider.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Config) {
		if baseURL != "" {
			c.BaseURL = baseURL
		}
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Config) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// WithModel selects the model name.
func WithModel(model string) ClientOption {
	return func(c *Config) {
		if model != "" {
			c.Model = model
		}
	}
}

// WithTimeout sets Config.Timeout. None of the adapters in this module reads
// Config.Timeout; their HTTP clients carry their own timeouts.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithUsageListener registers a callback to receive token usage metrics.
func WithUsageListener(l UsageListener) ClientOption {
	return func(c *Config) {
		c.UsageListener = l
	}
}
