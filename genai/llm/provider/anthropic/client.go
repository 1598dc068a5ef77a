// Package anthropic adapts the public Anthropic Messages API to the
// provider.Adapter contract (§4.1). It uses the strict image MIME set and has
// no native-PDF support: the AttachmentPipeline must substitute extracted
// text before a PDF reaches this adapter.
package anthropic

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	basecfg "github.com/viant/arbiter/genai/llm/provider/base"
)

const (
	defaultBaseURL      = "https://api.anthropic.com/v1"
	anthropicAPIVersion = "2023-06-01"
)

// Client is a thin Anthropic Messages API client.
type Client struct {
	basecfg.Config
	APIKey string
}

// ClientOption mutates Client via basecfg.Config.
type ClientOption = basecfg.ClientOption

// NewClient builds a Client for model.
func NewClient(apiKey, model string, options ...ClientOption) *Client {
	c := &Client{
		Config: basecfg.Config{
			HTTPClient: &http.Client{Timeout: 5 * time.Minute},
			BaseURL:    defaultBaseURL,
			Model:      model,
		},
		APIKey: apiKey,
	}
	for _, opt := range options {
		opt(&c.Config)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return c
}

func (c *Client) apiKey() (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", fmt.Errorf("API key is required")
	}
	return c.APIKey, nil
}
