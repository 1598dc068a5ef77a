// Package gemini adapts the Google Gemini generateContent REST API to the
// provider.Adapter contract (§4.1). It is native-PDF capable and accepts the
// permissive image MIME set.
package gemini

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	basecfg "github.com/viant/arbiter/genai/llm/provider/base"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Client is a thin Gemini generateContent client.
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
			BaseURL:    geminiEndpoint,
			Model:      model,
		},
		APIKey: apiKey,
	}
	for _, opt := range options {
		opt(&c.Config)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return c
}

func (c *Client) apiKey() (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", fmt.Errorf("API key is required")
	}
	return c.APIKey, nil
}

func (c *Client) endpoint(model string) string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, model)
}
