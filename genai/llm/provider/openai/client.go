// Package openai adapts the OpenAI chat-completions API to the
// provider.Adapter contract (§4.1). It is native-PDF capable for o*/gpt-4o*/
// gpt-5* model ids and accepts the permissive image MIME set.
package openai

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	basecfg "github.com/viant/arbiter/genai/llm/provider/base"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client is a thin OpenAI chat-completions client.
type Client struct {
	basecfg.Config
	APIKey string
}

// ClientOption mutates Client via basecfg.Config.
type ClientOption = basecfg.ClientOption

// NewClient builds a Client for model, applying options on top of defaults.
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
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return c
}

func (c *Client) apiKey() (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", fmt.Errorf("API key is required")
	}
	return c.APIKey, nil
}
