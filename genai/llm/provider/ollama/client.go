// Package ollama adapts a local Ollama /api/generate endpoint to the
// provider.Adapter contract (§4.1). Ollama models have neither image nor
// generic attachment support in this adapter: GenerateWithImage and
// GenerateWithAttachments always fail (unsupported_image,
// unsupported_attachment). The scheduler calls GenerateWithAttachments for
// every sample of a request that carries attachments, so an ollama panel
// member fails those samples.
package ollama

import (
	"net/http"
	"time"

	basecfg "github.com/viant/arbiter/genai/llm/provider/base"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultTimeout = 120 * time.Second
)

// Client is a thin Ollama /api/generate client.
type Client struct {
	basecfg.Config
}

// ClientOption mutates Client via basecfg.Config.
type ClientOption = basecfg.ClientOption

// NewClient builds a Client for model.
func NewClient(model string, options ...ClientOption) *Client {
	c := &Client{
		Config: basecfg.Config{
			BaseURL: defaultBaseURL,
			Model:   model,
			HTTPClient: &http.Client{
				Transport: &http.Transport{
					TLSHandshakeTimeout:   10 * time.Second,
					IdleConnTimeout:       10 * time.Second,
					ResponseHeaderTimeout: defaultTimeout,
				},
			},
		},
	}
	for _, opt := range options {
		opt(&c.Config)
	}
	return c
}
