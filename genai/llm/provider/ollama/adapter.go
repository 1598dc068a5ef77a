package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/viant/arbiter/genai/llm"
	"github.com/viant/arbiter/genai/llm/provider"
)

// ListModels reports the configured model only; Ollama's local catalog is
// whatever the operator has pulled, which this adapter does not enumerate.
func (c *Client) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	if c.Model == "" {
		return nil, nil
	}
	return []provider.ModelInfo{{Name: c.Model}}, nil
}

func (c *Client) SupportsImages(model string) bool      { return false }
func (c *Client) SupportsAttachments(model string) bool { return false }
func (c *Client) HasNativePDF(model string) bool        { return false }

func (c *Client) Generate(ctx context.Context, prompt string, model string, opts *provider.GenerateOptions) (string, error) {
	if model == "" {
		model = c.Model
	}
	if model == "" {
		return "", provider.NewAdapterError(provider.ErrorUnknown, "model is required", nil)
	}

	req := generateRequest{Model: model, Prompt: prompt, Stream: false}
	data, err := json.Marshal(req)
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorUnknown, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorUnknown, "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", provider.NewAdapterError(provider.ErrorTimeout, "request cancelled", ctx.Err())
		}
		return "", provider.NewAdapterError(provider.ErrorNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorNetwork, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		errType := provider.ErrorProvider
		if resp.StatusCode == http.StatusNotFound {
			errType = provider.ErrorModelNotFound
		}
		ae := provider.NewAdapterError(errType, fmt.Sprintf("ollama API error (status %d): %s", resp.StatusCode, string(body)), nil)
		ae.HTTPStatus = resp.StatusCode
		return "", ae
	}

	var apiResp generateResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", provider.NewAdapterError(provider.ErrorParsing, "failed to unmarshal response", err)
	}
	if apiResp.Error != "" {
		return "", provider.NewAdapterError(provider.ErrorProvider, apiResp.Error, nil)
	}
	return strings.TrimSpace(apiResp.Response), nil
}

func (c *Client) GenerateWithImage(ctx context.Context, prompt string, model string, imageBytes []byte, mediaType string, opts *provider.GenerateOptions) (string, error) {
	return "", provider.NewAdapterError(provider.ErrorContentPolicy, "ollama adapter does not support image attachments", provider.ErrUnsupportedImage)
}

func (c *Client) GenerateWithAttachments(ctx context.Context, prompt string, model string, attachments []llm.ContentItem, opts *provider.GenerateOptions) (string, error) {
	return "", provider.NewAdapterError(provider.ErrorContentPolicy, "ollama adapter does not support attachments", provider.ErrUnsupportedAttachment)
}
