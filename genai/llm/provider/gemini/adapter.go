package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/viant/arbiter/genai/llm"
	"github.com/viant/arbiter/genai/llm/provider"
)

var knownModels = []provider.ModelInfo{
	{Name: "gemini-2.5-pro", SupportsImages: true, SupportsAttachments: true},
	{Name: "gemini-2.5-flash", SupportsImages: true, SupportsAttachments: true},
}

var permissiveImageMIME = map[string]bool{
	"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true,
}

func (c *Client) ListModels(ctx context.Context) ([]provider.ModelInfo, error) { return knownModels, nil }

func (c *Client) SupportsImages(model string) bool      { return true }
func (c *Client) SupportsAttachments(model string) bool { return true }

// HasNativePDF is true for every Gemini model; Gemini ingests PDF bytes
// directly as inline data.
func (c *Client) HasNativePDF(model string) bool { return true }

func (c *Client) Generate(ctx context.Context, prompt string, model string, opts *provider.GenerateOptions) (string, error) {
	return c.call(ctx, model, opts, content{Role: "user", Parts: []part{{Text: prompt}}})
}

func (c *Client) GenerateWithImage(ctx context.Context, prompt string, model string, imageBytes []byte, mediaType string, opts *provider.GenerateOptions) (string, error) {
	if !permissiveImageMIME[mediaType] {
		return "", provider.NewAdapterError(provider.ErrorContentPolicy, fmt.Sprintf("unsupported image media type %s", mediaType), provider.ErrUnsupportedImage)
	}
	if len(imageBytes) > 20*1024*1024 {
		return "", provider.NewAdapterError(provider.ErrorContentPolicy, "attachment exceeds 20MiB", provider.ErrFileTooLarge)
	}
	parts := []part{
		{Text: prompt},
		{InlineData: &inlineData{MimeType: mediaType, Data: base64.StdEncoding.EncodeToString(imageBytes)}},
	}
	return c.call(ctx, model, opts, content{Role: "user", Parts: parts})
}

func (c *Client) GenerateWithAttachments(ctx context.Context, prompt string, model string, attachments []llm.ContentItem, opts *provider.GenerateOptions) (string, error) {
	parts := []part{{Text: prompt}}
	for _, a := range attachments {
		switch a.Type {
		case llm.ContentTypeImage:
			if !permissiveImageMIME[a.MimeType] {
				return "", provider.NewAdapterError(provider.ErrorContentPolicy, fmt.Sprintf("unsupported image media type %s", a.MimeType), provider.ErrUnsupportedImage)
			}
			parts = append(parts, part{InlineData: &inlineData{MimeType: a.MimeType, Data: a.Data}})
		case llm.ContentTypePDF:
			parts = append(parts, part{InlineData: &inlineData{MimeType: "application/pdf", Data: a.Data}})
		default:
			parts = append(parts, part{Text: a.Data})
		}
	}
	return c.call(ctx, model, opts, content{Role: "user", Parts: parts})
}

func (c *Client) call(ctx context.Context, model string, opts *provider.GenerateOptions, msg content) (string, error) {
	apiKey, err := c.apiKey()
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorAuthentication, err.Error(), err)
	}
	if model == "" {
		model = c.Model
	}
	req := generateRequest{Contents: []content{msg}}
	if opts != nil && opts.MaxTokens > 0 {
		req.GenerationConfig = &generationConfig{MaxOutputTokens: opts.MaxTokens}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorUnknown, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(model), bytes.NewReader(data))
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorUnknown, "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

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
		return "", classifyHTTPError(resp.StatusCode, body)
	}

	var apiResp generateResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", provider.NewAdapterError(provider.ErrorParsing, "failed to unmarshal response", err)
	}
	if apiResp.Error != nil {
		return "", classifyAPIError(apiResp.Error)
	}
	if len(apiResp.Candidates) == 0 {
		return "", provider.NewAdapterError(provider.ErrorProvider, "no candidates returned", nil)
	}
	return textOf(apiResp.Candidates[0].Content), nil
}

func classifyHTTPError(status int, body []byte) error {
	errType := provider.ErrorProvider
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		errType = provider.ErrorAuthentication
	case http.StatusTooManyRequests:
		errType = provider.ErrorRateLimit
	case http.StatusNotFound:
		errType = provider.ErrorModelNotFound
	}
	ae := provider.NewAdapterError(errType, fmt.Sprintf("gemini API error (status %d): %s", status, string(body)), nil)
	ae.HTTPStatus = status
	return ae
}

func classifyAPIError(apiErr *apiError) error {
	errType := provider.ErrorProvider
	switch apiErr.Status {
	case "RESOURCE_EXHAUSTED":
		errType = provider.ErrorRateLimit
	case "PERMISSION_DENIED":
		errType = provider.ErrorAuthorization
	case "UNAUTHENTICATED":
		errType = provider.ErrorAuthentication
	case "INVALID_ARGUMENT":
		errType = provider.ErrorTokenLimit
	}
	return provider.NewAdapterError(errType, apiErr.Message, nil)
}
