package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/viant/arbiter/genai/llm"
	"github.com/viant/arbiter/genai/llm/provider"
)

var knownModels = []provider.ModelInfo{
	{Name: "claude-opus-4", SupportsImages: true, SupportsAttachments: true},
	{Name: "claude-sonnet-4", SupportsImages: true, SupportsAttachments: true},
}

// strictImageMIME is the "strict backend" image set from §4.1: Anthropic
// accepts only jpeg/png through this adapter.
var strictImageMIME = map[string]bool{
	"image/jpeg": true, "image/png": true,
}

const defaultMaxTokens = 4096

func (c *Client) ListModels(ctx context.Context) ([]provider.ModelInfo, error) { return knownModels, nil }

func (c *Client) SupportsImages(model string) bool      { return true }
func (c *Client) SupportsAttachments(model string) bool { return true }

// HasNativePDF is always false: Anthropic's Messages API as wired here does
// not accept raw PDF bytes, so the AttachmentPipeline must substitute
// extracted text before calling this adapter (§4.1).
func (c *Client) HasNativePDF(model string) bool { return false }

func (c *Client) Generate(ctx context.Context, prompt string, model string, opts *provider.GenerateOptions) (string, error) {
	return c.call(ctx, model, opts, message{Role: "user", Content: []contentBlock{{Type: "text", Text: prompt}}})
}

func (c *Client) GenerateWithImage(ctx context.Context, prompt string, model string, imageBytes []byte, mediaType string, opts *provider.GenerateOptions) (string, error) {
	if !strictImageMIME[mediaType] {
		return "", provider.NewAdapterError(provider.ErrorContentPolicy, fmt.Sprintf("unsupported image media type %s", mediaType), provider.ErrUnsupportedImage)
	}
	if len(imageBytes) > 20*1024*1024 {
		return "", provider.NewAdapterError(provider.ErrorContentPolicy, "attachment exceeds 20MiB", provider.ErrFileTooLarge)
	}
	blocks := []contentBlock{
		{Type: "text", Text: prompt},
		{Type: "image", Source: &source{Type: "base64", MediaType: mediaType, Data: encodeBase64(imageBytes)}},
	}
	return c.call(ctx, model, opts, message{Role: "user", Content: blocks})
}

func (c *Client) GenerateWithAttachments(ctx context.Context, prompt string, model string, attachments []llm.ContentItem, opts *provider.GenerateOptions) (string, error) {
	blocks := []contentBlock{{Type: "text", Text: prompt}}
	for _, a := range attachments {
		switch a.Type {
		case llm.ContentTypeImage:
			if !strictImageMIME[a.MimeType] {
				return "", provider.NewAdapterError(provider.ErrorContentPolicy, fmt.Sprintf("unsupported image media type %s", a.MimeType), provider.ErrUnsupportedImage)
			}
			blocks = append(blocks, contentBlock{Type: "image", Source: &source{Type: "base64", MediaType: a.MimeType, Data: a.Data}})
		case llm.ContentTypePDF:
			return "", provider.NewAdapterError(provider.ErrorContentPolicy, "PDF requires text extraction for this backend", provider.ErrUnsupportedAttachment)
		default:
			blocks = append(blocks, contentBlock{Type: "text", Text: a.Data})
		}
	}
	return c.call(ctx, model, opts, message{Role: "user", Content: blocks})
}

func (c *Client) call(ctx context.Context, model string, opts *provider.GenerateOptions, msg message) (string, error) {
	apiKey, err := c.apiKey()
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorAuthentication, err.Error(), err)
	}
	if model == "" {
		model = c.Model
	}
	maxTokens := defaultMaxTokens
	if opts != nil && opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	req := messagesRequest{Model: model, Messages: []message{msg}, MaxTokens: maxTokens}

	data, err := json.Marshal(req)
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorUnknown, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/messages", bytes.NewReader(data))
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorUnknown, "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

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

	var apiResp messagesResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", provider.NewAdapterError(provider.ErrorParsing, "failed to unmarshal response", err)
	}
	if apiResp.Error != nil {
		return "", classifyAPIError(apiResp.Error)
	}
	return textOf(apiResp.Content), nil
}

func classifyHTTPError(status int, body []byte) error {
	errType := provider.ErrorProvider
	switch status {
	case http.StatusUnauthorized:
		errType = provider.ErrorAuthentication
	case http.StatusForbidden:
		errType = provider.ErrorAuthorization
	case http.StatusTooManyRequests:
		errType = provider.ErrorRateLimit
	case http.StatusNotFound:
		errType = provider.ErrorModelNotFound
	}
	ae := provider.NewAdapterError(errType, fmt.Sprintf("anthropic API error (status %d): %s", status, string(body)), nil)
	ae.HTTPStatus = status
	return ae
}

func classifyAPIError(apiErr *apiError) error {
	errType := provider.ErrorProvider
	switch apiErr.Type {
	case "authentication_error":
		errType = provider.ErrorAuthentication
	case "permission_error":
		errType = provider.ErrorAuthorization
	case "rate_limit_error":
		errType = provider.ErrorRateLimit
	case "invalid_request_error":
		errType = provider.ErrorTokenLimit
	}
	return provider.NewAdapterError(errType, apiErr.Message, nil)
}
