package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/viant/arbiter/genai/llm"
	"github.com/viant/arbiter/genai/llm/provider"
)

var knownModels = []provider.ModelInfo{
	{Name: "gpt-5", SupportsImages: true, SupportsAttachments: true},
	{Name: "gpt-4o", SupportsImages: true, SupportsAttachments: true},
	{Name: "gpt-4o-mini", SupportsImages: true, SupportsAttachments: true},
	{Name: "o4-mini", SupportsImages: true, SupportsAttachments: true},
}

var permissiveImageMIME = map[string]bool{
	"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true,
}

// ListModels returns the adapter's known model catalog.
func (c *Client) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	return knownModels, nil
}

// SupportsImages reports true for every known model; OpenAI's vision-capable
// chat models accept the permissive image set.
func (c *Client) SupportsImages(model string) bool { return true }

// SupportsAttachments reports true for every known model.
func (c *Client) SupportsAttachments(model string) bool { return true }

// HasNativePDF matches the o*/gpt-4o*/gpt-5* model id patterns that
// understand PDF bytes directly (§4.1).
func (c *Client) HasNativePDF(model string) bool {
	return strings.HasPrefix(model, "o") || strings.HasPrefix(model, "gpt-4o") || strings.HasPrefix(model, "gpt-5")
}

// Generate produces a plain-text completion for prompt.
func (c *Client) Generate(ctx context.Context, prompt string, model string, opts *provider.GenerateOptions) (string, error) {
	return c.call(ctx, model, opts, chatMessage{Role: "user", Content: prompt})
}

// GenerateWithImage produces a completion for prompt plus a single image attachment.
func (c *Client) GenerateWithImage(ctx context.Context, prompt string, model string, imageBytes []byte, mediaType string, opts *provider.GenerateOptions) (string, error) {
	if !permissiveImageMIME[mediaType] {
		return "", provider.NewAdapterError(provider.ErrorContentPolicy, fmt.Sprintf("unsupported image media type %s", mediaType), provider.ErrUnsupportedImage)
	}
	if len(imageBytes) > 20*1024*1024 {
		return "", provider.NewAdapterError(provider.ErrorContentPolicy, "attachment exceeds 20MiB", provider.ErrFileTooLarge)
	}
	parts := []contentPart{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &imageURL{URL: dataURL(mediaType, imageBytes)}},
	}
	return c.call(ctx, model, opts, chatMessage{Role: "user", Content: partsToAny(parts)})
}

// GenerateWithAttachments produces a completion for prompt plus a set of
// heterogeneous attachments. Non-image, non-PDF attachments are inlined as
// text parts (extracted text is expected to already be substituted by the
// AttachmentPipeline for backends lacking native PDF support).
func (c *Client) GenerateWithAttachments(ctx context.Context, prompt string, model string, attachments []llm.ContentItem, opts *provider.GenerateOptions) (string, error) {
	parts := []contentPart{{Type: "text", Text: prompt}}
	for _, a := range attachments {
		switch a.Type {
		case llm.ContentTypeImage:
			if !permissiveImageMIME[a.MimeType] {
				return "", provider.NewAdapterError(provider.ErrorContentPolicy, fmt.Sprintf("unsupported image media type %s", a.MimeType), provider.ErrUnsupportedImage)
			}
			parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: dataURLFromItem(a)}})
		case llm.ContentTypePDF:
			if !c.HasNativePDF(model) {
				return "", provider.NewAdapterError(provider.ErrorContentPolicy, "model requires text-extracted PDF substitution", provider.ErrUnsupportedAttachment)
			}
			parts = append(parts, contentPart{Type: "text", Text: a.Data})
		default:
			parts = append(parts, contentPart{Type: "text", Text: a.Data})
		}
	}
	return c.call(ctx, model, opts, chatMessage{Role: "user", Content: partsToAny(parts)})
}

func dataURL(mediaType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data))
}

func dataURLFromItem(item llm.ContentItem) string {
	if item.Source == llm.SourceURL {
		return item.Data
	}
	return fmt.Sprintf("data:%s;base64,%s", item.MimeType, item.Data)
}

func partsToAny(parts []contentPart) []interface{} {
	out := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		m := map[string]interface{}{"type": p.Type}
		if p.Text != "" {
			m["text"] = p.Text
		}
		if p.ImageURL != nil {
			m["image_url"] = map[string]interface{}{"url": p.ImageURL.URL}
		}
		out = append(out, m)
	}
	return out
}

func (c *Client) call(ctx context.Context, model string, opts *provider.GenerateOptions, msg chatMessage) (string, error) {
	apiKey, err := c.apiKey()
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorAuthentication, err.Error(), err)
	}
	if model == "" {
		model = c.Model
	}
	req := chatRequest{Model: model, Messages: []chatMessage{msg}}
	if opts != nil && opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	data, err := json.Marshal(req)
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorUnknown, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", provider.NewAdapterError(provider.ErrorUnknown, "failed to build request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
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
		return "", classifyHTTPError(resp.StatusCode, body)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", provider.NewAdapterError(provider.ErrorParsing, "failed to unmarshal response", err)
	}
	if apiResp.Error != nil {
		return "", classifyAPIError(apiResp.Error)
	}
	if len(apiResp.Choices) == 0 {
		return "", provider.NewAdapterError(provider.ErrorProvider, "no choices returned", nil)
	}
	return textOf(apiResp.Choices[0].Message), nil
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
	ae := provider.NewAdapterError(errType, fmt.Sprintf("openai API error (status %d): %s", status, string(body)), nil)
	ae.HTTPStatus = status
	return ae
}

func classifyAPIError(apiErr *apiError) error {
	errType := provider.ErrorProvider
	switch apiErr.Type {
	case "invalid_request_error":
		if strings.Contains(apiErr.Code, "context_length") {
			errType = provider.ErrorTokenLimit
		}
	case "insufficient_quota":
		errType = provider.ErrorAuthorization
	case "rate_limit_exceeded":
		errType = provider.ErrorRateLimit
	case "content_policy_violation":
		errType = provider.ErrorContentPolicy
	}
	return provider.NewAdapterError(errType, apiErr.Message, nil)
}
