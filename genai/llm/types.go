package llm

// ContentType defines the supported asset types a ContentItem may carry.
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImage    ContentType = "image"
	ContentTypeDocument ContentType = "document"
	ContentTypePDF      ContentType = "pdf"
)

// AssetSource defines the way the asset is provided.
type AssetSource string

const (
	SourceURL    AssetSource = "url"
	SourceBase64 AssetSource = "base64"
)

// ContentItem is a universal representation of a single content asset passed
// to an adapter: prompt text, or an attachment encoded the way the adapter
// expects it (inline base64, or a provider-hosted URL).
type ContentItem struct {
	Type ContentType `json:"type"`
	// Source indicates how the asset is provided (url, base64).
	Source AssetSource `json:"source,omitempty"`
	// Data is the actual content: raw text for ContentTypeText, or the
	// base64/url payload for everything else.
	Data string `json:"data,omitempty"`
	// MimeType is required for non-text items (e.g. image/png, application/pdf).
	MimeType string `json:"mimeType,omitempty"`
}

// Usage contains token usage information for a single model invocation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	ReasoningTokens  int `json:"reasoning_tokens,omitempty"`
}
