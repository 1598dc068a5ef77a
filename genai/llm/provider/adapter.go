// Package provider defines the uniform call surface concrete LLM backends
// implement (ProviderAdapter) plus a process-scoped registry that maps a
// normalized provider identifier to an adapter factory.
package provider

import (
	"context"

	"github.com/viant/arbiter/genai/llm"
)

// GenerateOptions carries per-call hints that adapters may ignore.
type GenerateOptions struct {
	ReasoningEffort string // "low" | "medium" | "high"
	Verbosity       string // "low" | "medium" | "high"
	MaxTokens       int
}

// ModelInfo describes one model a provider exposes.
type ModelInfo struct {
	Name                string
	SupportsImages      bool
	SupportsAttachments bool
}

// Adapter is the uniform call surface every concrete LLM backend implements
// (§4.1, C1). A single Adapter value serves every model of one backend; the
// model id is passed per call so one adapter instance can be shared across
// panel members naming different models of the same provider.
type Adapter interface {
	// ListModels enumerates the models this adapter knows about and their
	// capabilities.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// SupportsImages reports whether model accepts image attachments.
	SupportsImages(model string) bool

	// SupportsAttachments reports whether model accepts non-image attachments.
	SupportsAttachments(model string) bool

	// HasNativePDF reports whether model understands PDF bytes directly,
	// without the AttachmentPipeline substituting extracted text.
	HasNativePDF(model string) bool

	// Generate produces a plain-text completion for prompt.
	Generate(ctx context.Context, prompt string, model string, opts *GenerateOptions) (string, error)

	// GenerateWithImage produces a completion for prompt plus a single
	// image attachment. Fails with ErrUnsupportedImage when mediaType is
	// not in the backend's accepted set, or ErrFileTooLarge when the
	// decoded size exceeds the adapter's fixed 20 MiB cap.
	GenerateWithImage(ctx context.Context, prompt string, model string, imageBytes []byte, mediaType string, opts *GenerateOptions) (string, error)

	// GenerateWithAttachments produces a completion for prompt plus a set
	// of heterogeneous attachments (images, text, documents, PDFs). Fails
	// with ErrUnsupportedAttachment per backend policy.
	GenerateWithAttachments(ctx context.Context, prompt string, model string, attachments []llm.ContentItem, opts *GenerateOptions) (string, error)
}
