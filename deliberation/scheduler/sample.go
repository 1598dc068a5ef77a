package scheduler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/viant/arbiter/deliberation"
	"github.com/viant/arbiter/deliberation/archive"
	"github.com/viant/arbiter/deliberation/parser"
	"github.com/viant/arbiter/genai/llm"
	"github.com/viant/arbiter/genai/llm/provider"
)

func toGenerateOptions(opts *llm.Options) *provider.GenerateOptions {
	if opts == nil {
		return nil
	}
	g := &provider.GenerateOptions{MaxTokens: opts.MaxTokens, Verbosity: opts.Verbosity}
	if opts.Reasoning != nil {
		g.ReasoningEffort = opts.Reasoning.Effort
	}
	return g
}

// toContentItems converts attachments into the adapter's wire shape. A PDF
// attachment is passed through natively only when adapter.HasNativePDF(model)
// is true; otherwise its text is extracted and substituted so a backend
// that cannot ingest raw PDF bytes still receives the document (§4.1).
// Extraction failures drop the attachment and surface a warning rather than
// failing the sample outright.
func toContentItems(adapter provider.Adapter, model string, attachments []deliberation.Attachment) ([]llm.ContentItem, []deliberation.Warning) {
	items := make([]llm.ContentItem, 0, len(attachments))
	var warnings []deliberation.Warning
	for _, a := range attachments {
		if a.Kind == deliberation.AttachmentPDF && !adapter.HasNativePDF(model) {
			text, err := archive.ExtractText(a.Bytes)
			if err != nil {
				warnings = append(warnings, deliberation.Warning{
					Type:     "pdf_extraction_failed",
					Severity: deliberation.SeverityWarning,
					Message:  fmt.Sprintf("%s: %v", a.Name, err),
					Model:    model,
				})
				continue
			}
			items = append(items, llm.ContentItem{Type: llm.ContentTypeText, Data: text})
			continue
		}

		ct := llm.ContentTypeDocument
		switch a.Kind {
		case deliberation.AttachmentImage:
			ct = llm.ContentTypeImage
		case deliberation.AttachmentText:
			ct = llm.ContentTypeText
		case deliberation.AttachmentPDF:
			ct = llm.ContentTypePDF
		}
		item := llm.ContentItem{Type: ct, Data: string(a.Bytes), MimeType: a.MediaType}
		if ct != llm.ContentTypeText {
			item.Source = llm.SourceBase64
			item.Data = base64.StdEncoding.EncodeToString(a.Bytes)
		}
		items = append(items, item)
	}
	return items, warnings
}

// invoke calls Adapter.GenerateWithAttachments when attachments is
// non-empty and Adapter.Generate otherwise, under the providerCall budget.
func invoke(ctx context.Context, adapter provider.Adapter, prompt, model string, attachments []deliberation.Attachment, opts *provider.GenerateOptions, timeout time.Duration) (string, []deliberation.Warning, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var text string
	var err error
	var warnings []deliberation.Warning
	if len(attachments) > 0 {
		var items []llm.ContentItem
		items, warnings = toContentItems(adapter, model, attachments)
		text, err = adapter.GenerateWithAttachments(callCtx, prompt, model, items, opts)
	} else {
		text, err = adapter.Generate(callCtx, prompt, model, opts)
	}
	if err != nil && callCtx.Err() != nil {
		return "", warnings, provider.NewAdapterError(provider.ErrorTimeout, "provider call timed out", callCtx.Err())
	}
	return text, warnings, err
}

// sampleOutcome is the internal result of one adapter call plus parse pass.
type sampleOutcome struct {
	result   deliberation.ModelSampleResult
	vector   deliberation.ScoreVector
	status   deliberation.SampleStatus
	warnings []deliberation.Warning
}

func runSample(ctx context.Context, adapter provider.Adapter, prompt string, member deliberation.PanelMember, k int, attachments []deliberation.Attachment, providerCallTimeout time.Duration) sampleOutcome {
	start := time.Now()
	opts := toGenerateOptions(member.Options)
	text, attachmentWarnings, err := invoke(ctx, adapter, prompt, member.ModelID, attachments, opts, providerCallTimeout)
	duration := time.Since(start)

	base := deliberation.ModelSampleResult{
		ProviderID: member.ProviderID,
		ModelID:    member.ModelID,
		Duration:   duration,
		RawText:    text,
	}

	if err != nil {
		errType := provider.Classify(err)
		base.Status = deliberation.StatusFailed
		base.ErrorType = string(errType)
		base.ErrorMessage = err.Error()
		if errType == provider.ErrorTimeout {
			base.Status = deliberation.StatusTimeout
		}
		var ae *provider.AdapterError
		if errors.As(err, &ae) {
			base.ErrorCode = ae.Code
			base.HTTPStatus = ae.HTTPStatus
		}
		return sampleOutcome{result: base, status: base.Status, warnings: attachmentWarnings}
	}

	parsed, parseErr := parser.Parse(text, k)
	if parseErr != nil {
		base.Status = deliberation.StatusParsingError
		base.ErrorType = "parsing_error"
		base.ErrorMessage = parseErr.Error()
		fallback := deliberation.UniformFallback(k)
		base.Parsed = &deliberation.Parsed{Score: fallback, Justification: fmt.Sprintf("LLM_ERROR: %s", text)}
		warnings := append(attachmentWarnings, deliberation.Warning{
			Type:     "parsing_error",
			Severity: deliberation.SeverityWarning,
			Message:  parseErr.Error(),
			Model:    fmt.Sprintf("%s/%s", member.ProviderID, member.ModelID),
		})
		return sampleOutcome{result: base, vector: fallback, status: deliberation.StatusParsingError, warnings: warnings}
	}

	base.Status = deliberation.StatusSuccess
	base.Parsed = parsed
	return sampleOutcome{result: base, vector: parsed.Score, status: deliberation.StatusSuccess, warnings: attachmentWarnings}
}
