package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/arbiter/deliberation"
	"github.com/viant/arbiter/genai/llm"
)

func TestToContentItems_NativePDFAdapter_PassesPDFThrough(t *testing.T) {
	adapter := &scriptedAdapter{nativePDF: true}
	attachments := []deliberation.Attachment{
		{Name: "brief.pdf", Kind: deliberation.AttachmentPDF, MediaType: "application/pdf", Bytes: []byte("%PDF-1.4 not a real document")},
	}

	items, warnings := toContentItems(adapter, "gemini-2.5-flash", attachments)

	require.Empty(t, warnings)
	require.Len(t, items, 1)
	assert.Equal(t, llm.ContentTypePDF, items[0].Type)
	assert.Equal(t, "application/pdf", items[0].MimeType)
}

func TestToContentItems_NonNativePDFAdapter_ExtractionFailureDropsAttachment(t *testing.T) {
	adapter := &scriptedAdapter{nativePDF: false}
	attachments := []deliberation.Attachment{
		{Name: "brief.pdf", Kind: deliberation.AttachmentPDF, MediaType: "application/pdf", Bytes: []byte("not a valid pdf stream")},
	}

	items, warnings := toContentItems(adapter, "claude-sonnet-4", attachments)

	assert.Empty(t, items)
	require.Len(t, warnings, 1)
	assert.EqualValues(t, "pdf_extraction_failed", warnings[0].Type)
	assert.Contains(t, warnings[0].Message, "brief.pdf")
}

func TestToContentItems_NonPDFAttachments_PassThroughUnaffectedByHasNativePDF(t *testing.T) {
	adapter := &scriptedAdapter{nativePDF: false}
	attachments := []deliberation.Attachment{
		{Name: "note.txt", Kind: deliberation.AttachmentText, MediaType: "text/plain", Bytes: []byte("hello")},
		{Name: "photo.png", Kind: deliberation.AttachmentImage, MediaType: "image/png", Bytes: []byte("binary")},
	}

	items, warnings := toContentItems(adapter, "claude-sonnet-4", attachments)

	assert.Empty(t, warnings)
	require.Len(t, items, 2)
	assert.Equal(t, llm.ContentTypeText, items[0].Type)
	assert.Equal(t, llm.ContentTypeImage, items[1].Type)
}
