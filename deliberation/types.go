// Package deliberation defines the shared data model consumed and produced
// by the scheduler, parser, archive pipeline and result assembler (§3).
package deliberation

import (
	"time"

	"github.com/viant/arbiter/genai/llm"
)

// ScoreUnit is the fixed-point score total every ScoreVector must sum to.
const ScoreUnit int64 = 1_000_000

// Outcome is an opaque, caller-supplied label. Labels are distinct within a
// request but opaque across requests.
type Outcome string

// ScoreVector is a fixed-point probability distribution over outcomes: every
// entry is non-negative and the vector sums to ScoreUnit.
type ScoreVector []int64

// Sum returns the sum of all entries.
func (v ScoreVector) Sum() int64 {
	var total int64
	for _, s := range v {
		total += s
	}
	return total
}

// Clone returns a copy of v.
func (v ScoreVector) Clone() ScoreVector {
	out := make(ScoreVector, len(v))
	copy(out, v)
	return out
}

// UniformFallback returns the near-uniform vector of length k whose entries
// sum to exactly ScoreUnit, per §4.2's fallback rule: every coordinate but
// the last gets floor(ScoreUnit/k); the last absorbs the remainder.
func UniformFallback(k int) ScoreVector {
	v := make(ScoreVector, k)
	if k <= 0 {
		return v
	}
	base := ScoreUnit / int64(k)
	var assigned int64
	for i := 0; i < k-1; i++ {
		v[i] = base
		assigned += base
	}
	v[k-1] = ScoreUnit - assigned
	return v
}

// Normalize adds any deficit/surplus against ScoreUnit to the largest
// coordinate (ties broken by lowest index), per §4.4.5. It never rescales
// multiplicatively. When a surplus exceeds the largest coordinate, that
// coordinate is clamped to 0 and the result does not sum to ScoreUnit.
func Normalize(v ScoreVector) ScoreVector {
	if len(v) == 0 {
		return v
	}
	out := v.Clone()
	deficit := ScoreUnit - out.Sum()
	if deficit == 0 {
		return out
	}
	maxIdx := 0
	for i := 1; i < len(out); i++ {
		if out[i] > out[maxIdx] {
			maxIdx = i
		}
	}
	out[maxIdx] += deficit
	if out[maxIdx] < 0 {
		out[maxIdx] = 0
	}
	return out
}

// SampleStatus classifies the outcome of a single adapter invocation.
type SampleStatus string

const (
	StatusSuccess      SampleStatus = "success"
	StatusFailed       SampleStatus = "failed"
	StatusTimeout      SampleStatus = "timeout"
	StatusParsingError SampleStatus = "parsing_error"
)

// PanelMember describes one LLM consulted in the deliberation.
type PanelMember struct {
	ProviderID string       `json:"providerId"`
	ModelID    string       `json:"modelId"`
	Weight     float64      `json:"weight"`
	Count      int          `json:"count"`
	Options    *llm.Options `json:"options,omitempty"`
}

// Request is one deliberation call's input (§3, §6).
type Request struct {
	Prompt         string        `json:"prompt"`
	Outcomes       []Outcome     `json:"outcomes"`
	Panel          []PanelMember `json:"panel"`
	Iterations     int           `json:"iterations"`
	Attachments    []Attachment  `json:"attachments,omitempty"`
	Addendum       string        `json:"addendum,omitempty"`
	JustifierModel *PanelMember  `json:"justifierModel,omitempty"`

	// ContentIDs, when set, drives AttachmentPipeline ingestion (§4.3)
	// instead of (or in addition to) the fields above. The caller string
	// syntax is "primaryCid[,bCid1,...][:addendumText]".
	ContentIDs string `json:"contentIds,omitempty"`
}

// Parsed is the canonical recovered reply shape (§4.2).
type Parsed struct {
	Score         ScoreVector
	Justification string
}

// ModelSampleResult records the outcome of one adapter invocation (§3).
type ModelSampleResult struct {
	ProviderID   string        `json:"providerId"`
	ModelID      string        `json:"modelId"`
	Status       SampleStatus  `json:"status"`
	Duration     time.Duration `json:"duration"`
	RawText      string        `json:"rawText,omitempty"`
	Parsed       *Parsed       `json:"parsed,omitempty"`
	ErrorType    string        `json:"errorType,omitempty"`
	ErrorCode    string        `json:"errorCode,omitempty"`
	HTTPStatus   int           `json:"httpStatus,omitempty"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
}

// MemberJustification is one panel member's justification as carried
// between iterations (§4.4.2 step 1). The scheduler keeps that state in its
// own per-member results and does not use this type.
type MemberJustification struct {
	ProviderID    string
	ModelID       string
	Justification string
	Failed        bool
}

// IterationRecord is the ordered sequence of per-member justifications
// produced by one iteration. The scheduler does not build IterationRecords;
// it seeds the next iteration's prompt from its own per-member results.
type IterationRecord struct {
	Justifications []MemberJustification
	Aggregate      ScoreVector
	MemberStatuses []SampleStatus
}

// AttachmentKind classifies an attachment by media type for adapter
// dispatch decisions (native-PDF vs. extracted-text, image vs. document).
type AttachmentKind string

const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentText     AttachmentKind = "text"
	AttachmentDocument AttachmentKind = "document"
	AttachmentPDF      AttachmentKind = "pdf"
)

// Attachment is one decoded file merged from the caller Request or an
// ingested archive's additional[]/support[] lists.
type Attachment struct {
	Name      string         `json:"name"`
	Kind      AttachmentKind `json:"kind"`
	MediaType string         `json:"mediaType"`
	Bytes     []byte         `json:"-"`
}

// WarningSeverity distinguishes advisory from degraded-result warnings.
type WarningSeverity string

const (
	SeverityInfo    WarningSeverity = "info"
	SeverityWarning WarningSeverity = "warning"
	SeverityError   WarningSeverity = "error"
)

// Warning is a non-fatal condition surfaced alongside a successful or
// degraded Response (§4.5).
type Warning struct {
	Type     string          `json:"type"`
	Severity WarningSeverity `json:"severity"`
	Message  string          `json:"message"`
	Model    string          `json:"model,omitempty"`
	Details  string          `json:"details,omitempty"`
}

// OutcomeScore is one entry of the final Response scores list.
type OutcomeScore struct {
	Outcome Outcome `json:"outcome"`
	Score   int64   `json:"score"`
}

// ModelResult is one entry of Response.model_results: the record of a
// single adapter sample. The scheduler emits one entry per sample of every
// iteration it ran, so a member with Count > 1, or a run of several
// iterations, has several entries.
type ModelResult struct {
	ProviderID   string        `json:"provider"`
	ModelID      string        `json:"model"`
	Status       SampleStatus  `json:"status"`
	Duration     time.Duration `json:"duration_ms"`
	ErrorType    string        `json:"error_type,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	ErrorCode    string        `json:"error_code,omitempty"`
	HTTPStatus   int           `json:"http_status,omitempty"`
}

// Metadata summarizes panel-wide outcome counts for the Response (§4.5).
type Metadata struct {
	ModelsRequested     int   `json:"models_requested"`
	ModelsSuccessful    int   `json:"models_successful"`
	ModelsFailed        int   `json:"models_failed"`
	SuccessThresholdMet bool  `json:"success_threshold_met"`
	TotalDurationMs     int64 `json:"total_duration_ms"`
}

// Response is the canonical deliberation result (§4.5). Older consumers
// reading only {scores, justification, timestamp} continue to work; every
// field added beyond those three is optional and additive.
type Response struct {
	Scores        []OutcomeScore `json:"scores,omitempty"`
	Justification string         `json:"justification,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
	Metadata      Metadata       `json:"metadata"`
	ModelResults  []ModelResult  `json:"model_results,omitempty"`
	Warnings      []Warning      `json:"warnings,omitempty"`
	Error         string         `json:"error,omitempty"`
}
