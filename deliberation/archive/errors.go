package archive

import "fmt"

// FailureCode identifies one of the fatal ingestion failures named in §4.3.
type FailureCode string

const (
	ManifestInvalid            FailureCode = "manifest_invalid"
	ExternalPrimaryUnsupported FailureCode = "external_primary_unsupported"
	BCIDCountMismatch          FailureCode = "bcid_count_mismatch"
	BCIDFetchFailed            FailureCode = "bcid_fetch_failed"
)

// IngestError carries a failure taxonomy code alongside the wrapped cause.
type IngestError struct {
	Code FailureCode
	Err  error
}

func (e *IngestError) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

func fail(code FailureCode, err error) error {
	return &IngestError{Code: code, Err: err}
}
