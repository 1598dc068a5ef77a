// Package archive implements the AttachmentPipeline (C3): ingestion of
// caller-supplied content-id archives into a deliberation Request.
//
// An archive is an opaque byte stream fetched through ArchiveTransport and
// read as a zip into memory. Each fetched archive also gets a scoped
// temporary directory (internal/workspace), released by Ingest on its error
// paths or by the release func it returns; the archive's files are not
// written into that directory.
package archive

import (
	"context"
	"strings"
)

// ArchiveTransport fetches an opaque content id as a byte stream. The core
// never assumes IPFS or any specific store; it only splits the caller
// string on commas and the first colon.
type ArchiveTransport interface {
	Fetch(ctx context.Context, contentID string) ([]byte, error)
}

// Manifest is the parsed shape of one archive's manifest.json.
type Manifest struct {
	Version  string          `json:"version"`
	Name     string          `json:"name,omitempty"`
	Primary  *PrimaryEntry   `json:"primary"`
	Addendum *AddendumConfig `json:"addendum,omitempty"`
}

// PrimaryEntry names the primary content file within an archive, either by
// filename or by content-id hash. Ingest accepts only a filename: in any
// archive, a primary named only by content-id hash fails with
// ExternalPrimaryUnsupported.
// BCIDs maps each expected side archive's declared manifest Name to the
// human-readable description shown in its prompt header (§3).
type PrimaryEntry struct {
	Filename string            `json:"filename,omitempty"`
	CID      string            `json:"cid,omitempty"`
	BCIDs    map[string]string `json:"bCIDs,omitempty"`
}

// AddendumConfig names the template a caller-supplied addendum is rendered
// through when the primary manifest declares one.
type AddendumConfig struct {
	Template string `json:"template"`
}

// PrimaryContent is the parsed primary file of an archive: query text,
// supporting references, and optional jury parameters.
type PrimaryContent struct {
	Query          string           `json:"query"`
	References     []string         `json:"references,omitempty"`
	Outcomes       []string         `json:"outcomes,omitempty"`
	JuryParameters *JuryParameters  `json:"juryParameters,omitempty"`
	Additional     []AttachmentFile `json:"additional,omitempty"`
	Support        []AttachmentFile `json:"support,omitempty"`
}

// JuryParameters is the manifest-declared fallback for panel/iterations
// when the caller Request does not specify them.
type JuryParameters struct {
	Panel      []PanelMemberSpec `json:"panel,omitempty"`
	Iterations int               `json:"iterations,omitempty"`
}

// PanelMemberSpec is the manifest-declared shape of one panel member.
type PanelMemberSpec struct {
	ProviderID string  `json:"providerId"`
	ModelID    string  `json:"modelId"`
	Weight     float64 `json:"weight"`
	Count      int     `json:"count"`
}

// AttachmentFile is one file entry inside an archive's additional[] or
// support[] list, before decoding.
type AttachmentFile struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	Data      string `json:"data"` // base64
}

// sanitizeAddendum strips characters that could be mistaken for markup or
// template delimiters from caller-supplied addendum text.
func sanitizeAddendum(s string) string {
	replacer := strings.NewReplacer("<", "", ">", "", "{", "", "}", "")
	return replacer.Replace(s)
}
