package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/viant/arbiter/deliberation"
	"github.com/viant/arbiter/internal/workspace"
)

const maxAttachmentBytesDefault = 20 * 1024 * 1024

// Pipeline ingests a caller content-id string into a deliberation Request.
type Pipeline struct {
	Transport         ArchiveTransport
	MaxAttachmentBytes int64
}

// New builds a Pipeline backed by transport.
func New(transport ArchiveTransport) *Pipeline {
	return &Pipeline{Transport: transport, MaxAttachmentBytes: maxAttachmentBytesDefault}
}

// archiveUnit is one fetched-and-extracted archive together with its
// parsed manifest and primary content.
type archiveUnit struct {
	name        string // caller-supplied content id
	manifest    *Manifest
	primary     *PrimaryContent
	scratch     *workspace.Scratch
	description string // looked up from the primary's bCIDs map, side archives only
}

// label returns the archive's declared manifest name, falling back to its
// content id when the manifest does not declare one.
func (u *archiveUnit) label() string {
	if u.manifest.Name != "" {
		return u.manifest.Name
	}
	return u.name
}

// Ingest parses contentIDs of the form "primaryCid[,bCid1,...][:addendumText]",
// fetches and extracts every archive, validates cross-archive consistency,
// and composes the effective Request fields.
//
// The returned release func must be called exactly once by the caller to
// free every scratch directory opened during ingestion, regardless of
// whether Ingest succeeded.
func (p *Pipeline) Ingest(ctx context.Context, contentIDs string, caller *deliberation.Request) (*deliberation.Request, []deliberation.Warning, func(), error) {
	cidPart, addendumText := splitAddendum(contentIDs)
	cids := strings.Split(cidPart, ",")
	for i := range cids {
		cids[i] = strings.TrimSpace(cids[i])
	}
	if len(cids) == 0 || cids[0] == "" {
		return nil, nil, func() {}, fail(ManifestInvalid, fmt.Errorf("no content id supplied"))
	}

	var units []*archiveUnit
	release := func() {
		for _, u := range units {
			u.scratch.Release()
		}
	}

	for _, cid := range cids {
		unit, err := p.fetchAndExtract(ctx, cid)
		if err != nil {
			release()
			return nil, nil, func() {}, fail(BCIDFetchFailed, err)
		}
		units = append(units, unit)
	}

	primary := units[0]
	for _, u := range units {
		entry := u.manifest.Primary
		if u.manifest.Version == "" || entry == nil || (entry.Filename == "" && entry.CID == "") {
			release()
			return nil, nil, func() {}, fail(ManifestInvalid, fmt.Errorf("manifest of %s missing version or primary", u.name))
		}
		if entry.Filename == "" {
			release()
			return nil, nil, func() {}, fail(ExternalPrimaryUnsupported, fmt.Errorf("primary of %s is named only by content-id hash", u.name))
		}
	}

	sideUnits := units[1:]
	var warnings []deliberation.Warning
	if len(sideUnits) > 0 {
		expected := primary.manifest.Primary.BCIDs
		if len(expected) != len(sideUnits) {
			release()
			return nil, nil, func() {}, fail(BCIDCountMismatch, fmt.Errorf("expected %d side archives, got %d", len(expected), len(sideUnits)))
		}
		for _, u := range sideUnits {
			description, ok := expected[u.label()]
			if !ok {
				warnings = append(warnings, deliberation.Warning{
					Type:     "bcid_name_mismatch",
					Severity: "warning",
					Message:  fmt.Sprintf("side archive %q did not match any declared bCIDs name", u.label()),
				})
				continue
			}
			u.description = description
		}
	}

	prompt := composePrompt(primary, sideUnits)

	req := &deliberation.Request{Prompt: prompt}
	if caller != nil {
		*req = *caller
		req.Prompt = prompt
	}

	if len(req.Panel) == 0 && primary.primary.JuryParameters != nil {
		for _, m := range primary.primary.JuryParameters.Panel {
			req.Panel = append(req.Panel, deliberation.PanelMember{
				ProviderID: m.ProviderID,
				ModelID:    m.ModelID,
				Weight:     m.Weight,
				Count:      m.Count,
			})
		}
		if req.Iterations == 0 {
			req.Iterations = primary.primary.JuryParameters.Iterations
		}
	}

	if len(req.Outcomes) == 0 {
		if len(primary.primary.Outcomes) > 0 {
			for _, o := range primary.primary.Outcomes {
				req.Outcomes = append(req.Outcomes, deliberation.Outcome(o))
			}
		} else {
			req.Outcomes = synthesizeOutcomes(len(req.Panel))
		}
	}

	if primary.manifest.Addendum != nil && addendumText != "" {
		req.Addendum = fmt.Sprintf("%s: %s", primary.manifest.Addendum.Template, sanitizeAddendum(addendumText))
	}

	attachments, attachWarnings, err := mergeAttachments(append([]*archiveUnit{primary}, sideUnits...), p.maxAttachmentBytes())
	if err != nil {
		release()
		return nil, nil, func() {}, err
	}
	req.Attachments = attachments
	warnings = append(warnings, attachWarnings...)

	return req, warnings, release, nil
}

func (p *Pipeline) maxAttachmentBytes() int64 {
	if p.MaxAttachmentBytes > 0 {
		return p.MaxAttachmentBytes
	}
	return maxAttachmentBytesDefault
}

// synthesizeOutcomes produces k placeholder outcome labels when neither the
// caller nor the manifest supplies any. k defaults to 2 when the panel is
// also unspecified, matching the smallest meaningful jury decision.
func synthesizeOutcomes(panelSize int) []deliberation.Outcome {
	k := panelSize
	if k < 2 {
		k = 2
	}
	outcomes := make([]deliberation.Outcome, k)
	for i := range outcomes {
		outcomes[i] = deliberation.Outcome(fmt.Sprintf("outcome-%d", i+1))
	}
	return outcomes
}

func splitAddendum(s string) (cidPart, addendum string) {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}

func (p *Pipeline) fetchAndExtract(ctx context.Context, cid string) (*archiveUnit, error) {
	data, err := p.Transport.Fetch(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cid, err)
	}
	scratch, err := workspace.New("arbiter-archive-")
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		scratch.Release()
		return nil, fmt.Errorf("invalid archive %s: %w", cid, err)
	}

	files := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			scratch.Release()
			return nil, fmt.Errorf("open %s in %s: %w", f.Name, cid, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			scratch.Release()
			return nil, fmt.Errorf("read %s in %s: %w", f.Name, cid, err)
		}
		files[f.Name] = content
	}

	manifestBytes, ok := files["manifest.json"]
	if !ok {
		scratch.Release()
		return nil, fail(ManifestInvalid, fmt.Errorf("archive %s has no manifest.json", cid))
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		scratch.Release()
		return nil, fail(ManifestInvalid, fmt.Errorf("archive %s manifest.json: %w", cid, err))
	}

	var primaryBytes []byte
	if manifest.Primary != nil && manifest.Primary.Filename != "" {
		primaryBytes, ok = files[manifest.Primary.Filename]
		if !ok {
			scratch.Release()
			return nil, fail(ManifestInvalid, fmt.Errorf("archive %s missing declared primary file %q", cid, manifest.Primary.Filename))
		}
	}
	var primary PrimaryContent
	if len(primaryBytes) > 0 {
		if err := json.Unmarshal(primaryBytes, &primary); err != nil {
			scratch.Release()
			return nil, fail(ManifestInvalid, fmt.Errorf("archive %s primary content: %w", cid, err))
		}
	}

	return &archiveUnit{name: cid, manifest: &manifest, primary: &primary, scratch: scratch}, nil
}

func composePrompt(primary *archiveUnit, sides []*archiveUnit) string {
	var b strings.Builder
	b.WriteString(primary.primary.Query)
	for _, side := range sides {
		description := side.description
		if description == "" {
			description = side.label()
		}
		b.WriteString("\n\n**\n")
		b.WriteString(description)
		b.WriteString(":\n")
		fmt.Fprintf(&b, "Name: %s\n", side.label())
		b.WriteString(side.primary.Query)
	}

	var refBlocks []string
	if len(primary.primary.References) > 0 {
		refBlocks = append(refBlocks, formatReferences(primary.label(), primary.primary.References))
	}
	for _, side := range sides {
		if len(side.primary.References) > 0 {
			refBlocks = append(refBlocks, formatReferences(side.label(), side.primary.References))
		}
	}
	if len(refBlocks) > 0 {
		b.WriteString("\n\nReferences:\n")
		b.WriteString(strings.Join(refBlocks, "\n"))
	}
	return b.String()
}

func formatReferences(name string, refs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", name)
	for _, r := range refs {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	return strings.TrimRight(b.String(), "\n")
}

func mergeAttachments(units []*archiveUnit, maxBytes int64) ([]deliberation.Attachment, []deliberation.Warning, error) {
	var out []deliberation.Attachment
	var warnings []deliberation.Warning
	for _, u := range units {
		for _, list := range [][]AttachmentFile{u.primary.Additional, u.primary.Support} {
			for _, f := range list {
				decoded, err := base64.StdEncoding.DecodeString(f.Data)
				if err != nil {
					warnings = append(warnings, deliberation.Warning{
						Type:     "attachment_decode_failed",
						Severity: "warning",
						Message:  fmt.Sprintf("%s: %v", f.Name, err),
					})
					continue
				}
				if int64(len(decoded)) > maxBytes {
					warnings = append(warnings, deliberation.Warning{
						Type:     "attachment_too_large",
						Severity: "warning",
						Message:  fmt.Sprintf("%s exceeds %d bytes, dropped", f.Name, maxBytes),
					})
					continue
				}
				out = append(out, deliberation.Attachment{
					Name:      f.Name,
					Kind:      classify(f.MediaType),
					MediaType: f.MediaType,
					Bytes:     decoded,
				})
			}
		}
	}
	return out, warnings, nil
}

func classify(mediaType string) deliberation.AttachmentKind {
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return deliberation.AttachmentImage
	case mediaType == "application/pdf":
		return deliberation.AttachmentPDF
	case strings.HasPrefix(mediaType, "text/"):
		return deliberation.AttachmentText
	default:
		return deliberation.AttachmentDocument
	}
}
