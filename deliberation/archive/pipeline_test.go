package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	byCID map[string][]byte
}

func (f *fakeTransport) Fetch(ctx context.Context, contentID string) ([]byte, error) {
	data, ok := f.byCID[contentID]
	if !ok {
		return nil, fmt.Errorf("no such content id: %s", contentID)
	}
	return data, nil
}

func buildArchive(t *testing.T, manifest Manifest, primary PrimaryContent, primaryName string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	manifestBytes, err := json.Marshal(manifest)
	require.NoError(t, err)
	w, err := zw.Create("manifest.json")
	require.NoError(t, err)
	_, err = w.Write(manifestBytes)
	require.NoError(t, err)

	if primaryName != "" {
		primaryBytes, err := json.Marshal(primary)
		require.NoError(t, err)
		w, err = zw.Create(primaryName)
		require.NoError(t, err)
		_, err = w.Write(primaryBytes)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestPipeline_SingleArchive_BackwardCompatible(t *testing.T) {
	archiveBytes := buildArchive(t,
		Manifest{Version: "1", Primary: &PrimaryEntry{Filename: "primary.json"}},
		PrimaryContent{Query: "Which party breached the contract?", References: []string{"exhibit A"}},
		"primary.json",
	)
	transport := &fakeTransport{byCID: map[string][]byte{"cid-1": archiveBytes}}
	pipeline := New(transport)

	req, warnings, release, err := pipeline.Ingest(context.Background(), "cid-1", nil)
	require.NoError(t, err)
	defer release()

	assert.Empty(t, warnings)
	assert.Contains(t, req.Prompt, "Which party breached the contract?")
	assert.Contains(t, req.Prompt, "References:")
	assert.Len(t, req.Outcomes, 2)
}

func TestPipeline_MultiArchive_WithAddendum(t *testing.T) {
	// The side archive's caller-supplied content id ("side-a") deliberately
	// differs from its declared manifest Name ("plaintiff-brief"), to prove
	// the bCIDs lookup matches on the declared name rather than on the
	// opaque content id.
	primaryArchive := buildArchive(t,
		Manifest{
			Version: "1",
			Primary: &PrimaryEntry{Filename: "primary.json", BCIDs: map[string]string{
				"plaintiff-brief": "Plaintiff's brief",
			}},
			Addendum: &AddendumConfig{Template: "Additional context"},
		},
		PrimaryContent{Query: "main question"},
		"primary.json",
	)
	sideArchive := buildArchive(t,
		Manifest{Version: "1", Name: "plaintiff-brief", Primary: &PrimaryEntry{Filename: "primary.json"}},
		PrimaryContent{Query: "side perspective", References: []string{"ref-1"}},
		"primary.json",
	)
	transport := &fakeTransport{byCID: map[string][]byte{
		"cid-primary": primaryArchive,
		"side-a":      sideArchive,
	}}
	pipeline := New(transport)

	req, warnings, release, err := pipeline.Ingest(context.Background(), "cid-primary,side-a:please focus on damages", nil)
	require.NoError(t, err)
	defer release()

	assert.Empty(t, warnings)
	assert.Contains(t, req.Prompt, "main question")
	assert.Contains(t, req.Prompt, "**\nPlaintiff's brief:\nName: plaintiff-brief\nside perspective")
	assert.Contains(t, req.Prompt, "References:\nplaintiff-brief:\n- ref-1")
	assert.Contains(t, req.Addendum, "Additional context")
	assert.Contains(t, req.Addendum, "please focus on damages")
}

func TestPipeline_BCIDNameMismatch_WarnsButSucceeds(t *testing.T) {
	primaryArchive := buildArchive(t,
		Manifest{
			Version: "1",
			Primary: &PrimaryEntry{Filename: "primary.json", BCIDs: map[string]string{
				"defendant-brief": "Defendant's brief",
			}},
		},
		PrimaryContent{Query: "main question"},
		"primary.json",
	)
	sideArchive := buildArchive(t,
		Manifest{Version: "1", Name: "unexpected-name", Primary: &PrimaryEntry{Filename: "primary.json"}},
		PrimaryContent{Query: "side perspective"},
		"primary.json",
	)
	transport := &fakeTransport{byCID: map[string][]byte{
		"cid-primary": primaryArchive,
		"side-a":      sideArchive,
	}}
	pipeline := New(transport)

	req, warnings, release, err := pipeline.Ingest(context.Background(), "cid-primary,side-a", nil)
	require.NoError(t, err)
	defer release()

	require.Len(t, warnings, 1)
	assert.EqualValues(t, "bcid_name_mismatch", warnings[0].Type)
	assert.Contains(t, req.Prompt, "side perspective")
}

func TestPipeline_BCIDCountMismatch(t *testing.T) {
	primaryArchive := buildArchive(t,
		Manifest{Version: "1", Primary: &PrimaryEntry{Filename: "primary.json", BCIDs: map[string]string{
			"side-a": "Side A",
			"side-b": "Side B",
		}}},
		PrimaryContent{Query: "main question"},
		"primary.json",
	)
	sideArchive := buildArchive(t,
		Manifest{Version: "1", Name: "side-a", Primary: &PrimaryEntry{Filename: "primary.json"}},
		PrimaryContent{Query: "side"},
		"primary.json",
	)
	transport := &fakeTransport{byCID: map[string][]byte{
		"cid-primary": primaryArchive,
		"side-a":      sideArchive,
	}}
	pipeline := New(transport)

	_, _, release, err := pipeline.Ingest(context.Background(), "cid-primary,side-a", nil)
	defer release()
	require.Error(t, err)
	var ingestErr *IngestError
	require.ErrorAs(t, err, &ingestErr)
	assert.EqualValues(t, BCIDCountMismatch, ingestErr.Code)
}

func TestPipeline_ManifestMissingPrimary(t *testing.T) {
	archiveBytes := buildArchive(t, Manifest{Version: "1"}, PrimaryContent{}, "")
	transport := &fakeTransport{byCID: map[string][]byte{"cid-1": archiveBytes}}
	pipeline := New(transport)

	_, _, release, err := pipeline.Ingest(context.Background(), "cid-1", nil)
	defer release()
	require.Error(t, err)
	var ingestErr *IngestError
	require.ErrorAs(t, err, &ingestErr)
	assert.EqualValues(t, ManifestInvalid, ingestErr.Code)
}

func TestPipeline_AttachmentTooLarge(t *testing.T) {
	oversized := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("x"), 100))
	archiveBytes := buildArchive(t,
		Manifest{Version: "1", Primary: &PrimaryEntry{Filename: "primary.json"}},
		PrimaryContent{Query: "q", Additional: []AttachmentFile{{Name: "big.txt", MediaType: "text/plain", Data: oversized}}},
		"primary.json",
	)
	transport := &fakeTransport{byCID: map[string][]byte{"cid-1": archiveBytes}}
	pipeline := New(transport)
	pipeline.MaxAttachmentBytes = 10

	req, warnings, release, err := pipeline.Ingest(context.Background(), "cid-1", nil)
	require.NoError(t, err)
	defer release()
	assert.Empty(t, req.Attachments)
	require.Len(t, warnings, 1)
	assert.EqualValues(t, "attachment_too_large", warnings[0].Type)
}
