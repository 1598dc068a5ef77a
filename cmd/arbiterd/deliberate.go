package arbiterd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/viant/arbiter/deliberation"
	"github.com/viant/arbiter/deliberation/archive"
	"github.com/viant/arbiter/deliberation/scheduler"
	"github.com/viant/arbiter/genai/llm/provider"
	"github.com/viant/arbiter/internal/config"
)

// DeliberateCmd reads a Request as JSON (stdin or --input) and writes the
// resulting Response as JSON to stdout.
type DeliberateCmd struct {
	InputFile string `short:"i" long:"input" description:"JSON file with Request (stdin if empty)"`
	Config    string `short:"f" long:"config" description:"engine config YAML path"`
	Transport string `long:"archive-transport" description:"content-id archive transport: none|file" default:"none"`
}

func (c *DeliberateCmd) Execute(_ []string) error {
	var reader io.Reader = os.Stdin
	if c.InputFile != "" {
		f, err := os.Open(c.InputFile)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		reader = f
	}

	var req deliberation.Request
	if err := json.NewDecoder(reader).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if req.ContentIDs != "" {
		transport, err := newArchiveTransport(c.Transport)
		if err != nil {
			return err
		}
		pipeline := archive.New(transport)
		pipeline.MaxAttachmentBytes = cfg.MaxAttachmentBytes
		ingested, _, release, err := pipeline.Ingest(ctx, req.ContentIDs, &req)
		if err != nil {
			return fmt.Errorf("ingest archive: %w", err)
		}
		defer release()
		req = *ingested
	}

	registry := provider.NewDefaultRegistry()
	sched := scheduler.New(registry, provider.EnvOptions, cfg)

	resp := sched.Deliberate(ctx, &req)

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// newArchiveTransport builds the ArchiveTransport the "deliberate" command
// uses. "file" reads each content id as a local filesystem path; this is
// the CLI's own concern, not the core's (§6 ArchiveTransport is injected).
func newArchiveTransport(kind string) (archive.ArchiveTransport, error) {
	switch kind {
	case "", "none":
		return noTransport{}, nil
	case "file":
		return fileTransport{}, nil
	default:
		return nil, fmt.Errorf("unknown archive transport: %s", kind)
	}
}

type noTransport struct{}

func (noTransport) Fetch(ctx context.Context, contentID string) ([]byte, error) {
	return nil, fmt.Errorf("no archive transport configured, cannot fetch %q", contentID)
}

type fileTransport struct{}

func (fileTransport) Fetch(ctx context.Context, contentID string) ([]byte, error) {
	return os.ReadFile(contentID)
}
