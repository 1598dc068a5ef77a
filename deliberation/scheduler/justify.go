package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/arbiter/deliberation"
)

// justify invokes the configured justifier model with the final aggregate
// and per-member justifications of the last iteration. On timeout or
// failure it falls back to concatenating the last iteration's per-member
// justifications and emits a justifier_fallback warning.
func (s *Scheduler) justify(ctx context.Context, req *deliberation.Request, k int, aggregate deliberation.ScoreVector, last memberResults) (string, *deliberation.Warning) {
	fallback := concatenateJustifications(last)

	if req.JustifierModel == nil {
		return fallback, nil
	}

	adapter, err := s.Resolver.Resolve(req.JustifierModel.ProviderID)
	if err != nil {
		return fallback, fallbackWarning(err)
	}

	prompt := buildJustifierPrompt(req.Outcomes, aggregate, last)
	genOpts := toGenerateOptions(req.JustifierModel.Options)

	text, _, err := invoke(ctx, adapter, prompt, req.JustifierModel.ModelID, nil, genOpts, s.Config.JustifierTimeout())
	if err != nil {
		return fallback, fallbackWarning(err)
	}
	if strings.TrimSpace(text) == "" {
		return fallback, fallbackWarning(fmt.Errorf("justifier returned empty text"))
	}
	return text, nil
}

func fallbackWarning(cause error) *deliberation.Warning {
	return &deliberation.Warning{
		Type:     "justifier_fallback",
		Severity: deliberation.SeverityWarning,
		Message:  cause.Error(),
	}
}

func concatenateJustifications(last memberResults) string {
	var b strings.Builder
	for _, m := range last.outcomes {
		// m.justification already carries the literal LLM_ERROR: prefix for
		// any non-success member (set once, in summarizeMember).
		fmt.Fprintf(&b, "From %s - %s:\n%s\n", m.member.ProviderID, m.member.ModelID, m.justification)
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildJustifierPrompt(outcomes []deliberation.Outcome, aggregate deliberation.ScoreVector, last memberResults) string {
	var b strings.Builder
	b.WriteString("Outcomes:\n")
	for i, o := range outcomes {
		var score int64
		if i < len(aggregate) {
			score = aggregate[i]
		}
		fmt.Fprintf(&b, "- %s: %d\n", o, score)
	}
	b.WriteString("\nPanel justifications:\n")
	b.WriteString(concatenateJustifications(last))
	b.WriteString("\n\nWrite a single synthesized justification for this aggregate score.")
	return b.String()
}
