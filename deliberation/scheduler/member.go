package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/viant/arbiter/deliberation"
	"github.com/viant/arbiter/genai/llm/provider"
)

// memberOutcome is one panel member's per-iteration result: its aggregated
// vector, status, and the per-sample results/warnings to carry into the
// Response.
type memberOutcome struct {
	member        deliberation.PanelMember
	vector        deliberation.ScoreVector
	status        deliberation.SampleStatus
	samples       []deliberation.ModelSampleResult
	warnings      []deliberation.Warning
	justification string
}

// runMember dispatches count_j independent samples for member, each under
// its own providerCall timeout, all wrapped in a model timeout covering the
// whole batch. If the model budget expires, still-pending samples are
// cancelled; the member is marked timeout with the uniform fallback vector
// only when no sample succeeded before expiry, otherwise its vector is the
// floor mean of the samples that did.
func runMember(ctx context.Context, resolver *AdapterResolver, prompt string, member deliberation.PanelMember, k int, attachments []deliberation.Attachment, providerCallTimeout, modelTimeout time.Duration) memberOutcome {
	memberCtx, cancel := context.WithTimeout(ctx, modelTimeout)
	defer cancel()

	count := member.Count
	if count <= 0 {
		count = 1
	}

	adapter, err := resolver.Resolve(member.ProviderID)
	if err != nil {
		return summarizeMember(member, k, false, []sampleOutcome{{
			status: deliberation.StatusFailed,
			result: deliberation.ModelSampleResult{
				ProviderID:   member.ProviderID,
				ModelID:      member.ModelID,
				Status:       deliberation.StatusFailed,
				ErrorType:    string(provider.ErrorUnknown),
				ErrorMessage: err.Error(),
			},
		}})
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes []sampleOutcome
	)
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			out := runSample(memberCtx, adapter, prompt, member, k, attachments, providerCallTimeout)
			mu.Lock()
			outcomes = append(outcomes, out)
			mu.Unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-memberCtx.Done():
		<-done // samples observe ctx cancellation and return promptly
	}

	return summarizeMember(member, k, memberCtx.Err() != nil, outcomes)
}

func summarizeMember(member deliberation.PanelMember, k int, budgetExpired bool, outcomes []sampleOutcome) memberOutcome {
	out := memberOutcome{member: member}
	var vectors []deliberation.ScoreVector
	var lastJustification string
	anySucceeded := false

	for _, o := range outcomes {
		out.samples = append(out.samples, o.result)
		out.warnings = append(out.warnings, o.warnings...)
		if o.status == deliberation.StatusSuccess || o.status == deliberation.StatusParsingError {
			vectors = append(vectors, o.vector)
			anySucceeded = true
			if o.result.Parsed != nil {
				lastJustification = o.result.Parsed.Justification
			}
		}
	}

	if !anySucceeded {
		out.vector = deliberation.UniformFallback(k)
		if budgetExpired {
			out.status = deliberation.StatusTimeout
		} else {
			out.status = deliberation.StatusFailed
		}
		out.justification = "LLM_ERROR: no successful sample"
		return out
	}

	out.vector = floorMean(vectors)
	out.status = deliberation.StatusSuccess
	out.justification = lastJustification
	return out
}
