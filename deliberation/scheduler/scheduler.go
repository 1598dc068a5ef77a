// Package scheduler implements the DeliberationScheduler (C4): the
// iteration loop, weighted aggregation, and justification synthesis that
// turn a Request into a Response under the four-level timeout hierarchy
// (request ⊃ iteration ⊃ model ⊃ providerCall).
//
// Fan-out uses goroutines coordinated by sync.WaitGroup and a sync.Mutex
// guarding shared result slices, the same pattern used for concurrent
// dispatch elsewhere in this codebase; no third-party errgroup package is
// involved.
package scheduler

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/viant/arbiter/deliberation"
	"github.com/viant/arbiter/deliberation/assembler"
	"github.com/viant/arbiter/genai/llm/provider"
	"github.com/viant/arbiter/internal/config"
)

// Scheduler runs deliberations against a resolved panel of adapters.
type Scheduler struct {
	Resolver *AdapterResolver
	Config   config.Config
}

// New builds a Scheduler backed by registry, resolving per-provider options
// through providerOptions (may be nil).
func New(registry *provider.Registry, providerOptions func(providerID string) map[string]string, cfg config.Config) *Scheduler {
	return &Scheduler{
		Resolver: NewAdapterResolver(registry, providerOptions),
		Config:   config.WithDefaults(cfg),
	}
}

// Deliberate runs req to completion or to a validation/threshold failure.
func (s *Scheduler) Deliberate(ctx context.Context, req *deliberation.Request) *deliberation.Response {
	start := time.Now()

	if err := validate(req); err != nil {
		return assembler.Assemble(assembler.Input{
			Outcomes:   req.Outcomes,
			StartedAt:  start,
			FinishedAt: time.Now(),
			Error:      err.Error(),
		})
	}

	k := len(req.Outcomes)
	requestCtx, cancel := context.WithTimeout(ctx, s.Config.RequestTimeout())
	defer cancel()

	weights := normalizeWeights(req.Panel)

	var (
		allSampleResults []deliberation.ModelSampleResult
		allWarnings      []deliberation.Warning
		lastIteration    memberResults
	)

	iterations := req.Iterations
	if iterations <= 0 {
		iterations = 1
	}

	for t := 0; t < iterations; t++ {
		prompt := buildIterationPrompt(req.Prompt, req.Panel, lastIteration, t)

		iterCtx, iterCancel := context.WithCancel(requestCtx)
		results := runIteration(iterCtx, s.Resolver, prompt, req.Panel, k, req.Attachments, s.Config.ProviderCallTimeout(), s.Config.ModelTimeout())
		iterCancel()

		for _, m := range results.outcomes {
			for _, sr := range m.samples {
				allSampleResults = append(allSampleResults, sr)
			}
			allWarnings = append(allWarnings, m.warnings...)
		}

		successCount := 0
		for _, m := range results.outcomes {
			if m.status == deliberation.StatusSuccess {
				successCount++
			}
		}
		total := len(results.outcomes)
		fraction := 0.0
		if total > 0 {
			fraction = float64(successCount) / float64(total)
		}
		if fraction < s.Config.MinSuccessfulModelsFraction {
			required := int(math.Ceil(s.Config.MinSuccessfulModelsFraction * float64(total)))
			return assembler.Assemble(assembler.Input{
				Outcomes:            req.Outcomes,
				ModelResults:        toModelResults(allSampleResults),
				Warnings:            allWarnings,
				ModelsRequested:     len(req.Panel),
				ModelsSuccessful:    successCount,
				ModelsFailed:        total - successCount,
				SuccessThresholdMet: false,
				StartedAt:           start,
				FinishedAt:          time.Now(),
				Error:               insufficientModelsError(successCount, total, required, results.outcomes),
			})
		}

		lastIteration = results
	}

	vectors := make([]deliberation.ScoreVector, 0, len(lastIteration.outcomes))
	for _, m := range lastIteration.outcomes {
		vectors = append(vectors, m.vector)
	}
	finalAggregate := weightedAggregate(vectors, weights)

	justification, justifyWarning := s.justify(requestCtx, req, k, finalAggregate, lastIteration)
	if justifyWarning != nil {
		allWarnings = append(allWarnings, *justifyWarning)
	}

	successCount := 0
	for _, m := range lastIteration.outcomes {
		if m.status == deliberation.StatusSuccess {
			successCount++
		}
	}

	return assembler.Assemble(assembler.Input{
		Outcomes:            req.Outcomes,
		FinalAggregate:      finalAggregate,
		Justification:       justification,
		ModelResults:        toModelResults(allSampleResults),
		Warnings:            allWarnings,
		ModelsRequested:     len(req.Panel),
		ModelsSuccessful:    successCount,
		ModelsFailed:        len(lastIteration.outcomes) - successCount,
		SuccessThresholdMet: true,
		StartedAt:           start,
		FinishedAt:          time.Now(),
	})
}

// insufficientModelsError renders the threshold-failure message in the
// "insufficient_models: successful/total (minimum required: N). Failures: …"
// shape, listing each failed member's provider/model and status.
func insufficientModelsError(successCount, total, required int, outcomes []memberOutcome) string {
	var failures []string
	for _, m := range outcomes {
		if m.status != deliberation.StatusSuccess {
			failures = append(failures, fmt.Sprintf("%s/%s: %s", m.member.ProviderID, m.member.ModelID, m.status))
		}
	}
	return fmt.Sprintf("insufficient_models: %d/%d (minimum required: %d). Failures: %s",
		successCount, total, required, strings.Join(failures, ", "))
}

func validate(req *deliberation.Request) error {
	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return fmt.Errorf("bad_request: prompt is required")
	}
	if len(req.Outcomes) < 2 {
		return fmt.Errorf("outcomes_too_few: need at least 2 outcomes")
	}
	if len(req.Panel) == 0 {
		return fmt.Errorf("bad_request: panel is required")
	}
	return nil
}

// normalizeWeights divides every member's weight by the panel's weight sum
// so weightedAggregate always combines a convex combination, tolerating
// callers who supply unnormalized weights (e.g. all 1.0).
func normalizeWeights(panel []deliberation.PanelMember) []float64 {
	weights := make([]float64, len(panel))
	var sum float64
	for i, m := range panel {
		w := m.Weight
		if w <= 0 {
			w = 1
		}
		weights[i] = w
		sum += w
	}
	if sum == 0 {
		sum = 1
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

type memberResults struct {
	outcomes []memberOutcome
}

func runIteration(ctx context.Context, resolver *AdapterResolver, prompt string, panel []deliberation.PanelMember, k int, attachments []deliberation.Attachment, providerCallTimeout, modelTimeout time.Duration) memberResults {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		out = make([]memberOutcome, len(panel))
	)
	wg.Add(len(panel))
	for i, member := range panel {
		i, member := i, member
		go func() {
			defer wg.Done()
			result := runMember(ctx, resolver, prompt, member, k, attachments, providerCallTimeout, modelTimeout)
			mu.Lock()
			out[i] = result
			mu.Unlock()
		}()
	}
	wg.Wait()
	return memberResults{outcomes: out}
}

func buildIterationPrompt(basePrompt string, panel []deliberation.PanelMember, prior memberResults, iteration int) string {
	if iteration == 0 || len(prior.outcomes) == 0 {
		return basePrompt
	}
	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n")
	for _, m := range prior.outcomes {
		// m.justification already carries the literal LLM_ERROR: prefix for
		// any non-success member (set once, in summarizeMember).
		fmt.Fprintf(&b, "From %s - %s:\n%s\n", m.member.ProviderID, m.member.ModelID, m.justification)
	}
	return b.String()
}

func toModelResults(samples []deliberation.ModelSampleResult) []deliberation.ModelResult {
	out := make([]deliberation.ModelResult, len(samples))
	for i, s := range samples {
		out[i] = deliberation.ModelResult{
			ProviderID:   s.ProviderID,
			ModelID:      s.ModelID,
			Status:       s.Status,
			Duration:     s.Duration,
			ErrorType:    s.ErrorType,
			ErrorMessage: s.ErrorMessage,
			ErrorCode:    s.ErrorCode,
			HTTPStatus:   s.HTTPStatus,
		}
	}
	return out
}
