package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/arbiter/deliberation"
	"github.com/viant/arbiter/genai/llm"
	"github.com/viant/arbiter/genai/llm/provider"
	"github.com/viant/arbiter/internal/config"
)

type scriptedAdapter struct {
	reply     string
	err       error
	delay     time.Duration
	nativePDF bool

	lastAttachments []llm.ContentItem
}

func (a *scriptedAdapter) ListModels(ctx context.Context) ([]provider.ModelInfo, error) { return nil, nil }
func (a *scriptedAdapter) SupportsImages(model string) bool                             { return false }
func (a *scriptedAdapter) SupportsAttachments(model string) bool                        { return false }
func (a *scriptedAdapter) HasNativePDF(model string) bool                               { return a.nativePDF }

func (a *scriptedAdapter) Generate(ctx context.Context, prompt string, model string, opts *provider.GenerateOptions) (string, error) {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if a.err != nil {
		return "", a.err
	}
	return a.reply, nil
}

func (a *scriptedAdapter) GenerateWithImage(ctx context.Context, prompt string, model string, imageBytes []byte, mediaType string, opts *provider.GenerateOptions) (string, error) {
	return a.Generate(ctx, prompt, model, opts)
}

func (a *scriptedAdapter) GenerateWithAttachments(ctx context.Context, prompt string, model string, attachments []llm.ContentItem, opts *provider.GenerateOptions) (string, error) {
	a.lastAttachments = attachments
	return a.Generate(ctx, prompt, model, opts)
}

func registryWith(adapters map[string]*scriptedAdapter) *provider.Registry {
	r := provider.NewRegistry()
	for id, a := range adapters {
		a := a
		r.Register(id, func(opts map[string]string) (provider.Adapter, error) { return a, nil })
	}
	return r
}

func TestScheduler_TwoMemberSuccess_AggregateSumsToUnit(t *testing.T) {
	registry := registryWith(map[string]*scriptedAdapter{
		"alpha": {reply: `{"score":[600000,400000],"justification":"alpha favors first"}`},
		"beta":  {reply: `{"score":[400000,600000],"justification":"beta favors second"}`},
	})
	sched := New(registry, nil, config.Default())

	req := &deliberation.Request{
		Prompt:     "Which outcome is better supported?",
		Outcomes:   []deliberation.Outcome{"first", "second"},
		Iterations: 1,
		Panel: []deliberation.PanelMember{
			{ProviderID: "alpha", ModelID: "m1", Weight: 0.5, Count: 1},
			{ProviderID: "beta", ModelID: "m1", Weight: 0.5, Count: 1},
		},
	}

	resp := sched.Deliberate(context.Background(), req)
	require.Empty(t, resp.Error)
	require.Len(t, resp.Scores, 2)

	var sum int64
	for _, s := range resp.Scores {
		sum += s.Score
	}
	assert.EqualValues(t, 1000000, sum)
	assert.True(t, resp.Metadata.SuccessThresholdMet)
	assert.EqualValues(t, 2, resp.Metadata.ModelsSuccessful)
}

func TestScheduler_InsufficientModels_Fails(t *testing.T) {
	registry := registryWith(map[string]*scriptedAdapter{
		"alpha": {err: fmt.Errorf("boom")},
		"beta":  {err: fmt.Errorf("boom")},
	})
	sched := New(registry, nil, config.Default())

	req := &deliberation.Request{
		Prompt:     "decide",
		Outcomes:   []deliberation.Outcome{"a", "b"},
		Iterations: 1,
		Panel: []deliberation.PanelMember{
			{ProviderID: "alpha", ModelID: "m1", Weight: 0.5, Count: 1},
			{ProviderID: "beta", ModelID: "m1", Weight: 0.5, Count: 1},
		},
	}

	resp := sched.Deliberate(context.Background(), req)
	assert.Contains(t, resp.Error, "insufficient_models: 0/2 (minimum required: 1)")
	assert.Empty(t, resp.Scores)
	assert.NotEmpty(t, resp.ModelResults)
}

func TestScheduler_ParsingErrorFallsBackToUniformVector(t *testing.T) {
	registry := registryWith(map[string]*scriptedAdapter{
		"alpha": {reply: "I refuse to answer in the expected format."},
		"beta":  {reply: `{"score":[700000,300000],"justification":"clear"}`},
	})
	sched := New(registry, nil, config.Default())

	req := &deliberation.Request{
		Prompt:     "decide",
		Outcomes:   []deliberation.Outcome{"a", "b"},
		Iterations: 1,
		Panel: []deliberation.PanelMember{
			{ProviderID: "alpha", ModelID: "m1", Weight: 0.5, Count: 1},
			{ProviderID: "beta", ModelID: "m1", Weight: 0.5, Count: 1},
		},
	}

	resp := sched.Deliberate(context.Background(), req)
	require.Empty(t, resp.Error)
	require.NotEmpty(t, resp.Warnings)
	assert.EqualValues(t, "parsing_error", resp.Warnings[0].Type)
	// alpha's uniform fallback [500000,500000] and beta's [700000,300000],
	// weighted 0.5/0.5.
	assert.Equal(t, []deliberation.OutcomeScore{
		{Outcome: "a", Score: 600000},
		{Outcome: "b", Score: 400000},
	}, resp.Scores)
}

func TestScheduler_SlowMemberDoesNotBlockFastMember(t *testing.T) {
	registry := registryWith(map[string]*scriptedAdapter{
		"alpha": {reply: `{"score":[500000,500000],"justification":"fast"}`},
		"beta":  {reply: `{"score":[500000,500000],"justification":"slow"}`, delay: 50 * time.Millisecond},
	})
	cfg := config.Default()
	cfg.ModelTimeoutMs = 10
	sched := New(registry, nil, cfg)

	req := &deliberation.Request{
		Prompt:     "decide",
		Outcomes:   []deliberation.Outcome{"a", "b"},
		Iterations: 1,
		Panel: []deliberation.PanelMember{
			{ProviderID: "alpha", ModelID: "m1", Weight: 0.5, Count: 1},
			{ProviderID: "beta", ModelID: "m1", Weight: 0.5, Count: 1},
		},
	}

	start := time.Now()
	resp := sched.Deliberate(context.Background(), req)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 45*time.Millisecond)
	var betaResult *deliberation.ModelResult
	for i := range resp.ModelResults {
		if resp.ModelResults[i].ProviderID == "beta" {
			betaResult = &resp.ModelResults[i]
		}
	}
	require.NotNil(t, betaResult)
	assert.EqualValues(t, deliberation.StatusTimeout, betaResult.Status)
}
