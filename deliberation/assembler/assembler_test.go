package assembler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/arbiter/deliberation"
)

func TestAssemble_Success(t *testing.T) {
	start := time.Now()
	finish := start.Add(250 * time.Millisecond)

	resp := Assemble(Input{
		Outcomes:            []deliberation.Outcome{"a", "b"},
		FinalAggregate:      deliberation.ScoreVector{600000, 400000},
		Justification:       "A is stronger",
		ModelsRequested:     2,
		ModelsSuccessful:    2,
		SuccessThresholdMet: true,
		StartedAt:           start,
		FinishedAt:          finish,
	})

	assert.Empty(t, resp.Error)
	assert.Equal(t, "A is stronger", resp.Justification)
	assert.Equal(t, []deliberation.OutcomeScore{
		{Outcome: "a", Score: 600000},
		{Outcome: "b", Score: 400000},
	}, resp.Scores)
	assert.True(t, resp.Metadata.SuccessThresholdMet)
	assert.EqualValues(t, 2, resp.Metadata.ModelsRequested)
	assert.EqualValues(t, 250, resp.Metadata.TotalDurationMs)
}

func TestAssemble_ErrorLeavesScoresAndJustificationEmpty(t *testing.T) {
	resp := Assemble(Input{
		Outcomes:            []deliberation.Outcome{"a", "b"},
		FinalAggregate:      deliberation.ScoreVector{600000, 400000},
		Justification:       "should not appear",
		ModelsRequested:     4,
		ModelsSuccessful:    1,
		ModelsFailed:        3,
		SuccessThresholdMet: false,
		Error:               "insufficient_models: 1/4 (minimum required: 2). Failures: a/m1: timeout",
	})

	assert.Empty(t, resp.Scores)
	assert.Empty(t, resp.Justification)
	assert.False(t, resp.Metadata.SuccessThresholdMet)
	assert.Equal(t, "insufficient_models: 1/4 (minimum required: 2). Failures: a/m1: timeout", resp.Error)
}

func TestAssemble_MissingAggregateEntryDefaultsToZero(t *testing.T) {
	resp := Assemble(Input{
		Outcomes:       []deliberation.Outcome{"a", "b", "c"},
		FinalAggregate: deliberation.ScoreVector{1000000},
	})

	assert.Equal(t, []deliberation.OutcomeScore{
		{Outcome: "a", Score: 1000000},
		{Outcome: "b", Score: 0},
		{Outcome: "c", Score: 0},
	}, resp.Scores)
}
