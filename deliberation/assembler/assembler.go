// Package assembler implements the ResultAssembler (C5): translation of a
// scheduler run's raw bookkeeping into the canonical Response document.
package assembler

import (
	"time"

	"github.com/viant/arbiter/deliberation"
)

// Input is everything the scheduler accumulates over a run that the
// assembler needs to produce a Response.
type Input struct {
	Outcomes            []deliberation.Outcome
	FinalAggregate      deliberation.ScoreVector
	Justification       string
	ModelResults        []deliberation.ModelResult
	Warnings            []deliberation.Warning
	ModelsRequested     int
	ModelsSuccessful    int
	ModelsFailed        int
	SuccessThresholdMet bool
	StartedAt           time.Time
	FinishedAt          time.Time
	Error               string
}

// Assemble builds the canonical Response (§4.5) from in. When in.Error is
// non-empty, Scores and Justification are left empty per the threshold- and
// validation-failure error handling rules (§7).
func Assemble(in Input) *deliberation.Response {
	resp := &deliberation.Response{
		Timestamp: in.FinishedAt,
		Metadata: deliberation.Metadata{
			ModelsRequested:     in.ModelsRequested,
			ModelsSuccessful:    in.ModelsSuccessful,
			ModelsFailed:        in.ModelsFailed,
			SuccessThresholdMet: in.SuccessThresholdMet,
			TotalDurationMs:     in.FinishedAt.Sub(in.StartedAt).Milliseconds(),
		},
		ModelResults: in.ModelResults,
		Warnings:     in.Warnings,
		Error:        in.Error,
	}

	if in.Error != "" {
		return resp
	}

	resp.Justification = in.Justification
	resp.Scores = make([]deliberation.OutcomeScore, len(in.Outcomes))
	for i, o := range in.Outcomes {
		var score int64
		if i < len(in.FinalAggregate) {
			score = in.FinalAggregate[i]
		}
		resp.Scores[i] = deliberation.OutcomeScore{Outcome: o, Score: score}
	}
	return resp
}
