package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_StrictJSON(t *testing.T) {
	raw := `{"score":[600000,400000],"justification":"A is stronger on the facts"}`
	parsed, err := Parse(raw, 2)
	assert.NoError(t, err)
	assert.EqualValues(t, []int64{600000, 400000}, parsed.Score)
	assert.EqualValues(t, "A is stronger on the facts", parsed.Justification)
}

func TestParse_FencedJSON(t *testing.T) {
	raw := "Here is my answer:\n```json\n{\"score\":[1000000,0],\"justification\":\"clear cut\"}\n```\n"
	parsed, err := Parse(raw, 2)
	assert.NoError(t, err)
	assert.EqualValues(t, []int64{1000000, 0}, parsed.Score)
	assert.EqualValues(t, "clear cut", parsed.Justification)
}

func TestParse_FencedJSON_NoLanguageTag(t *testing.T) {
	raw := "```\n{\"score\":[300000,700000],\"justification\":\"b wins\"}\n```"
	parsed, err := Parse(raw, 2)
	assert.NoError(t, err)
	assert.EqualValues(t, []int64{300000, 700000}, parsed.Score)
}

func TestParse_RepairPass_EmbeddedLineBreak(t *testing.T) {
	raw := "{\"score\":[500000,500000],\"justification\":\"first line\nsecond line\"}"
	parsed, err := Parse(raw, 2)
	assert.NoError(t, err)
	assert.EqualValues(t, []int64{500000, 500000}, parsed.Score)
}

func TestParse_LegacyPattern(t *testing.T) {
	raw := "Some preamble text.\nSCORE: 700000, 300000\nJUSTIFICATION: A had better sourcing\nand reasoning.\n"
	parsed, err := Parse(raw, 2)
	assert.NoError(t, err)
	assert.EqualValues(t, []int64{700000, 300000}, parsed.Score)
	assert.Contains(t, parsed.Justification, "A had better sourcing")
}

func TestParse_PartialExtraction(t *testing.T) {
	raw := `random preamble {"score": [250000, 250000, 500000], "justification": "outcome three dominates" } trailing noise`
	parsed, err := Parse(raw, 3)
	assert.NoError(t, err)
	assert.EqualValues(t, []int64{250000, 250000, 500000}, parsed.Score)
	assert.EqualValues(t, "outcome three dominates", parsed.Justification)
}

func TestParse_RejectsWrongLength(t *testing.T) {
	raw := `{"score":[1000000],"justification":"only one outcome scored"}`
	_, err := Parse(raw, 2)
	assert.Error(t, err)
}

func TestParse_RejectsNegativeEntry(t *testing.T) {
	raw := `{"score":[-100000,1100000],"justification":"invalid"}`
	_, err := Parse(raw, 2)
	assert.Error(t, err)
}

func TestParse_RejectsZeroSum(t *testing.T) {
	raw := `{"score":[0,0],"justification":"nothing"}`
	_, err := Parse(raw, 2)
	assert.Error(t, err)
}

func TestParse_NormalizesOffSumVector(t *testing.T) {
	raw := `{"score":[600000,399000],"justification":"close call"}`
	parsed, err := Parse(raw, 2)
	assert.NoError(t, err)
	assert.EqualValues(t, int64(1000000), parsed.Score.Sum())
	assert.EqualValues(t, int64(601000), parsed.Score[0])
}

func TestParse_NoStrategyMatches(t *testing.T) {
	_, err := Parse("I decline to answer.", 2)
	assert.Error(t, err)
}
