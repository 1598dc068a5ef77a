// Package parser implements the ResponseParser (C2): recovery of a
// canonical score/justification pair from heterogeneous model replies.
//
// The acceptance chain mirrors the nested-JSON-then-regex-fallback style
// used for ensemble LLM scoring elsewhere in the ecosystem, generalized
// into an explicit, auditable sequence of small strategies rather than one
// monolithic regex blob.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/viant/arbiter/deliberation"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:[a-zA-Z0-9]*)?\\s*(.*?)\\s*```")

var legacyScoreLine = regexp.MustCompile(`(?mi)^\s*SCORE:\s*(.+)$`)
var legacyJustificationLine = regexp.MustCompile(`(?mis)^\s*JUSTIFICATION:\s*(.*)$`)
var scoreField = regexp.MustCompile(`"score"\s*:\s*\[([^\]]*)\]`)
var justificationField = regexp.MustCompile(`"justification"\s*:\s*"`)

type wireShape struct {
	Score         []int64 `json:"score"`
	Justification string  `json:"justification"`
}

// Parse recovers a {score, justification} pair from raw with exactly k
// score entries, trying each acceptance strategy in order. The first
// strategy that matches decides the result: if its vector fails validation
// or cannot be normalized to ScoreUnit, Parse returns an error without
// trying later strategies. It never returns a partially valid vector.
func Parse(raw string, k int) (*deliberation.Parsed, error) {
	strategies := []func(string, int) (*deliberation.Parsed, bool){
		parseStrictJSON,
		parseFencedJSON,
		parseRepaired,
		parseLegacy,
		parsePartial,
	}
	for _, strategy := range strategies {
		if parsed, ok := strategy(raw, k); ok {
			if err := validate(parsed.Score, k); err != nil {
				return nil, err
			}
			parsed.Score = deliberation.Normalize(parsed.Score)
			if parsed.Score.Sum() != deliberation.ScoreUnit {
				return nil, fmt.Errorf("parsing_error: score sum cannot be normalized to %d", deliberation.ScoreUnit)
			}
			return parsed, nil
		}
	}
	return nil, fmt.Errorf("parsing_error: no acceptance strategy matched reply")
}

func validate(score deliberation.ScoreVector, k int) error {
	if len(score) != k {
		return fmt.Errorf("parsing_error: score length %d != %d", len(score), k)
	}
	var sum int64
	for _, s := range score {
		if s < 0 {
			return fmt.Errorf("parsing_error: negative score entry %d", s)
		}
		sum += s
	}
	if sum == 0 {
		return fmt.Errorf("parsing_error: score sum is zero")
	}
	return nil
}

// 1. Strict JSON at the top level.
func parseStrictJSON(raw string, k int) (*deliberation.Parsed, bool) {
	return decodeWire(strings.TrimSpace(raw), k)
}

// 2. JSON inside a fenced code block.
func parseFencedJSON(raw string, k int) (*deliberation.Parsed, bool) {
	matches := fencedBlock.FindStringSubmatch(raw)
	if len(matches) < 2 {
		return nil, false
	}
	return decodeWire(strings.TrimSpace(matches[1]), k)
}

// 3. Repair pass: strip fences, escape embedded line breaks and escape
// stray quotes inside the justification value, retry JSON.
func parseRepaired(raw string, k int) (*deliberation.Parsed, bool) {
	candidate := raw
	if matches := fencedBlock.FindStringSubmatch(raw); len(matches) >= 2 {
		candidate = matches[1]
	}
	candidate = repairJustificationQuoting(candidate)
	return decodeWire(strings.TrimSpace(candidate), k)
}

// repairJustificationQuoting scans for the justification value and, within
// its span up to the closing quote that balances the opening one, replaces
// raw line breaks with the literal escape sequence and escapes any
// unescaped interior double quotes.
func repairJustificationQuoting(s string) string {
	loc := justificationField.FindStringIndex(s)
	if loc == nil {
		return s
	}
	valueStart := loc[1]
	i := valueStart
	var b strings.Builder
	b.WriteString(s[:valueStart])
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i += 2
			continue
		case c == '"':
			rest := strings.TrimLeft(s[i+1:], " \t\r\n")
			if strings.HasPrefix(rest, "}") || strings.HasPrefix(rest, ",") {
				b.WriteByte(c)
				i++
				return b.String() + s[i:]
			}
			b.WriteString(`\"`)
			i++
			continue
		case c == '\n' || c == '\r':
			b.WriteString(`\n`)
			i++
			continue
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// 4. Legacy SCORE:/JUSTIFICATION: line pattern.
func parseLegacy(raw string, k int) (*deliberation.Parsed, bool) {
	scoreMatch := legacyScoreLine.FindStringSubmatch(raw)
	if len(scoreMatch) < 2 {
		return nil, false
	}
	parts := strings.Split(scoreMatch[1], ",")
	score := make(deliberation.ScoreVector, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || n < 0 {
			return nil, false
		}
		score = append(score, n)
	}
	if len(score) != k {
		return nil, false
	}
	justification := ""
	if m := legacyJustificationLine.FindStringSubmatch(raw); len(m) >= 2 {
		justification = strings.TrimSpace(m[1])
	}
	return &deliberation.Parsed{Score: score, Justification: justification}, true
}

// 5. Partial extraction: a standalone "score":[...] substring plus whatever
// printable text follows the first "justification": token.
func parsePartial(raw string, k int) (*deliberation.Parsed, bool) {
	m := scoreField.FindStringSubmatch(raw)
	if len(m) < 2 {
		return nil, false
	}
	parts := strings.Split(m[1], ",")
	score := make(deliberation.ScoreVector, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return nil, false
		}
		score = append(score, n)
	}
	if len(score) != k {
		return nil, false
	}
	justification := extractAfterJustificationToken(raw)
	return &deliberation.Parsed{Score: score, Justification: justification}, true
}

func extractAfterJustificationToken(raw string) string {
	loc := justificationField.FindStringIndex(raw)
	if loc == nil {
		return ""
	}
	rest := raw[loc[1]:]
	if idx := strings.LastIndex(rest, "}"); idx >= 0 {
		rest = rest[:idx]
	}
	rest = strings.TrimRight(rest, " \t\r\n,\"")
	return strings.TrimSpace(rest)
}

func decodeWire(s string, k int) (*deliberation.Parsed, bool) {
	if s == "" || !json.Valid([]byte(s)) {
		return nil, false
	}
	var w wireShape
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return nil, false
	}
	if len(w.Score) == 0 {
		return nil, false
	}
	return &deliberation.Parsed{Score: deliberation.ScoreVector(w.Score), Justification: w.Justification}, true
}
