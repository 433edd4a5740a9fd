package ai

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	MinScore = 0
	MaxScore = 5
)

var (
	scorePattern       = regexp.MustCompile(`Score:\s*(\d+)`)
	explanationPattern = regexp.MustCompile(`(?s)Explanation:\s*(.*)`)
)

// ScoreResult is what the scoring model said about an answer.
// Either field is nil when the reply did not carry it.
type ScoreResult struct {
	Score       *int    `json:"score"`
	Explanation *string `json:"explanation"`
}

// Unscorable reports whether nothing usable could be read from the reply.
// It is different from a score of zero.
func (r ScoreResult) Unscorable() bool {
	return r.Score == nil && r.Explanation == nil
}

// ParseScoreResponse reads a reply written in the
//
//	Score: <0-5>
//	Explanation: <text>
//
// format. The two labels are looked up independently, so a reply with only one
// of them yields a partial result. A score outside [MinScore, MaxScore] is
// dropped. It never fails: missing fields are the only signal of a malformed reply.
func ParseScoreResponse(content string) ScoreResult {
	var res ScoreResult

	if m := scorePattern.FindStringSubmatch(content); m != nil {
		// Atoi fails on values that overflow int, which are out of range anyway
		if score, err := strconv.Atoi(m[1]); err == nil && score >= MinScore && score <= MaxScore {
			res.Score = &score
		}
	}

	if m := explanationPattern.FindStringSubmatch(content); m != nil {
		if explanation := strings.TrimSpace(m[1]); explanation != "" {
			res.Explanation = &explanation
		}
	}

	return res
}
