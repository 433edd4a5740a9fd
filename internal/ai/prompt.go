package ai

import (
	"fmt"
)

// BuildScorePrompt builds the grading prompt for a transcribed answer.
// Question, reference and transcript are embedded verbatim.
func BuildScorePrompt(question, reference, transcript string) string {
	return fmt.Sprintf(`You are an experienced interview coach.

Here is a mock interview question:
Question: %s

Here is the correct/reference answer:
%s

Here is the candidate's answer:
%s

Based **only on the reference answer** (its content, scope, and detail), please give a score from %d to %d and explain briefly why. Do not penalize the candidate for things not mentioned in the reference.

Give a score from **%d to %d**, where:
- %d = Excellent alignment with the reference
- %d = No meaningful alignment

Respond in this format:
Score: <%d-%d>
Explanation: <your very short evaluation>`,
		question, reference, transcript,
		MinScore, MaxScore,
		MinScore, MaxScore,
		MaxScore, MinScore,
		MinScore, MaxScore)
}
