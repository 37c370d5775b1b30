package strategy

import (
	"fmt"
	"strings"
)

// approvalPhrases signal reviewer consensus. Matching is a case-insensitive
// substring test; "not approved" also matches.
var approvalPhrases = []string{
	"looks good",
	"lgtm",
	"approved",
	"ship it",
	"no further changes",
}

// IsApproval reports whether a reviewer's text contains an approval phrase.
func IsApproval(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range approvalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

const (
	architectDesignPrompt = `You are the software architect in a team of AI agents.
Produce an initial design for the user's request: components, responsibilities, data flow and key trade-offs.
Be concrete. The developer will implement your design next.`

	developerPromptFormat = `You are the developer in a team of AI agents (round %d of %d).
Implement or refine the solution following the architect's design and the reviewer's latest feedback.
Return the complete, updated solution.`

	reviewerPromptFormat = `You are the code reviewer in a team of AI agents (round %d of %d).
Critique the developer's latest solution for correctness, clarity and completeness.
If it is ready, say "LGTM" or "looks good". Otherwise list the concrete changes required.`

	architectSynthesisPrompt = `You are the software architect in a team of AI agents.
The discussion is finished. Synthesize the whole conversation into the final answer for the user.
Include the final design and solution; omit review chatter.`

	sequentialFirstPrompt = `You are the first agent in a sequential pipeline of %d AI agents.
Give a thorough initial answer to the user's request. Later agents will refine your work.`

	sequentialMiddlePrompt = `You are agent %d of %d in a sequential pipeline of AI agents.
Review and improve the answers so far. Fix mistakes, fill gaps and return an improved answer.`

	sequentialFinalPrompt = `You are the final agent (%d of %d) in a sequential pipeline of AI agents.
Produce the definitive, polished answer to the user's request based on everything above.`

	independentPrompt = `Answer the user's request independently and completely.`

	synthesisPrompt = `You merge several independent answers to the same request into one answer.
Keep what they agree on, resolve contradictions and combine the best ideas.`

	judgePrompt = `You judge several candidate answers to the same request.
Score each candidate for correctness, completeness and clarity, then state the best one.
End with a line of the exact form "WINNER: Candidate N" where N is the candidate number.`
)

func developerPrompt(round, maxRounds int) string {
	return fmt.Sprintf(developerPromptFormat, round, maxRounds)
}

func reviewerPrompt(round, maxRounds int) string {
	return fmt.Sprintf(reviewerPromptFormat, round, maxRounds)
}

func sequentialPrompt(index, total int) string {
	switch {
	case index == total-1:
		return fmt.Sprintf(sequentialFinalPrompt, index+1, total)
	case index == 0:
		return fmt.Sprintf(sequentialFirstPrompt, total)
	default:
		return fmt.Sprintf(sequentialMiddlePrompt, index+1, total)
	}
}

// candidateList renders the original prompt followed by numbered answers.
func candidateList(prompt, heading string, candidates []candidate) string {
	var b strings.Builder
	b.WriteString("Original request:\n")
	b.WriteString(prompt)
	for i, c := range candidates {
		fmt.Fprintf(&b, "\n\n%s %d (%s):\n%s", heading, i+1, c.agent.Name(), c.resp.Content)
	}
	return b.String()
}
