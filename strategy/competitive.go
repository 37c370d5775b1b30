package strategy

import (
	"context"
	"regexp"
	"strconv"

	"github.com/hupe1980/agentcouncil/core"
)

var verdictPattern = regexp.MustCompile(`(?i)WINNER:\s*Candidate\s*(\d+)`)

// ParseVerdict extracts the 1-based winning candidate index from a judge's
// text. ok is false when no verdict line is present or the index is outside
// [1, candidates].
func ParseVerdict(text string, candidates int) (int, bool) {
	m := verdictPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > candidates {
		return 0, false
	}
	return n, true
}

type competitive struct{}

func (competitive) Kind() core.StrategyKind { return core.StrategyCompetitive }

// Execute fans the prompt out and lets the last agent judge the answers. A
// single surviving candidate wins without a judging call; an unparseable
// verdict yields the judge's own text.
func (competitive) Execute(ctx context.Context, run *Run) (string, error) {
	candidates, err := independentAnswers(ctx, run)
	if err != nil {
		return "", err
	}
	if len(candidates) == 1 {
		return candidates[0].resp.Content, nil
	}

	judge := run.Agents[len(run.Agents)-1]
	var final string
	err = run.Phase("judging", func() error {
		history := []core.Message{core.NewUserMessage(candidateList(run.Request.UserPrompt(), "Candidate", candidates))}
		resp, err := run.Call(ctx, judge, TagJudge, history, judgePrompt)
		if err != nil {
			return err
		}
		run.record(resp)
		run.conv.Append(core.NewAssistantMessage(judge.Name(), TagJudge, resp.Content))

		if idx, ok := ParseVerdict(resp.Content, len(candidates)); ok {
			final = candidates[idx-1].resp.Content
			run.logger.Debug("strategy.competitive.winner", "run_id", run.ID, "agent", candidates[idx-1].agent.Name())
			return nil
		}
		run.logger.Warn("strategy.competitive.no_verdict", "run_id", run.ID, "judge", judge.Name())
		final = resp.Content
		return nil
	})
	return final, err
}
