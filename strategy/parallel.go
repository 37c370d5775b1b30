package strategy

import (
	"context"

	"github.com/hupe1980/agentcouncil/core"
)

// Conversation tags used by the fan-out strategies.
const (
	TagIndependent = "independent"
	TagSynthesizer = "synthesizer"
	TagJudge       = "judge"
)

type parallel struct{}

func (parallel) Kind() core.StrategyKind { return core.StrategyParallel }

// Execute fans the prompt out to every agent and lets the first agent merge
// the successful answers.
func (parallel) Execute(ctx context.Context, run *Run) (string, error) {
	candidates, err := independentAnswers(ctx, run)
	if err != nil {
		return "", err
	}

	synthesizer := run.Agents[0]
	var final string
	err = run.Phase("synthesis", func() error {
		history := []core.Message{core.NewUserMessage(candidateList(run.Request.UserPrompt(), "Answer", candidates))}
		resp, err := run.Call(ctx, synthesizer, TagSynthesizer, history, synthesisPrompt)
		if err != nil {
			return err
		}
		run.record(resp)
		run.conv.Append(core.NewAssistantMessage(synthesizer.Name(), TagSynthesizer, resp.Content))
		final = resp.Content
		return nil
	})
	return final, err
}

// independentAnswers runs the fan-out phase and fails with
// core.ErrAllAgentsFailed when nobody answered.
func independentAnswers(ctx context.Context, run *Run) ([]candidate, error) {
	var candidates []candidate
	err := run.Phase("fan-out", func() error {
		history := run.conv.Snapshot()
		candidates = fanOut(ctx, run, TagIndependent, history, independentPrompt)
		if len(candidates) == 0 {
			return core.ErrAllAgentsFailed
		}
		return nil
	})
	return candidates, err
}
