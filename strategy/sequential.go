package strategy

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcouncil/core"
)

type sequential struct{}

func (sequential) Kind() core.StrategyKind { return core.StrategySequential }

// Execute passes the growing conversation through every agent in order. The
// final agent's output is the result.
func (sequential) Execute(ctx context.Context, run *Run) (string, error) {
	var final string
	for i, a := range run.Agents {
		tag := fmt.Sprintf("step-%d", i+1)
		err := run.Phase(tag, func() error {
			resp, err := run.Step(ctx, a, tag, sequentialPrompt(i, len(run.Agents)))
			if err != nil {
				return err
			}
			final = resp.Content
			return nil
		})
		if err != nil {
			return "", err
		}
	}
	return final, nil
}
