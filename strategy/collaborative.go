package strategy

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcouncil/core"
)

// Conversation tags used by the collaborative strategy.
const (
	TagArchitect = "architect"
	TagDeveloper = "developer"
	TagReviewer  = "reviewer"
)

type collaborative struct{}

func (collaborative) Kind() core.StrategyKind { return core.StrategyCollaborative }

// Execute casts architect, developer and reviewer round-robin over the
// available agents, so one agent may play several roles.
func (collaborative) Execute(ctx context.Context, run *Run) (string, error) {
	n := len(run.Agents)
	architect := run.Agents[0]
	developer := run.Agents[1%n]
	reviewer := run.Agents[2%n]
	maxRounds := run.Config.MaxRounds

	err := run.Phase("design", func() error {
		_, err := run.Step(ctx, architect, TagArchitect, architectDesignPrompt)
		return err
	})
	if err != nil {
		return "", err
	}

	for round := 1; round <= maxRounds; round++ {
		approved := false
		err := run.Phase(fmt.Sprintf("round-%d", round), func() error {
			if _, err := run.Step(ctx, developer, TagDeveloper, developerPrompt(round, maxRounds)); err != nil {
				return err
			}
			review, err := run.Step(ctx, reviewer, TagReviewer, reviewerPrompt(round, maxRounds))
			if err != nil {
				return err
			}
			approved = IsApproval(review.Content)
			return nil
		})
		if err != nil {
			return "", err
		}
		if approved {
			run.logger.Debug("strategy.collaborative.approved", "run_id", run.ID, "round", round)
			break
		}
	}

	var final string
	err = run.Phase("synthesis", func() error {
		resp, err := run.Step(ctx, architect, TagArchitect, architectSynthesisPrompt)
		if err != nil {
			return err
		}
		final = resp.Content
		return nil
	})
	return final, err
}
