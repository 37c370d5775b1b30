package strategy

import (
	"context"
	"sync"

	"github.com/hupe1980/agentcouncil/core"
	"golang.org/x/sync/semaphore"
)

// candidate is one successful fan-out answer.
type candidate struct {
	agent core.Agent
	resp  *core.AgentResponse
}

// fanOut sends the same history to every agent concurrently. Each call fails
// independently; failures are reported as events and dropped. Successful
// answers are recorded and returned in agent order regardless of completion
// order.
func fanOut(ctx context.Context, run *Run, phase string, history []core.Message, systemPrompt string) []candidate {
	results := make([]*core.AgentResponse, len(run.Agents))

	var sem *semaphore.Weighted
	if run.Config.MaxConcurrency > 0 {
		sem = semaphore.NewWeighted(int64(run.Config.MaxConcurrency))
	}

	var wg sync.WaitGroup
	for i, a := range run.Agents {
		wg.Add(1)
		go func(i int, a core.Agent) {
			defer wg.Done()

			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					run.emit(core.EventProviderError, map[string]any{"agent": a.Name(), "phase": phase, "error": err.Error()})
					return
				}
				defer sem.Release(1)
			}

			resp, err := run.Call(ctx, a, phase, history, systemPrompt)
			if err != nil {
				return
			}
			results[i] = resp
		}(i, a)
	}
	wg.Wait()

	out := make([]candidate, 0, len(results))
	for i, resp := range results {
		if resp == nil {
			continue
		}
		run.record(resp)
		run.conv.Append(core.NewAssistantMessage(run.Agents[i].Name(), phase, resp.Content))
		out = append(out, candidate{agent: run.Agents[i], resp: resp})
	}
	return out
}
