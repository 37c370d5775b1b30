// Package agent contains the provider-backed core.Agent implementation and
// the agent registry used by the orchestrator.
//
// ModelAgent adapts any model.Model (Anthropic, OpenAI, mock) to the
// core.Agent contract:
//   - per-call timeout enforced via context
//   - shared conversation history converted to the two-party form providers
//     expect (other agents' turns become attributed user content)
//   - provider failures classified into core.AgentCallError kinds
//
// Registry keeps agents in registration order, which the strategies rely on
// for role selection.
package agent
