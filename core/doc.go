// Package core provides the foundational domain types and interfaces shared by
// every agentcouncil package. It defines:
//
//   - Agents (remote text-generation providers) and the Registry that owns them
//   - Messages and Conversations (ordered, append-only exchanges)
//   - Orchestration requests/results produced by the strategy engine
//   - Meeting agendas, turns, decisions and results produced by the scheduler
//   - Sessions (the facade's mutable view of the current run)
//   - Events (progress notifications published on the bus)
//   - The error taxonomy surfaced to callers
//
// The package intentionally keeps implementation concerns (provider clients,
// persistence, scheduling) out of scope, exposing small interfaces so that
// concrete packages can be swapped in tests or production.
package core
