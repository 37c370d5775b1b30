// Package model defines the provider‑agnostic abstractions and concrete
// helpers for talking to language models inside agentcouncil.
//
// Core goals:
//   - Unify streaming + non‑streaming generation behind a single interface
//   - Report token usage and provider status codes in a uniform shape
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (Anthropic, OpenAI) implement the Model interface from this
// package so higher layers (agents, strategies, meetings) remain decoupled
// from vendor SDKs.
package model
