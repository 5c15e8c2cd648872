// Package model defines the gateway contract between the orchestrator and
// language model providers: a normalized request, a cancellable ordered
// stream of events (text deltas, incremental tool-call deltas, one explicit
// end-of-turn signal) and an error channel for fatal transport failures.
//
// Provider adapters live in subpackages (openai, anthropic, gollm); the
// ScriptedGateway in this package serves tests and examples.
package model
