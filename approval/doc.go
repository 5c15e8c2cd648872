// Package approval implements the policy gate deciding whether a tool call
// proposal may execute immediately or needs explicit user confirmation.
// The gate is a pure decision function; the per-run approved set it consults
// is owned by the orchestrator.
package approval
