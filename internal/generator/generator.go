// Package generator defines the text-generation collaborator used by
// Phase 2 refinement: a capability that accepts an instruction and returns
// generated text plus token-usage counters.
//
// Implementations return transport and API failures as plain errors; the
// orchestrator classifies every generator error as "unavailable" and falls
// back to the structural text. Retries, if any, belong to the backend.
package generator

import (
	"context"
	"time"
)

// Request carries one generation call's instruction and sampling parameters.
type Request struct {
	Instruction string
	Temperature float64
	MaxTokens   int
}

// Result is a successful generation.
type Result struct {
	Text      string
	Model     string
	TokensIn  int
	TokensOut int
	Latency   time.Duration
}

// Generator is the generation capability contract.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Result, error)
}
