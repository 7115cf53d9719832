package policy

import "context"

// Engine decides whether a catalog entry is exposed to clients.
type Engine interface {
	// Evaluate checks an entry against loaded policies and returns a verdict.
	Evaluate(ctx context.Context, input *EvalInput) (*EvalResult, error)
}
