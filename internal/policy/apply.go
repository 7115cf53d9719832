package policy

import (
	"context"
	"fmt"

	"github.com/tkingovr/promptserver/api"
	"github.com/tkingovr/promptserver/internal/catalog"
)

// Decision records the verdict for one catalog entry.
type Decision struct {
	Entry  catalog.Entry
	Result *EvalResult
}

// Allowed reports whether the entry is exposed.
func (d Decision) Allowed() bool {
	return d.Result.Verdict == api.VerdictAllow
}

// Apply evaluates every entry once and returns the exposed entries in their
// original order alongside all decisions. A nil engine allows everything.
func Apply(ctx context.Context, engine Engine, entries []catalog.Entry) ([]catalog.Entry, []Decision, error) {
	exposed := make([]catalog.Entry, 0, len(entries))
	decisions := make([]Decision, 0, len(entries))

	for _, e := range entries {
		result := &EvalResult{Verdict: api.VerdictAllow, Rule: "_no_policy"}
		if engine != nil {
			var err error
			result, err = engine.Evaluate(ctx, &EvalInput{
				Tool:        e.Name,
				Description: e.Description,
				Source:      e.Source,
				Inline:      e.Inline(),
			})
			if err != nil {
				return nil, nil, fmt.Errorf("evaluating tool %q: %w", e.Name, err)
			}
		}

		d := Decision{Entry: e, Result: result}
		decisions = append(decisions, d)
		if d.Allowed() {
			exposed = append(exposed, e)
		}
	}

	return exposed, decisions, nil
}
