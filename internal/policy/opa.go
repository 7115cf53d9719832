package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/storage/inmem"
	"github.com/open-policy-agent/opa/v1/topdown"

	"github.com/tkingovr/promptserver/api"
)

// OPAEngine implements the Engine interface using embedded OPA/Rego.
type OPAEngine struct {
	query rego.PreparedEvalQuery
}

// NewOPAEngine creates a new OPA engine from a .rego policy file.
func NewOPAEngine(ctx context.Context, path string) (*OPAEngine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OPA policy file: %w", err)
	}
	return NewOPAEngineFromSource(ctx, string(data))
}

// NewOPAEngineFromSource creates a new OPA engine from raw Rego source.
func NewOPAEngineFromSource(ctx context.Context, source string) (*OPAEngine, error) {
	if _, err := ast.ParseModuleWithOpts("policy.rego", source, ast.ParserOptions{RegoVersion: ast.RegoV1}); err != nil {
		return nil, fmt.Errorf("parsing Rego policy: %w", err)
	}

	r := rego.New(
		rego.Query("data.promptserver"),
		rego.Module("policy.rego", source),
		rego.Store(inmem.New()),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("preparing OPA query: %w", err)
	}
	return &OPAEngine{query: query}, nil
}

// Evaluate runs the OPA policy against the given input.
//
// The Rego policy must define the following in package promptserver:
//
//	verdict: "allow" | "deny"
//	rule_name: string (optional)
//	message: string (optional)
//
// Input available to the policy:
//
//	input.tool: string
//	input.description: string
//	input.source: string
//	input.inline: bool
func (e *OPAEngine) Evaluate(ctx context.Context, input *EvalInput) (*EvalResult, error) {
	inputMap := map[string]any{
		"tool":        input.Tool,
		"description": input.Description,
		"source":      input.Source,
		"inline":      input.Inline,
	}

	rs, err := e.query.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		if topdown.IsError(err) {
			return &EvalResult{
				Verdict: api.VerdictDeny,
				Rule:    "_opa_error",
				Message: "OPA evaluation error: " + err.Error(),
			}, nil
		}
		return nil, fmt.Errorf("OPA evaluation failed: %w", err)
	}

	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return &EvalResult{
			Verdict: api.VerdictDeny,
			Rule:    "_opa_default",
			Message: "OPA policy returned no result",
		}, nil
	}

	resultMap, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return &EvalResult{
			Verdict: api.VerdictDeny,
			Rule:    "_opa_parse_error",
			Message: "unexpected OPA result type",
		}, nil
	}

	return parseOPAResult(resultMap), nil
}

func parseOPAResult(m map[string]any) *EvalResult {
	result := &EvalResult{
		Verdict: api.VerdictDeny,
	}

	if v, ok := m["verdict"].(string); ok && api.Verdict(v).Valid() {
		result.Verdict = api.Verdict(v)
	}
	if r, ok := m["rule_name"].(string); ok {
		result.Rule = r
	}
	if msg, ok := m["message"].(string); ok {
		result.Message = msg
	}

	return result
}
