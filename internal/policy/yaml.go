package policy

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tkingovr/promptserver/api"
)

// YAMLEngine implements first-match-wins evaluation over rules declared in
// the config file.
type YAMLEngine struct {
	rules         []Rule
	defaultAction api.Verdict
}

// NewYAMLEngine validates rules and returns an engine. An empty default
// action means allow.
func NewYAMLEngine(rules []Rule, defaultAction api.Verdict) (*YAMLEngine, error) {
	if defaultAction == "" {
		defaultAction = api.VerdictAllow
	}
	if !defaultAction.Valid() {
		return nil, fmt.Errorf("invalid default action %q", defaultAction)
	}
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	return &YAMLEngine{
		rules:         append([]Rule(nil), rules...),
		defaultAction: defaultAction,
	}, nil
}

// Evaluate checks the input against rules in order, returning the first match.
func (e *YAMLEngine) Evaluate(_ context.Context, input *EvalInput) (*EvalResult, error) {
	for i := range e.rules {
		rule := &e.rules[i]
		if matches(rule, input) {
			return &EvalResult{
				Verdict: api.Verdict(rule.Action),
				Rule:    rule.Name,
				Message: rule.Message,
			}, nil
		}
	}

	return &EvalResult{
		Verdict: e.defaultAction,
		Rule:    "_default",
		Message: "no matching rule; default action applied",
	}, nil
}

func matches(rule *Rule, input *EvalInput) bool {
	if rule.Match.Tool != "" && !globMatch(rule.Match.Tool, input.Tool) {
		return false
	}
	if rule.Match.File != "" {
		// Inline entries have no file and never match a file pattern.
		if input.Inline || !globMatch(rule.Match.File, input.Source) {
			return false
		}
	}
	return true
}

func globMatch(pattern, value string) bool {
	matched, err := doublestar.Match(pattern, value)
	if err != nil {
		return false
	}
	return matched
}
