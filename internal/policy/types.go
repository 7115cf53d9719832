package policy

import "github.com/tkingovr/promptserver/api"

// Rule is a single exposure rule. Rules are evaluated in order and the
// first match decides.
type Rule struct {
	Name    string    `yaml:"name" json:"name"`
	Match   RuleMatch `yaml:"match" json:"match"`
	Action  string    `yaml:"action" json:"action"`
	Message string    `yaml:"message,omitempty" json:"message,omitempty"`
}

// RuleMatch specifies conditions for matching a catalog entry. Both fields
// are doublestar glob patterns; an empty field matches anything.
type RuleMatch struct {
	Tool string `yaml:"tool,omitempty" json:"tool,omitempty"`
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// EvalInput is the input to a policy engine evaluation.
type EvalInput struct {
	Tool        string `json:"tool"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	Inline      bool   `json:"inline,omitempty"`
}

// EvalResult is the output of a policy engine evaluation.
type EvalResult struct {
	Verdict api.Verdict `json:"verdict"`
	Rule    string      `json:"rule,omitempty"`
	Message string      `json:"message,omitempty"`
}
