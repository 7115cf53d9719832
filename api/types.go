package api

// Verdict is the outcome of an exposure policy evaluation.
type Verdict string

const (
	VerdictAllow Verdict = "allow"
	VerdictDeny  Verdict = "deny"
)

// Valid reports whether v is a known verdict.
func (v Verdict) Valid() bool {
	return v == VerdictAllow || v == VerdictDeny
}

// ToolInfo describes one catalog entry as printed by the `list` command.
type ToolInfo struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Path        string  `json:"path,omitempty" yaml:"path,omitempty"`
	Inline      bool    `json:"inline,omitempty" yaml:"inline,omitempty"`
	Verdict     Verdict `json:"verdict" yaml:"verdict"`
	Rule        string  `json:"rule,omitempty" yaml:"rule,omitempty"`
	Message     string  `json:"message,omitempty" yaml:"message,omitempty"`
}
