package policy

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tkingovr/promptserver/api"
)

// ValidateRules checks rule names, actions and glob syntax.
func ValidateRules(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for i, rule := range rules {
		if rule.Name == "" {
			return fmt.Errorf("rule %d: name is required", i)
		}
		if seen[rule.Name] {
			return fmt.Errorf("rule %q: duplicate name", rule.Name)
		}
		seen[rule.Name] = true

		if !api.Verdict(rule.Action).Valid() {
			return fmt.Errorf("rule %q: invalid action %q", rule.Name, rule.Action)
		}
		if rule.Match.Tool == "" && rule.Match.File == "" {
			return fmt.Errorf("rule %q: match.tool or match.file is required", rule.Name)
		}
		if rule.Match.Tool != "" && !doublestar.ValidatePattern(rule.Match.Tool) {
			return fmt.Errorf("rule %q: invalid tool pattern %q", rule.Name, rule.Match.Tool)
		}
		if rule.Match.File != "" && !doublestar.ValidatePattern(rule.Match.File) {
			return fmt.Errorf("rule %q: invalid file pattern %q", rule.Name, rule.Match.File)
		}
	}
	return nil
}
