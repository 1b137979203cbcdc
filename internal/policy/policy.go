// Package policy provides rule evaluation for command validation.
package policy

import "regexp"

// Category groups rules by the kind of damage they prevent.
// It is informational only and never consulted while matching.
type Category string

const (
	Versioning Category = "versioning"
	Platform   Category = "platform"
	Filesystem Category = "filesystem"
)

// Rule is a destructive-command pattern.
type Rule struct {
	Name        string
	Category    Category
	Description string
	Pattern     *regexp.Regexp
}

// Matches reports whether the pattern occurs anywhere in the command text.
func (r Rule) Matches(command string) bool {
	return r.Pattern.MatchString(command)
}

// Decision represents the result of evaluating a command against rules.
type Decision struct {
	Allowed bool
	Rule    *Rule
	Reason  string
}

// Policy holds an ordered set of rules and evaluates commands against them.
type Policy struct {
	rules []Rule
}

// New creates a policy that evaluates rules in the given order.
func New(rules ...Rule) *Policy {
	return &Policy{rules: append([]Rule(nil), rules...)}
}

// Evaluate runs all rules against the command. First rule that matches denies.
func (p *Policy) Evaluate(command string) Decision {
	if p == nil {
		return Decision{Allowed: true}
	}
	for i := range p.rules {
		rule := &p.rules[i]
		if rule.Matches(command) {
			return Decision{Allowed: false, Rule: rule, Reason: rule.Description}
		}
	}
	return Decision{Allowed: true}
}

// Rules returns a copy of the rules in evaluation order.
func (p *Policy) Rules() []Rule {
	if p == nil {
		return nil
	}
	return append([]Rule(nil), p.rules...)
}

var defaultPolicy = New(defaultRules()...)

// Default returns the built-in destructive-command policy.
func Default() *Policy {
	return defaultPolicy
}

// Classify evaluates the command against the default policy.
func Classify(command string) Decision {
	return defaultPolicy.Evaluate(command)
}

func defaultRules() []Rule {
	var rules []Rule
	rules = append(rules, versioningRules()...)
	rules = append(rules, platformRules()...)
	rules = append(rules, filesystemRules()...)
	return rules
}

func rule(name string, category Category, description, pattern string) Rule {
	return Rule{
		Name:        name,
		Category:    category,
		Description: description,
		Pattern:     regexp.MustCompile(pattern),
	}
}
