package catalog

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule is a named boolean expression every catalog entry must satisfy.
//
// Expressions see the identifiers module, inverter, dcCollection,
// dcCombination, id and class as strings, e.g.
//
//	dcCombination != "lbd" || dcCollection == "trunk-bus"
type Rule struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Expression  string `json:"expression" yaml:"expression"`
}

// CompiledRule is a rule with its expression compiled.
type CompiledRule struct {
	Rule
	program *vm.Program
}

// Violation reports an entry rejected by a rule.
type Violation struct {
	Rule  Rule
	Entry Entry
	Err   error
}

func (v Violation) String() string {
	if v.Err != nil {
		return fmt.Sprintf("rule %s on %s: %v", v.Rule.ID, v.Entry.ID, v.Err)
	}
	if v.Rule.Description != "" {
		return fmt.Sprintf("entry %s violates %s (%s)", v.Entry.ID, v.Rule.ID, v.Rule.Description)
	}
	return fmt.Sprintf("entry %s violates %s", v.Entry.ID, v.Rule.ID)
}

func ruleEnv(entry Entry) map[string]interface{} {
	return map[string]interface{}{
		"module":        string(entry.Module),
		"inverter":      string(entry.Inverter),
		"dcCollection":  string(entry.DCCollection),
		"dcCombination": string(entry.DCCombination),
		"id":            entry.ID,
		"class":         string(entry.Class),
	}
}

// CompileRules compiles every rule expression.
func CompileRules(rules []Rule) ([]CompiledRule, error) {
	compiled := make([]CompiledRule, 0, len(rules))
	seen := make(map[string]struct{}, len(rules))
	for idx, rule := range rules {
		if strings.TrimSpace(rule.ID) == "" {
			return nil, fmt.Errorf("rule %d: id must not be empty", idx)
		}
		if _, dup := seen[rule.ID]; dup {
			return nil, fmt.Errorf("rule %s declared twice", rule.ID)
		}
		seen[rule.ID] = struct{}{}
		if strings.TrimSpace(rule.Expression) == "" {
			return nil, fmt.Errorf("rule %s: expression must not be empty", rule.ID)
		}
		program, err := expr.Compile(rule.Expression, expr.Env(ruleEnv(Entry{})), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		compiled = append(compiled, CompiledRule{Rule: rule, program: program})
	}
	return compiled, nil
}

// Allows evaluates the rule against an entry.
func (r CompiledRule) Allows(entry Entry) (bool, error) {
	if r.program == nil {
		return true, nil
	}
	out, err := expr.Run(r.program, ruleEnv(entry))
	if err != nil {
		return false, err
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("expression returned %T, want bool", out)
	}
	return ok, nil
}

// Check evaluates every rule against every entry and returns all violations.
func Check(entries []Entry, rules []CompiledRule) []Violation {
	var violations []Violation
	for _, entry := range entries {
		for _, rule := range rules {
			ok, err := rule.Allows(entry)
			if err != nil {
				violations = append(violations, Violation{Rule: rule.Rule, Entry: entry, Err: err})
				continue
			}
			if !ok {
				violations = append(violations, Violation{Rule: rule.Rule, Entry: entry})
			}
		}
	}
	return violations
}
