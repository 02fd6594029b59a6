package validate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/samber/lo"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/schema"
)

func ruleEnv(doc schema.Document) map[string]any {
	extends := doc.Extends
	if extends == nil {
		extends = []string{}
	}
	content := doc.Content.Interface()
	if content == nil {
		content = map[string]any{}
	}
	return map[string]any{
		"name":    doc.Name,
		"tier":    string(doc.Tier),
		"extends": extends,
		"content": content,
	}
}

// RuleValidator compiles rule. The expression sees name, tier, extends and content and must
// evaluate to a boolean; false produces a finding with the rule's message and severity.
func RuleValidator(rule schema.ValidationRule) (DocumentValidatorFunc, error) {
	if rule.Expression == "" {
		return nil, fmt.Errorf("%w: rule '%s' has no expression", errUtils.ErrInvalidExpression, rule.Name)
	}

	sample := map[string]any{
		"name":    "",
		"tier":    "",
		"extends": []string{},
		"content": map[string]any{},
	}
	program, err := expr.Compile(rule.Expression, expr.Env(sample), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: rule '%s': %w", errUtils.ErrInvalidExpression, rule.Name, err)
	}

	severity := ParseSeverity(rule.Severity)
	message := rule.Message
	if message == "" {
		message = fmt.Sprintf("rule '%s' failed", rule.Name)
	}

	return func(doc schema.Document) ([]ValidationError, error) {
		if len(rule.Tiers) > 0 && !lo.Contains(rule.Tiers, doc.Tier) {
			return nil, nil
		}

		ok, err := evaluate(program, ruleEnv(doc))
		if err != nil {
			return []ValidationError{{
				Message: fmt.Sprintf("rule '%s' could not be evaluated: %v", rule.Name, err),
				Err:     errUtils.ErrInvalidExpression,
			}}, nil
		}
		if ok {
			return nil, nil
		}
		return []ValidationError{{Message: message, Severity: severity}}, nil
	}, nil
}

func evaluate(program *vm.Program, env map[string]any) (bool, error) {
	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression returned %T, not bool", out)
	}
	return result, nil
}
