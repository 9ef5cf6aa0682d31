package validate

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formflow/pkg/definition"
)

// Min fails numeric values below the limit. Values that do not parse as a
// number pass; type shape is the field's concern, not the bound's.
func Min(limit float64) Rule {
	return func(value string) *Violation {
		if value == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		if parsed < limit {
			return NewViolation(TagMin).WithParam("value", strconv.FormatFloat(limit, 'f', -1, 64))
		}
		return nil
	}
}

// Max fails numeric values above the limit.
func Max(limit float64) Rule {
	return func(value string) *Violation {
		if value == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		if parsed > limit {
			return NewViolation(TagMax).WithParam("value", strconv.FormatFloat(limit, 'f', -1, 64))
		}
		return nil
	}
}

// CompileField translates a definition field's declared constraints into
// executable rules. Rules the schema cannot express (age ranges, remote
// uniqueness checks) are attached separately by the caller.
func CompileField(field definition.Field) ([]Rule, error) {
	var rules []Rule

	if field.Required {
		rules = append(rules, Required())
	}

	for _, rule := range field.Validations {
		switch rule.Kind {
		case definition.ValidationRuleMinLength:
			n, err := intParam(rule, "value")
			if err != nil {
				return nil, err
			}
			rules = append(rules, MinLength(n))
		case definition.ValidationRuleMaxLength:
			n, err := intParam(rule, "value")
			if err != nil {
				return nil, err
			}
			rules = append(rules, MaxLength(n))
		case definition.ValidationRuleMin:
			limit, err := floatParam(rule, "value")
			if err != nil {
				return nil, err
			}
			rules = append(rules, Min(limit))
		case definition.ValidationRuleMax:
			limit, err := floatParam(rule, "value")
			if err != nil {
				return nil, err
			}
			rules = append(rules, Max(limit))
		case definition.ValidationRulePattern:
			compiled, err := Pattern(rule.Params["pattern"])
			if err != nil {
				return nil, err
			}
			rules = append(rules, compiled)
		case definition.ValidationRuleFormat:
			if rule.Params["format"] == "email" {
				rules = append(rules, Email())
			}
			// Other formats (date, uuid) are either covered by dedicated
			// rules the caller attaches or intentionally unchecked here.
		}
	}

	if len(field.Enum) > 0 {
		options := make([]string, 0, len(field.Enum))
		for _, value := range field.Enum {
			options = append(options, fmt.Sprint(value))
		}
		rules = append(rules, OneOf(options))
	}

	return rules, nil
}

func intParam(rule definition.ValidationRule, key string) (int, error) {
	raw := rule.Params[key]
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("validate: rule %s: bad %s %q: %w", rule.Kind, key, raw, err)
	}
	return value, nil
}

func floatParam(rule definition.ValidationRule, key string) (float64, error) {
	raw := rule.Params[key]
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("validate: rule %s: bad %s %q: %w", rule.Kind, key, raw, err)
	}
	return value, nil
}
