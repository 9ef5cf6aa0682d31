package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"
)

// Rule is a pure synchronous predicate over a field value. A nil result means
// the value satisfies the constraint. Rules other than Required treat the
// empty string as valid so presence stays the concern of Required alone.
type Rule func(value string) *Violation

// DateLayout is the wire format for date-valued fields.
const DateLayout = "2006-01-02"

var emailValidator = playground.New()

// Required fails on values that are empty after trimming whitespace.
func Required() Rule {
	return func(value string) *Violation {
		if strings.TrimSpace(value) == "" {
			return NewViolation(TagRequired)
		}
		return nil
	}
}

// MinLength fails on non-empty values shorter than n characters.
func MinLength(n int) Rule {
	return func(value string) *Violation {
		if value == "" {
			return nil
		}
		if len([]rune(value)) < n {
			return NewViolation(TagMinLength).WithParam("value", strconv.Itoa(n))
		}
		return nil
	}
}

// MaxLength fails on values longer than n characters.
func MaxLength(n int) Rule {
	return func(value string) *Violation {
		if len([]rune(value)) > n {
			return NewViolation(TagMaxLength).WithParam("value", strconv.Itoa(n))
		}
		return nil
	}
}

// Email performs a standard email shape check, delegating to the
// go-playground validator so the accepted shapes match common backends.
func Email() Rule {
	return func(value string) *Violation {
		if value == "" {
			return nil
		}
		if err := emailValidator.Var(value, "email"); err != nil {
			return NewViolation(TagEmail)
		}
		return nil
	}
}

// Pattern fails values that do not match the compiled expression.
func Pattern(expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("validate: compile pattern %q: %w", expr, err)
	}
	return func(value string) *Violation {
		if value == "" {
			return nil
		}
		if !re.MatchString(value) {
			return NewViolation(TagPattern).WithParam("pattern", expr)
		}
		return nil
	}, nil
}

// OneOf fails values outside the allowed option set. An empty option set
// accepts everything.
func OneOf(options []string) Rule {
	allowed := make(map[string]bool, len(options))
	for _, opt := range options {
		allowed[opt] = true
	}
	return func(value string) *Violation {
		if value == "" || len(allowed) == 0 {
			return nil
		}
		if !allowed[value] {
			return NewViolation(TagOption)
		}
		return nil
	}
}

// AgeRange interprets the value as a birth date and fails when the resulting
// age in whole years falls outside [min, max]. Empty values pass; values that
// do not parse as a date fail the same tag.
func AgeRange(min, max int) Rule {
	return AgeRangeAt(min, max, time.Now)
}

// AgeRangeAt is AgeRange with an injectable clock.
func AgeRangeAt(min, max int, now func() time.Time) Rule {
	return func(value string) *Violation {
		if value == "" {
			return nil
		}
		born, err := time.Parse(DateLayout, value)
		if err != nil {
			return ageViolation(min, max)
		}
		age := yearsBetween(born, now())
		if age < min || age > max {
			return ageViolation(min, max)
		}
		return nil
	}
}

func ageViolation(min, max int) *Violation {
	return NewViolation(TagAgeRange).
		WithParam("min", strconv.Itoa(min)).
		WithParam("max", strconv.Itoa(max))
}

// yearsBetween computes whole years elapsed from born to ref, counting the
// birthday itself as completed.
func yearsBetween(born, ref time.Time) int {
	years := ref.Year() - born.Year()
	anniversary := born.AddDate(years, 0, 0)
	if anniversary.After(ref) {
		years--
	}
	return years
}
