package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Rule validates a single value. A nil return means the value passed.
type Rule func(value any) error

// ErrRuleFailed is the generic failure signal for rules that carry no
// message of their own. Fields translate it into their configured
// "validator_failed" message.
var ErrRuleFailed = errors.New("validator: rule failed")

// By wraps an error-returning check as a Rule. It is the escape hatch for
// custom rules, including ones that report structured multi-field failures.
func By(check func(value any) error) Rule {
	return check
}

// Func wraps a boolean predicate as a Rule. A false result fails with
// ErrRuleFailed.
func Func(check func(value any) bool) Rule {
	return func(value any) error {
		if !check(value) {
			return ErrRuleFailed
		}
		return nil
	}
}

// Length validates that a value's length is within [min, max]. Strings are
// measured in runes; slices, arrays, and maps by element count. Pass a
// negative bound to leave that side open.
func Length(min, max int) Rule {
	return func(value any) error {
		n, ok := lengthOf(value)
		if !ok {
			return fmt.Errorf("cannot measure length of %T", value)
		}
		if min >= 0 && n < min {
			return fmt.Errorf("must be at least %d characters long", min)
		}
		if max >= 0 && n > max {
			return fmt.Errorf("must be at most %d characters long", max)
		}
		return nil
	}
}

// MinLength validates a lower length bound only.
func MinLength(min int) Rule {
	return Length(min, -1)
}

// MaxLength validates an upper length bound only.
func MaxLength(max int) Rule {
	return Length(-1, max)
}

func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), true
	case []any:
		return len(v), true
	case map[string]any:
		return len(v), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// Range validates that a numeric value is within [min, max].
func Range(min, max float64) Rule {
	return func(value any) error {
		n, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("must be a number, got %T", value)
		}
		if n < min {
			return fmt.Errorf("must be at least %v", min)
		}
		if n > max {
			return fmt.Errorf("must be at most %v", max)
		}
		return nil
	}
}

// Min validates a numeric lower bound only.
func Min(min float64) Rule {
	return func(value any) error {
		n, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("must be a number, got %T", value)
		}
		if n < min {
			return fmt.Errorf("must be at least %v", min)
		}
		return nil
	}
}

// Max validates a numeric upper bound only.
func Max(max float64) Rule {
	return func(value any) error {
		n, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("must be a number, got %T", value)
		}
		if n > max {
			return fmt.Errorf("must be at most %v", max)
		}
		return nil
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Matches validates string values against a regular expression. The pattern
// is compiled eagerly; an invalid pattern panics at construction, the same
// fail-fast behavior as regexp.MustCompile.
func Matches(pattern string) Rule {
	re := regexp.MustCompile(pattern)
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string, got %T", value)
		}
		if !re.MatchString(s) {
			return fmt.Errorf("must match pattern %s", pattern)
		}
		return nil
	}
}

// OneOf validates membership in a fixed set of allowed values.
func OneOf(choices ...any) Rule {
	return func(value any) error {
		for _, choice := range choices {
			if value == choice {
				return nil
			}
		}
		return fmt.Errorf("must be one of: %s", joinChoices(choices))
	}
}

func joinChoices(choices []any) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = fmt.Sprintf("%v", c)
	}
	return strings.Join(parts, ", ")
}

// UUID validates standard 36-character UUID format. Length and hyphen
// positions are checked before parsing to reject garbage cheaply.
func UUID() Rule {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string, got %T", value)
		}
		if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
			return errors.New("must be a valid UUID")
		}
		if _, err := uuid.Parse(s); err != nil {
			return errors.New("must be a valid UUID")
		}
		return nil
	}
}
