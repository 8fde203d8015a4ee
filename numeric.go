package contract

import (
	"fmt"
	"strconv"

	"github.com/dmitrymomot/contract/validator"
)

var integerMessages = map[string]string{
	"invalid":   "A valid integer is required.",
	"min_value": "Must be at least {min_value}.",
	"max_value": "Must be at most {max_value}.",
}

var floatMessages = map[string]string{
	"invalid":   "A valid number is required.",
	"min_value": "Must be at least {min_value}.",
	"max_value": "Must be at most {max_value}.",
}

// IntegerField converts whole numbers. Loading passes native integer input
// through, truncates floats, and parses decimal strings; loaded values are
// int64. Min/Max bounds are enforced through an appended range rule, not
// inline in the parser.
type IntegerField struct {
	baseField
	min *float64
	max *float64
}

// Integer creates an integer field.
func Integer(opts ...FieldOption) *IntegerField {
	f := &IntegerField{baseField: newBase()}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(integerMessages)

	if f.min != nil || f.max != nil {
		f.rules = append(f.rules, rangeRule(&f.baseField, f.min, f.max))
	}
	return f
}

func (f *IntegerField) Dump(value any) (any, error) { return f.dumpValue(value, f.dump) }
func (f *IntegerField) Load(value any) (any, error) { return f.loadValue(value, f.load) }

func (f *IntegerField) clone() Field {
	c := *f
	c.baseField = f.cloneBase()
	return &c
}

func (f *IntegerField) load(value any) (any, error) {
	n, ok := intValue(value)
	if !ok {
		return nil, f.fail("invalid", nil)
	}
	return n, nil
}

func (f *IntegerField) dump(value any) (any, error) {
	n, ok := intValue(value)
	if !ok {
		return nil, fmt.Errorf("%w: %T as integer", ErrDump, value)
	}
	return n, nil
}

// FloatField converts real numbers. Loading passes native numeric input
// through and parses decimal strings; loaded values are float64.
type FloatField struct {
	baseField
	min *float64
	max *float64
}

// Float creates a float field.
func Float(opts ...FieldOption) *FloatField {
	f := &FloatField{baseField: newBase()}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(floatMessages)

	if f.min != nil || f.max != nil {
		f.rules = append(f.rules, rangeRule(&f.baseField, f.min, f.max))
	}
	return f
}

func (f *FloatField) Dump(value any) (any, error) { return f.dumpValue(value, f.dump) }
func (f *FloatField) Load(value any) (any, error) { return f.loadValue(value, f.load) }

func (f *FloatField) clone() Field {
	c := *f
	c.baseField = f.cloneBase()
	return &c
}

func (f *FloatField) load(value any) (any, error) {
	n, ok := floatValue(value)
	if !ok {
		return nil, f.fail("invalid", nil)
	}
	return n, nil
}

func (f *FloatField) dump(value any) (any, error) {
	n, ok := floatValue(value)
	if !ok {
		return nil, fmt.Errorf("%w: %T as float", ErrDump, value)
	}
	return n, nil
}

// Min sets the lower bound of an Integer or Float field.
func Min(min float64) FieldOption {
	return func(f Field) {
		switch t := f.(type) {
		case *IntegerField:
			t.min = &min
		case *FloatField:
			t.min = &min
		default:
			optionPanic("Min", f)
		}
	}
}

// Max sets the upper bound of an Integer or Float field.
func Max(max float64) FieldOption {
	return func(f Field) {
		switch t := f.(type) {
		case *IntegerField:
			t.max = &max
		case *FloatField:
			t.max = &max
		default:
			optionPanic("Max", f)
		}
	}
}

// rangeRule enforces Min/Max bounds using the owning field's min_value and
// max_value message templates.
func rangeRule(f *baseField, min, max *float64) validator.Rule {
	return func(value any) error {
		n, ok := numericValue(value)
		if !ok {
			return nil
		}
		if min != nil && n < *min {
			return f.fail("min_value", map[string]any{"min_value": trimFloat(*min)})
		}
		if max != nil && n > *max {
			return f.fail("max_value", map[string]any{"max_value": trimFloat(*max)})
		}
		return nil
	}
}

// trimFloat renders a bound without a trailing ".0" so integer bounds read
// naturally in messages.
func trimFloat(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func intValue(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func floatValue(value any) (float64, bool) {
	if n, ok := numericValue(value); ok {
		return n, true
	}
	if s, ok := value.(string); ok {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// numericValue converts any native numeric type to float64. Strings and
// bools do not qualify.
func numericValue(value any) (float64, bool) {
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
