package contract

import (
	"fmt"

	"github.com/dmitrymomot/contract/sanitizer"
	"github.com/dmitrymomot/contract/validator"
)

var stringMessages = map[string]string{
	"blank":      "This field may not be blank.",
	"min_length": "Shorter than minimum length {min_length}.",
	"max_length": "Longer than maximum length {max_length}.",
}

// StringField converts text. Loading coerces scalar input to a string,
// trims whitespace unless disabled, runs any configured sanitize pipeline,
// and applies the blank policy: a blank result fails unless blanks are
// allowed, or maps to nil when the field allows null.
type StringField struct {
	baseField
	allowBlank bool
	noTrim     bool
	minLen     *int
	maxLen     *int
	transforms []func(string) string
}

// String creates a string field.
func String(opts ...FieldOption) *StringField {
	f := &StringField{baseField: newBase()}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(stringMessages)

	if f.minLen != nil || f.maxLen != nil {
		f.rules = append(f.rules, lengthRule(&f.baseField, f.minLen, f.maxLen))
	}
	return f
}

func (f *StringField) Dump(value any) (any, error) { return f.dumpValue(value, f.dump) }
func (f *StringField) Load(value any) (any, error) { return f.loadValue(value, f.load) }

func (f *StringField) clone() Field {
	c := *f
	c.baseField = f.cloneBase()
	c.transforms = append([]func(string) string(nil), f.transforms...)
	return &c
}

func (f *StringField) load(value any) (any, error) {
	s := stringify(value)

	if !f.noTrim {
		s = sanitizer.Trim(s)
	}
	s = sanitizer.Apply(s, f.transforms...)

	if s == "" && !f.allowBlank {
		if f.allowNone {
			return nil, nil
		}
		return nil, f.fail("blank", nil)
	}
	return s, nil
}

func (f *StringField) dump(value any) (any, error) {
	return stringify(value), nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AllowBlank lets an empty string load as-is instead of failing.
func AllowBlank() FieldOption {
	return func(f Field) {
		sf, ok := f.(*StringField)
		if !ok {
			optionPanic("AllowBlank", f)
		}
		sf.allowBlank = true
	}
}

// NoTrim disables the default whitespace trimming on load.
func NoTrim() FieldOption {
	return func(f Field) {
		sf, ok := f.(*StringField)
		if !ok {
			optionPanic("NoTrim", f)
		}
		sf.noTrim = true
	}
}

// Sanitize appends string transforms applied on load after trimming and
// before the blank check.
func Sanitize(transforms ...func(string) string) FieldOption {
	return func(f Field) {
		sf, ok := f.(*StringField)
		if !ok {
			optionPanic("Sanitize", f)
		}
		sf.transforms = append(sf.transforms, transforms...)
	}
}

// MinLen sets the minimum loaded length of a String field.
func MinLen(min int) FieldOption {
	return func(f Field) {
		sf, ok := f.(*StringField)
		if !ok {
			optionPanic("MinLen", f)
		}
		sf.minLen = &min
	}
}

// MaxLen sets the maximum loaded length of a String field.
func MaxLen(max int) FieldOption {
	return func(f Field) {
		sf, ok := f.(*StringField)
		if !ok {
			optionPanic("MaxLen", f)
		}
		sf.maxLen = &max
	}
}

// lengthRule enforces MinLen/MaxLen using the owning field's min_length and
// max_length message templates.
func lengthRule(f *baseField, min, max *int) validator.Rule {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		if min != nil && len([]rune(s)) < *min {
			return f.fail("min_length", map[string]any{"min_length": *min})
		}
		if max != nil && len([]rune(s)) > *max {
			return f.fail("max_length", map[string]any{"max_length": *max})
		}
		return nil
	}
}
