package contract

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrymomot/contract/validator"
)

// Field is a single-value converter with validation and default/null policy.
// Dump converts native → primitive and by contract never produces a
// validation failure; an unrepresentable value is reported as a programming
// error wrapping ErrDump. Load converts primitive → native and fails with a
// *Error on invalid input.
//
// Fields are built by the package constructors (Integer, String, Nested,
// ...) and bound to a schema during New; the same unbound field value can be
// used as a prototype in any number of schemas because New clones it before
// binding.
type Field interface {
	Dump(value any) (any, error)
	Load(value any) (any, error)

	base() *baseField
	bind(name string, parent *Schema) error
	clone() Field
}

// recordConverter is implemented by fields whose dump output derives from
// the whole record rather than a single attribute (Method, Function).
type recordConverter interface {
	dumpRecord(record any) (any, error)
}

// baseField carries the policy shared by every field variant: identity and
// key aliases, direction restrictions, required/null/default handling,
// validation rules, and the merged error-message table.
type baseField struct {
	name   string
	parent *Schema

	dumpTo   string
	loadFrom string

	dumpOnly bool
	loadOnly bool

	required    bool
	requiredSet bool

	allowNone    bool
	allowNoneSet bool

	defaultValue any
	defaultFunc  func() any

	rules     []validator.Rule
	overrides map[string]string
	messages  map[string]string
}

func newBase() baseField {
	return baseField{defaultValue: Missing}
}

func (f *baseField) base() *baseField { return f }

// bind attaches the field to its owning schema. Key aliases default to the
// bound name when unset. Schemas call bind exactly once per field instance;
// prototypes stay unbound because New clones before binding.
func (f *baseField) bind(name string, parent *Schema) error {
	f.name = name
	f.parent = parent

	if f.dumpTo == "" {
		f.dumpTo = name
	}
	if f.loadFrom == "" {
		f.loadFrom = name
	}
	return nil
}

// finalize merges the message table (base defaults, then variant defaults,
// then user overrides) and resolves the required/allow-none policy:
// required defaults to true exactly when no default is configured, and null
// is allowed by default exactly when the default is a literal nil.
func (f *baseField) finalize(variantMessages map[string]string) {
	f.messages = mergeMessages(baseMessages, variantMessages, f.overrides)

	hasDefault := f.defaultFunc != nil || !IsMissing(f.defaultValue)
	if !f.requiredSet {
		f.required = !hasDefault
	}
	if !f.allowNoneSet {
		f.allowNone = f.defaultFunc == nil && !IsMissing(f.defaultValue) && f.defaultValue == nil
	}
}

func (f *baseField) cloneBase() baseField {
	c := *f
	c.rules = slices.Clone(f.rules)
	c.overrides = maps.Clone(f.overrides)
	c.messages = maps.Clone(f.messages)
	c.parent = nil
	return c
}

// defaultVal returns the configured default, invoking a producer default
// fresh on every call. Yields Missing when no default is configured.
func (f *baseField) defaultVal() any {
	if f.defaultFunc != nil {
		return f.defaultFunc()
	}
	return f.defaultValue
}

// fail builds the validation failure for an error kind from the merged
// message table. Requesting a kind absent from the table is a bug in the
// field implementation, not bad input, and panics.
func (f *baseField) fail(kind string, args map[string]any) *Error {
	template, ok := f.messages[kind]
	if !ok {
		panic(fmt.Sprintf("contract: error kind %q is not present in the error messages of field %q", kind, f.name))
	}
	return NewError(formatMessage(template, args))
}

// dumpValue runs the shared dump algorithm around a variant's converter:
// missing → default, nil → nil unconditionally, otherwise convert.
func (f *baseField) dumpValue(value any, conv func(any) (any, error)) (any, error) {
	if IsMissing(value) {
		return f.defaultVal(), nil
	}
	if value == nil {
		return nil, nil
	}
	return conv(value)
}

// loadValue runs the shared load algorithm around a variant's parser:
// nil → nil iff allowed, missing → required failure or default, otherwise
// parse then validate. Validation is skipped when the parser yields nil or
// missing (a blank string mapped to nil, a direction-less method field).
func (f *baseField) loadValue(value any, conv func(any) (any, error)) (any, error) {
	if IsMissing(value) {
		if f.required {
			return nil, f.fail("required", nil)
		}
		return f.defaultVal(), nil
	}

	if value == nil {
		if f.allowNone {
			return nil, nil
		}
		return nil, f.fail("null", nil)
	}

	converted, err := conv(value)
	if err != nil {
		return nil, err
	}
	if converted == nil || IsMissing(converted) {
		return converted, nil
	}

	if err := f.validate(converted); err != nil {
		return nil, err
	}
	return converted, nil
}

// validate runs every rule in order and collects all failures for the value
// into one aggregate instead of stopping at the first. A structured
// (field-keyed) failure from a rule propagates as-is so container-like
// custom rules can report sub-structure.
func (f *baseField) validate(value any) error {
	var collected []*Error

	for _, rule := range f.rules {
		err := rule(value)
		if err == nil {
			continue
		}

		if verr, ok := AsValidationError(err); ok {
			if verr.IsStructured() {
				return verr
			}
			collected = append(collected, verr)
			continue
		}

		if errors.Is(err, validator.ErrRuleFailed) {
			collected = append(collected, f.fail("validator_failed", nil))
			continue
		}

		collected = append(collected, NewError(err.Error()))
	}

	if len(collected) > 0 {
		return NewErrorList(collected...)
	}
	return nil
}

// FieldOption configures a field during construction. Options that only
// apply to a specific variant (Min, AllowBlank, ...) panic when attached to
// a field of the wrong kind; a misplaced option is a schema-definition bug.
type FieldOption func(Field)

// DumpOnly restricts the field to the dump direction.
func DumpOnly() FieldOption {
	return func(f Field) { f.base().dumpOnly = true }
}

// LoadOnly restricts the field to the load direction.
func LoadOnly() FieldOption {
	return func(f Field) { f.base().loadOnly = true }
}

// Required makes a missing input value a load failure even when a default
// is configured.
func Required() FieldOption {
	return func(f Field) {
		f.base().required = true
		f.base().requiredSet = true
	}
}

// Optional makes a missing input value fall back to the default (Missing
// when none is configured) instead of failing.
func Optional() FieldOption {
	return func(f Field) {
		f.base().required = false
		f.base().requiredSet = true
	}
}

// AllowNone lets an explicit null load as nil instead of failing.
func AllowNone() FieldOption {
	return func(f Field) {
		f.base().allowNone = true
		f.base().allowNoneSet = true
	}
}

// RejectNone makes an explicit null a load failure even when the default
// value is nil.
func RejectNone() FieldOption {
	return func(f Field) {
		f.base().allowNone = false
		f.base().allowNoneSet = true
	}
}

// DumpTo renames the output key used when dumping; defaults to the bound
// field name.
func DumpTo(key string) FieldOption {
	return func(f Field) { f.base().dumpTo = key }
}

// LoadFrom renames the input key consulted when loading; defaults to the
// bound field name.
func LoadFrom(key string) FieldOption {
	return func(f Field) { f.base().loadFrom = key }
}

// Default configures a constant default value. A nil default implicitly
// allows null on load.
func Default(value any) FieldOption {
	return func(f Field) { f.base().defaultValue = value }
}

// DefaultFunc configures a producer default, invoked fresh on every use.
func DefaultFunc(fn func() any) FieldOption {
	return func(f Field) { f.base().defaultFunc = fn }
}

// Rules appends validation rules, run in order against successfully
// converted values.
func Rules(rules ...validator.Rule) FieldOption {
	return func(f Field) {
		f.base().rules = append(f.base().rules, rules...)
	}
}

// Messages overrides error-message templates by kind, merged over the
// field's defaults.
func Messages(messages map[string]string) FieldOption {
	return func(f Field) {
		if f.base().overrides == nil {
			f.base().overrides = make(map[string]string, len(messages))
		}
		maps.Copy(f.base().overrides, messages)
	}
}

func optionPanic(option string, f Field) {
	panic(fmt.Sprintf("contract: option %s is not applicable to %T", option, f))
}
