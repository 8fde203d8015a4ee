package contract

import "fmt"

// MethodField derives its value from schema-level callables instead of a
// stored attribute. The dump callable receives the whole record being
// dumped; the load callable receives the raw input value. A direction
// without a callable yields the Missing sentinel, making the field
// effectively one-directional without any error.
type MethodField struct {
	baseField

	methodName string
	dumpFn     DumpMethod
	loadFn     LoadMethod
}

// Method creates a field resolved by name against the owning schema's
// method table (see WithMethods) at bind time. A name missing from the
// table is a schema-definition error.
func Method(name string, opts ...FieldOption) *MethodField {
	if name == "" {
		panic("contract: Method requires a method name")
	}

	f := &MethodField{baseField: newBase(), methodName: name}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(nil)
	return f
}

// Function creates a field converting through directly supplied callables.
// Either direction may be nil; both nil is a definition error.
func Function(dump DumpMethod, load LoadMethod, opts ...FieldOption) *MethodField {
	if dump == nil && load == nil {
		panic("contract: Function requires at least one direction")
	}

	f := &MethodField{baseField: newBase(), dumpFn: dump, loadFn: load}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(nil)
	return f
}

func (f *MethodField) clone() Field {
	c := *f
	c.baseField = f.cloneBase()
	return &c
}

func (f *MethodField) bind(name string, parent *Schema) error {
	if err := f.baseField.bind(name, parent); err != nil {
		return err
	}

	if f.methodName != "" {
		set, ok := parent.methods[f.methodName]
		if !ok {
			return fmt.Errorf("%w: %q (field %q)", ErrUnknownMethod, f.methodName, name)
		}
		f.dumpFn = set.Dump
		f.loadFn = set.Load
	}
	return nil
}

// dumpRecord implements the record-level dump used by schemas.
func (f *MethodField) dumpRecord(record any) (any, error) {
	if f.dumpFn == nil {
		return Missing, nil
	}
	return f.dumpFn(record)
}

// Dump treats the given value as the record when the field is used
// directly, outside a schema.
func (f *MethodField) Dump(value any) (any, error) {
	return f.dumpRecord(value)
}

func (f *MethodField) Load(value any) (any, error) {
	if f.loadFn == nil {
		return Missing, nil
	}
	return f.loadValue(value, func(v any) (any, error) {
		return f.loadFn(v)
	})
}
