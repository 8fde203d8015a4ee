package contract

import (
	"slices"
	"sync"
)

// NestedField embeds one schema inside another. The child schema is
// materialized lazily from the declared field list on first use, configured
// with this field's many/only/exclude settings (including dotted filters
// pushed down from the enclosing schema), and reused for every subsequent
// call. A nil-valued nested field short-circuits at the field layer and
// never invokes the child schema.
type NestedField struct {
	baseField

	def        Fields
	schemaOpts []SchemaOption
	many       bool
	only       []string
	exclude    []string

	once     sync.Once
	child    *Schema
	childErr error
}

// Nested creates a field converting through the schema declared by def.
func Nested(def Fields, opts ...FieldOption) *NestedField {
	f := &NestedField{baseField: newBase(), def: def}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(schemaMessages)
	return f
}

func (f *NestedField) Dump(value any) (any, error) { return f.dumpValue(value, f.dump) }
func (f *NestedField) Load(value any) (any, error) { return f.loadValue(value, f.load) }

func (f *NestedField) clone() Field {
	return &NestedField{
		baseField:  f.cloneBase(),
		def:        f.def,
		schemaOpts: slices.Clone(f.schemaOpts),
		many:       f.many,
		only:       slices.Clone(f.only),
		exclude:    slices.Clone(f.exclude),
	}
}

func (f *NestedField) childSchema() (*Schema, error) {
	f.once.Do(func() {
		opts := slices.Clone(f.schemaOpts)
		if f.many {
			opts = append(opts, WithMany())
		}
		if len(f.only) > 0 {
			opts = append(opts, WithOnly(f.only...))
		}
		if len(f.exclude) > 0 {
			opts = append(opts, WithExclude(f.exclude...))
		}

		child, err := New(f.def, opts...)
		if err != nil {
			f.childErr = err
			return
		}

		// Link the child into the schema chain so partial-load mode
		// propagates from the enclosing schema.
		child.name = f.name
		child.parent = f.parent
		f.child = child
	})
	return f.child, f.childErr
}

func (f *NestedField) load(value any) (any, error) {
	child, err := f.childSchema()
	if err != nil {
		return nil, err
	}
	return child.Load(value)
}

func (f *NestedField) dump(value any) (any, error) {
	child, err := f.childSchema()
	if err != nil {
		return nil, err
	}
	return child.Dump(value)
}

// Many makes a Nested field convert a sequence of child records.
func Many() FieldOption {
	return func(f Field) {
		nf, ok := f.(*NestedField)
		if !ok {
			optionPanic("Many", f)
		}
		nf.many = true
	}
}

// Only restricts the child schema of a Nested field to the named fields.
func Only(names ...string) FieldOption {
	return func(f Field) {
		nf, ok := f.(*NestedField)
		if !ok {
			optionPanic("Only", f)
		}
		nf.only = append(nf.only, names...)
	}
}

// Exclude drops the named fields from the child schema of a Nested field.
func Exclude(names ...string) FieldOption {
	return func(f Field) {
		nf, ok := f.(*NestedField)
		if !ok {
			optionPanic("Exclude", f)
		}
		nf.exclude = append(nf.exclude, names...)
	}
}

// ChildOptions forwards schema options (methods, hooks) to the lazily built
// child schema of a Nested field.
func ChildOptions(opts ...SchemaOption) FieldOption {
	return func(f Field) {
		nf, ok := f.(*NestedField)
		if !ok {
			optionPanic("ChildOptions", f)
		}
		nf.schemaOpts = append(nf.schemaOpts, opts...)
	}
}
