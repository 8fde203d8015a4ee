package contract

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/contract/validator"
)

var schemaMessages = map[string]string{
	"invalid": "Invalid data. Expected a dictionary, but got {datatype}.",
}

// FieldDef names one declared field of a schema.
type FieldDef struct {
	Name  string
	Field Field
}

// Fields is an ordered schema field declaration. Order is significant: it
// fixes the order fields are bound, dumped, and loaded in.
type Fields []FieldDef

// Extend composes a derived field list from a base list and overrides:
// names redeclared by the overrides drop out of the base list and take the
// override's definition at the override's position; everything else keeps
// its original relative order. This is the registration-step equivalent of
// schema subclassing.
func Extend(base, overrides Fields) Fields {
	redeclared := make(map[string]struct{}, len(overrides))
	for _, def := range overrides {
		redeclared[def.Name] = struct{}{}
	}

	out := make(Fields, 0, len(base)+len(overrides))
	for _, def := range base {
		if _, ok := redeclared[def.Name]; ok {
			continue
		}
		out = append(out, def)
	}
	return append(out, overrides...)
}

// DumpMethod produces a primitive value from the whole record being dumped.
type DumpMethod func(record any) (any, error)

// LoadMethod produces a native value from one raw input value.
type LoadMethod func(value any) (any, error)

// MethodSet is one entry of a schema method table. Either direction may be
// nil, making a Method field referencing it one-directional.
type MethodSet struct {
	Dump DumpMethod
	Load LoadMethod
}

// Methods is a schema method table, resolved by Method fields at bind time.
type Methods map[string]MethodSet

// Schema is a composite field: a fixed, ordered set of named child fields
// plus dump/load orchestration. A Schema is built once, is read-only after
// construction, and is then safe for concurrent Dump and Load calls.
type Schema struct {
	baseField

	many    bool
	partial bool
	only    []string
	exclude []string
	methods Methods

	def  Fields
	opts []SchemaOption

	fields     []Field
	byName     map[string]Field
	dumpFields []Field
	loadFields []Field

	preDump      func(record any) any
	preDumpMany  func(records []any) []any
	postDump     func(result map[string]any, original any) map[string]any
	postDumpMany func(results []map[string]any, original any) []map[string]any
	preLoad      func(record map[string]any) map[string]any
	preLoadMany  func(records []any) []any
	postLoad     func(result map[string]any, original map[string]any) map[string]any
	postLoadMany func(results []map[string]any, original any) []map[string]any
	postValidate func(data any) error
}

// SchemaOption configures a schema during construction.
type SchemaOption func(*Schema) error

// New creates a schema from an ordered field declaration. Each declared
// field is cloned before binding, so the same declaration (and the same
// prototype field values) can back any number of schemas configured with
// different options.
func New(fields Fields, opts ...SchemaOption) (*Schema, error) {
	s := &Schema{baseField: newBase(), def: fields, opts: opts}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.finalize(schemaMessages)

	if err := s.prepareFields(fields); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is New with a fail-fast panic on configuration errors.
func MustNew(fields Fields, opts ...SchemaOption) *Schema {
	s, err := New(fields, opts...)
	if err != nil {
		panic(fmt.Sprintf("contract: failed to create schema: %v", err))
	}
	return s
}

// prepareFields runs once at construction: it splits dotted only/exclude
// entries and pushes the suffixes down onto the named nested fields, then
// binds every declared field in order and computes the active dump and load
// subsets.
func (s *Schema) prepareFields(fields Fields) error {
	topOnly, nestedOnly := splitDotted(s.only, true)
	topExclude, nestedExclude := splitDotted(s.exclude, false)

	s.fields = make([]Field, 0, len(fields))
	s.byName = make(map[string]Field, len(fields))

	for _, def := range fields {
		if def.Name == "" {
			return fmt.Errorf("contract: field with empty name in schema declaration")
		}
		if def.Field == nil {
			return fmt.Errorf("contract: field %q has no definition", def.Name)
		}
		if _, ok := s.byName[def.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateField, def.Name)
		}

		f := def.Field.clone()
		s.fields = append(s.fields, f)
		s.byName[def.Name] = f
	}

	// Nested filters must land on the nested field before it materializes
	// its child schema.
	for name, subs := range nestedOnly {
		if err := s.pushNestedFilter(name, subs, true); err != nil {
			return err
		}
	}
	for name, subs := range nestedExclude {
		if err := s.pushNestedFilter(name, subs, false); err != nil {
			return err
		}
	}

	active := make(map[string]struct{}, len(fields))
	if len(topOnly) > 0 {
		for _, name := range topOnly {
			active[name] = struct{}{}
		}
	} else {
		for _, def := range fields {
			active[def.Name] = struct{}{}
		}
	}
	for _, name := range topExclude {
		delete(active, name)
	}

	for i, def := range fields {
		f := s.fields[i]
		if err := f.bind(def.Name, s); err != nil {
			return err
		}

		if _, ok := active[def.Name]; !ok {
			continue
		}

		fb := f.base()
		if !fb.loadOnly {
			s.dumpFields = append(s.dumpFields, f)
		}
		if !fb.dumpOnly {
			s.loadFields = append(s.loadFields, f)
		}
	}

	return nil
}

func (s *Schema) pushNestedFilter(name string, subs []string, only bool) error {
	f, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("contract: nested filter references unknown field %q", name)
	}
	nf, ok := f.(*NestedField)
	if !ok {
		return fmt.Errorf("contract: nested filter references field %q which is not a nested field", name)
	}
	if only {
		nf.only = append(nf.only, subs...)
	} else {
		nf.exclude = append(nf.exclude, subs...)
	}
	return nil
}

// splitDotted partitions filter entries into top-level names and per-field
// dotted suffixes. When keepPrefix is set a dotted entry contributes its
// un-dotted prefix to the top-level set: an only filter naming "child.sub"
// must keep the child field itself active. Exclude filters pass false,
// since excluding part of a nested field must not drop the whole field.
func splitDotted(entries []string, keepPrefix bool) (top []string, nested map[string][]string) {
	nested = make(map[string][]string)
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		name, sub, dotted := strings.Cut(entry, ".")
		if dotted {
			nested[name] = append(nested[name], sub)
			if !keepPrefix {
				continue
			}
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		top = append(top, name)
	}
	return top, nested
}

// FieldNames returns the declared field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.base().name
	}
	return names
}

// effectivePartial reports whether partial-load mode applies to this
// schema: its own flag or any enclosing schema's, so a partial top-level
// load relaxes nested schemas too.
func (s *Schema) effectivePartial() bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.partial {
			return true
		}
	}
	return false
}

// Dump converts a native record (or, with WithMany, a sequence of records)
// into a primitive tree: nested maps keyed by each field's dump key. Dump
// never produces a validation failure; an error here wraps ErrDump and
// means the caller handed the schema a value it cannot represent.
func (s *Schema) Dump(data any) (any, error) {
	return s.dumpValue(data, s.dump)
}

func (s *Schema) dump(data any) (any, error) {
	if s.many {
		return s.dumpMany(data)
	}
	return s.dumpSingle(data)
}

func (s *Schema) dumpMany(data any) (any, error) {
	seq, ok := asSequence(data)
	if !ok {
		return nil, fmt.Errorf("%w: collection schema expects a sequence, got %T", ErrDump, data)
	}
	if s.preDumpMany != nil {
		seq = s.preDumpMany(seq)
	}

	results := make([]map[string]any, 0, len(seq))
	for _, record := range seq {
		result, err := s.dumpSingle(record)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if s.postDumpMany != nil {
		results = s.postDumpMany(results, data)
	}
	return results, nil
}

func (s *Schema) dumpSingle(record any) (map[string]any, error) {
	if s.preDump != nil {
		record = s.preDump(record)
	}

	result := make(map[string]any, len(s.dumpFields))
	for _, f := range s.dumpFields {
		fb := f.base()

		var value any
		var err error
		if rc, ok := f.(recordConverter); ok {
			value, err = rc.dumpRecord(record)
		} else {
			value, err = f.Dump(fieldValue(record, fb.name))
		}
		if err != nil {
			return nil, err
		}

		if !IsMissing(value) {
			result[fb.dumpTo] = value
		}
	}

	if s.postDump != nil {
		result = s.postDump(result, record)
	}
	return result, nil
}

// Load converts a primitive tree back into a native record (or sequence of
// records with WithMany), validating along the way. On failure the returned
// error is a *Error whose message tree is keyed by field name; failures are
// gathered across ALL active fields in one pass, and a failed load never
// yields a partially-built result.
func (s *Schema) Load(data any) (any, error) {
	if IsMissing(data) {
		if s.required {
			return nil, s.fail("required", nil)
		}
		return s.defaultVal(), nil
	}
	if data == nil {
		if s.allowNone {
			return nil, nil
		}
		return nil, s.fail("null", nil)
	}

	loaded, err := s.load(data)
	if err != nil {
		return nil, err
	}
	if err := s.validateRecord(loaded); err != nil {
		return nil, err
	}
	return loaded, nil
}

func (s *Schema) load(data any) (any, error) {
	if s.many {
		return s.loadMany(data)
	}
	return s.loadSingle(data)
}

func (s *Schema) loadMany(data any) (any, error) {
	seq, ok := asSequence(data)
	if !ok {
		return nil, s.fail("invalid", map[string]any{"datatype": typeName(data)})
	}
	if s.preLoadMany != nil {
		seq = s.preLoadMany(seq)
	}

	results := make([]map[string]any, 0, len(seq))
	for _, record := range seq {
		result, err := s.loadSingle(record)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if s.postLoadMany != nil {
		results = s.postLoadMany(results, data)
	}
	return results, nil
}

// loadSingle is the per-record state machine: every active load field is
// processed independently, per-field failures are tagged with the field
// name and accumulated, and only a pass with zero failures reaches the
// post-load hook and returns a result.
func (s *Schema) loadSingle(data any) (map[string]any, error) {
	record, ok := asRecordMap(data)
	if !ok {
		return nil, s.fail("invalid", map[string]any{"datatype": typeName(data)})
	}
	if s.preLoad != nil {
		record = s.preLoad(record)
	}

	partial := s.effectivePartial()
	result := make(map[string]any, len(s.loadFields))
	failures := make(map[string]*Error)

	for _, f := range s.loadFields {
		fb := f.base()

		raw := Missing
		if v, found := record[fb.loadFrom]; found {
			raw = v
		}

		// Partial mode skips absent fields entirely: no default, no
		// required failure, no output key.
		if partial && IsMissing(raw) {
			continue
		}

		value, err := f.Load(raw)
		if err != nil {
			verr, ok := AsValidationError(err)
			if !ok {
				return nil, err
			}
			failures[fb.name] = verr
			continue
		}

		if !IsMissing(value) {
			result[fb.name] = value
		}
	}

	if len(failures) > 0 {
		return nil, NewFieldErrors(failures)
	}

	if s.postLoad != nil {
		result = s.postLoad(result, record)
	}
	return result, nil
}

// validateRecord runs schema-level rules and the post-validate hook against
// the fully-loaded result, merging their failures into one field-keyed
// aggregate. Failures not attributable to a specific field land under the
// ContractKey entry.
func (s *Schema) validateRecord(data any) error {
	merged := make(map[string]*Error)

	mergeFailure := func(err error) error {
		if err == nil {
			return nil
		}
		verr, ok := AsValidationError(err)
		if !ok {
			return err
		}
		if verr.IsStructured() {
			for name, sub := range verr.fields {
				if existing, dup := merged[name]; dup {
					merged[name] = NewErrorList(existing, sub)
				} else {
					merged[name] = sub
				}
			}
			return nil
		}
		if existing, dup := merged[ContractKey]; dup {
			merged[ContractKey] = NewErrorList(existing, verr)
		} else {
			merged[ContractKey] = verr
		}
		return nil
	}

	if err := mergeFailure(s.validate(data)); err != nil {
		return err
	}
	if s.postValidate != nil {
		if err := mergeFailure(s.postValidate(data)); err != nil {
			return err
		}
	}

	if len(merged) > 0 {
		return NewFieldErrors(merged)
	}
	return nil
}

func (s *Schema) clone() Field {
	// Schemas are not mutated by binding beyond identity, but a declared
	// sub-schema still needs its own bound instance; rebuilding from the
	// original declaration is the safe way to get one.
	return MustNew(s.def, s.opts...)
}

// WithMany makes the schema operate over a sequence of records.
func WithMany() SchemaOption {
	return func(s *Schema) error {
		s.many = true
		return nil
	}
}

// WithOnly restricts the schema to the named fields. Dotted names
// ("child.sub") restrict the named nested field's own schema instead.
func WithOnly(names ...string) SchemaOption {
	return func(s *Schema) error {
		s.only = append(s.only, names...)
		return nil
	}
}

// WithExclude drops the named fields from the schema. Dotted names
// ("child.sub") drop fields from the named nested field's own schema.
func WithExclude(names ...string) SchemaOption {
	return func(s *Schema) error {
		s.exclude = append(s.exclude, names...)
		return nil
	}
}

// WithPartial skips fields absent from the input entirely during load: no
// default substitution and no required failure. Nested schemas inherit the
// mode from the schema they are loaded under.
func WithPartial() SchemaOption {
	return func(s *Schema) error {
		s.partial = true
		return nil
	}
}

// WithMethods installs the method table Method fields resolve against at
// bind time.
func WithMethods(methods Methods) SchemaOption {
	return func(s *Schema) error {
		if s.methods == nil {
			s.methods = make(Methods, len(methods))
		}
		for name, set := range methods {
			s.methods[name] = set
		}
		return nil
	}
}

// WithRules appends record-level validation rules, run against the
// fully-loaded result; their failures are reported under ContractKey.
func WithRules(rules ...validator.Rule) SchemaOption {
	return func(s *Schema) error {
		s.rules = append(s.rules, rules...)
		return nil
	}
}

// WithMessages overrides the schema's own error-message templates.
func WithMessages(messages map[string]string) SchemaOption {
	return func(s *Schema) error {
		if s.overrides == nil {
			s.overrides = make(map[string]string, len(messages))
		}
		for kind, template := range messages {
			s.overrides[kind] = template
		}
		return nil
	}
}

// WithPreDump installs a hook run on each record before its fields dump.
func WithPreDump(fn func(record any) any) SchemaOption {
	return func(s *Schema) error {
		s.preDump = fn
		return nil
	}
}

// WithPreDumpMany installs a hook run on the whole sequence before a
// collection dump.
func WithPreDumpMany(fn func(records []any) []any) SchemaOption {
	return func(s *Schema) error {
		s.preDumpMany = fn
		return nil
	}
}

// WithPostDump installs a hook run on each dumped result; it receives the
// original record and may replace the result.
func WithPostDump(fn func(result map[string]any, original any) map[string]any) SchemaOption {
	return func(s *Schema) error {
		s.postDump = fn
		return nil
	}
}

// WithPostDumpMany installs a hook run on the dumped sequence.
func WithPostDumpMany(fn func(results []map[string]any, original any) []map[string]any) SchemaOption {
	return func(s *Schema) error {
		s.postDumpMany = fn
		return nil
	}
}

// WithPreLoad installs a hook run on each input record before its fields
// load.
func WithPreLoad(fn func(record map[string]any) map[string]any) SchemaOption {
	return func(s *Schema) error {
		s.preLoad = fn
		return nil
	}
}

// WithPreLoadMany installs a hook run on the whole sequence before a
// collection load.
func WithPreLoadMany(fn func(records []any) []any) SchemaOption {
	return func(s *Schema) error {
		s.preLoadMany = fn
		return nil
	}
}

// WithPostLoad installs a hook run on each fully-loaded result; it receives
// the (pre-processed) input record and may replace the result. It only runs
// when every field loaded cleanly.
func WithPostLoad(fn func(result map[string]any, original map[string]any) map[string]any) SchemaOption {
	return func(s *Schema) error {
		s.postLoad = fn
		return nil
	}
}

// WithPostLoadMany installs a hook run on the loaded sequence.
func WithPostLoadMany(fn func(results []map[string]any, original any) []map[string]any) SchemaOption {
	return func(s *Schema) error {
		s.postLoadMany = fn
		return nil
	}
}

// WithPostValidate installs a record-level validation hook run after a
// clean load. A returned *Error is merged into the aggregate: structured
// failures keep their field keys, flat ones land under ContractKey.
func WithPostValidate(fn func(data any) error) SchemaOption {
	return func(s *Schema) error {
		s.postValidate = fn
		return nil
	}
}
