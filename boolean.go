package contract

import "fmt"

var booleanMessages = map[string]string{
	"invalid": "A valid boolean is required.",
}

var (
	truthy = map[string]struct{}{
		"t": {}, "T": {}, "true": {}, "True": {}, "TRUE": {}, "1": {},
	}
	falsy = map[string]struct{}{
		"f": {}, "F": {}, "false": {}, "False": {}, "FALSE": {}, "0": {},
	}
)

// BooleanField converts booleans. Besides native bools, both directions
// recognize the fixed string and numeric spellings of true and false
// ("true", "TRUE", "1", 1, ...); anything else fails to load.
type BooleanField struct {
	baseField
}

// Boolean creates a boolean field.
func Boolean(opts ...FieldOption) *BooleanField {
	f := &BooleanField{baseField: newBase()}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(booleanMessages)
	return f
}

func (f *BooleanField) Dump(value any) (any, error) { return f.dumpValue(value, f.dump) }
func (f *BooleanField) Load(value any) (any, error) { return f.loadValue(value, f.load) }

func (f *BooleanField) clone() Field {
	c := *f
	c.baseField = f.cloneBase()
	return &c
}

func (f *BooleanField) load(value any) (any, error) {
	if b, ok := sentinelBool(value); ok {
		return b, nil
	}
	return nil, f.fail("invalid", nil)
}

func (f *BooleanField) dump(value any) (any, error) {
	if b, ok := sentinelBool(value); ok {
		return b, nil
	}

	// Dump falls back to plain truthiness for strings and numbers outside
	// the sentinel sets.
	switch v := value.(type) {
	case string:
		return v != "", nil
	default:
		if n, ok := numericValue(value); ok {
			return n != 0, nil
		}
	}
	return nil, fmt.Errorf("%w: %T as boolean", ErrDump, value)
}

func sentinelBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		if _, ok := truthy[v]; ok {
			return true, true
		}
		if _, ok := falsy[v]; ok {
			return false, true
		}
		return false, false
	}

	if n, ok := numericValue(value); ok {
		if n == 1 {
			return true, true
		}
		if n == 0 {
			return false, true
		}
	}
	return false, false
}
