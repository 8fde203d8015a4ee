package contract

import (
	"fmt"

	"github.com/google/uuid"
)

var uuidMessages = map[string]string{
	"invalid": "A valid UUID is required.",
}

// UUIDField converts UUIDs, represented natively as uuid.UUID. Loading
// accepts uuid.UUID values and canonical string form; dumping formats to
// the canonical 36-character string.
type UUIDField struct {
	baseField
}

// UUID creates a UUID field.
func UUID(opts ...FieldOption) *UUIDField {
	f := &UUIDField{baseField: newBase()}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(uuidMessages)
	return f
}

func (f *UUIDField) Dump(value any) (any, error) { return f.dumpValue(value, f.dump) }
func (f *UUIDField) Load(value any) (any, error) { return f.loadValue(value, f.load) }

func (f *UUIDField) clone() Field {
	c := *f
	c.baseField = f.cloneBase()
	return &c
}

func (f *UUIDField) load(value any) (any, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, f.fail("invalid", nil)
		}
		return id, nil
	}
	return nil, f.fail("invalid", nil)
}

func (f *UUIDField) dump(value any) (any, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v.String(), nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as UUID", ErrDump, v)
		}
		return id.String(), nil
	}
	return nil, fmt.Errorf("%w: %T as UUID", ErrDump, value)
}
