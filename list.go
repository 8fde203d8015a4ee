package contract

import (
	"fmt"
	"strconv"
)

var listMessages = map[string]string{
	"invalid": "A valid list is required.",
	"empty":   "This list may not be empty.",
}

// ListField converts homogeneous sequences through a child element field.
// Loading walks every element and aggregates failures into a map keyed by
// element index, so one bad element does not hide the rest. Dumping maps
// the element's dump over the sequence unconditionally.
type ListField struct {
	baseField
	element  Field
	notEmpty bool
}

// List creates a list field converting each element with the given field.
func List(element Field, opts ...FieldOption) *ListField {
	if element == nil {
		panic("contract: List requires an element field")
	}

	f := &ListField{baseField: newBase(), element: element.clone()}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(listMessages)
	return f
}

func (f *ListField) Dump(value any) (any, error) { return f.dumpValue(value, f.dump) }
func (f *ListField) Load(value any) (any, error) { return f.loadValue(value, f.load) }

func (f *ListField) clone() Field {
	c := *f
	c.baseField = f.cloneBase()
	c.element = f.element.clone()
	return &c
}

func (f *ListField) bind(name string, parent *Schema) error {
	if err := f.baseField.bind(name, parent); err != nil {
		return err
	}
	return f.element.bind(name, parent)
}

func (f *ListField) load(value any) (any, error) {
	seq, ok := asSequence(value)
	if !ok {
		return nil, f.fail("invalid", nil)
	}
	if len(seq) == 0 && f.notEmpty {
		return nil, f.fail("empty", nil)
	}

	result := make([]any, len(seq))
	failures := make(map[string]*Error)

	for i, item := range seq {
		loaded, err := f.element.Load(item)
		if err != nil {
			verr, ok := AsValidationError(err)
			if !ok {
				return nil, err
			}
			failures[strconv.Itoa(i)] = verr
			continue
		}
		result[i] = loaded
	}

	if len(failures) > 0 {
		return nil, NewFieldErrors(failures)
	}
	return result, nil
}

func (f *ListField) dump(value any) (any, error) {
	seq, ok := asSequence(value)
	if !ok {
		return nil, fmt.Errorf("%w: %T as list", ErrDump, value)
	}

	result := make([]any, len(seq))
	for i, item := range seq {
		dumped, err := f.element.Dump(item)
		if err != nil {
			return nil, err
		}
		result[i] = dumped
	}
	return result, nil
}

// NotEmpty makes an empty sequence a load failure.
func NotEmpty() FieldOption {
	return func(f Field) {
		lf, ok := f.(*ListField)
		if !ok {
			optionPanic("NotEmpty", f)
		}
		lf.notEmpty = true
	}
}
