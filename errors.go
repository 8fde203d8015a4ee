package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ContractKey is the pseudo field name under which whole-record failures
// (contract-level validators, post-validate hooks) are reported, as opposed
// to failures attributable to a specific field.
const ContractKey = "_contract"

// Common construction and conversion errors. These indicate programming
// mistakes, not invalid input data, and are never part of a validation
// error tree.
var (
	// ErrUnboundField is returned when a field is asked to convert a value
	// before it has been bound to a schema.
	ErrUnboundField = errors.New("contract: field is not bound to a schema")

	// ErrDuplicateField is returned when a field list declares the same
	// name twice.
	ErrDuplicateField = errors.New("contract: duplicate field name")

	// ErrUnknownMethod is returned when a Method field references a name
	// missing from the schema's method table.
	ErrUnknownMethod = errors.New("contract: method is not registered on schema")

	// ErrDump is wrapped by dump conversion failures. Dump by contract never
	// produces a validation failure; a value the variant cannot represent is
	// a caller bug.
	ErrDump = errors.New("contract: cannot dump value")
)

// Error is a validation failure. It is a recursive tree: a leaf message, an
// ordered list of failures, or a map keyed by field name (nested maps
// describe nested schema failures). The tree shape survives JSON
// serialization unchanged, which makes the top-level error directly usable
// as a client-facing error body.
//
// Error values are returned, aggregated, and merged as ordinary errors;
// aggregation never relies on panics crossing schema boundaries.
type Error struct {
	message string
	list    []*Error
	fields  map[string]*Error
}

// NewError creates a leaf validation failure with a single message.
func NewError(message string) *Error {
	return &Error{message: message}
}

// NewErrorList combines several failures into one ordered failure. A single
// element collapses to that element, matching the flattening applied when a
// field's validators produce exactly one failure.
func NewErrorList(errs ...*Error) *Error {
	if len(errs) == 1 {
		return errs[0]
	}
	return &Error{list: errs}
}

// NewFieldErrors creates a failure keyed by field name. Values may themselves
// be leaves, lists, or nested field maps.
func NewFieldErrors(fields map[string]*Error) *Error {
	return &Error{fields: fields}
}

// IsStructured reports whether the failure is field-keyed (map-shaped).
// Structured failures raised by custom validators propagate through field
// validation as-is instead of being merged into the flat message list.
func (e *Error) IsStructured() bool {
	return e.fields != nil
}

// Error implements the error interface with a flat human-readable summary.
func (e *Error) Error() string {
	if e == nil {
		return "validation failed"
	}

	var parts []string
	e.walk("", func(field, message string) {
		if field == "" {
			parts = append(parts, message)
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", field, message))
		}
	})

	if len(parts) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) walk(prefix string, visit func(field, message string)) {
	switch {
	case e.fields != nil:
		names := make([]string, 0, len(e.fields))
		for name := range e.fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			key := name
			if prefix != "" {
				key = prefix + "." + name
			}
			e.fields[name].walk(key, visit)
		}
	case e.list != nil:
		for _, item := range e.list {
			item.walk(prefix, visit)
		}
	default:
		visit(prefix, e.message)
	}
}

// Messages returns the failure as a plain tree of Go values: a leaf or list
// becomes []string (or []any when it holds structured entries), a field map
// becomes map[string]any. The result round-trips through encoding/json
// without losing shape.
func (e *Error) Messages() any {
	switch {
	case e.fields != nil:
		out := make(map[string]any, len(e.fields))
		for name, sub := range e.fields {
			out[name] = sub.Messages()
		}
		return out
	case e.list != nil:
		flat := make([]string, 0, len(e.list))
		for _, item := range e.list {
			if item.fields != nil || item.list != nil {
				return e.mixedMessages()
			}
			flat = append(flat, item.message)
		}
		return flat
	default:
		return []string{e.message}
	}
}

func (e *Error) mixedMessages() []any {
	out := make([]any, 0, len(e.list))
	for _, item := range e.list {
		if item.fields == nil && item.list == nil {
			out = append(out, item.message)
			continue
		}
		out = append(out, item.Messages())
	}
	return out
}

// MarshalJSON serializes the message tree.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Messages())
}

// Has reports whether the failure carries messages for the given field.
// Returns false for non-structured failures.
func (e *Error) Has(field string) bool {
	return e.fields != nil && e.fields[field] != nil
}

// Get returns the flat messages recorded for a field, or nil when the
// failure is not structured or the field is clean.
func (e *Error) Get(field string) []string {
	if !e.Has(field) {
		return nil
	}
	if msgs, ok := e.fields[field].Messages().([]string); ok {
		return msgs
	}
	return nil
}

// Field returns the sub-failure recorded for a field, or nil.
func (e *Error) Field(field string) *Error {
	if e.fields == nil {
		return nil
	}
	return e.fields[field]
}

// FieldNames returns the sorted field names carrying failures.
func (e *Error) FieldNames() []string {
	if e.fields == nil {
		return nil
	}
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AsValidationError extracts a validation failure from an error chain.
// It returns nil, false for programming errors, which lets callers separate
// "bad input data" from "bad code" with one check.
func AsValidationError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
