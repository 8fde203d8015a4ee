package contract

import (
	"fmt"
	"time"
)

var dateMessages = map[string]string{
	"invalid": "A valid date is required.",
}

var dateTimeMessages = map[string]string{
	"invalid": "A valid datetime is required.",
}

// Layouts accepted when loading datetime strings without an explicit
// offset. Ordered most to least specific; naive values are interpreted in
// the field's default location (UTC unless configured).
var naiveDateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Layouts accepted when loading datetime strings carrying a zone.
var zonedDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// Layouts accepted when loading date strings.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"20060102",
}

// DateField converts calendar dates, represented natively as a time.Time
// truncated to midnight UTC. Loading accepts time.Time values (truncated)
// and the common ISO date spellings, including full datetime strings whose
// time part is discarded.
type DateField struct {
	baseField
}

// Date creates a date field.
func Date(opts ...FieldOption) *DateField {
	f := &DateField{baseField: newBase()}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(dateMessages)
	return f
}

func (f *DateField) Dump(value any) (any, error) { return f.dumpValue(value, f.dump) }
func (f *DateField) Load(value any) (any, error) { return f.loadValue(value, f.load) }

func (f *DateField) clone() Field {
	c := *f
	c.baseField = f.cloneBase()
	return &c
}

func (f *DateField) load(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return truncateToDate(v), nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
				return t, nil
			}
		}
		// Datetime input is acceptable for a date; the time part is dropped.
		if t, ok := parseDateTime(v, time.UTC); ok {
			return truncateToDate(t), nil
		}
	}
	return nil, f.fail("invalid", nil)
}

func (f *DateField) dump(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("%w: %T as date", ErrDump, value)
	}
	return t.Format("2006-01-02"), nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateTimeField converts instants. Loading accepts time.Time values and ISO
// 8601 strings with or without an offset; offset-less strings are
// interpreted in the field's default location (UTC unless configured with
// DefaultLocation).
type DateTimeField struct {
	baseField
	loc *time.Location
}

// DateTime creates a datetime field.
func DateTime(opts ...FieldOption) *DateTimeField {
	f := &DateTimeField{baseField: newBase()}
	for _, opt := range opts {
		opt(f)
	}
	f.finalize(dateTimeMessages)
	return f
}

func (f *DateTimeField) Dump(value any) (any, error) { return f.dumpValue(value, f.dump) }
func (f *DateTimeField) Load(value any) (any, error) { return f.loadValue(value, f.load) }

func (f *DateTimeField) clone() Field {
	c := *f
	c.baseField = f.cloneBase()
	return &c
}

func (f *DateTimeField) location() *time.Location {
	if f.loc != nil {
		return f.loc
	}
	return time.UTC
}

func (f *DateTimeField) load(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, ok := parseDateTime(v, f.location()); ok {
			return t, nil
		}
	}
	return nil, f.fail("invalid", nil)
}

func (f *DateTimeField) dump(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("%w: %T as datetime", ErrDump, value)
	}
	return t.Format(time.RFC3339), nil
}

func parseDateTime(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range zonedDateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DefaultLocation sets the location applied to offset-less datetime input.
func DefaultLocation(loc *time.Location) FieldOption {
	return func(f Field) {
		df, ok := f.(*DateTimeField)
		if !ok {
			optionPanic("DefaultLocation", f)
		}
		df.loc = loc
	}
}
