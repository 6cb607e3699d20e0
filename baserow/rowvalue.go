package baserow

import (
	"fmt"
	"time"
)

// RowValue is one typed cell: a raw wire value paired with a non-owning
// reference to its Field. It exposes a typed value view, a validated
// setter, and the Field's format-for-API conversion. The raw value is
// always one of: the server's last returned shape, a newly set and
// validated user value, or nil.
type RowValue struct {
	field *Field
	raw   any
}

func newRowValue(field *Field, raw any) *RowValue {
	return &RowValue{field: field, raw: raw}
}

// Name is the owning field's name.
func (rv *RowValue) Name() string { return rv.field.Name() }

// Field returns the non-owning Field reference this value is typed by.
func (rv *RowValue) Field() *Field { return rv.field }

// Value returns the cell's raw wire value unchanged; no per-type conversion
// is applied. Typed reads go through AsString, AsFloat, AsBool and AsTime.
func (rv *RowValue) Value() any { return rv.raw }

// IsReadOnly mirrors the owning Field's read-only discipline.
func (rv *RowValue) IsReadOnly() bool { return rv.field.IsReadOnly() }

// Set validates newValue against the Field and, on success, replaces the
// raw value in place. Setting a read-only cell always fails.
func (rv *RowValue) Set(newValue any) error {
	if rv.IsReadOnly() {
		return newError(KindReadOnlyValue, "cannot set read-only field").withField(rv.field.Name())
	}
	if err := rv.field.Validate(newValue); err != nil {
		return err
	}
	rv.raw = newValue
	return nil
}

// FormatForAPI returns the wire shape the server expects for this cell's
// current raw value.
func (rv *RowValue) FormatForAPI() (any, error) {
	return rv.field.FormatForAPI(rv.raw)
}

// AsString type-asserts the raw value as a string.
func (rv *RowValue) AsString() (string, bool) {
	s, ok := rv.raw.(string)
	return s, ok
}

// AsFloat type-asserts or converts the raw value to float64.
func (rv *RowValue) AsFloat() (float64, bool) {
	switch n := rv.raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// AsBool type-asserts the raw value as a bool.
func (rv *RowValue) AsBool() (bool, bool) {
	b, ok := rv.raw.(bool)
	return b, ok
}

// AsTime parses the raw value as an RFC3339 timestamp, for date-family cells.
func (rv *RowValue) AsTime() (time.Time, bool) {
	s, ok := rv.raw.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RowValueList is the ordered collection of RowValues for one Row, keyed by
// field name, in the style of FieldList's lookup-by-name.
type RowValueList struct {
	values []*RowValue
	byName map[string]*RowValue
}

func newRowValueList(values []*RowValue) *RowValueList {
	byName := make(map[string]*RowValue, len(values))
	for _, v := range values {
		byName[v.Name()] = v
	}
	return &RowValueList{values: values, byName: byName}
}

func (rl *RowValueList) ByName(name string) (*RowValue, bool) {
	v, ok := rl.byName[name]
	return v, ok
}

func (rl *RowValueList) Contains(name string) bool {
	_, ok := rl.byName[name]
	return ok
}

func (rl *RowValueList) Len() int { return len(rl.values) }

func (rl *RowValueList) All() []*RowValue { return rl.values }
