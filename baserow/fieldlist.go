package baserow

import (
	"fmt"
	"sort"
	"strings"
)

// FieldList is the ordered collection of Fields for one table, grounded on
// the upstream FieldList's linear lookup-by-name with a logged, raised
// not-found on miss, and its truncated String() for large tables.
type FieldList struct {
	fields []*Field
	byName map[string]*Field
}

func newFieldList(fields []*Field) *FieldList {
	byName := make(map[string]*Field, len(fields))
	for _, f := range fields {
		byName[f.Name()] = f
	}
	return &FieldList{fields: fields, byName: byName}
}

func (fl *FieldList) String() string {
	names := fl.Names()
	if len(names) <= 5 {
		return fmt.Sprintf("FieldList(%s)", strings.Join(names, ", "))
	}
	return fmt.Sprintf("FieldList(%s, …)", strings.Join(names[:5], ", "))
}

// ByName returns the Field with the given name, or ok=false if absent.
func (fl *FieldList) ByName(name string) (*Field, bool) {
	f, ok := fl.byName[name]
	return f, ok
}

// Contains reports whether a field by that name exists.
func (fl *FieldList) Contains(name string) bool {
	_, ok := fl.byName[name]
	return ok
}

func (fl *FieldList) Len() int { return len(fl.fields) }

// All returns the fields in server-declared order (not sorted by Order()).
func (fl *FieldList) All() []*Field { return fl.fields }

// Names returns field names sorted by schema Order, with fields lacking an
// order value sorted last.
func (fl *FieldList) Names() []string {
	sorted := make([]*Field, len(fl.fields))
	copy(sorted, fl.fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, iok := sorted[i].Order()
		oj, jok := sorted[j].Order()
		if iok != jok {
			return iok // fields with an order sort before those without
		}
		if !iok {
			return false
		}
		return oi < oj
	})
	names := make([]string, len(sorted))
	for i, f := range sorted {
		names[i] = f.Name()
	}
	return names
}

// Primary returns the unique Field marked primary, failing if none exists.
func (fl *FieldList) Primary() (*Field, error) {
	for _, f := range fl.fields {
		if f.IsPrimary() {
			return f, nil
		}
	}
	return nil, newError(KindFetch, "table has no primary field")
}
