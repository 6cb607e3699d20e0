package baserow

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// FilterType selects how multiple filters combine in a query.
type FilterType string

const (
	FilterAND FilterType = "AND"
	FilterOR  FilterType = "OR"
)

// Filter is an immutable (field, operator, value) predicate. Operator
// defaults to "equal" when constructed via NewFilter.
type Filter struct {
	fieldName string
	operator  string
	value     any
}

// NewFilter builds a Filter. operator may be empty, in which case it
// defaults to "equal".
func NewFilter(fieldName string, operator string, value any) (Filter, error) {
	if fieldName == "" {
		return Filter{}, newError(KindFilterError, "field_name must be a non-empty string")
	}
	if operator == "" {
		operator = "equal"
	}
	return Filter{fieldName: fieldName, operator: operator, value: value}, nil
}

func (f Filter) FieldName() string { return f.fieldName }
func (f Filter) Operator() string  { return f.operator }
func (f Filter) Value() any        { return f.value }

type filterDict struct {
	Field string `json:"field"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type filterTree struct {
	FilterType string        `json:"filter_type"`
	Filters    []filterDict  `json:"filters"`
	Groups     []interface{} `json:"groups"`
}

// buildFilterQueryParam encodes filters into the single `filters=` query
// parameter the Baserow row-list endpoint expects: a URL-JSON-encoded tree
// of {filter_type, filters:[{field,type,value}], groups:[]}. filterType
// defaults to AND when filters are present but filterType is empty.
func buildFilterQueryParam(filters []Filter, filterType FilterType) (string, error) {
	if len(filters) == 0 {
		return "", nil
	}
	if filterType == "" {
		filterType = FilterAND
	}
	if filterType != FilterAND && filterType != FilterOR {
		return "", newError(KindFilterError, fmt.Sprintf("filter_type must be AND or OR, got %q", filterType))
	}
	tree := filterTree{
		FilterType: string(filterType),
		Filters:    make([]filterDict, 0, len(filters)),
		Groups:     []interface{}{},
	}
	for _, f := range filters {
		tree.Filters = append(tree.Filters, filterDict{Field: f.fieldName, Type: f.operator, Value: f.value})
	}
	encoded, err := json.Marshal(tree)
	if err != nil {
		return "", newError(KindFilterError, "failed to encode filter tree").withWrapped(err)
	}
	return url.QueryEscape(string(encoded)), nil
}
