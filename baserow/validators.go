package baserow

import "fmt"

// operatorOwnerCounts maps each operator string to the number of registered
// field-type whitelists that publish it. Built from the zero value of every
// descriptor with a non-empty CompatibleOperators() set (the advisory types
// themselves — formula, generic, password — publish no operators and so
// never contribute). An operator with a count of exactly one belongs
// exclusively to a single field type and can never be valid for any other.
var operatorOwnerCounts = buildOperatorOwnerCounts()

func buildOperatorOwnerCounts() map[string]int {
	descriptors := []fieldDescriptor{
		stringDescriptor{}, phoneNumberDescriptor{}, boolDescriptor{}, numberDescriptor{},
		ratingDescriptor{}, dateDescriptor{}, fileDescriptor{}, singleSelectDescriptor{},
		multipleSelectDescriptor{}, linkRowDescriptor{}, countDescriptor{}, lookupDescriptor{},
		collaboratorsDescriptor{}, autonumberDescriptor{}, uuidDescriptor{},
	}
	counts := make(map[string]int)
	for _, d := range descriptors {
		for op := range d.CompatibleOperators() {
			counts[op]++
		}
	}
	return counts
}

// isExclusiveOperator reports whether op is published by exactly one
// registered field type's whitelist — e.g. "single_select_equal" belongs
// only to select fields, while "equal" is shared across most types and is
// not exclusive to any of them.
func isExclusiveOperator(op string) bool {
	return operatorOwnerCounts[op] == 1
}

// ValidateFilters checks a filter list against a table's schema: every
// field must exist, and if the field publishes a non-empty operator
// whitelist, the filter's operator must belong to it. Fields with an empty
// whitelist (formula, lookup's non-advisory siblings aside — generic,
// password) are treated as advisory: Baserow itself is the final arbiter of
// which operators a formula's result type accepts, so this package doesn't
// hard-reject what it can't resolve locally. It does still reject an
// operator it can positively identify as belonging to a different field
// type's whitelist exclusively (e.g. "single_select_equal" against a
// formula field), since that operator is never valid for anything but the
// type that publishes it.
func ValidateFilters(filters []Filter, fields *FieldList) error {
	for _, flt := range filters {
		field, ok := fields.ByName(flt.FieldName())
		if !ok {
			return newError(KindFilterError, fmt.Sprintf("filter references unknown field %q", flt.FieldName())).withField(flt.FieldName())
		}
		ops := field.CompatibleOperators()
		if len(ops) == 0 {
			if isExclusiveOperator(flt.Operator()) {
				return newError(KindFilterError, fmt.Sprintf(
					"operator %q belongs exclusively to another field type and is not valid for field %q of type %q", flt.Operator(), flt.FieldName(), field.Type(),
				)).withField(flt.FieldName())
			}
			continue
		}
		if !ops[flt.Operator()] {
			return newError(KindFilterError, fmt.Sprintf(
				"operator %q is not compatible with field %q of type %q", flt.Operator(), flt.FieldName(), field.Type(),
			)).withField(flt.FieldName())
		}
	}
	return nil
}
