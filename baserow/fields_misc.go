package baserow

import (
	"context"
	"fmt"
)

// --- file --------------------------------------------------------------

type fileDescriptor struct{}

func newFileDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return fileDescriptor{}, nil
}

func (fileDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	list, ok := value.([]any)
	if !ok {
		return newError(KindFieldValidation, fmt.Sprintf("expected a list of file objects, got %T", value))
	}
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return newError(KindFieldValidation, "file list entries must be objects")
		}
		name, _ := m["name"].(string)
		if name == "" {
			return newError(KindFieldValidation, "file object is missing a non-empty 'name'")
		}
	}
	return nil
}

func (d fileDescriptor) FormatForAPI(value any) (any, error) {
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (fileDescriptor) CompatibleOperators() map[string]bool {
	return stringSetOperators("filename_contains", "has_file_type", "empty", "not_empty")
}
func (fileDescriptor) ForcedReadOnly() bool { return false }

func init() { registerDescriptor("file", newFileDescriptor) }

// --- link_row (table link) ----------------------------------------------

var linkRowOperators = stringSetOperators(
	"link_row_has", "link_row_has_not", "link_row_contains", "link_row_not_contains", "empty", "not_empty",
)

type linkRowDescriptor struct {
	targetTableID   int
	relatedFieldID  int
}

func newLinkRowDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return linkRowDescriptor{
		targetTableID:  toInt(data["link_row_table_id"]),
		relatedFieldID: toInt(data["link_row_related_field_id"]),
	}, nil
}

func (linkRowDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	switch value.(type) {
	case int, int64, float64, string, []any:
		return nil
	default:
		return newError(KindFieldValidation, fmt.Sprintf("unsupported value type %T for link_row field", value))
	}
}

// FormatForAPI normalizes an int, a (possibly comma-separated) string, or a
// list thereof into the list-of-row-ids shape the server accepts on write.
func (d linkRowDescriptor) FormatForAPI(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case int:
		return []int{v}, nil
	case int64:
		return []int{int(v)}, nil
	case float64:
		return []int{int(v)}, nil
	case string:
		return splitCommaInts(v)
	case []any:
		ids := make([]int, 0, len(v))
		for _, item := range v {
			switch n := item.(type) {
			case int, int64, float64:
				ids = append(ids, toInt(n))
			case string:
				parsed, err := splitCommaInts(n)
				if err != nil {
					return nil, err
				}
				ids = append(ids, parsed...)
			default:
				return nil, newError(KindFieldValidation, fmt.Sprintf("unsupported list element type %T for link_row field", item))
			}
		}
		return ids, nil
	default:
		return nil, newError(KindFieldValidation, fmt.Sprintf("unsupported value type %T for link_row field", value))
	}
}

func splitCommaInts(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	var ids []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			part := s[start:i]
			if part != "" {
				var n int
				if _, err := fmt.Sscanf(part, "%d", &n); err != nil {
					return nil, newError(KindFieldValidation, fmt.Sprintf("value %q is not a comma-separated list of row ids", s))
				}
				ids = append(ids, n)
			}
			start = i + 1
		}
	}
	return ids, nil
}

func (linkRowDescriptor) CompatibleOperators() map[string]bool { return linkRowOperators }
func (linkRowDescriptor) ForcedReadOnly() bool                  { return false }

func init() { registerDescriptor("link_row", newLinkRowDescriptor) }

// RelatedOptions fetches the related table's primary-field values, for
// callers populating a picker against a link_row field. It requires the
// Field to have been obtained through a Table (so it has a bound Client).
func (f *Field) RelatedOptions(ctx context.Context) ([]string, error) {
	link, ok := f.descriptor.(linkRowDescriptor)
	if !ok {
		return nil, newError(KindFieldValidation, "RelatedOptions is only valid for link_row fields").withField(f.name)
	}
	if f.client == nil {
		return nil, newError(KindFieldValidation, "field is not bound to a client").withField(f.name)
	}
	related := f.client.GetTable(link.targetTableID)
	fields, err := related.Fields(ctx)
	if err != nil {
		return nil, err
	}
	primary, err := fields.Primary()
	if err != nil {
		return nil, err
	}
	rows, err := related.GetRows(ctx, RowQuery{Include: []string{primary.Name()}})
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(rows))
	for _, r := range rows {
		rv, ok := r.Values().ByName(primary.Name())
		if !ok {
			continue
		}
		values = append(values, fmt.Sprintf("%v", rv.Value()))
	}
	return values, nil
}

// --- count (always read-only) -------------------------------------------

type countDescriptor struct {
	throughFieldID int
}

func newCountDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return countDescriptor{throughFieldID: toInt(data["through_field_id"])}, nil
}

func (countDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	n := toInt(value)
	switch value.(type) {
	case int, int64, float64:
	default:
		return newError(KindFieldValidation, fmt.Sprintf("expected int, got %T", value))
	}
	if n < 0 {
		return newError(KindFieldValidation, "count must be >= 0")
	}
	return nil
}

func (d countDescriptor) FormatForAPI(value any) (any, error) {
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (countDescriptor) CompatibleOperators() map[string]bool {
	return stringSetOperators("equal", "not_equal", "contains", "contains_not", "higher_than", "higher_than_or_equal", "lower_than", "lower_than_or_equal", "is_even_and_whole", "empty", "not_empty")
}
func (countDescriptor) ForcedReadOnly() bool { return true }

func init() { registerDescriptor("count", newCountDescriptor) }

// --- lookup (always read-only) ------------------------------------------

var lookupOperators = stringSetOperators(
	"has_empty_value", "has_not_empty_value", "has_value_equal", "has_not_value_equal",
	"has_value_contains", "has_not_value_contains", "has_value_contains_word",
	"has_not_value_contains_word", "has_value_length_is_lower_than",
)

type lookupDescriptor struct {
	throughFieldID int
	targetFieldID  int
}

func newLookupDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return lookupDescriptor{
		throughFieldID: toInt(data["through_field_id"]),
		targetFieldID:  toInt(data["target_field_id"]),
	}, nil
}

func (lookupDescriptor) Validate(value any) error { return nil }
func (lookupDescriptor) FormatForAPI(value any) (any, error) {
	return value, newError(KindReadOnlyValue, "lookup fields are read-only")
}
func (lookupDescriptor) CompatibleOperators() map[string]bool { return lookupOperators }
func (lookupDescriptor) ForcedReadOnly() bool                  { return true }

func init() { registerDescriptor("lookup", newLookupDescriptor) }

// --- formula (always read-only) -----------------------------------------

type formulaDescriptor struct {
	formula     string
	formulaType string
}

func newFormulaDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	formula, _ := data["formula"].(string)
	formulaType, _ := data["formula_type"].(string)
	return formulaDescriptor{formula: formula, formulaType: formulaType}, nil
}

func (formulaDescriptor) Validate(value any) error { return nil }
func (formulaDescriptor) FormatForAPI(value any) (any, error) {
	return value, newError(KindReadOnlyValue, "formula fields are read-only")
}

// CompatibleOperators is empty upstream; treated as advisory (§14) rather
// than authoritative, so ValidateFilters does not hard-fail on an unknown
// operator for this type.
func (formulaDescriptor) CompatibleOperators() map[string]bool { return map[string]bool{} }
func (formulaDescriptor) ForcedReadOnly() bool                  { return true }

func init() { registerDescriptor("formula", newFormulaDescriptor) }

// --- multiple_collaborators ----------------------------------------------

type collaboratorsDescriptor struct{}

func newCollaboratorsDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return collaboratorsDescriptor{}, nil
}

func (collaboratorsDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	list, ok := value.([]any)
	if !ok {
		return newError(KindFieldValidation, fmt.Sprintf("expected a list of collaborator objects, got %T", value))
	}
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return newError(KindFieldValidation, "collaborator list entries must be objects")
		}
		if _, ok := m["id"]; !ok {
			return newError(KindFieldValidation, "collaborator object is missing 'id'")
		}
	}
	return nil
}

func (d collaboratorsDescriptor) FormatForAPI(value any) (any, error) {
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (collaboratorsDescriptor) CompatibleOperators() map[string]bool {
	return stringSetOperators("multiple_collaborators_has", "multiple_collaborators_has_not", "empty", "not_empty")
}
func (collaboratorsDescriptor) ForcedReadOnly() bool { return false }

func init() { registerDescriptor("multiple_collaborators", newCollaboratorsDescriptor) }

// --- autonumber (server-assigned sequence, always read-only) -------------

type autonumberDescriptor struct{}

func newAutonumberDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return autonumberDescriptor{}, nil
}

func (autonumberDescriptor) Validate(value any) error { return nil }
func (autonumberDescriptor) FormatForAPI(value any) (any, error) {
	return value, newError(KindReadOnlyValue, "autonumber fields are read-only")
}
func (autonumberDescriptor) CompatibleOperators() map[string]bool {
	return stringSetOperators("equal", "not_equal", "higher_than", "lower_than", "empty", "not_empty")
}
func (autonumberDescriptor) ForcedReadOnly() bool { return true }

func init() { registerDescriptor("autonumber", newAutonumberDescriptor) }

// --- uuid (server-assigned identifier, always read-only) -----------------

type uuidDescriptor struct{}

func newUUIDDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return uuidDescriptor{}, nil
}

func (uuidDescriptor) Validate(value any) error { return nil }
func (uuidDescriptor) FormatForAPI(value any) (any, error) {
	return value, newError(KindReadOnlyValue, "uuid fields are read-only")
}
func (uuidDescriptor) CompatibleOperators() map[string]bool {
	return stringSetOperators("equal", "not_equal", "contains", "contains_not", "empty", "not_empty")
}
func (uuidDescriptor) ForcedReadOnly() bool { return true }

func init() { registerDescriptor("uuid", newUUIDDescriptor) }
