package baserow

import "fmt"

// selectOption is one entry of a select field's declared options.
type selectOption struct {
	id    int
	value string
}

func parseSelectOptions(name string, data map[string]any) ([]selectOption, error) {
	raw, ok := data["select_options"]
	if !ok {
		return nil, newError(KindFieldValidation, "select field requires select_options").withField(name)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, newError(KindFieldValidation, "select_options must be a list").withField(name)
	}
	options := make([]selectOption, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, newError(KindFieldValidation, "select_options entries must be objects").withField(name)
		}
		opt := selectOption{id: toInt(m["id"]), value: fmt.Sprintf("%v", m["value"])}
		options = append(options, opt)
	}
	return options, nil
}

func findOption(options []selectOption, idOrValue any) (selectOption, bool) {
	switch v := idOrValue.(type) {
	case int, int64, float64:
		id := toInt(v)
		for _, o := range options {
			if o.id == id {
				return o, true
			}
		}
	case string:
		for _, o := range options {
			if o.value == v {
				return o, true
			}
		}
	}
	return selectOption{}, false
}

var singleSelectOperators = stringSetOperators(
	"contains", "contains_not", "contains_word", "doesnt_contain_word",
	"single_select_equal", "single_select_not_equal", "empty", "not_empty",
)

type singleSelectDescriptor struct {
	options []selectOption
}

func newSingleSelectDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	options, err := parseSelectOptions(name, data)
	if err != nil {
		return nil, err
	}
	return singleSelectDescriptor{options: options}, nil
}

func (d singleSelectDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	if _, ok := findOption(d.options, value); !ok {
		return newError(KindFieldValidation, fmt.Sprintf("value %v is not one of this field's select options", value))
	}
	return nil
}

// FormatForAPI resolves the user-supplied id-or-value to the wire shape:
// the server expects an option id on write, a {id,value} object on read.
func (d singleSelectDescriptor) FormatForAPI(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	opt, ok := findOption(d.options, value)
	if !ok {
		return nil, newError(KindFieldValidation, fmt.Sprintf("value %v is not one of this field's select options", value))
	}
	return opt.id, nil
}

func (singleSelectDescriptor) CompatibleOperators() map[string]bool { return singleSelectOperators }
func (singleSelectDescriptor) ForcedReadOnly() bool                  { return false }

func init() { registerDescriptor("single_select", newSingleSelectDescriptor) }

var multipleSelectOperators = stringSetOperators(
	"contains", "contains_not", "contains_word", "doesnt_contain_word",
	"multiple_select_has", "multiple_select_has_not", "empty", "not_empty",
)

type multipleSelectDescriptor struct {
	options []selectOption
}

func newMultipleSelectDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	options, err := parseSelectOptions(name, data)
	if err != nil {
		return nil, err
	}
	return multipleSelectDescriptor{options: options}, nil
}

func (d multipleSelectDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	list, ok := value.([]any)
	if !ok {
		return newError(KindFieldValidation, fmt.Sprintf("expected a list of option ids or values, got %T", value))
	}
	for _, item := range list {
		if _, ok := findOption(d.options, item); !ok {
			return newError(KindFieldValidation, fmt.Sprintf("value %v is not one of this field's select options", item))
		}
	}
	return nil
}

func (d multipleSelectDescriptor) FormatForAPI(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, newError(KindFieldValidation, fmt.Sprintf("expected a list of option ids or values, got %T", value))
	}
	ids := make([]int, 0, len(list))
	for _, item := range list {
		opt, ok := findOption(d.options, item)
		if !ok {
			return nil, newError(KindFieldValidation, fmt.Sprintf("value %v is not one of this field's select options", item))
		}
		ids = append(ids, opt.id)
	}
	return ids, nil
}

func (multipleSelectDescriptor) CompatibleOperators() map[string]bool { return multipleSelectOperators }
func (multipleSelectDescriptor) ForcedReadOnly() bool                  { return false }

func init() { registerDescriptor("multiple_select", newMultipleSelectDescriptor) }
