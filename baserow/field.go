package baserow

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldDescriptor is the per-type behavior a Field dispatches to. Field
// types are expressed as tagged variants dispatching through a descriptor
// table (type tag -> descriptor), rather than a deep class hierarchy;
// Generic is the default descriptor for unrecognized type tags.
type fieldDescriptor interface {
	// Validate reports whether value is acceptable for this field type.
	Validate(value any) error
	// FormatForAPI validates value and returns its wire shape. The default
	// behavior (validate, then return as-is) is overridden by types whose
	// wire shape differs from their input shape (select, link_row, …).
	FormatForAPI(value any) (any, error)
	// CompatibleOperators is the filter-operator whitelist for this type.
	CompatibleOperators() map[string]bool
	// ForcedReadOnly reports whether this type is read-only regardless of
	// the server's read_only flag (last_modified, created_on, formula,
	// count, lookup, autonumber, uuid).
	ForcedReadOnly() bool
}

type descriptorFactory func(name string, data map[string]any) (fieldDescriptor, error)

var descriptorRegistry = map[string]descriptorFactory{}

func registerDescriptor(typeTag string, factory descriptorFactory) {
	descriptorRegistry[typeTag] = factory
}

// Field is the schema descriptor for one column, built once when a Table
// first loads its schema and immutable thereafter for the Table's lifetime.
type Field struct {
	name       string
	data       map[string]any
	typeTag    string
	descriptor fieldDescriptor
	client     *Client // non-owning; set by Table when the schema is loaded
}

// bindClient attaches the owning Client so descriptors that need to issue
// their own requests (TableLinkField's related-table lookup) can do so.
// Field holds this as a non-owning reference, mirroring the Row/Table/Client
// relation described in the design notes. A generic (fallback) descriptor
// also picks up the client's logger here and announces itself once, the way
// upstream GenericField.__init__ logs the unsupported type immediately.
func (f *Field) bindClient(c *Client) {
	f.client = c
	if gd, ok := f.descriptor.(*genericDescriptor); ok && c != nil {
		gd.logger = c.logger
		gd.logger.Warnf("initialized a generic field %q for unsupported type %q", gd.name, gd.typeTag)
	}
}

// NewField constructs a Field from one record of the table's field-list
// response. Unknown type tags degrade to the Generic descriptor rather than
// failing, per the catalogue's fallback rule.
func NewField(name string, data map[string]any) (*Field, error) {
	if name == "" {
		return nil, newError(KindFieldValidation, "field name must not be empty")
	}
	if data == nil {
		return nil, newError(KindFieldValidation, "field data must not be nil").withField(name)
	}
	typeTag, _ := data["type"].(string)
	factory, ok := descriptorRegistry[typeTag]
	if !ok {
		factory = newGenericDescriptor
	}
	descriptor, err := factory(name, data)
	if err != nil {
		return nil, err
	}
	return &Field{name: name, data: data, typeTag: typeTag, descriptor: descriptor}, nil
}

func (f *Field) Name() string { return f.name }

func (f *Field) ID() (int, bool) {
	v, ok := f.data["id"]
	if !ok {
		return 0, false
	}
	return toInt(v), true
}

func (f *Field) TableID() (int, bool) {
	v, ok := f.data["table_id"]
	if !ok {
		return 0, false
	}
	return toInt(v), true
}

func (f *Field) Order() (int, bool) {
	v, ok := f.data["order"]
	if !ok || v == nil {
		return 0, false
	}
	return toInt(v), true
}

func (f *Field) Type() string { return f.typeTag }

func (f *Field) IsPrimary() bool {
	b, _ := f.data["primary"].(bool)
	return b
}

// IsReadOnly reports whether the server marked this field read_only, or
// whether the type is intrinsically read-only regardless of that flag.
func (f *Field) IsReadOnly() bool {
	if f.descriptor.ForcedReadOnly() {
		return true
	}
	b, _ := f.data["read_only"].(bool)
	return b
}

// Attr retrieves a raw schema attribute by key (e.g. "number_decimal_places").
func (f *Field) Attr(key string) (any, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *Field) Validate(value any) error {
	return f.descriptor.Validate(value)
}

// FormatForAPI validates value and returns the wire shape the server
// expects on write. format_for_api(v) is idempotent with respect to
// validate: the returned shape must itself be acceptable to Validate.
func (f *Field) FormatForAPI(value any) (any, error) {
	return f.descriptor.FormatForAPI(value)
}

func (f *Field) CompatibleOperators() map[string]bool {
	return f.descriptor.CompatibleOperators()
}

// --- shared helpers -------------------------------------------------------

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

func stringSetOperators(ops ...string) map[string]bool {
	m := make(map[string]bool, len(ops))
	for _, o := range ops {
		m[o] = true
	}
	return m
}

var textLikeOperators = stringSetOperators(
	"equal", "not_equal", "contains", "contains_not", "contains_word",
	"doesnt_contain_word", "length_is_lower_than", "empty", "not_empty",
)

// --- text, long_text, url, email -----------------------------------------

type stringDescriptor struct{}

func newStringDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return stringDescriptor{}, nil
}

func (stringDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(string); !ok {
		return newError(KindFieldValidation, fmt.Sprintf("expected string or nil, got %T", value))
	}
	return nil
}

func (d stringDescriptor) FormatForAPI(value any) (any, error) {
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (stringDescriptor) CompatibleOperators() map[string]bool { return textLikeOperators }
func (stringDescriptor) ForcedReadOnly() bool                 { return false }

func init() {
	registerDescriptor("text", newStringDescriptor)
	registerDescriptor("long_text", newStringDescriptor)
	registerDescriptor("url", newStringDescriptor)
	registerDescriptor("email", newStringDescriptor)
}

// --- phone_number ----------------------------------------------------------

const phoneNumberPattern = `^[0-9 Nx,._+*()#=;/-]{1,100}$`

type phoneNumberDescriptor struct{}

func newPhoneNumberDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return phoneNumberDescriptor{}, nil
}

func (phoneNumberDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return newError(KindFieldValidation, fmt.Sprintf("expected string or nil, got %T", value))
	}
	if s == "" {
		return nil
	}
	if !phoneNumberRegexMatch(s) {
		return newError(KindFieldValidation, fmt.Sprintf("value %q does not match phone number pattern", s))
	}
	return nil
}

func (d phoneNumberDescriptor) FormatForAPI(value any) (any, error) {
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (phoneNumberDescriptor) CompatibleOperators() map[string]bool {
	return stringSetOperators("equal", "not_equal", "contains", "contains_not", "length_is_lower_than", "empty", "not_empty")
}
func (phoneNumberDescriptor) ForcedReadOnly() bool { return false }

func init() { registerDescriptor("phone_number", newPhoneNumberDescriptor) }

// phoneNumberRegexMatch avoids importing regexp per-call by checking
// character membership and length directly; the allowed character set
// matches the upstream pattern `^[0-9 Nx,._+*()#=;/-]{1,100}$`.
func phoneNumberRegexMatch(s string) bool {
	if len(s) < 1 || len(s) > 100 {
		return false
	}
	const allowed = "0123456789 Nx,._+*()#=;/-"
	for _, r := range s {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}

// --- boolean ---------------------------------------------------------------

type boolDescriptor struct{}

func newBoolDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return boolDescriptor{}, nil
}

func (boolDescriptor) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return newError(KindFieldValidation, fmt.Sprintf("expected bool, got %T", value))
	}
	return nil
}

func (d boolDescriptor) FormatForAPI(value any) (any, error) {
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (boolDescriptor) CompatibleOperators() map[string]bool {
	return stringSetOperators("boolean", "empty", "not_empty")
}
func (boolDescriptor) ForcedReadOnly() bool { return false }

func init() { registerDescriptor("boolean", newBoolDescriptor) }

// --- number ------------------------------------------------------------

type numberDescriptor struct {
	decimalPlaces int
	allowNegative bool
}

func newNumberDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	d := numberDescriptor{decimalPlaces: 0, allowNegative: true}
	if v, ok := data["number_decimal_places"]; ok {
		d.decimalPlaces = toInt(v)
	}
	if v, ok := data["number_negative"]; ok {
		if b, ok := v.(bool); ok {
			d.allowNegative = b
		}
	}
	return d, nil
}

func (d numberDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	var f float64
	switch n := value.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return newError(KindFieldValidation, fmt.Sprintf("value %q is not numeric", n))
		}
		f = parsed
	default:
		return newError(KindFieldValidation, fmt.Sprintf("expected number, got %T", value))
	}
	if !d.allowNegative && f < 0 {
		return newError(KindFieldValidation, "negative values are not allowed for this field")
	}
	if d.decimalPlaces >= 0 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if dot := strings.IndexByte(s, '.'); dot >= 0 {
			if len(s)-dot-1 > d.decimalPlaces {
				return newError(KindFieldValidation, fmt.Sprintf("value %v has more than %d decimal places", value, d.decimalPlaces))
			}
		}
	}
	return nil
}

func (d numberDescriptor) FormatForAPI(value any) (any, error) {
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (numberDescriptor) CompatibleOperators() map[string]bool {
	return stringSetOperators(
		"equal", "not_equal", "contains", "contains_not",
		"higher_than", "higher_than_or_equal", "lower_than", "lower_than_or_equal",
		"is_even_and_whole", "empty", "not_empty",
	)
}
func (numberDescriptor) ForcedReadOnly() bool { return false }

func init() { registerDescriptor("number", newNumberDescriptor) }

// --- rating ------------------------------------------------------------

type ratingDescriptor struct {
	maxValue int
}

func newRatingDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	v, ok := data["max_value"]
	if !ok {
		return nil, newError(KindFieldValidation, "rating field requires max_value").withField(name)
	}
	return ratingDescriptor{maxValue: toInt(v)}, nil
}

func (d ratingDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	n := toInt(value)
	switch value.(type) {
	case int, int64, float64:
	default:
		return newError(KindFieldValidation, fmt.Sprintf("expected int, got %T", value))
	}
	if n < 0 || n > d.maxValue {
		return newError(KindFieldValidation, fmt.Sprintf("rating %d out of range [0, %d]", n, d.maxValue))
	}
	return nil
}

func (d ratingDescriptor) FormatForAPI(value any) (any, error) {
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (ratingDescriptor) CompatibleOperators() map[string]bool {
	return stringSetOperators("equal", "not_equal", "higher_than", "lower_than")
}
func (ratingDescriptor) ForcedReadOnly() bool { return false }

func init() { registerDescriptor("rating", newRatingDescriptor) }

// --- password ------------------------------------------------------------

type passwordDescriptor struct{}

func newPasswordDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	return passwordDescriptor{}, nil
}

// Validate accepts nil, string, or bool(true) on read (the server sometimes
// echoes "is set" as a literal boolean); on write only nil or string are
// meaningful, but that restriction is enforced by the row-mutation path,
// not here, since Validate also guards parsed server responses.
func (passwordDescriptor) Validate(value any) error {
	switch v := value.(type) {
	case nil, string:
		return nil
	case bool:
		if v {
			return nil
		}
		return newError(KindFieldValidation, "password field boolean value must be true")
	default:
		return newError(KindFieldValidation, fmt.Sprintf("expected nil, string, or bool, got %T", value))
	}
}

func (d passwordDescriptor) FormatForAPI(value any) (any, error) {
	if _, ok := value.(bool); ok {
		return nil, newError(KindFieldValidation, "password field cannot be written as a boolean")
	}
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (passwordDescriptor) CompatibleOperators() map[string]bool { return map[string]bool{} }
func (passwordDescriptor) ForcedReadOnly() bool                  { return false }

func init() { registerDescriptor("password", newPasswordDescriptor) }

// --- generic (fallback for unrecognized type tags) ------------------------

// genericDescriptor is the fallback for unrecognized type tags. Unlike
// every other descriptor it carries state (name, type tag, logger) because
// it needs to say which unsupported type it's standing in for, matching
// upstream GenericField logging its own type tag at construction.
type genericDescriptor struct {
	name    string
	typeTag string
	logger  Logger
}

func newGenericDescriptor(name string, data map[string]any) (fieldDescriptor, error) {
	typeTag, _ := data["type"].(string)
	return &genericDescriptor{name: name, typeTag: typeTag, logger: discardLogger{}}, nil
}

// Validate never raises for Generic: an unrecognized type is pass-through
// and unvalidated by design, matching the upstream GenericField. It logs a
// warning instead, since the upstream GenericField.validate_value does the
// same ("No validation available for generic field ...").
func (d *genericDescriptor) Validate(value any) error {
	d.logger.Warnf("no validation available for generic field %q (unsupported type %q)", d.name, d.typeTag)
	return nil
}

func (d *genericDescriptor) FormatForAPI(value any) (any, error) {
	if err := d.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (*genericDescriptor) CompatibleOperators() map[string]bool { return map[string]bool{} }
func (*genericDescriptor) ForcedReadOnly() bool                 { return false }

func init() { registerDescriptor("generic", newGenericDescriptor) }
