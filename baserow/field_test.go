package baserow

import "testing"

// capturingLogger records every Warnf call for assertions, without pulling
// in a mocking library - same rationale as baserowtest's hand-rolled fakes.
type capturingLogger struct {
	warnings []string
}

func (l *capturingLogger) Debugf(string, ...any) {}
func (l *capturingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, format)
}
func (l *capturingLogger) Errorf(string, ...any) {}

func TestNewFieldUnknownTypeFallsBackToGeneric(t *testing.T) {
	f, err := NewField("mystery", map[string]any{"type": "some_future_type"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Validate("anything"); err != nil {
		t.Errorf("generic descriptor should never reject: %v", err)
	}
	if f.IsReadOnly() {
		t.Errorf("generic descriptor should not be read-only by default")
	}
}

func TestNewFieldRejectsEmptyName(t *testing.T) {
	if _, err := NewField("", map[string]any{"type": "text"}); err == nil {
		t.Fatal("expected error for empty field name")
	}
}

func TestStringFieldValidation(t *testing.T) {
	f, err := NewField("title", map[string]any{"type": "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Validate("hello"); err != nil {
		t.Errorf("expected string to validate: %v", err)
	}
	if err := f.Validate(42); err == nil {
		t.Error("expected non-string to fail validation")
	}
}

func TestNumberFieldDecimalPlaces(t *testing.T) {
	f, err := NewField("amount", map[string]any{"type": "number", "number_decimal_places": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Validate(3.14); err != nil {
		t.Errorf("expected 2-decimal value to validate: %v", err)
	}
	if err := f.Validate(3.14159); err == nil {
		t.Error("expected value exceeding decimal_places to fail")
	}
}

func TestNumberFieldNegativeDisallowed(t *testing.T) {
	f, err := NewField("amount", map[string]any{"type": "number", "number_negative": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Validate(-1); err == nil {
		t.Error("expected negative value to fail when number_negative is false")
	}
}

func TestRatingFieldRequiresMaxValue(t *testing.T) {
	if _, err := NewField("stars", map[string]any{"type": "rating"}); err == nil {
		t.Fatal("expected error when max_value is missing")
	}
}

func TestRatingFieldRange(t *testing.T) {
	f, err := NewField("stars", map[string]any{"type": "rating", "max_value": 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Validate(5); err != nil {
		t.Errorf("expected 5 to be within range: %v", err)
	}
	if err := f.Validate(6); err == nil {
		t.Error("expected 6 to exceed max_value")
	}
}

func TestPasswordFieldAcceptsBooleanTrueOnRead(t *testing.T) {
	f, err := NewField("secret", map[string]any{"type": "password"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Validate(true); err != nil {
		t.Errorf("expected bool(true) to validate: %v", err)
	}
	if err := f.Validate(false); err == nil {
		t.Error("expected bool(false) to fail validation")
	}
	if _, err := f.FormatForAPI(true); err == nil {
		t.Error("expected FormatForAPI to reject a boolean on write")
	}
}

func TestSingleSelectResolvesByIDOrValue(t *testing.T) {
	f, err := NewField("status", map[string]any{
		"type": "single_select",
		"select_options": []any{
			map[string]any{"id": 1, "value": "Todo"},
			map[string]any{"id": 2, "value": "Done"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byID, err := f.FormatForAPI(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID != 2 {
		t.Errorf("expected id 2, got %v", byID)
	}
	byValue, err := f.FormatForAPI("Todo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byValue != 1 {
		t.Errorf("expected id 1 for value Todo, got %v", byValue)
	}
	if _, err := f.FormatForAPI("Nonexistent"); err == nil {
		t.Error("expected error for unknown option")
	}
}

func TestLinkRowFormatForAPINormalizesShapes(t *testing.T) {
	f, err := NewField("related", map[string]any{"type": "link_row", "link_row_table_id": 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []struct {
		in   any
		want []int
	}{
		{1, []int{1}},
		{"1,2,3", []int{1, 2, 3}},
		{[]any{1, "2"}, []int{1, 2}},
	}
	for _, c := range cases {
		got, err := f.FormatForAPI(c.in)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", c.in, err)
		}
		ids, ok := got.([]int)
		if !ok {
			t.Fatalf("expected []int, got %T", got)
		}
		if len(ids) != len(c.want) {
			t.Fatalf("expected %v, got %v", c.want, ids)
		}
		for i := range ids {
			if ids[i] != c.want[i] {
				t.Errorf("expected %v, got %v", c.want, ids)
			}
		}
	}
}

func TestLookupFieldAlwaysReadOnly(t *testing.T) {
	f, err := NewField("linked_total", map[string]any{"type": "lookup"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.IsReadOnly() {
		t.Error("expected lookup field to be forced read-only")
	}
	if _, err := f.FormatForAPI(5); err == nil {
		t.Error("expected FormatForAPI to reject a write to a lookup field")
	}
}

func TestAutonumberFieldAlwaysReadOnly(t *testing.T) {
	f, err := NewField("seq", map[string]any{"type": "autonumber"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.IsReadOnly() {
		t.Error("expected autonumber field to be forced read-only")
	}
	if _, err := f.FormatForAPI(5); err == nil {
		t.Error("expected FormatForAPI to reject a write to an autonumber field")
	}
}

func TestUUIDFieldAlwaysReadOnly(t *testing.T) {
	f, err := NewField("external_id", map[string]any{"type": "uuid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.IsReadOnly() {
		t.Error("expected uuid field to be forced read-only")
	}
	if _, err := f.FormatForAPI("abc-123"); err == nil {
		t.Error("expected FormatForAPI to reject a write to a uuid field")
	}
}

func TestGenericDescriptorLogsOnBindAndValidate(t *testing.T) {
	f, err := NewField("mystery", map[string]any{"type": "some_future_type"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger := &capturingLogger{}
	client := NewClient("https://example.invalid", "tok", WithLogger(logger))
	f.bindClient(client)

	if len(logger.warnings) != 1 {
		t.Fatalf("expected one warning logged on bind, got %d: %v", len(logger.warnings), logger.warnings)
	}
	if err := f.Validate("anything"); err != nil {
		t.Errorf("generic descriptor should never reject: %v", err)
	}
	if len(logger.warnings) != 2 {
		t.Fatalf("expected a second warning logged on Validate, got %d: %v", len(logger.warnings), logger.warnings)
	}
}

func TestDateFieldNormalization(t *testing.T) {
	f, err := NewField("due", map[string]any{"type": "date", "date_include_time": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := f.FormatForAPI("2024/1/5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-01-05" {
		t.Errorf("expected 2024-01-05, got %v", got)
	}
}

func TestDateFieldRejectsTimeWhenNotIncluded(t *testing.T) {
	f, err := NewField("due", map[string]any{"type": "date", "date_include_time": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.FormatForAPI("2024-01-05T00:00:00Z"); err == nil {
		t.Error("expected error for time component on a date-only field")
	}
}

func TestIdempotentFormatForAPI(t *testing.T) {
	f, err := NewField("count", map[string]any{"type": "number", "number_decimal_places": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	formatted, err := f.FormatForAPI(3.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Validate(formatted); err != nil {
		t.Errorf("format_for_api output must itself validate: %v", err)
	}
}
