package baserow

import "testing"

func TestFieldListPrimaryRequiresOneMarkedField(t *testing.T) {
	a, _ := NewField("Title", map[string]any{"type": "text"})
	list := newFieldList([]*Field{a})
	if _, err := list.Primary(); err == nil {
		t.Fatal("expected error when no field is marked primary")
	}
}

func TestFieldListNamesSortsByOrderWithNullsLast(t *testing.T) {
	a, _ := NewField("B", map[string]any{"type": "text", "order": 2})
	b, _ := NewField("A", map[string]any{"type": "text", "order": 1})
	c, _ := NewField("Z", map[string]any{"type": "text"})
	list := newFieldList([]*Field{a, b, c})

	names := list.Names()
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "Z" {
		t.Errorf("expected [A B Z], got %v", names)
	}
}

func TestFieldListStringTruncatesLargeLists(t *testing.T) {
	fields := make([]*Field, 0, 7)
	for i := 0; i < 7; i++ {
		f, _ := NewField(string(rune('A'+i)), map[string]any{"type": "text"})
		fields = append(fields, f)
	}
	list := newFieldList(fields)
	s := list.String()
	if s != "FieldList(A, B, C, D, E, …)" {
		t.Fatalf("expected the first five names followed by an ellipsis, got %q", s)
	}
}
