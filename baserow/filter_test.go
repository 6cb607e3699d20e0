package baserow

import (
	"net/url"
	"strings"
	"testing"
)

func TestNewFilterDefaultsOperatorToEqual(t *testing.T) {
	f, err := NewFilter("name", "", "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator() != "equal" {
		t.Errorf("expected default operator equal, got %q", f.Operator())
	}
}

func TestNewFilterRejectsEmptyFieldName(t *testing.T) {
	if _, err := NewFilter("", "equal", "x"); err == nil {
		t.Fatal("expected error for empty field name")
	}
}

func TestBuildFilterQueryParamEncodesTree(t *testing.T) {
	f1, _ := NewFilter("name", "equal", "Alice")
	f2, _ := NewFilter("age", "higher_than", 30)
	encoded, err := buildFilterQueryParam([]Filter{f1, f2}, FilterAND)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		t.Fatalf("unexpected error unescaping: %v", err)
	}
	if !strings.Contains(decoded, `"filter_type":"AND"`) {
		t.Errorf("expected AND filter_type in %s", decoded)
	}
	if !strings.Contains(decoded, `"field":"name"`) || !strings.Contains(decoded, `"field":"age"`) {
		t.Errorf("expected both fields present in %s", decoded)
	}
}

func TestBuildFilterQueryParamRejectsBadFilterType(t *testing.T) {
	f1, _ := NewFilter("name", "equal", "Alice")
	if _, err := buildFilterQueryParam([]Filter{f1}, FilterType("XOR")); err == nil {
		t.Fatal("expected error for invalid filter type")
	}
}

func TestBuildFilterQueryParamEmptyWhenNoFilters(t *testing.T) {
	out, err := buildFilterQueryParam(nil, FilterAND)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty string, got %q", out)
	}
}
