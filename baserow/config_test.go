package baserow_test

import (
	"testing"

	"github.com/go-baserow/baserow"
)

func TestConfigValidateRejectsMissingToken(t *testing.T) {
	c := &baserow.Config{BaseURL: "https://example.invalid"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestConfigValidateRejectsBadURL(t *testing.T) {
	c := &baserow.Config{BaseURL: "example.invalid", Token: "tok"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for non-http(s) base_url")
	}
}

func TestConfigValidateAccepts(t *testing.T) {
	c := &baserow.Config{BaseURL: "https://example.invalid", Token: "tok", BatchSize: 5}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
