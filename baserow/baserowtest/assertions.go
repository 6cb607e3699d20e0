package baserowtest

import (
	"errors"
	"testing"

	"github.com/go-baserow/baserow"
)

// AssertNoError asserts that an error is nil.
func AssertNoError(t *testing.T, err error, message string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", message, err)
	}
}

// AssertError asserts that an error occurred.
func AssertError(t *testing.T, err error, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", message)
	}
}

// AssertErrorKind asserts that err is a *baserow.Error with the given Kind.
func AssertErrorKind(t *testing.T, err error, kind baserow.Kind, message string) {
	t.Helper()
	var be *baserow.Error
	if !errors.As(err, &be) {
		t.Fatalf("%s: expected *baserow.Error, got %T (%v)", message, err, err)
	}
	if be.Kind != kind {
		t.Fatalf("%s: expected kind %s, got %s", message, kind, be.Kind)
	}
}

// AssertEqual asserts that two comparable values are equal.
func AssertEqual[T comparable](t *testing.T, expected, actual T, message string) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", message, expected, actual)
	}
}

// AssertRowCount asserts that rows has the expected length.
func AssertRowCount(t *testing.T, rows []*baserow.Row, expected int, message string) {
	t.Helper()
	if len(rows) != expected {
		t.Errorf("%s: expected %d rows, got %d", message, expected, len(rows))
	}
}

// AssertCallCount asserts the fake executor observed the expected number of
// requests.
func AssertCallCount(t *testing.T, fake *FakeExecutor, expected int, message string) {
	t.Helper()
	if got := len(fake.Calls()); got != expected {
		t.Errorf("%s: expected %d calls, got %d", message, expected, got)
	}
}
