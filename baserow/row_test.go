package baserow_test

import (
	"context"
	"testing"

	"github.com/go-baserow/baserow"
	"github.com/go-baserow/baserow/baserowtest"
)

func TestRowSetRejectsReadOnlyField(t *testing.T) {
	fake := baserowtest.NewFakeExecutor(
		baserowtest.Response{JSON: []any{
			map[string]any{"id": 1, "name": "Name", "type": "text", "primary": true, "order": 1},
			map[string]any{"id": 2, "name": "Created", "type": "created_on", "order": 2},
		}},
		baserowtest.Response{JSON: map[string]any{"id": 1, "Name": "Alice", "Created": "2024-01-01T00:00:00Z"}},
	)
	client := baserow.NewClient("https://example.invalid", "tok", baserow.WithExecutor(fake))
	table := client.GetTable(42)
	ctx := context.Background()

	row, err := table.GetRow(ctx, 1)
	baserowtest.AssertNoError(t, err, "GetRow")

	if err := row.Set("Created", "2025-01-01T00:00:00Z"); err == nil {
		t.Fatal("expected error setting a forced-read-only field")
	}
}

func TestRowUpdateMemoryOnlySkipsNetwork(t *testing.T) {
	table, fake := newTestTable(t, baserowtest.Response{JSON: map[string]any{
		"id": 1, "Name": "Alice", "Age": 30.0,
	}})
	ctx := context.Background()
	row, err := table.GetRow(ctx, 1)
	baserowtest.AssertNoError(t, err, "GetRow")

	before := len(fake.Calls())
	err = row.Update(ctx, map[string]any{"Name": "Bob"}, true)
	baserowtest.AssertNoError(t, err, "memory-only Update")
	baserowtest.AssertCallCount(t, fake, before, "memory-only update must not issue a request")

	val, err := row.Get("Name")
	baserowtest.AssertNoError(t, err, "row.Get after memory-only update")
	if val != "Bob" {
		t.Errorf("expected Bob, got %v", val)
	}
}

func TestRowUpdatePersistsAndReconciles(t *testing.T) {
	table, _ := newTestTable(t,
		baserowtest.Response{JSON: map[string]any{"id": 1, "Name": "Alice", "Age": 30.0}},
		baserowtest.Response{JSON: map[string]any{"id": 1, "Name": "Bob", "Age": 30.0}},
	)
	ctx := context.Background()
	row, err := table.GetRow(ctx, 1)
	baserowtest.AssertNoError(t, err, "GetRow")

	err = row.Update(ctx, map[string]any{"Name": "Bob"}, false)
	baserowtest.AssertNoError(t, err, "Update")

	val, err := row.Get("Name")
	baserowtest.AssertNoError(t, err, "row.Get after Update")
	if val != "Bob" {
		t.Errorf("expected server echo Bob, got %v", val)
	}
}

func TestRowUpdateRejectsUnknownField(t *testing.T) {
	table, _ := newTestTable(t, baserowtest.Response{JSON: map[string]any{
		"id": 1, "Name": "Alice", "Age": 30.0,
	}})
	ctx := context.Background()
	row, err := table.GetRow(ctx, 1)
	baserowtest.AssertNoError(t, err, "GetRow")

	if err := row.Update(ctx, map[string]any{"Nonexistent": "x"}, false); err == nil {
		t.Fatal("expected error for unknown field on update")
	}
}

func TestRowDeleteIssuesDelete(t *testing.T) {
	table, fake := newTestTable(t,
		baserowtest.Response{JSON: map[string]any{"id": 1, "Name": "Alice", "Age": 30.0}},
		baserowtest.Response{Status: 204},
	)
	ctx := context.Background()
	row, err := table.GetRow(ctx, 1)
	baserowtest.AssertNoError(t, err, "GetRow")

	err = row.Delete(ctx)
	baserowtest.AssertNoError(t, err, "Delete")

	last, ok := fake.LastCall()
	if !ok || last.Method != "DELETE" {
		t.Errorf("expected last call to be DELETE, got %+v", last)
	}
}

func TestRowEqualComparesTableAndID(t *testing.T) {
	table, _ := newTestTable(t, baserowtest.Response{JSON: map[string]any{
		"id": 1, "Name": "Alice", "Age": 30.0,
	}})
	ctx := context.Background()
	row, err := table.GetRow(ctx, 1)
	baserowtest.AssertNoError(t, err, "GetRow")

	if !row.Equal(row) {
		t.Error("expected row to equal itself")
	}
	if row.Equal(nil) {
		t.Error("expected row not to equal nil")
	}
}
