package baserow_test

import (
	"context"
	"testing"

	"github.com/go-baserow/baserow"
	"github.com/go-baserow/baserow/baserowtest"
)

// TestRelatedOptionsFetchesPrimaryValuesFromTargetTable covers the
// TableLinkField.get_options() counterpart: resolving a link_row field's
// candidate values from the related table's primary field.
func TestRelatedOptionsFetchesPrimaryValuesFromTargetTable(t *testing.T) {
	fake := baserowtest.NewFakeExecutor(
		// schema fetch for the source table
		baserowtest.Response{JSON: []any{
			map[string]any{
				"id": 1, "name": "Project", "type": "link_row", "order": 1,
				"link_row_table_id": 99,
			},
		}},
		// schema fetch for the related table
		baserowtest.Response{JSON: []any{
			map[string]any{"id": 1, "name": "Title", "type": "text", "primary": true, "order": 1},
		}},
		// row page from the related table
		baserowtest.Response{JSON: map[string]any{
			"results": []any{
				map[string]any{"id": 1, "Title": "Apollo"},
				map[string]any{"id": 2, "Title": "Gemini"},
			},
			"next": nil,
		}},
	)
	client := baserow.NewClient("https://example.invalid", "tok", baserow.WithExecutor(fake))
	table := client.GetTable(42)
	ctx := context.Background()

	fields, err := table.Fields(ctx)
	baserowtest.AssertNoError(t, err, "Fields")
	field, ok := fields.ByName("Project")
	if !ok {
		t.Fatal("expected Project field in schema")
	}

	options, err := field.RelatedOptions(ctx)
	baserowtest.AssertNoError(t, err, "RelatedOptions")
	if len(options) != 2 || options[0] != "Apollo" || options[1] != "Gemini" {
		t.Errorf("expected [Apollo Gemini], got %v", options)
	}
}

func TestRelatedOptionsRejectsNonLinkField(t *testing.T) {
	fake := baserowtest.NewFakeExecutor(
		baserowtest.Response{JSON: []any{
			map[string]any{"id": 1, "name": "Title", "type": "text", "primary": true, "order": 1},
		}},
	)
	client := baserow.NewClient("https://example.invalid", "tok", baserow.WithExecutor(fake))
	table := client.GetTable(42)
	ctx := context.Background()

	fields, err := table.Fields(ctx)
	baserowtest.AssertNoError(t, err, "Fields")
	field, _ := fields.ByName("Title")

	if _, err := field.RelatedOptions(ctx); err == nil {
		t.Fatal("expected error calling RelatedOptions on a non-link field")
	}
}
