package baserow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// maxEmptyPages bounds the row iterator's livelock recovery: it stops after
// this many consecutive empty pages even if the server keeps returning a
// non-null "next" link.
const maxEmptyPages = 5

// ErrIterationDone is returned by RowIterator.Next once no more rows remain.
var ErrIterationDone = errors.New("baserow: no more rows")

// Table is a schema fetch + cache, URL builder, and paginated/batched row
// CRUD surface bound to one table id. Fields are fetched once on first
// access and cached for the Table's lifetime.
type Table struct {
	id     int
	client *Client

	mu     sync.Mutex
	fields *FieldList
}

func (t *Table) ID() int { return t.id }

// Fields returns the table's FieldList, fetching and caching it from the
// server on first call.
func (t *Table) Fields(ctx context.Context) (*FieldList, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fields != nil {
		return t.fields, nil
	}

	endpoint := fmt.Sprintf("/api/database/fields/table/%d/", t.id)
	t.client.logger.Debugf("fetching schema for table %d", t.id)
	resp, err := t.client.doJSON(ctx, "GET", endpoint, nil)
	t.client.metrics.incr(t.id, "fetch_schema")
	if err != nil {
		return nil, newError(KindFetch, "failed to fetch table schema").withURL(endpoint).withWrapped(err)
	}
	records, ok := resp.([]any)
	if !ok {
		return nil, newError(KindFetch, "unexpected schema response shape").withURL(endpoint)
	}

	fields := make([]*Field, 0, len(records))
	for _, rec := range records {
		data, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		name, _ := data["name"].(string)
		f, err := NewField(name, data)
		if err != nil {
			return nil, err
		}
		f.bindClient(t.client)
		t.client.logger.Debugf("constructed field %q of type %q for table %d", name, f.Type(), t.id)
		fields = append(fields, f)
	}

	t.fields = newFieldList(fields)
	return t.fields, nil
}

// FieldNames returns field names sorted by schema order (nulls last).
func (t *Table) FieldNames(ctx context.Context) ([]string, error) {
	fields, err := t.Fields(ctx)
	if err != nil {
		return nil, err
	}
	return fields.Names(), nil
}

// PrimaryField returns the table's unique primary field.
func (t *Table) PrimaryField(ctx context.Context) (*Field, error) {
	fields, err := t.Fields(ctx)
	if err != nil {
		return nil, err
	}
	return fields.Primary()
}

// RowQuery describes the parameters of a row-list request.
type RowQuery struct {
	Include    []string
	Exclude    []string
	Search     string
	OrderBy    []string
	FilterType FilterType
	Filters    []Filter
	ViewID     int
	Size       int
}

// buildURL constructs the query URL, validating filters against the
// table's schema and failing synchronously before any request on bad input.
func (t *Table) buildURL(ctx context.Context, q RowQuery) (string, error) {
	if len(q.Filters) > 0 {
		fields, err := t.Fields(ctx)
		if err != nil {
			return "", err
		}
		if err := ValidateFilters(q.Filters, fields); err != nil {
			return "", err
		}
	}

	base := fmt.Sprintf("/api/database/rows/table/%d/?user_field_names=true", t.id)
	var parts []string
	appendListParam := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		parts = append(parts, fmt.Sprintf("%s=%s", name, url.QueryEscape(strings.Join(values, ","))))
	}
	appendListParam("include", q.Include)
	appendListParam("exclude", q.Exclude)
	if q.Search != "" {
		parts = append(parts, "search="+url.QueryEscape(q.Search))
	}
	appendListParam("order_by", q.OrderBy)
	if q.ViewID != 0 {
		if q.ViewID < 0 {
			return "", newError(KindFetch, "view_id must be a positive integer")
		}
		parts = append(parts, "view_id="+strconv.Itoa(q.ViewID))
	}
	if q.Size != 0 {
		if q.Size < 0 {
			return "", newError(KindFetch, "size must be a positive integer")
		}
		parts = append(parts, "size="+strconv.Itoa(q.Size))
	}
	if len(q.Filters) > 0 {
		filterParam, err := buildFilterQueryParam(q.Filters, q.FilterType)
		if err != nil {
			return "", err
		}
		parts = append(parts, "filters="+filterParam)
	}

	if len(parts) == 0 {
		return base, nil
	}
	return base + "&" + strings.Join(parts, "&"), nil
}

func (t *Table) parseRowPage(resp any) ([]*Row, string, error) {
	page, ok := resp.(map[string]any)
	if !ok {
		return nil, "", newError(KindFetch, "unexpected row page response shape")
	}
	results, _ := page["results"].([]any)
	rows := make([]*Row, 0, len(results))
	for _, item := range results {
		data, ok := item.(map[string]any)
		if !ok {
			continue
		}
		row, err := newRow(data, t, t.client)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, row)
	}
	next, _ := page["next"].(string)
	return rows, next, nil
}

// RowIterator is the lazy paginated reader described by the row-iteration
// contract: it fetches a page at a time, yields every row belonging to the
// table's schema, and follows the server's "next" link until absent.
// Restartable by calling Table.Rows again with the same RowQuery.
type RowIterator struct {
	table      *Table
	nextURL    string
	queue      []*Row
	qi         int
	emptyPages int
	finished   bool
}

// Rows begins a paginated read with the given query parameters.
func (t *Table) Rows(ctx context.Context, q RowQuery) (*RowIterator, error) {
	startURL, err := t.buildURL(ctx, q)
	if err != nil {
		return nil, err
	}
	return &RowIterator{table: t, nextURL: startURL}, nil
}

// Next returns the next Row, or ErrIterationDone once exhausted (including
// when the empty-page livelock guard trips).
func (it *RowIterator) Next(ctx context.Context) (*Row, error) {
	for it.qi >= len(it.queue) {
		if it.finished || it.nextURL == "" {
			return nil, ErrIterationDone
		}
		resp, err := it.table.client.doJSON(ctx, "GET", it.nextURL, nil)
		it.table.client.metrics.incr(it.table.id, "get_rows")
		if err != nil {
			return nil, newError(KindFetch, "failed to fetch row page").withURL(it.nextURL).withWrapped(err)
		}
		rows, next, err := it.table.parseRowPage(resp)
		if err != nil {
			return nil, err
		}
		it.queue = rows
		it.qi = 0
		it.nextURL = next
		if len(rows) == 0 {
			it.emptyPages++
			if it.emptyPages >= maxEmptyPages || next == "" {
				it.finished = true
			}
			continue
		}
		it.emptyPages = 0
	}
	row := it.queue[it.qi]
	it.qi++
	return row, nil
}

// GetRows collects every row the query matches into a slice. For large
// tables prefer Rows/Next to stream page by page.
func (t *Table) GetRows(ctx context.Context, q RowQuery) ([]*Row, error) {
	it, err := t.Rows(ctx, q)
	if err != nil {
		return nil, err
	}
	var rows []*Row
	for {
		row, err := it.Next(ctx)
		if errors.Is(err, ErrIterationDone) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// GetRowsOne runs the query and returns at most one Row, or ok=false if the
// query yields none. This is not an error condition.
func (t *Table) GetRowsOne(ctx context.Context, q RowQuery) (*Row, bool, error) {
	it, err := t.Rows(ctx, q)
	if err != nil {
		return nil, false, err
	}
	row, err := it.Next(ctx)
	if errors.Is(err, ErrIterationDone) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// GetRow fetches a single row by id.
func (t *Table) GetRow(ctx context.Context, rowID int) (*Row, error) {
	if rowID <= 0 {
		return nil, newError(KindFetch, "row_id must be a positive integer")
	}
	endpoint := fmt.Sprintf("/api/database/rows/table/%d/%d/?user_field_names=true", t.id, rowID)
	resp, err := t.client.doJSON(ctx, "GET", endpoint, nil)
	t.client.metrics.incr(t.id, "get_row")
	if err != nil {
		return nil, newError(KindFetch, fmt.Sprintf("failed to fetch row %d", rowID)).withRow(rowID).withURL(endpoint).withWrapped(err)
	}
	data, ok := resp.(map[string]any)
	if !ok {
		return nil, newError(KindFetch, "unexpected row response shape").withRow(rowID)
	}
	return newRow(data, t, t.client)
}

func (t *Table) validateWritePayload(ctx context.Context, data map[string]any) (map[string]any, error) {
	fields, err := t.Fields(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(data))
	for key, val := range data {
		field, ok := fields.ByName(key)
		if !ok {
			return nil, newError(KindRowAdd, fmt.Sprintf("field %q not found in table schema", key)).withField(key)
		}
		if field.IsReadOnly() {
			return nil, newError(KindReadOnlyValue, fmt.Sprintf("field %q is read-only", key)).withField(key)
		}
		formatted, err := field.FormatForAPI(val)
		if err != nil {
			return nil, err
		}
		out[key] = formatted
	}
	return out, nil
}

// AddRow adds a single row.
func (t *Table) AddRow(ctx context.Context, data map[string]any) (*Row, error) {
	payload, err := t.validateWritePayload(ctx, data)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("/api/database/rows/table/%d/?user_field_names=true", t.id)
	resp, err := t.client.doJSON(ctx, "POST", endpoint, payload)
	t.client.metrics.incr(t.id, "add_row")
	if err != nil {
		return nil, newError(KindRowAdd, "failed to add row").withURL(endpoint).withWrapped(err)
	}
	rowData, ok := resp.(map[string]any)
	if !ok {
		return nil, newError(KindRowAdd, "unexpected response shape adding row")
	}
	return newRow(rowData, t, t.client)
}

// AddRows adds multiple rows, chunked into batches of batchSize (or the
// client's default when batchSize<=0), preserving input order across the
// returned rows.
func (t *Table) AddRows(ctx context.Context, items []map[string]any, batchSize int) ([]*Row, error) {
	size := t.client.batchSizeOrDefault(batchSize)
	endpoint := fmt.Sprintf("/api/database/rows/table/%d/batch/?user_field_names=true", t.id)

	var added []*Row
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunk := make([]map[string]any, 0, end-start)
		for _, item := range items[start:end] {
			payload, err := t.validateWritePayload(ctx, item)
			if err != nil {
				return nil, err
			}
			chunk = append(chunk, payload)
		}
		resp, err := t.client.doJSON(ctx, "POST", endpoint, map[string]any{"items": chunk})
		t.client.metrics.incr(t.id, "add_rows_batch")
		if err != nil {
			return nil, newError(KindRowAdd, "failed to add row batch").withURL(endpoint).withWrapped(err)
		}
		rows, err := t.parseBatchItems(resp)
		if err != nil {
			return nil, err
		}
		added = append(added, rows...)
	}
	return added, nil
}

func (t *Table) parseBatchItems(resp any) ([]*Row, error) {
	m, ok := resp.(map[string]any)
	if !ok {
		return nil, newError(KindRowAdd, "unexpected batch response shape")
	}
	items, _ := m["items"].([]any)
	rows := make([]*Row, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]any)
		if !ok {
			continue
		}
		row, err := newRow(data, t, t.client)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RowUpdateInput is one entry of an UpdateRows call: either a raw field map
// (which must include "id") or an existing Row, whose writable cells are
// extracted automatically.
type RowUpdateInput struct {
	Data map[string]any
	Row  *Row
}

// UpdateRows updates multiple rows via the batch endpoint. Dict inputs must
// contain "id"; the reserved "order" key is accepted as a positive number.
func (t *Table) UpdateRows(ctx context.Context, inputs []RowUpdateInput, batchSize int) ([]*Row, error) {
	if len(inputs) == 0 {
		return nil, newError(KindRowUpdate, "rows_data is empty, nothing to update")
	}
	fields, err := t.Fields(ctx)
	if err != nil {
		return nil, err
	}

	formatted := make([]map[string]any, 0, len(inputs))
	for _, in := range inputs {
		if in.Row != nil {
			payload, err := in.Row.toWritePayload()
			if err != nil {
				return nil, err
			}
			payload["id"] = in.Row.ID()
			formatted = append(formatted, payload)
			continue
		}
		item := in.Data
		if _, ok := item["id"]; !ok {
			return nil, newError(KindRowUpdate, "'id' key is required for updating a row")
		}
		out := map[string]any{"id": item["id"]}
		for key, val := range item {
			if key == "id" {
				continue
			}
			if key == "order" {
				n, ok := asPositiveNumber(val)
				if !ok {
					return nil, newError(KindRowUpdate, fmt.Sprintf("invalid 'order' value: %v", val))
				}
				out["order"] = n
				continue
			}
			field, ok := fields.ByName(key)
			if !ok {
				return nil, newError(KindRowUpdate, fmt.Sprintf("field %q not found in table fields", key)).withField(key)
			}
			if field.IsReadOnly() {
				return nil, newError(KindReadOnlyValue, fmt.Sprintf("field %q is read-only and cannot be updated", key)).withField(key)
			}
			v, err := field.FormatForAPI(val)
			if err != nil {
				return nil, newError(KindRowUpdate, fmt.Sprintf("invalid value for field %q", key)).withField(key).withWrapped(err)
			}
			out[key] = v
		}
		formatted = append(formatted, out)
	}

	size := t.client.batchSizeOrDefault(batchSize)
	endpoint := fmt.Sprintf("/api/database/rows/table/%d/batch/?user_field_names=true", t.id)
	var updated []*Row
	for start := 0; start < len(formatted); start += size {
		end := start + size
		if end > len(formatted) {
			end = len(formatted)
		}
		resp, err := t.client.doJSON(ctx, "PATCH", endpoint, map[string]any{"items": formatted[start:end]})
		t.client.metrics.incr(t.id, "update_rows_batch")
		if err != nil {
			return nil, newError(KindRowUpdate, "failed to update row batch").withURL(endpoint).withWrapped(err)
		}
		rows, err := t.parseBatchItems(resp)
		if err != nil {
			return nil, err
		}
		updated = append(updated, rows...)
	}
	return updated, nil
}

func asPositiveNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, false
	}
	return f, f > 0
}

// DeleteRows deletes multiple rows by Row or positive int id, chunked via
// the batch-delete endpoint.
func (t *Table) DeleteRows(ctx context.Context, rows []*Row, ids []int, batchSize int) error {
	allIDs := make([]int, 0, len(rows)+len(ids))
	for _, r := range rows {
		allIDs = append(allIDs, r.ID())
	}
	for _, id := range ids {
		if id <= 0 {
			return newError(KindRowDelete, fmt.Sprintf("invalid row id: %d, row ids must be positive", id))
		}
		allIDs = append(allIDs, id)
	}
	if len(allIDs) == 0 {
		return newError(KindRowDelete, "rows_data is empty, nothing to delete")
	}

	size := t.client.batchSizeOrDefault(batchSize)
	endpoint := fmt.Sprintf("/api/database/rows/table/%d/batch-delete/", t.id)
	for start := 0; start < len(allIDs); start += size {
		end := start + size
		if end > len(allIDs) {
			end = len(allIDs)
		}
		_, err := t.client.doJSON(ctx, "POST", endpoint, map[string]any{"items": allIDs[start:end]})
		t.client.metrics.incr(t.id, "delete_rows_batch")
		if err != nil {
			return newError(KindRowDelete, "failed to delete row batch").withURL(endpoint).withWrapped(err)
		}
	}
	return nil
}
