package baserow

import (
	"context"
	"fmt"
)

// Row is one record: an ordered collection of RowValues indexed by field
// name. A Row holds non-owning references to its Table (for schema) and
// Client (for mutations) — a relation, not ownership: the Row is valid only
// while its Table lives.
type Row struct {
	id      int
	order   string
	table   *Table
	client  *Client
	rawData map[string]any
	values  *RowValueList
}

func newRow(rowData map[string]any, table *Table, client *Client) (*Row, error) {
	r := &Row{
		table:   table,
		client:  client,
		rawData: rowData,
	}
	if v, ok := rowData["id"]; ok {
		r.id = toInt(v)
	}
	client.logger.Debugf("parsing row id=%v for table %d", rowData["id"], table.ID())
	if v, ok := rowData["order"]; ok {
		r.order = fmt.Sprintf("%v", v)
	}
	values, err := r.buildValues()
	if err != nil {
		return nil, err
	}
	r.values = values
	return r, nil
}

func (r *Row) buildValues() (*RowValueList, error) {
	fields, err := r.table.Fields(context.Background())
	if err != nil {
		return nil, err
	}
	list := make([]*RowValue, 0, len(r.rawData))
	for name, raw := range r.rawData {
		if name == "id" || name == "order" {
			continue
		}
		field, ok := fields.ByName(name)
		if !ok {
			return nil, newError(KindInvalidRowValue, fmt.Sprintf("field %q not found in table schema", name)).withField(name)
		}
		list = append(list, newRowValue(field, raw))
	}
	return newRowValueList(list), nil
}

// ID is the server-assigned row id; zero for an unsaved draft.
func (r *Row) ID() int { return r.id }

// Order is the server-assigned decimal order string.
func (r *Row) Order() string { return r.order }

func (r *Row) String() string { return fmt.Sprintf("Row id %d of table %d", r.id, r.table.ID()) }

// Values returns this row's RowValueList, keyed by field name.
func (r *Row) Values() *RowValueList { return r.values }

// Get returns the named cell's value as RowValue.Value reports it (the raw
// wire value, unconverted). Unknown fields return an error tagged KindFetch.
func (r *Row) Get(name string) (any, error) {
	rv, ok := r.values.ByName(name)
	if !ok {
		return nil, newError(KindFetch, fmt.Sprintf("field %q not found on row", name)).withField(name).withRow(r.id)
	}
	return rv.Value(), nil
}

// Set validates and stores newValue on the named cell without issuing any
// request; call Update to persist it.
func (r *Row) Set(name string, newValue any) error {
	rv, ok := r.values.ByName(name)
	if !ok {
		return newError(KindFetch, fmt.Sprintf("field %q not found on row", name)).withField(name).withRow(r.id)
	}
	return rv.Set(newValue)
}

// Equal reports whether two rows refer to the same (table, id) pair.
func (r *Row) Equal(other *Row) bool {
	if other == nil {
		return false
	}
	return r.table.ID() == other.table.ID() && r.id == other.id
}

// toWritePayload formats every writable cell for the API, skipping
// read-only fields, the way update() does when values is omitted.
func (r *Row) toWritePayload() (map[string]any, error) {
	payload := make(map[string]any)
	for _, rv := range r.values.All() {
		if rv.IsReadOnly() {
			continue
		}
		formatted, err := rv.FormatForAPI()
		if err != nil {
			return nil, err
		}
		payload[rv.Name()] = formatted
	}
	return payload, nil
}

// Update persists values (or, if nil, the row's current in-memory state) to
// the server via PATCH, then reconciles the server's echo back into this
// Row's raw-value map and cell cache atomically. With memoryOnly=true no
// request is sent; the in-memory representation is updated in place.
func (r *Row) Update(ctx context.Context, values map[string]any, memoryOnly bool) error {
	fields, err := r.table.Fields(ctx)
	if err != nil {
		return err
	}

	payload := map[string]any{}
	if values == nil {
		payload, err = r.toWritePayload()
		if err != nil {
			return err
		}
	} else {
		for key, val := range values {
			field, ok := fields.ByName(key)
			if !ok {
				return newError(KindRowUpdate, fmt.Sprintf("field %q not found in table schema", key)).withField(key).withRow(r.id)
			}
			if field.IsReadOnly() {
				return newError(KindReadOnlyValue, fmt.Sprintf("field %q is read-only", key)).withField(key).withRow(r.id)
			}
			formatted, err := field.FormatForAPI(val)
			if err != nil {
				return err
			}
			payload[key] = formatted
		}
	}

	if memoryOnly {
		for key, val := range payload {
			if rv, ok := r.values.ByName(key); ok {
				rv.raw = val
			}
		}
		return nil
	}

	endpoint := fmt.Sprintf("/api/database/rows/table/%d/%d/?user_field_names=true", r.table.ID(), r.id)
	resp, err := r.client.doJSON(ctx, "PATCH", endpoint, payload)
	r.client.metrics.incr(r.table.ID(), "update_row")
	if err != nil {
		return newError(KindRowUpdate, "failed to update row").withRow(r.id).withWrapped(err)
	}
	rowData, ok := resp.(map[string]any)
	if !ok {
		return newError(KindRowUpdate, "unexpected response shape updating row").withRow(r.id)
	}
	return r.reconcile(rowData)
}

func (r *Row) reconcile(rowData map[string]any) error {
	updated, err := newRow(rowData, r.table, r.client)
	if err != nil {
		return err
	}
	r.rawData = updated.rawData
	r.values = updated.values
	r.order = updated.order
	return nil
}

// Delete issues DELETE at the row endpoint. Success is 204; any other
// status is surfaced as a KindRowDelete error.
func (r *Row) Delete(ctx context.Context) error {
	endpoint := fmt.Sprintf("/api/database/rows/table/%d/%d/", r.table.ID(), r.id)
	resp, err := r.client.executor.Request(ctx, "DELETE", endpoint, nil, nil, r.client.timeout, nil)
	r.client.metrics.incr(r.table.ID(), "delete_row")
	if err != nil {
		return newError(KindRowDelete, "failed to delete row").withRow(r.id).withWrapped(err)
	}
	if resp.Status != 204 {
		return newError(KindRowDelete, fmt.Sprintf("unexpected status %d deleting row", resp.Status)).withRow(r.id).withStatus(resp.Status)
	}
	return nil
}

// Move issues PATCH at the row's /move/ endpoint with an optional
// before-id, returning the server's echo as a new Row.
func (r *Row) Move(ctx context.Context, beforeID *int) (*Row, error) {
	endpoint := fmt.Sprintf("/api/database/rows/table/%d/%d/move/?user_field_names=true", r.table.ID(), r.id)
	if beforeID != nil {
		endpoint += fmt.Sprintf("&before_id=%d", *beforeID)
	}
	resp, err := r.client.doJSON(ctx, "PATCH", endpoint, nil)
	r.client.metrics.incr(r.table.ID(), "move_row")
	if err != nil {
		return nil, newError(KindRowMove, "failed to move row").withRow(r.id).withWrapped(err)
	}
	rowData, ok := resp.(map[string]any)
	if !ok {
		return nil, newError(KindRowMove, "unexpected response shape moving row").withRow(r.id)
	}
	return newRow(rowData, r.table, r.client)
}
