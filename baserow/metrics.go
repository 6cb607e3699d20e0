package baserow

import (
	"strconv"
	"sync/atomic"
	"time"
)

// metricsKey identifies one (table, operation) counter.
type metricsKey struct {
	tableID int
	op      string
}

// metricsRegistry is a copy-on-write atomic counter map, adapted from the
// teacher's per-org/table/op instrumentation: simple in-memory counters,
// exported as a snapshot, pending real Prometheus wiring.
type metricsRegistry struct {
	counts atomic.Value // map[metricsKey]uint64
}

func newMetricsRegistry() *metricsRegistry {
	r := &metricsRegistry{}
	r.counts.Store(map[metricsKey]uint64{})
	return r
}

func (r *metricsRegistry) load() map[metricsKey]uint64 {
	return r.counts.Load().(map[metricsKey]uint64)
}

func (r *metricsRegistry) incr(tableID int, op string) {
	cur := r.load()
	next := make(map[metricsKey]uint64, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	k := metricsKey{tableID: tableID, op: op}
	next[k] = next[k] + 1
	r.counts.Store(next)
}

// MetricsSnapshot is a point-in-time read of a Client's operation counters,
// keyed as "<table_id>/<operation>".
type MetricsSnapshot struct {
	Timestamp  time.Time
	Operations map[string]uint64
}

func (r *metricsRegistry) export() MetricsSnapshot {
	cur := r.load()
	flat := make(map[string]uint64, len(cur))
	for k, v := range cur {
		flat[opKey(k.tableID, k.op)] = v
	}
	return MetricsSnapshot{Timestamp: time.Now(), Operations: flat}
}

func opKey(tableID int, op string) string {
	return strconv.Itoa(tableID) + "/" + op
}

// Metrics returns a snapshot of per-table operation counters recorded since
// the Client was created.
func (c *Client) Metrics() MetricsSnapshot {
	return c.metrics.export()
}
