package baserow

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/ratelimit"
)

const defaultBatchSize = 10
const defaultTimeout = 10 * time.Second

// Client owns the base URL, auth token, default batch size, executor, and
// log sink. It is the entry point: Tables are minted from it and hold only
// a non-owning back-reference to it.
type Client struct {
	executor  Executor
	logger    Logger
	batchSize int
	timeout   time.Duration
	metrics   *metricsRegistry
}

// ClientOption configures a Client, in the style of the teacher SDK's
// ClientOption functional options.
type ClientOption func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	logger     Logger
	batchSize  int
	timeout    time.Duration
	limiter    ratelimit.Limiter
	executor   Executor
}

// WithHTTPClient supplies a custom *http.Client for the default executor.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *clientConfig) { cfg.httpClient = c }
}

// WithLogger installs a log sink; without this option (or with a nil
// Logger) all logging is discarded, so a Client never panics on a nil sink.
func WithLogger(l Logger) ClientOption {
	return func(cfg *clientConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithBatchSize overrides the default chunk size used by bulk add/update/
// delete operations.
func WithBatchSize(n int) ClientOption {
	return func(cfg *clientConfig) { cfg.batchSize = n }
}

// WithTimeout sets the per-request timeout passed to the executor.
func WithTimeout(d time.Duration) ClientOption {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

// WithRateLimit caps outbound requests to perSecond per second, grounded in
// the Airtable reference client's package-level ratelimit.Limiter, wired
// here as an optional per-Client limiter instead of a process-wide global.
func WithRateLimit(perSecond int) ClientOption {
	return func(cfg *clientConfig) {
		if perSecond > 0 {
			cfg.limiter = ratelimit.New(perSecond)
		}
	}
}

// WithExecutor overrides the default HTTP executor entirely, the hook tests
// use to inject a scripted fake.
func WithExecutor(e Executor) ClientOption {
	return func(cfg *clientConfig) { cfg.executor = e }
}

// NewClient constructs a Client talking to baseURL with the given token.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	cfg := &clientConfig{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     discardLogger{},
		batchSize:  defaultBatchSize,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	executor := cfg.executor
	if executor == nil {
		executor = newHTTPExecutor(baseURL, token, cfg.httpClient, cfg.logger, cfg.limiter)
	}

	return &Client{
		executor:  executor,
		logger:    cfg.logger,
		batchSize: clampPositive(cfg.batchSize, defaultBatchSize),
		timeout:   cfg.timeout,
		metrics:   newMetricsRegistry(),
	}
}

// GetTable returns a Table bound to this client. The schema is not fetched
// until first accessed.
func (c *Client) GetTable(id int) *Table {
	return &Table{id: id, client: c}
}

// doJSON issues one request through the executor and returns the decoded
// JSON body (or nil for a 204/empty response), mapping transport failures
// to the package error taxonomy.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any) (any, error) {
	return c.doRequest(ctx, method, endpoint, body, nil)
}

// doRequest is doJSON with an additional headers map, threaded through to
// the executor and merged over its defaults.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, headers map[string]string) (any, error) {
	resp, err := c.executor.Request(ctx, method, endpoint, body, nil, c.timeout, headers)
	if err != nil {
		return nil, err
	}
	if resp.JSON != nil {
		return resp.JSON, nil
	}
	if resp.Text != "" {
		return resp.Text, nil
	}
	return nil, nil
}

// MakeAPIRequest issues an arbitrary request against the Baserow API,
// exposing the same composed-headers/execute/map-errors/parse-JSON path the
// rest of this package uses internally. Any header here overrides the
// client's own Authorization/X-Request-Id/Content-Type defaults, mirroring
// the Python source's make_api_request(..., headers, ...) and its
// get_combined_headers() merge rule. Grounded on spec.md §4.7.
func (c *Client) MakeAPIRequest(ctx context.Context, method, endpoint string, body any, headers map[string]string) (any, error) {
	return c.doRequest(ctx, method, endpoint, body, headers)
}

func (c *Client) batchSizeOrDefault(n int) int {
	return clampPositive(n, c.batchSize)
}
