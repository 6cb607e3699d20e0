package baserow_test

import (
	"context"
	"testing"

	"github.com/go-baserow/baserow"
	"github.com/go-baserow/baserow/baserowtest"
)

func TestNewClientAppliesDefaultBatchSize(t *testing.T) {
	fake := baserowtest.NewFakeExecutor()
	fake.Handler = func(ctx context.Context, method, endpoint string, body any, headers map[string]string) (baserowtest.Response, error) {
		return baserowtest.Response{Status: 204}, nil
	}
	client := baserow.NewClient("https://example.invalid", "tok", baserow.WithExecutor(fake))
	if client == nil {
		t.Fatal("expected non-nil client")
	}
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	if err := client.GetTable(1).DeleteRows(context.Background(), nil, ids, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	baserowtest.AssertCallCount(t, fake, 2, "11 ids with the default batch size of 10 should take two batch-delete calls")
}

func TestClientRateLimitOptionDoesNotPanicWithZero(t *testing.T) {
	fake := baserowtest.NewFakeExecutor()
	client := baserow.NewClient("https://example.invalid", "tok",
		baserow.WithExecutor(fake),
		baserow.WithRateLimit(0),
	)
	if client == nil {
		t.Fatal("expected non-nil client")
	}
}

func TestClientDeleteRowsAcceptsNoContentResponse(t *testing.T) {
	fake := baserowtest.NewFakeExecutor()
	fake.Handler = func(ctx context.Context, method, endpoint string, body any, headers map[string]string) (baserowtest.Response, error) {
		return baserowtest.Response{Status: 204}, nil
	}
	client := baserow.NewClient("https://example.invalid", "tok", baserow.WithExecutor(fake))
	table := client.GetTable(1)
	if err := table.DeleteRows(context.Background(), nil, []int{1}, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientMetricsCountsOperations(t *testing.T) {
	fake := baserowtest.NewFakeExecutor()
	fake.Handler = func(ctx context.Context, method, endpoint string, body any, headers map[string]string) (baserowtest.Response, error) {
		return baserowtest.Response{Status: 204}, nil
	}
	client := baserow.NewClient("https://example.invalid", "tok", baserow.WithExecutor(fake))
	table := client.GetTable(1)
	if err := table.DeleteRows(context.Background(), nil, []int{1}, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := client.Metrics()
	if snap.Operations["1/delete_rows_batch"] != 1 {
		t.Errorf("expected one delete_rows_batch operation recorded, got %v", snap.Operations)
	}
}

func TestMakeAPIRequestPassesCallerHeadersThrough(t *testing.T) {
	fake := baserowtest.NewFakeExecutor()
	fake.Handler = func(ctx context.Context, method, endpoint string, body any, headers map[string]string) (baserowtest.Response, error) {
		return baserowtest.Response{Status: 200, JSON: map[string]any{"ok": true}}, nil
	}
	client := baserow.NewClient("https://example.invalid", "tok", baserow.WithExecutor(fake))

	_, err := client.MakeAPIRequest(context.Background(), "GET", "/api/database/fields/table/1/", nil,
		map[string]string{"X-Request-Id": "caller-supplied", "X-Custom": "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call, ok := fake.LastCall()
	if !ok {
		t.Fatal("expected a recorded call")
	}
	if call.Headers["X-Request-Id"] != "caller-supplied" {
		t.Errorf("expected caller-supplied X-Request-Id to reach the executor, got %v", call.Headers)
	}
	if call.Headers["X-Custom"] != "1" {
		t.Errorf("expected X-Custom header to reach the executor, got %v", call.Headers)
	}
}
