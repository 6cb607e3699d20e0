// Package baserowtest provides a scripted fake Executor and assertion
// helpers for testing code built on the baserow package without a live
// server, grounded on the teacher SDK's MockClient/assertions shape.
package baserowtest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-baserow/baserow"
)

// Call records one request the FakeExecutor observed.
type Call struct {
	Method   string
	Endpoint string
	Body     any
	Headers  map[string]string
}

// Response is one scripted reply: either a JSON body and status, or an
// error to return instead.
type Response struct {
	Status int
	JSON   any
	Err    error
}

// FakeExecutor implements baserow.Executor by replaying a scripted sequence
// of responses, one per call, in order. It is not safe for concurrent use
// by multiple goroutines issuing requests in an order that matters, but
// records calls under a mutex so assertions can run concurrently with use.
type FakeExecutor struct {
	mu        sync.Mutex
	responses []Response
	calls     []Call

	// Handler, when set, takes priority over the scripted response queue:
	// it is called for every request and its return value is used as-is.
	// Useful for stateful fakes (e.g. a table that tracks its own rows).
	Handler func(ctx context.Context, method, endpoint string, body any, headers map[string]string) (Response, error)
}

// NewFakeExecutor constructs a FakeExecutor that will reply with responses
// in order, one per call. A call made after the scripted responses are
// exhausted returns an error.
func NewFakeExecutor(responses ...Response) *FakeExecutor {
	return &FakeExecutor{responses: responses}
}

func (f *FakeExecutor) Request(ctx context.Context, method, endpoint string, body any, files []baserow.File, timeout time.Duration, headers map[string]string) (baserow.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Endpoint: endpoint, Body: body, Headers: headers})
	f.mu.Unlock()

	if f.Handler != nil {
		resp, err := f.Handler(ctx, method, endpoint, body, headers)
		return toExecutorResponse(resp), err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		return baserow.Response{}, fmt.Errorf("baserowtest: no scripted response left for %s %s", method, endpoint)
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	if next.Err != nil {
		return baserow.Response{}, next.Err
	}
	return toExecutorResponse(next), nil
}

func toExecutorResponse(r Response) baserow.Response {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	return baserow.Response{Status: status, JSON: r.JSON}
}

// Calls returns every request observed so far, in order.
func (f *FakeExecutor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// LastCall returns the most recent observed call, or ok=false if none yet.
func (f *FakeExecutor) LastCall() (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}, false
	}
	return f.calls[len(f.calls)-1], true
}
