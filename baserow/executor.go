package baserow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/ratelimit"
)

// Response is the decoded result of one executor call: a 204 decodes to
// Status=204 with no body; an empty body decodes to neither JSON nor Text
// set; otherwise the body is parsed as JSON, falling back to raw Text if it
// doesn't parse.
type Response struct {
	Status int
	JSON   any
	Text   string
}

// File is one multipart file payload for uploads.
type File struct {
	FieldName string
	FileName  string
	Content   io.Reader
}

// Executor is the capability interface injected into Client: a pure
// request/response boundary that lets tests supply a scripted fake instead
// of a live HTTP client.
type Executor interface {
	Request(ctx context.Context, method, endpoint string, body any, files []File, timeout time.Duration, headers map[string]string) (Response, error)
}

// httpExecutor is the default Executor, talking real HTTP. It mirrors the
// teacher SDK's doRequest/doRequestOnce: prepend the base URL to relative
// paths, attach the auth header, decode the response by status code, and
// map non-2xx statuses to a *Error with Kind=KindTransport.
type httpExecutor struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     Logger
	limiter    ratelimit.Limiter
}

func newHTTPExecutor(baseURL, token string, httpClient *http.Client, logger Logger, limiter ratelimit.Limiter) *httpExecutor {
	return &httpExecutor{baseURL: baseURL, token: token, httpClient: httpClient, logger: logger, limiter: limiter}
}

func (e *httpExecutor) Request(ctx context.Context, method, endpoint string, body any, files []File, timeout time.Duration, headers map[string]string) (Response, error) {
	if e.limiter != nil {
		e.limiter.Take()
	}

	reqURL, err := e.resolveURL(endpoint)
	if err != nil {
		return Response{}, newError(KindTransport, "invalid request URL").withURL(endpoint).withWrapped(err)
	}

	var bodyReader io.Reader
	contentType := "application/json"
	if len(files) > 0 {
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)
		for _, f := range files {
			part, err := writer.CreateFormFile(f.FieldName, f.FileName)
			if err != nil {
				return Response{}, newError(KindTransport, "failed to build multipart file part").withWrapped(err)
			}
			if _, err := io.Copy(part, f.Content); err != nil {
				return Response{}, newError(KindTransport, "failed to copy file content").withWrapped(err)
			}
		}
		if err := writer.Close(); err != nil {
			return Response{}, newError(KindTransport, "failed to close multipart writer").withWrapped(err)
		}
		bodyReader = buf
		contentType = writer.FormDataContentType()
	} else if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Response{}, newError(KindTransport, "failed to marshal request body").withWrapped(err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return Response{}, newError(KindTransport, "failed to build request").withURL(reqURL).withWrapped(err)
	}
	req.Header.Set("Authorization", "Token "+e.token)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if len(files) > 0 {
		req.Header.Set("Content-Type", contentType)
	} else if bodyReader != nil {
		req.Header.Set("Content-Type", contentType)
	}

	// Headers merge rule: caller-supplied headers override the defaults
	// above, mirroring the Python source's get_combined_headers()
	// ({**self.headers, **additional_headers}).
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	e.logger.Debugf("%s %s", method, reqURL)
	resp, err := e.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, newError(KindTransport, "request timed out").withURL(reqURL).withWrapped(ErrTimeout)
		}
		return Response{}, newError(KindTransport, "request failed").withURL(reqURL).withWrapped(err)
	}
	defer resp.Body.Close()

	return e.decode(resp, reqURL)
}

func (e *httpExecutor) decode(resp *http.Response, reqURL string) (Response, error) {
	if resp.StatusCode == http.StatusNoContent {
		return Response{Status: resp.StatusCode}, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, newError(KindTransport, "failed to read response body").withURL(reqURL).withWrapped(err)
	}

	out := Response{Status: resp.StatusCode}
	if len(raw) > 0 {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err == nil {
			out.JSON = parsed
		} else {
			out.Text = string(raw)
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return out, nil
	}

	kind := KindTransport
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.logger.Warnf("unauthorized request to %s", reqURL)
		return out, newError(kind, "unauthorized").withURL(reqURL).withStatus(resp.StatusCode).withWrapped(ErrUnauthorized)
	case http.StatusNotFound:
		return out, newError(kind, "not found").withURL(reqURL).withStatus(resp.StatusCode).withWrapped(ErrRowNotFound)
	}
	message := out.Text
	if message == "" && out.JSON != nil {
		encoded, _ := json.Marshal(out.JSON)
		message = string(encoded)
	}
	return out, newError(kind, fmt.Sprintf("server responded %d: %s", resp.StatusCode, message)).withURL(reqURL).withStatus(resp.StatusCode)
}

// resolveURL prepends the base URL to relative paths. For absolute URLs
// (e.g. a server-emitted "next" page link), the host and path are preserved
// but the scheme is coerced to the base URL's scheme, so a server
// misconfigured to emit http:// links still survives behind an https base.
func (e *httpExecutor) resolveURL(endpoint string) (string, error) {
	parsedEndpoint, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if !parsedEndpoint.IsAbs() {
		base, err := url.Parse(e.baseURL)
		if err != nil {
			return "", err
		}
		return base.ResolveReference(parsedEndpoint).String(), nil
	}
	base, err := url.Parse(e.baseURL)
	if err != nil {
		return "", err
	}
	parsedEndpoint.Scheme = base.Scheme
	return parsedEndpoint.String(), nil
}

// clampPositive is a small helper shared by the batching logic in table.go
// to fall back to a default chunk size when none (or a non-positive one)
// is supplied.
func clampPositive(n int, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
