// Package gateway is the uniform remote-call layer shared by every
// external integration. Each integration owns an immutable client
// value (base endpoint, credential, transport); updating a credential
// builds a fresh client and swaps an atomic pointer, it never mutates
// shared state. All ordinary failures come back as a tagged *Error;
// only cooperative cancellation is re-raised untouched.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Kind discriminates gateway failure modes.
type Kind int

const (
	// KindNoCredential means no credential/client is configured;
	// no network access was attempted.
	KindNoCredential Kind = iota
	// KindServiceUnreachable covers connection failures and timeouts.
	KindServiceUnreachable
	// KindHTTPError is a non-2xx HTTP response.
	KindHTTPError
	// KindErrorBody is a well-formed response carrying only an error
	// payload.
	KindErrorBody
	// KindBodyAndErrorNull is a well-formed response with neither a
	// body nor an error payload.
	KindBodyAndErrorNull
	// KindUnknown wraps any other failure.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNoCredential:
		return "no_credential"
	case KindServiceUnreachable:
		return "service_unreachable"
	case KindHTTPError:
		return "http_error"
	case KindErrorBody:
		return "error_body"
	case KindBodyAndErrorNull:
		return "body_and_error_null"
	default:
		return "unknown"
	}
}

// Error is the tagged failure result of a gateway call.
type Error struct {
	Integration string
	Kind        Kind
	StatusCode  int
	Message     string
	Body        []byte
	Cause       error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (%d): %s", e.Integration, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Integration, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf extracts the failure kind from an error returned by a
// gateway call. ok is false for non-gateway errors (including
// propagated cancellation).
func KindOf(err error) (Kind, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a gateway error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// client is the immutable per-credential state of one integration.
// A nil *client is the valid "no credential configured" state.
type client struct {
	name    string
	baseURL string
	http    *http.Client
	header  http.Header
	limiter *rate.Limiter
	logger  *zap.Logger
}

func newClient(name, baseURL string, httpClient *http.Client, header http.Header, rps float64, logger *zap.Logger) *client {
	if rps <= 0 {
		rps = 1
	}
	return &client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		header:  header,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// fail logs a failure and returns it. Logging never alters the result.
func (c *client) fail(e *Error) *Error {
	c.logger.Warn("Gateway call failed",
		zap.String("integration", e.Integration),
		zap.String("kind", e.Kind.String()),
		zap.Int("status", e.StatusCode),
		zap.String("message", e.Message),
		zap.Error(e.Cause),
	)
	return e
}

// noCredential reports the unconfigured state for an integration.
func noCredential(name string, logger *zap.Logger) *Error {
	e := &Error{Integration: name, Kind: KindNoCredential, Message: "integration is not configured"}
	logger.Warn("Gateway call failed",
		zap.String("integration", name),
		zap.String("kind", e.Kind.String()),
		zap.String("message", e.Message),
	)
	return e
}

// errorEnvelope matches the error shape upstream APIs use for
// well-formed failure payloads.
type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

// do executes one request and classifies the outcome. Cooperative
// cancellation is propagated as the context's error, never converted
// to an *Error.
func (c *client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait only fails on cancellation or an exceeded deadline.
		return nil, err
	}

	for k, vals := range c.header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return nil, c.fail(&Error{Integration: c.name, Kind: KindServiceUnreachable, Message: "request timed out", Cause: err})
		}
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, c.fail(&Error{Integration: c.name, Kind: KindServiceUnreachable, Message: "connection failed", Cause: err})
		}
		return nil, c.fail(&Error{Integration: c.name, Kind: KindUnknown, Message: "transport failure", Cause: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, c.fail(&Error{Integration: c.name, Kind: KindUnknown, Message: "failed to read response body", Cause: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(&Error{
			Integration: c.name,
			Kind:        KindHTTPError,
			StatusCode:  resp.StatusCode,
			Message:     strings.TrimSpace(fmt.Sprintf("%s %s", resp.Status, excerpt(body))),
			Body:        body,
		})
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, c.fail(&Error{Integration: c.name, Kind: KindBodyAndErrorNull, Message: "response carried neither body nor error"})
	}

	var env errorEnvelope
	if err := json.Unmarshal(trimmed, &env); err == nil &&
		len(env.Error) > 0 && !bytes.Equal(env.Error, []byte("null")) {
		return nil, c.fail(&Error{
			Integration: c.name,
			Kind:        KindErrorBody,
			Message:     excerpt(env.Error),
			Body:        body,
		})
	}

	return body, nil
}

// get performs GET baseURL+path with optional query parameters.
func (c *client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, c.fail(&Error{Integration: c.name, Kind: KindUnknown, Message: "failed to build request", Cause: err})
	}

	return c.do(ctx, req)
}

// post performs POST baseURL+path with a JSON body.
func (c *client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, c.fail(&Error{Integration: c.name, Kind: KindUnknown, Message: "failed to encode request body", Cause: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, c.fail(&Error{Integration: c.name, Kind: KindUnknown, Message: "failed to build request", Cause: err})
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req)
}

// decode unmarshals a successful response body into dest.
func (c *client) decode(body []byte, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return c.fail(&Error{Integration: c.name, Kind: KindUnknown, Message: "failed to decode payload", Body: body, Cause: err})
	}
	return nil
}

// excerpt truncates a body for log/error messages.
func excerpt(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
