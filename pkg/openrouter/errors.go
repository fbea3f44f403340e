package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/orbit-llm/orbit/pkg/api"
)

// mapHTTPError converts a non-2xx HTTP response into a classified *api.Error.
// It attempts to parse the response body as a ChatErrorResponse to extract a
// descriptive message.
func mapHTTPError(resp *http.Response) *api.Error {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if message == "" {
			message = "invalid API key"
		}
		return api.NewAuthenticationError(message)

	case resp.StatusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "rate limit exceeded"
		}
		retryAfter, _ := parseRetryAfter(resp, time.Now())
		return api.NewRateLimitError(message, retryAfter)

	case resp.StatusCode == http.StatusBadRequest:
		if message == "" {
			message = "invalid request"
		}
		return api.NewInvalidRequestError("", message)

	case resp.StatusCode >= http.StatusInternalServerError:
		if message == "" {
			message = fmt.Sprintf("backend server error (HTTP %d)", resp.StatusCode)
		}
		return api.NewServerError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("unexpected backend error (HTTP %d)", resp.StatusCode)
		}
		return api.NewUnknownError(message)
	}
}

// mapTransportError classifies an error from http.Client.Do: timeouts and
// aborts become Timeout, everything else Network. No response was received
// in either case.
func mapTransportError(ctx context.Context, err error) *api.Error {
	if ctx.Err() != nil {
		return api.NewTimeoutError(fmt.Sprintf("request aborted: %s", ctx.Err().Error()))
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return api.NewTimeoutError(fmt.Sprintf("request timed out: %s", err.Error()))
	}

	return api.NewNetworkError(fmt.Sprintf("backend connection error: %s", err.Error()))
}

// extractErrorMessage tries to parse the response body as a
// ChatErrorResponse and returns the error message if found. The read is
// bounded so a misbehaving backend cannot force a large allocation.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp ChatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	return ""
}

// parseRetryAfter reads the Retry-After header as either delta-seconds or
// an HTTP date. Returns false when the header is absent or unparseable.
func parseRetryAfter(resp *http.Response, now time.Time) (time.Duration, bool) {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
