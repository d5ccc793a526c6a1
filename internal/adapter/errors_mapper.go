package adapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var statusKinds = map[int]error{
	http.StatusBadRequest:          ErrInvalidData,
	http.StatusNotAcceptable:       ErrInvalidData,
	http.StatusUnprocessableEntity: ErrInvalidData,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrUnauthorized,
	http.StatusNotFound:            ErrNotFound,
	http.StatusTooManyRequests:     ErrThrottled,
	http.StatusInternalServerError: ErrServerError,
}

// NewError returns the [*Error] for a response status. Statuses outside the
// taxonomy unwrap to [ErrUnknownStatus].
func NewError(statusCode int, description string) *Error {
	kind, ok := statusKinds[statusCode]
	if !ok {
		kind = ErrUnknownStatus
	}
	return &Error{StatusCode: statusCode, Description: description, kind: kind}
}

func mapHTTPError(resp *resty.Response) error {
	e := NewError(resp.StatusCode(), errorDescription(resp.Body()))
	if e.kind == ErrThrottled {
		e.RetryAfter = parseRetryAfter(resp.Header().Get("Retry-After"))
	}
	return e
}

func errorDescription(body []byte) string {
	var parsed struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Error) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(parsed.Error, &text); err == nil {
		return text
	}
	// structured errors such as {"error": {"name": ["is required"]}}
	return string(parsed.Error)
}

func parseRetryAfter(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if epoch, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(epoch, 0)
	}
	if t, err := http.ParseTime(value); err == nil {
		return t
	}
	return time.Time{}
}
