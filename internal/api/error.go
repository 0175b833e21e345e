package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotFound matches any 404 HTTPError through errors.Is.
var ErrNotFound = errors.New("api: not found")

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4 << 10

// HTTPError represents a non-2xx response returned by the remote API.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte

	// Message is the "error" field of a JSON error body, if any.
	Message string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	detail := e.Message
	if detail == "" {
		detail = strings.TrimSpace(string(e.Body))
	}
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, detail)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func newHTTPError(method, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	httpErr := &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       body,
	}

	var payload struct {
		Error string `json:"error"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		httpErr.Message = payload.Error
	}
	return httpErr
}
