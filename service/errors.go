package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Failure classes the handlers map to user-facing responses. Cancelled
// contexts are not in this list on purpose: context.Canceled passes
// through untouched so callers can tell a gone client from a real
// failure.
var (
	// ErrUnreachable means no HTTP response was obtained at all.
	ErrUnreachable = errors.New("cannot reach the backend")

	// ErrNotFound is the backend's 404 for a missing record.
	ErrNotFound = errors.New("record not found")

	// ErrCSRF is the backend's 403. The cached token is already cleared
	// when this comes back; the next mutating call fetches a fresh one.
	ErrCSRF = errors.New("request rejected, please retry")

	// ErrCategoryInUse is the deletion guard on categories that still
	// have transactions.
	ErrCategoryInUse = errors.New("category is in use and cannot be deleted")
)

// ValidationError carries the backend's field-level messages from a 400
// response.
type ValidationError struct {
	Fields map[string][]string
}

// Error joins the field messages in field-name order.
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages flattens the per-field messages into display lines, prefixed
// with the field name except for the backend's generic keys.
func (e *ValidationError) Messages() []string {
	generic := map[string]bool{"detail": true, "error": true, "non_field_errors": true}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		for _, msg := range e.Fields[name] {
			if generic[name] {
				lines = append(lines, msg)
			} else {
				lines = append(lines, fmt.Sprintf("%s: %s", name, msg))
			}
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "invalid input")
	}
	return lines
}

// parseValidationError decodes the 400 body shapes the backend
// produces: {"field": ["msg", ...]}, {"field": "msg"}, {"detail":
// "msg"} and {"error": "msg"}. Anything undecodable becomes a single
// generic message from the raw body.
func parseValidationError(body []byte) *ValidationError {
	fields := map[string][]string{}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err == nil {
		for name, value := range raw {
			switch v := value.(type) {
			case string:
				fields[name] = append(fields[name], v)
			case []any:
				for _, item := range v {
					fields[name] = append(fields[name], fmt.Sprint(item))
				}
			default:
				fields[name] = append(fields[name], fmt.Sprint(v))
			}
		}
	}

	if len(fields) == 0 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = "invalid input"
		}
		fields["detail"] = []string{msg}
	}
	return &ValidationError{Fields: fields}
}

// StatusError reports a backend status the client has no mapping for.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}
