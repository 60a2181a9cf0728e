package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is the single normalized failure shape for every non-2xx response.
type APIError struct {
	Message   string
	Status    int
	RequestID string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("gateway: %s (status %d, request %s)", e.Message, e.Status, e.RequestID)
	}
	return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.Status)
}

// extractor tries to pull a human-readable message out of a response body.
type extractor func(body []byte) (string, bool)

// Backends disagree on the field carrying the error message; these are tried
// in order and the first hit wins.
var extractors = []extractor{
	jsonField("error"),
	jsonField("message"),
	jsonField("msg"),
}

func jsonField(field string) extractor {
	return func(body []byte) (string, bool) {
		var m map[string]any
		if err := json.Unmarshal(body, &m); err != nil {
			return "", false
		}
		if v, ok := m[field].(string); ok && v != "" {
			return v, true
		}
		return "", false
	}
}

// errorMessage resolves the failure message for a response: a recognized
// field in a structured body, else the raw body, else the status text.
// Malformed bodies only degrade the message, they never fail the call.
func errorMessage(status int, body []byte) string {
	for _, ex := range extractors {
		if msg, ok := ex(body); ok {
			return msg
		}
	}
	if len(bytes.TrimSpace(body)) > 0 {
		return string(body)
	}
	if txt := http.StatusText(status); txt != "" {
		return txt
	}
	return fmt.Sprintf("HTTP %d", status)
}
