package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is a success body; "success": true is added on write
type Envelope map[string]interface{}

// RespondJSON writes a JSON response with the given status code.
// It handles encoding errors safely by marshaling first, preventing
// partial responses if encoding fails after headers are sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondSuccess writes body with "success": true merged in
func RespondSuccess(w http.ResponseWriter, status int, body Envelope) {
	if body == nil {
		body = Envelope{}
	}
	body["success"] = true
	RespondJSON(w, status, body)
}

// ProblemDetail represents an RFC 7807 Problem Details response.
// Clients of the chat API read "success" and "message", so both are always
// written next to the standard members.
type ProblemDetail struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Extra    map[string]interface{} `json:"-"`
}

// MarshalJSON implements custom JSON marshaling to include Extra fields at top level
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	message := p.Detail
	if message == "" {
		message = p.Title
	}

	m := map[string]interface{}{
		"type":    p.Type,
		"title":   p.Title,
		"status":  p.Status,
		"success": false,
		"message": message,
	}

	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}

	for k, v := range p.Extra {
		m[k] = v
	}

	return json.Marshal(m)
}

// RespondError writes an RFC 7807 Problem Details error response
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondErrorWithExtras(w, status, detail, nil)
}

// RespondErrorWithExtras writes an RFC 7807 error with additional fields
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]interface{}) {
	problem := ProblemDetail{
		Type:   errorTypeFromStatus(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Extra:  extras,
	}

	payload, err := json.Marshal(problem)
	if err != nil {
		// Fallback to plain text if JSON encoding fails
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	w.Write(payload)
}

// errorTypeFromStatus returns the RFC 7807 type URI for a status code
func errorTypeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.1"
	case http.StatusUnauthorized:
		return "https://datatracker.ietf.org/doc/html/rfc7235#section-3.1"
	case http.StatusForbidden:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.3"
	case http.StatusNotFound:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4"
	case http.StatusTooManyRequests:
		return "https://datatracker.ietf.org/doc/html/rfc6585#section-4"
	case http.StatusInternalServerError:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.1"
	case http.StatusServiceUnavailable:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.4"
	default:
		return "about:blank"
	}
}
