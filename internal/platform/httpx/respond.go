// Package httpx provides HTTP response utilities.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the status/message body shared by every non-resource response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success sends a {"status":"success"} envelope.
func Success(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: "success", Message: message})
}

// Error sends a {"status":"error"} envelope. err, when non-nil, is exposed as
// details for diagnostics.
func Error(w http.ResponseWriter, status int, message string, err error) {
	env := Envelope{Status: "error", Message: message}
	if err != nil {
		env.Details = err.Error()
	}
	JSON(w, status, env)
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
