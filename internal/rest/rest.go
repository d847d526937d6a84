package rest

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Error writes an ErrorResponse with the given status code.
func Error(w http.ResponseWriter, status int, msg string, details ...string) {
	resp := ErrorResponse{Error: msg}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	JSON(w, status, resp)
}
