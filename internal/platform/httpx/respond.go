package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// FieldErrors sends a 400 listing invalid fields.
func FieldErrors(w http.ResponseWriter, message string, fields map[string]string) {
	JSON(w, http.StatusBadRequest, ErrorBody{Error: message, Fields: fields})
}

// DecodeJSON decodes JSON request body into the target struct, rejecting unknown fields.
func DecodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return Validation("Corpo da requisição inválido")
	}
	return nil
}
