package errors

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes the error as a JSON body with its status code
func (e *AppError) WriteJSON(w http.ResponseWriter) {
	status := e.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(e)
}
