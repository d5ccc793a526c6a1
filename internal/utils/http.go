package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON writes data as a JSON response with statusCode. When data cannot
// be marshalled it answers 500 Internal Server Error instead and returns the
// wrapped error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}
