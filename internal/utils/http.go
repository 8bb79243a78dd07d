package utils

import (
	"net/http"
)

// WriteText writes body as a plain-text HTTP response.
//
// It sets the "Content-Type" header to "text/plain; charset=utf-8" and writes
// the provided HTTP status code before sending the response body.
//
// Example usage:
//
//	WriteText(w, "1", http.StatusOK)
//	WriteText(w, "2", http.StatusOK)
func WriteText(w http.ResponseWriter, body string, statusCode int) (int, error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)

	return w.Write([]byte(body))
}
