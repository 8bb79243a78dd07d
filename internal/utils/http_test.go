package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteText_Success(t *testing.T) {
	w := httptest.NewRecorder()

	n, err := WriteText(w, "1", http.StatusOK)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 byte written, got %d", n)
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("expected Content-Type 'text/plain; charset=utf-8', got '%s'", ct)
	}
	if w.Body.String() != "1" {
		t.Errorf("expected body 1, got %s", w.Body.String())
	}
}

func TestWriteText_CustomStatusCode(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteText(w, "storage temporarily unavailable", http.StatusServiceUnavailable)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}

func TestWriteText_EmptyBody(t *testing.T) {
	w := httptest.NewRecorder()

	n, err := WriteText(w, "", http.StatusOK)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 bytes written, got %d", n)
	}
}
