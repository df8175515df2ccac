package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandshakeHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/kernel", nil)

	HandshakeHandler("Kernel en funcionamiento")(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("Expected application/json, got %s", contentType)
	}

	var message string
	if err := json.NewDecoder(recorder.Body).Decode(&message); err != nil {
		t.Fatalf("Expected JSON body, got error: %v", err)
	}
	if message != "Kernel en funcionamiento" {
		t.Errorf("Unexpected message: %s", message)
	}
}
