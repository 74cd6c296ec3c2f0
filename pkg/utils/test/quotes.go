package testutils

import (
	"io"
	"net/http"
	"net/http/httptest"
)

// NewQuoteServer starts a server that answers every request with code and
// body, standing in for the remote quote feed.
func NewQuoteServer(code int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}))
}
