package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpcsnoop/rpcsnoop/internal/infrastructure/logger"
)

func TestRetrieveBuffersResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := r.Header.Get("Accept-Encoding"); v != "" {
			t.Errorf("accept-encoding reached upstream: %q", v)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"id":1,"jsonrpc":"2.0","result":"0x10"}`)
	}))
	defer upstream.Close()

	req, err := http.NewRequest("POST", upstream.URL, strings.NewReader(`{"id":1}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	resp, err := NewUpstream(logger.NewLogger(io.Discard, "error")).Retrieve(req)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status was %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"id":1,"jsonrpc":"2.0","result":"0x10"}` {
		t.Fatalf("body was %q", resp.Body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type was %q", ct)
	}
}

func TestRetrieveUpstreamDown(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	req, err := http.NewRequest("POST", dead.URL, strings.NewReader(`{"id":1}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	if _, err := NewUpstream(logger.NewLogger(io.Discard, "error")).Retrieve(req); err == nil {
		t.Fatal("Retrieve against a closed upstream did not fail")
	}
}
