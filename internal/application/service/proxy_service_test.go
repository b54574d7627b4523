package service

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
	domain "github.com/rpcsnoop/rpcsnoop/internal/domain/service"
	"github.com/rpcsnoop/rpcsnoop/internal/infrastructure/logger"
	"github.com/rpcsnoop/rpcsnoop/internal/infrastructure/render"
	"github.com/rpcsnoop/rpcsnoop/internal/infrastructure/transport"
)

func newTestProxy(t *testing.T, dest string, requestRate, responseRate float64, modules []string, methods model.SuppressTable, out io.Writer) *ProxyService {
	t.Helper()
	u, err := url.Parse(dest)
	if err != nil {
		t.Fatalf("parse destination: %v", err)
	}

	log := logger.NewLogger(io.Discard, "error")
	return NewProxyService(
		transport.NewForwarder(u),
		transport.NewUpstream(log),
		domain.NewChaosGate(rand.New(rand.NewSource(7)), requestRate, responseRate, 0),
		domain.NewSuppressionEngine(methods, nil, log),
		domain.NewModulesOverride(modules),
		render.NewPresenter(out, render.NewPalette(true), false),
		log,
	)
}

func TestHandleForwardsExchange(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := r.Header.Get("Accept-Encoding"); v != "" {
			t.Errorf("accept-encoding reached upstream: %q", v)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":1,"jsonrpc":"2.0","result":"0x10"}`)
	}))
	defer upstream.Close()

	var out bytes.Buffer
	proxy := newTestProxy(t, upstream.URL, 0, 0, nil, nil, &out)

	rec := httptest.NewRecorder()
	inbound := httptest.NewRequest("POST", "http://proxy.local/", strings.NewReader(`{"id":1,"jsonrpc":"2.0","method":"eth_blockNumber","params":[]}`))
	inbound.Header.Set("Accept-Encoding", "gzip")

	if err := proxy.Handle(rec, inbound); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("caller saw status %d", rec.Code)
	}
	if rec.Body.String() != `{"id":1,"jsonrpc":"2.0","result":"0x10"}` {
		t.Fatalf("caller saw body %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("caller saw content type %q", ct)
	}

	logged := out.String()
	if !strings.Contains(logged, "REQUEST") || !strings.Contains(logged, "RESPONSE (status 200)") {
		t.Fatalf("exchange not logged: %q", logged)
	}
}

func TestHandleOverridesRpcModules(t *testing.T) {
	var hits int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer upstream.Close()

	var out bytes.Buffer
	proxy := newTestProxy(t, upstream.URL, 0, 0, []string{"eth", "net", "web3"}, nil, &out)

	rec := httptest.NewRecorder()
	inbound := httptest.NewRequest("POST", "http://proxy.local/", strings.NewReader(`{"id":1,"jsonrpc":"2.0","method":"rpc_modules"}`))

	if err := proxy.Handle(rec, inbound); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatal("rpc_modules call reached upstream")
	}
	want := `{"jsonrpc":"2.0","result":{"eth":"1.0","net":"1.0","web3":"1.0"},"id":1}`
	if rec.Body.String() != want {
		t.Fatalf("caller saw body %q, want %q", rec.Body.String(), want)
	}
}

func TestHandleSynthesizesUpstreamFailure(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	var out bytes.Buffer
	proxy := newTestProxy(t, dead.URL, 0, 0, nil, nil, &out)

	rec := httptest.NewRecorder()
	inbound := httptest.NewRequest("POST", "http://proxy.local/", strings.NewReader(`{"id":1,"jsonrpc":"2.0","method":"eth_blockNumber","params":[]}`))

	if err := proxy.Handle(rec, inbound); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("caller saw status %d, want 500", rec.Code)
	}
	body := rec.Body.Bytes()
	if !model.IsRpcErrorShape(body) {
		t.Fatalf("caller saw body %q, want a JSON-RPC error", body)
	}
	if !strings.Contains(string(body), "processing response") {
		t.Fatalf("error body does not carry the phase: %q", body)
	}
}

func TestHandleDropsRequest(t *testing.T) {
	var hits int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer upstream.Close()

	var out bytes.Buffer
	proxy := newTestProxy(t, upstream.URL, 1, 0, nil, nil, &out)

	rec := httptest.NewRecorder()
	inbound := httptest.NewRequest("POST", "http://proxy.local/", strings.NewReader(`{"id":1}`))

	err := proxy.Handle(rec, inbound)
	if !errors.Is(err, model.ErrRequestDropped) {
		t.Fatalf("Handle returned %v, want ErrRequestDropped", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatal("dropped request reached upstream")
	}
	if !strings.Contains(out.String(), "DROPPED REQUEST") {
		t.Fatalf("drop not logged: %q", out.String())
	}
}

func TestHandleDropsResponse(t *testing.T) {
	var hits int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		io.WriteString(w, `{"id":1,"jsonrpc":"2.0","result":"0x10"}`)
	}))
	defer upstream.Close()

	var out bytes.Buffer
	proxy := newTestProxy(t, upstream.URL, 0, 1, nil, nil, &out)

	rec := httptest.NewRecorder()
	inbound := httptest.NewRequest("POST", "http://proxy.local/", strings.NewReader(`{"id":1}`))

	err := proxy.Handle(rec, inbound)
	if !errors.Is(err, model.ErrResponseDropped) {
		t.Fatalf("Handle returned %v, want ErrResponseDropped", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatal("request should still reach upstream when only the response is dropped")
	}
	if !strings.Contains(out.String(), "DROPPED RESPONSE") {
		t.Fatalf("drop not logged: %q", out.String())
	}
}

func TestHandleDropBypassesSuppression(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer upstream.Close()

	methods, err := model.ParseSuppressTable([]string{"eth_call"})
	if err != nil {
		t.Fatalf("ParseSuppressTable failed: %v", err)
	}

	var out bytes.Buffer
	proxy := newTestProxy(t, upstream.URL, 1, 0, nil, methods, &out)

	rec := httptest.NewRecorder()
	inbound := httptest.NewRequest("POST", "http://proxy.local/", strings.NewReader(`{"id":1,"jsonrpc":"2.0","method":"eth_call","params":[]}`))

	if err := proxy.Handle(rec, inbound); !errors.Is(err, model.ErrRequestDropped) {
		t.Fatalf("Handle returned %v, want ErrRequestDropped", err)
	}
	if !strings.Contains(out.String(), "DROPPED REQUEST") {
		t.Fatalf("dropped exchange was suppressed: %q", out.String())
	}
}

func TestHandleSuppressesMatchingMethod(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":1,"jsonrpc":"2.0","result":"0x0"}`)
	}))
	defer upstream.Close()

	methods, err := model.ParseSuppressTable([]string{"eth_call"})
	if err != nil {
		t.Fatalf("ParseSuppressTable failed: %v", err)
	}

	var out bytes.Buffer
	proxy := newTestProxy(t, upstream.URL, 0, 0, nil, methods, &out)

	rec := httptest.NewRecorder()
	inbound := httptest.NewRequest("POST", "http://proxy.local/", strings.NewReader(`{"id":1,"jsonrpc":"2.0","method":"eth_call","params":[]}`))

	if err := proxy.Handle(rec, inbound); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("fully suppressed exchange still logged: %q", out.String())
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("suppression must not affect forwarding, caller saw %d", rec.Code)
	}
}
