package service

import (
	"testing"
)

func TestModulesOverrideApplies(t *testing.T) {
	override := NewModulesOverride([]string{"eth", "net", "web3"})

	if !override.Applies([]byte(`{"id":1,"jsonrpc":"2.0","method":"rpc_modules"}`)) {
		t.Fatal("rpc_modules call was not intercepted")
	}
	if override.Applies([]byte(`{"id":1,"jsonrpc":"2.0","method":"eth_blockNumber","params":[]}`)) {
		t.Fatal("unrelated method was intercepted")
	}
	if override.Applies([]byte(`not json`)) {
		t.Fatal("malformed body was intercepted")
	}
}

func TestModulesOverrideResponse(t *testing.T) {
	override := NewModulesOverride([]string{"eth", "net", "web3"})

	resp := override.Response()
	if resp.StatusCode != 200 {
		t.Fatalf("status was %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type was %q", ct)
	}
	want := `{"jsonrpc":"2.0","result":{"eth":"1.0","net":"1.0","web3":"1.0"},"id":1}`
	if string(resp.Body) != want {
		t.Fatalf("body was %s, want %s", resp.Body, want)
	}
}

func TestModulesOverrideDisabled(t *testing.T) {
	override := NewModulesOverride(nil)
	if override != nil {
		t.Fatal("empty module list must disable the override")
	}
	if override.Applies([]byte(`{"id":1,"jsonrpc":"2.0","method":"rpc_modules"}`)) {
		t.Fatal("nil override intercepted a call")
	}
}
