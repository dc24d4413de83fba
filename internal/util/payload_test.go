package util

import (
	"encoding/json"
	"testing"
)

func TestDecodePayload(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var out payload
	if !DecodePayload(json.RawMessage(`{"name":"ok"}`), &out) {
		t.Fatalf("valid payload must decode")
	}
	if out.Name != "ok" {
		t.Fatalf("expected name ok, got %q", out.Name)
	}

	var empty payload
	if DecodePayload(nil, &empty) {
		t.Fatalf("empty payload must report false")
	}
	if DecodePayload(json.RawMessage(`{broken`), &empty) {
		t.Fatalf("malformed payload must report false")
	}
	if empty.Name != "" {
		t.Fatalf("failed decode must leave out untouched, got %q", empty.Name)
	}
}

func TestMustMarshalRoundTrip(t *testing.T) {
	raw := MustMarshal(map[string]int{"a": 1})

	var out map[string]int
	if !DecodePayload(raw, &out) || out["a"] != 1 {
		t.Fatalf("round trip failed: %s", raw)
	}
}
