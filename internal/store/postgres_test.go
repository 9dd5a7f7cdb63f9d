package store

import (
	"encoding/hex"
	"testing"
)

func TestDedupKeyIsStableHexSHA256(t *testing.T) {
	body := []byte(`{"id":"evt_123"}`)
	got := dedupKey(body)
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("dedupKey output is not hex: %v", err)
	}
	if len(b) != 32 {
		t.Fatalf("expected a 32-byte SHA-256 digest, got %d bytes", len(b))
	}
	if dedupKey(body) != got {
		t.Fatalf("dedupKey is not deterministic for the same payload")
	}
}

func TestDedupKeyDiffersForDifferentPayloads(t *testing.T) {
	if dedupKey([]byte(`{"a":1}`)) == dedupKey([]byte(`{"a":2}`)) {
		t.Fatalf("dedupKey collided for different payloads")
	}
}

func TestNullIfEmpty(t *testing.T) {
	if nullIfEmpty("") != nil {
		t.Fatalf("nullIfEmpty(\"\") should be nil")
	}
	if nullIfEmpty("x") != "x" {
		t.Fatalf("nullIfEmpty(\"x\") should pass through")
	}
}
