// ABOUTME: Tests for the XOR stream obfuscator.
// ABOUTME: Apply must be symmetric and deterministic across instances.
package outbox

import (
	"bytes"
	"testing"
)

func TestObfuscatorRoundtrip(t *testing.T) {
	o := DefaultObfuscator()
	plain := []byte(`{"id":"abc","weight":82.5,"updated_at":"2026-03-10T08:00:00Z"}`)

	enc := o.Apply(plain)
	if bytes.Equal(enc, plain) {
		t.Error("obfuscated bytes should differ from plaintext")
	}
	if got := o.Apply(enc); !bytes.Equal(got, plain) {
		t.Errorf("double Apply = %q, want original", got)
	}
}

func TestObfuscatorDeterministicAcrossInstances(t *testing.T) {
	plain := []byte("payload written by one build, read by another")
	enc := NewObfuscator(defaultSeed).Apply(plain)
	if got := DefaultObfuscator().Apply(enc); !bytes.Equal(got, plain) {
		t.Error("every build must share the same keystream")
	}
}

func TestObfuscatorLongPayload(t *testing.T) {
	// Spans multiple keystream blocks.
	plain := bytes.Repeat([]byte("fitness data "), 100)
	o := NewObfuscator("other-seed")
	if got := o.Apply(o.Apply(plain)); !bytes.Equal(got, plain) {
		t.Error("roundtrip failed across block boundaries")
	}
}

func TestObfuscatorEmpty(t *testing.T) {
	if got := DefaultObfuscator().Apply(nil); len(got) != 0 {
		t.Errorf("Apply(nil) = %v, want empty", got)
	}
}
