package relaydriver

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestDecodeRelayProofRoundTrip(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	encoded, err := relayProofArgs.Pack(uint256.NewInt(42).ToBig(), payload)
	if err != nil {
		t.Fatalf("unexpected pack error: %v", err)
	}

	proof, err := DecodeRelayProof(encoded)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if proof.BatchNonce.Uint64() != 42 {
		t.Fatalf("expected batch nonce 42, got %s", proof.BatchNonce.String())
	}
	if string(proof.Payload) != string(payload) {
		t.Fatalf("expected payload to round-trip, got %x", proof.Payload)
	}
}

func TestDecodeRelayProofRejectsGarbage(t *testing.T) {
	if _, err := DecodeRelayProof([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected an error decoding malformed proof bytes")
	}
}

func TestReconcileNonceEqualProceeds(t *testing.T) {
	proceed, msg := reconcileNonce(uint256.NewInt(5), uint256.NewInt(5))
	if !proceed || msg != "" {
		t.Fatalf("expected proceed with no message, got proceed=%v msg=%q", proceed, msg)
	}
}

func TestReconcileNonceLessHaltsStale(t *testing.T) {
	proceed, msg := reconcileNonce(uint256.NewInt(3), uint256.NewInt(5))
	if proceed {
		t.Fatal("expected halt for stale proof")
	}
	if msg == "" {
		t.Fatal("expected a diagnostic message")
	}
}

func TestReconcileNonceGreaterHaltsDivergence(t *testing.T) {
	proceed, msg := reconcileNonce(uint256.NewInt(9), uint256.NewInt(5))
	if proceed {
		t.Fatal("expected halt for nonce-ahead divergence")
	}
	if msg == "" {
		t.Fatal("expected a diagnostic message")
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		PreSync:      "PreSync",
		Proven:       "Proven",
		NonceChecked: "NonceChecked",
		Submitted:    "Submitted",
		Confirmed:    "Confirmed",
		Halted:       "Halted",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("state %d: expected %q, got %q", state, want, got)
		}
	}
}
