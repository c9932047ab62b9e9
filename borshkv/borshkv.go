// Package borshkv decodes the one borsh-encoded value this relayer ever
// reads off the source chain: the (BridgePoolRootProof, BlockHeight) tuple
// returned by storage_value for the signed bridge pool root (spec.md §6).
//
// No borsh library exists in this codebase's dependency pack (borsh is a
// Rust-ecosystem format); rather than adopt an out-of-pack dependency for
// a single fixed-shape value, this package hand-decodes just that shape
// using borsh's own encoding rules (little-endian, u32-length-prefixed
// collections, no padding) via encoding/binary.
package borshkv

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/example/eth-bridge-relay/bridgetypes"
)

// BridgePoolRootProof is the validator-signed root proof covering the
// signed bridge pool. Only the Merkle root and the signer set are
// modeled; raw signature bytes are opaque to the relayer core and are not
// needed downstream of the quorum estimate.
type BridgePoolRootProof struct {
	Root       [32]byte
	Signatures map[bridgetypes.EthAddrBook]struct{}
}

// Decode parses the borsh-encoded (BridgePoolRootProof, BlockHeight)
// tuple: a 32-byte root, a u32-length-prefixed list of (hot[20], cold[20])
// address pairs, then a little-endian u64 block height.
func Decode(data []byte) (BridgePoolRootProof, uint64, error) {
	r := bytes.NewReader(data)

	var proof BridgePoolRootProof
	if _, err := readFull(r, proof.Root[:]); err != nil {
		return BridgePoolRootProof{}, 0, fmt.Errorf("borshkv: read root: %w", err)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return BridgePoolRootProof{}, 0, fmt.Errorf("borshkv: read signature count: %w", err)
	}

	proof.Signatures = make(map[bridgetypes.EthAddrBook]struct{}, count)
	for i := uint32(0); i < count; i++ {
		var book bridgetypes.EthAddrBook
		if _, err := readFull(r, book.HotKeyAddr[:]); err != nil {
			return BridgePoolRootProof{}, 0, fmt.Errorf("borshkv: read hot key %d: %w", i, err)
		}
		if _, err := readFull(r, book.ColdKeyAddr[:]); err != nil {
			return BridgePoolRootProof{}, 0, fmt.Errorf("borshkv: read cold key %d: %w", i, err)
		}
		proof.Signatures[book] = struct{}{}
	}

	var height uint64
	if err := binary.Read(r, binary.LittleEndian, &height); err != nil {
		return BridgePoolRootProof{}, 0, fmt.Errorf("borshkv: read block height: %w", err)
	}

	return proof, height, nil
}

func readFull(r *bytes.Reader, buf []byte) (int, error) {
	return io.ReadFull(r, buf)
}
