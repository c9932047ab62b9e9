package bridgetypes

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func sampleTransfer() PendingTransfer {
	return PendingTransfer{
		Kind:      Erc20,
		Asset:     common.HexToAddress("0x0101010101010101010101010101010101010101"),
		Recipient: common.HexToAddress("0x0202020202020202020202020202020202020202"),
		Sender:    common.HexToAddress("0x0303030303030303030303030303030303030303"),
		Amount:    uint256.NewInt(1_000),
		GasFee: GasFee{
			Token:  common.HexToAddress("0x0404040404040404040404040404040404040404"),
			Amount: uint256.NewInt(100_000),
			Payer:  common.HexToAddress("0x0303030303030303030303030303030303030303"),
		},
	}
}

func TestKeccak256Idempotent(t *testing.T) {
	a := sampleTransfer()
	b := sampleTransfer()
	if a.Keccak256() != b.Keccak256() {
		t.Fatalf("expected identical transfers to hash equal: %s != %s", a.Keccak256(), b.Keccak256())
	}
}

func TestKeccak256DiffersOnAmount(t *testing.T) {
	a := sampleTransfer()
	b := sampleTransfer()
	b.Amount = uint256.NewInt(1_001)
	if a.Keccak256() == b.Keccak256() {
		t.Fatal("expected differing amounts to produce differing hashes")
	}
}

func TestVotingPowersSortedDescendingTieBreak(t *testing.T) {
	low := EthAddrBook{HotKeyAddr: common.HexToAddress("0x01")}
	high := EthAddrBook{HotKeyAddr: common.HexToAddress("0x02")}
	m := VotingPowersMap{
		low:  uint256.NewInt(5),
		high: uint256.NewInt(5),
	}
	sorted := m.SortedDescending()
	if len(sorted) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sorted))
	}
	if sorted[0].Addr != low {
		t.Fatalf("expected tie broken by address, lower address first; got %+v", sorted[0].Addr)
	}
}
