// Package bridgetypes holds the data shared across every relayer stage:
// the canonical PendingTransfer, its keccak256 wire identity, validator
// voting-power bookkeeping, and the ABI-decoded RelayProof submitted to
// the Ethereum bridge contract.
package bridgetypes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// TransferKind distinguishes a wrapped ERC20 redemption from a native NUT
// (Non-Usable Token) mint on the Ethereum side.
type TransferKind uint8

const (
	Erc20 TransferKind = iota
	Nut
)

func (k TransferKind) String() string {
	if k == Nut {
		return "nut"
	}
	return "erc20"
}

// GasFee is the fee a sender offers, denominated in a source-chain token,
// to have their transfer relayed.
type GasFee struct {
	Token  common.Address
	Amount *uint256.Int
	Payer  common.Address
}

// PendingTransfer is the canonical unit moving through the bridge pool.
// Its identity is the keccak256 digest of its canonical ABI encoding.
type PendingTransfer struct {
	Kind      TransferKind
	Asset     common.Address
	Recipient common.Address
	Sender    common.Address
	Amount    *uint256.Int
	GasFee    GasFee
}

var pendingTransferArgs = abi.Arguments{
	{Type: mustType("uint8")},
	{Type: mustType("address")},
	{Type: mustType("address")},
	{Type: mustType("address")},
	{Type: mustType("uint256")},
	{Type: mustType("address")},
	{Type: mustType("uint256")},
	{Type: mustType("address")},
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("bridgetypes: bad abi type %q: %v", t, err))
	}
	return typ
}

// Keccak256 returns the lowercase-hex-encoded keccak256 digest of the
// transfer's canonical ABI encoding, field order: kind, asset, recipient,
// sender, amount, gas_fee{token, amount, payer}. Two transfers with the
// same digest are indistinguishable (spec.md §3).
func (t PendingTransfer) Keccak256() string {
	packed, err := pendingTransferArgs.Pack(
		uint8(t.Kind),
		t.Asset,
		t.Recipient,
		t.Sender,
		t.Amount.ToBig(),
		t.GasFee.Token,
		t.GasFee.Amount.ToBig(),
		t.GasFee.Payer,
	)
	if err != nil {
		// The argument list above is fixed and always well-typed; a
		// failure here indicates a programming error, not bad input.
		panic(fmt.Sprintf("bridgetypes: pack pending transfer: %v", err))
	}
	hash := crypto.Keccak256(packed)
	return strings.ToLower(common.Bytes2Hex(hash))
}

// EthAddrBook pairs a validator's hot and cold Ethereum keys, used as the
// key for voting power and signature maps.
type EthAddrBook struct {
	HotKeyAddr  common.Address
	ColdKeyAddr common.Address
}

// VotingPowersMap maps validators to their voting power at some height.
type VotingPowersMap map[EthAddrBook]*uint256.Int

// PowerEntry is one row of a sorted voting-power listing.
type PowerEntry struct {
	Addr  EthAddrBook
	Power *uint256.Int
}

// SortedDescending returns entries in decreasing voting-power order, ties
// broken by address so the ordering is stable and deterministic.
func (m VotingPowersMap) SortedDescending() []PowerEntry {
	entries := make([]PowerEntry, 0, len(m))
	for addr, power := range m {
		entries = append(entries, PowerEntry{Addr: addr, Power: power})
	}
	sort.Slice(entries, func(i, j int) bool {
		if cmp := entries[i].Power.Cmp(entries[j].Power); cmp != 0 {
			return cmp > 0
		}
		return strings.Compare(
			entries[i].Addr.HotKeyAddr.Hex(),
			entries[j].Addr.HotKeyAddr.Hex(),
		) < 0
	})
	return entries
}

// TotalPower sums every entry's voting power.
func (m VotingPowersMap) TotalPower() *uint256.Int {
	total := uint256.NewInt(0)
	for _, power := range m {
		total = new(uint256.Int).Add(total, power)
	}
	return total
}

// RelayProof is the ABI-decoded structure submitted to the bridge
// contract's transfer_to_erc method: a batch nonce plus an opaque
// signature/proof payload.
type RelayProof struct {
	BatchNonce *uint256.Int
	// Payload carries whatever signature/proof bytes the ABI decode
	// produced beyond the nonce; relaydriver forwards it unexamined to
	// the bound contract call.
	Payload []byte
}
