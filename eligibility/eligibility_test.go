package eligibility

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/example/eth-bridge-relay/bridgetypes"
)

var gasToken = common.HexToAddress("0x0909090909090909090909090909090909090909")

func transfer(gasAmount uint64) bridgetypes.PendingTransfer {
	return bridgetypes.PendingTransfer{
		Kind:      bridgetypes.Erc20,
		Asset:     common.HexToAddress("0x01"),
		Recipient: common.HexToAddress("0x02"),
		Sender:    common.HexToAddress("0x03"),
		Amount:    uint256.NewInt(1),
		GasFee: bridgetypes.GasFee{
			Token:  gasToken,
			Amount: uint256.NewInt(gasAmount),
			Payer:  common.HexToAddress("0x03"),
		},
	}
}

func TestFilterExcludesInProgress(t *testing.T) {
	tr := transfer(100_000)
	hash := tr.Keccak256()
	pool := map[string]bridgetypes.PendingTransfer{hash: tr}
	inProgress := map[string]struct{}{hash: {}}
	table := ConversionTable{gasToken: {Alias: "gas", ConversionRate: 1}}

	out, ok := Filter(pool, inProgress, table).Value()
	if !ok {
		t.Fatal("expected Filter to proceed")
	}
	if len(out) != 0 {
		t.Fatalf("expected in-progress transfer excluded, got %d results", len(out))
	}
}

func TestFilterExcludesMissingConversionEntry(t *testing.T) {
	tr := transfer(100_000)
	hash := tr.Keccak256()
	pool := map[string]bridgetypes.PendingTransfer{hash: tr}

	out, ok := Filter(pool, nil, ConversionTable{}).Value()
	if !ok {
		t.Fatal("expected Filter to proceed")
	}
	if len(out) != 0 {
		t.Fatalf("expected transfer with no conversion entry excluded, got %d", len(out))
	}
}

func TestFilterExcludesNonPositiveRate(t *testing.T) {
	tr := transfer(100_000)
	hash := tr.Keccak256()
	pool := map[string]bridgetypes.PendingTransfer{hash: tr}
	table := ConversionTable{gasToken: {Alias: "gas", ConversionRate: 0}}

	out, ok := Filter(pool, nil, table).Value()
	if !ok {
		t.Fatal("expected Filter to proceed")
	}
	if len(out) != 0 {
		t.Fatalf("expected zero-rate transfer excluded, got %d", len(out))
	}
}

func TestFilterComputesCost(t *testing.T) {
	tr := transfer(100_000)
	hash := tr.Keccak256()
	pool := map[string]bridgetypes.PendingTransfer{hash: tr}
	table := ConversionTable{gasToken: {Alias: "gas", ConversionRate: 1}}

	out, ok := Filter(pool, nil, table).Value()
	if !ok {
		t.Fatal("expected Filter to proceed")
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(out))
	}
	// gwei_per_gas_token = floor(1e9/1) = 1e9; gas_value = 100_000 * 1e9
	// cost = 37_500 - 100_000_000_000_000 => deeply negative (profitable)
	if !out[0].Cost.IsNegative() {
		t.Fatalf("expected profitable (negative) cost, got %s", out[0].Cost.String())
	}
}
