// Package optimizer implements the batch-recommendation sweep: given a
// cost-sorted list of eligible transfers, greedily (or generously) grow a
// batch while a gas budget and a cost budget both hold, exploiting the
// fact that once a ceiling is exceeded no later, equal-or-worse-ranked
// transfer can bring the batch back into the feasible region.
package optimizer

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/example/eth-bridge-relay/bridgetypes"
	"github.com/example/eth-bridge-relay/eligibility"
	"github.com/example/eth-bridge-relay/feemodel"
)

// Mode selects between only ever recommending profitable transfers
// (Greedy) and allowing the batch to run a bounded net loss (Generous).
type Mode int

const (
	Greedy Mode = iota
	Generous
)

// ModeFor derives the algorithm mode from the caller's cost ceiling:
// Greedy iff maxCost <= 0, else Generous.
func ModeFor(maxCost feemodel.I256) Mode {
	if maxCost.LessOrEqual(feemodel.Zero()) {
		return Greedy
	}
	return Generous
}

// State tracks the two orthogonal facts the sweep must preserve as
// invariants: whether we are still only looking at profitable items, and
// whether we have ever found a prefix satisfying both ceilings. Once
// FeasibleRegion flips true it never flips back (spec.md §3 invariant 2).
type State struct {
	Profitable     bool
	FeasibleRegion bool
}

// Batch is the optimizer's recommendation: the ordered hash list plus the
// running totals a caller would want to display or act on.
type Batch struct {
	Hashes        []string
	TotalGasGwei  *uint256.Int
	NetProfitGwei feemodel.I256
	TotalFees     map[string]*uint256.Int
}

// Generate runs the two-mode monotone sweep described in spec.md §4.4.
// contents must already be sorted by Cost ascending (most profitable
// first) — callers should sort before calling, and Generate does not
// re-sort defensively since re-sorting here would hide a caller bug.
func Generate(
	contents []eligibility.Recommendation,
	table eligibility.ConversionTable,
	validatorGas *uint256.Int,
	maxGas *uint256.Int,
	maxCost feemodel.I256,
) (*Batch, error) {
	state := State{Profitable: true, FeasibleRegion: false}
	mode := ModeFor(maxCost)

	totalGas := validatorGas
	totalCost, err := feemodel.FromUint(validatorGas)
	if err != nil {
		return nil, err
	}
	totalFees := make(map[string]*uint256.Int)
	var recommendation []string

sweep:
	for _, candidate := range contents {
		nextGas := new(uint256.Int).Add(totalGas, feemodel.UnsignedTransferFee)
		nextCost := totalCost.Add(candidate.Cost)

		switch {
		case candidate.Cost.IsNegative():
			if nextGas.Cmp(maxGas) <= 0 && nextCost.LessOrEqual(maxCost) {
				state.FeasibleRegion = true
			} else if state.FeasibleRegion {
				// Once we leave the feasible region we never re-enter
				// it, since candidates only get worse from here.
				break sweep
			}
			recommendation = append(recommendation, candidate.TransferHash)

		case mode == Generous:
			state.Profitable = false
			isFeasible := nextGas.Cmp(maxGas) <= 0 && nextCost.LessOrEqual(maxCost)
			if state.FeasibleRegion && !isFeasible {
				break sweep
			}
			recommendation = append(recommendation, candidate.TransferHash)

		default:
			// Greedy mode, non-profitable candidate: stop.
			break sweep
		}

		totalGas = nextGas
		totalCost = nextCost
		updateTotalFees(totalFees, candidate.Transfer, table)
	}

	batch := &Batch{
		Hashes:        recommendation,
		TotalGasGwei:  totalGas,
		NetProfitGwei: totalCost.Neg(),
		TotalFees:     totalFees,
	}

	if state.FeasibleRegion && len(recommendation) > 0 {
		log.Info("recommended relay batch",
			"hashes", recommendation,
			"totalGasGwei", totalGas.String(),
			"netProfitGwei", batch.NetProfitGwei.String(),
		)
		return batch, nil
	}

	log.Info("unable to find a recommendation satisfying the input parameters")
	batch.Hashes = nil
	return batch, nil
}

// updateTotalFees merges a transfer's gas fee into the running total,
// keyed by the conversion table's alias when known, else the token's
// string form — never both for the same token (spec.md §3 invariant 3).
func updateTotalFees(totalFees map[string]*uint256.Int, transfer bridgetypes.PendingTransfer, table eligibility.ConversionTable) {
	key := transfer.GasFee.Token.String()
	if entry, ok := table[transfer.GasFee.Token]; ok {
		key = entry.Alias
	}
	prev, ok := totalFees[key]
	if !ok {
		prev = uint256.NewInt(0)
	}
	totalFees[key] = new(uint256.Int).Add(prev, transfer.GasFee.Amount)
}
