// Package eligibility intersects the signed bridge pool snapshot with
// in-progress transfers and a conversion-rate table to produce the
// candidate list the batch optimizer sorts and sweeps.
package eligibility

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/example/eth-bridge-relay/bridgetypes"
	"github.com/example/eth-bridge-relay/feemodel"
	"github.com/example/eth-bridge-relay/haltflow"
)

// ConversionEntry names the gwei conversion rate for one gas-fee token.
type ConversionEntry struct {
	Alias          string
	ConversionRate float64
}

// ConversionTable maps a gas-fee token to its conversion entry.
type ConversionTable map[common.Address]ConversionEntry

// Recommendation is a transfer that has cleared eligibility, annotated
// with its net gwei cost. A negative Cost means relaying it is profitable.
type Recommendation struct {
	Transfer     bridgetypes.PendingTransfer
	TransferHash string
	Cost         feemodel.I256
}

// Filter applies the four eligibility rules from spec.md §4.3, in order:
// exclude in-progress transfers, exclude transfers with no conversion
// entry, exclude non-positive conversion rates (logging a diagnostic),
// and halt the whole run if a cost computation overflows I256.
func Filter(
	signedPool map[string]bridgetypes.PendingTransfer,
	inProgress map[string]struct{},
	table ConversionTable,
) haltflow.Outcome[[]Recommendation] {
	out := make([]Recommendation, 0, len(signedPool))
	for hash, transfer := range signedPool {
		if _, busy := inProgress[hash]; busy {
			continue
		}

		entry, known := table[transfer.GasFee.Token]
		if !known {
			continue
		}
		if entry.ConversionRate <= 0 {
			log.Warn("ignoring token with invalid conversion rate",
				"token", transfer.GasFee.Token.Hex(),
				"rate", entry.ConversionRate,
			)
			continue
		}

		gweiPerGasToken := feemodel.GweiPerGasToken(entry.ConversionRate)
		gasValue, overflow := new(uint256.Int).MulOverflow(
			transfer.GasFee.Amount,
			uint256.NewInt(gweiPerGasToken),
		)
		if overflow {
			log.Error("gas fee conversion overflowed uint256, halting run",
				"transferHash", hash,
				"token", transfer.GasFee.Token.Hex(),
			)
			return haltflow.Halt[[]Recommendation]()
		}

		gweiCost, err := feemodel.FromUint(gasValue)
		if err != nil {
			log.Error("gas fee value exceeds signed range, halting run",
				"transferHash", hash, "err", err)
			return haltflow.Halt[[]Recommendation]()
		}

		cost := feemodel.TransferFee().Sub(gweiCost)
		out = append(out, Recommendation{
			Transfer:     transfer,
			TransferHash: hash,
			Cost:         cost,
		})
	}
	return haltflow.Proceed(out)
}
