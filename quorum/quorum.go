// Package quorum estimates how many signature checks Ethereum will
// actually perform to verify a bridge pool proof: the number of signers,
// taken in decreasing voting-power order, whose combined power first
// exceeds 2/3 of the total. Non-signers are passed over, not counted.
package quorum

import (
	"github.com/example/eth-bridge-relay/bridgetypes"
	"github.com/holiman/uint256"
)

// SignatureChecks walks the voting powers in decreasing order, counting
// signers until the accumulated fractional power first exceeds 2/3. Ties
// are broken by address (VotingPowersMap.SortedDescending). Non-signers
// occupy a rank but are neither counted nor advance the accumulator.
//
// The accumulator is tracked as an exact (numerator, denominator) pair
// over uint256 rather than a float, so there is no drift: "acc <= 2/3" is
// checked as "3*numerator <= 2*denominator" before each signer's share is
// folded in.
func SignatureChecks(powers bridgetypes.VotingPowersMap, signers map[bridgetypes.EthAddrBook]struct{}) *uint256.Int {
	sorted := powers.SortedDescending()
	total := powers.TotalPower()

	checks := uint256.NewInt(0)
	if total.IsZero() {
		return checks
	}

	numerator := uint256.NewInt(0)
	for _, entry := range sorted {
		if _, signed := signers[entry.Addr]; !signed {
			continue
		}
		// Stop counting once the accumulator already exceeds 2/3,
		// i.e. once 3*numerator > 2*total.
		threeNum := new(uint256.Int).Mul(numerator, uint256.NewInt(3))
		twoTotal := new(uint256.Int).Mul(total, uint256.NewInt(2))
		if threeNum.Gt(twoTotal) {
			break
		}
		numerator = new(uint256.Int).Add(numerator, entry.Power)
		checks = new(uint256.Int).Add(checks, uint256.NewInt(1))
	}
	return checks
}
