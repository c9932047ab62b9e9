// Package feemodel implements the relayer's fixed-point gwei accounting:
// unsigned 256-bit amounts via github.com/holiman/uint256, and a signed
// 256-bit counterpart (I256) for net cost, which can go negative when a
// transfer is profitable to relay.
package feemodel

import (
	"errors"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// ErrOutOfRange is returned when a Uint value cannot be represented as a
// signed 256-bit integer (i.e. it is >= 2^255).
var ErrOutOfRange = errors.New("feemodel: value exceeds signed 256-bit range")

var (
	// maxI256 is 2^255 - 1, the largest representable I256.
	maxI256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	// minI256 is -2^255, the smallest representable I256.
	minI256 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
)

// Gwei fee constants, fixed at package initialization.
var (
	UnsignedTransferFee = uint256.NewInt(37_500)
	SignatureFee        = uint256.NewInt(24_500)
	ValsetFee           = uint256.NewInt(2_000)
)

// TransferFee is UnsignedTransferFee expressed as a signed cost.
func TransferFee() I256 {
	f, err := FromUint(UnsignedTransferFee)
	if err != nil {
		// 37_500 always fits in I256; a failure here means the constant
		// itself was corrupted.
		panic(err)
	}
	return f
}

// I256 is a signed 256-bit integer, used exclusively for net relay cost.
// It is kept distinct from Uint so gas (always unsigned) and cost (which
// may be negative for profitable transfers) can never be mixed up at the
// type level.
type I256 struct {
	v *big.Int
}

// Zero is the additive identity.
func Zero() I256 { return I256{v: big.NewInt(0)} }

// FromInt64 builds an I256 from a native int64.
func FromInt64(n int64) I256 { return I256{v: big.NewInt(n)} }

// FromUint converts an unsigned 256-bit value to I256, failing explicitly
// if it exceeds the signed range (spec.md §4.1).
func FromUint(u *uint256.Int) (I256, error) {
	b := u.ToBig()
	if b.Cmp(maxI256) > 0 {
		return I256{}, ErrOutOfRange
	}
	return I256{v: b}, nil
}

// Add returns a + b.
func (a I256) Add(b I256) I256 {
	return I256{v: new(big.Int).Add(a.v, b.v)}
}

// Sub returns a - b.
func (a I256) Sub(b I256) I256 {
	return I256{v: new(big.Int).Sub(a.v, b.v)}
}

// Neg returns -a.
func (a I256) Neg() I256 {
	return I256{v: new(big.Int).Neg(a.v)}
}

// Cmp compares a to b, returning -1, 0, or +1.
func (a I256) Cmp(b I256) int { return a.v.Cmp(b.v) }

// IsNegative reports whether a < 0.
func (a I256) IsNegative() bool { return a.v.Sign() < 0 }

// LessOrEqual reports whether a <= b.
func (a I256) LessOrEqual(b I256) bool { return a.Cmp(b) <= 0 }

// String renders the decimal value.
func (a I256) String() string { return a.v.String() }

// BigInt exposes the underlying value for display/serialization; callers
// must not mutate the result.
func (a I256) BigInt() *big.Int { return a.v }

// InRange reports whether the value fits the fixed 256-bit signed range.
// Add, Sub and Neg do not check the range themselves.
func (a I256) InRange() bool {
	return a.v.Cmp(minI256) >= 0 && a.v.Cmp(maxI256) <= 0
}

// MaxI256 returns the largest representable I256 (2^255 - 1), used by
// callers that want an effectively unbounded cost ceiling.
func MaxI256() I256 {
	return I256{v: new(big.Int).Set(maxI256)}
}

// MaxUint returns the largest representable unsigned 256-bit value,
// used by callers that want an effectively unbounded gas ceiling.
func MaxUint() *uint256.Int {
	max := new(uint256.Int)
	max.SetAllOne()
	return max
}

// GweiPerGasToken computes floor(1e9 / conversionRate), clamping to
// math.MaxUint64 for degenerately small positive rates rather than
// overflowing silently (spec.md §4.1, §9.3). conversionRate must be > 0;
// callers are expected to have already rejected non-positive rates during
// eligibility filtering.
func GweiPerGasToken(conversionRate float64) uint64 {
	raw := math.Floor(1e9 / conversionRate)
	if raw >= math.MaxUint64 || math.IsInf(raw, 1) {
		log.Warn("gwei per gas token clamped to max uint64", "conversionRate", conversionRate)
		return math.MaxUint64
	}
	return uint64(raw)
}
