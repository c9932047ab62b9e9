package quorum

import (
	"testing"

	"github.com/example/eth-bridge-relay/bridgetypes"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func addrBook(i byte) bridgetypes.EthAddrBook {
	var hot, cold [20]byte
	hot[19] = i
	cold[19] = i
	return bridgetypes.EthAddrBook{
		HotKeyAddr:  hot,
		ColdKeyAddr: cold,
	}
}

func signerSet(books ...bridgetypes.EthAddrBook) map[bridgetypes.EthAddrBook]struct{} {
	out := make(map[bridgetypes.EthAddrBook]struct{}, len(books))
	for _, b := range books {
		out[b] = struct{}{}
	}
	return out
}

func TestSignatureChecksSingleSignerExceedsTwoThirds(t *testing.T) {
	a, b, c := addrBook(1), addrBook(2), addrBook(3)
	powers := bridgetypes.VotingPowersMap{
		a: uint256.NewInt(5),
		b: uint256.NewInt(1),
		c: uint256.NewInt(1),
	}
	checks := SignatureChecks(powers, signerSet(a, b, c))
	assert.Equal(t, uint256.NewInt(1), checks)
}

func TestSignatureChecksWithSkips(t *testing.T) {
	a, b, c, d := addrBook(1), addrBook(2), addrBook(3), addrBook(4)
	powers := bridgetypes.VotingPowersMap{
		a: uint256.NewInt(5),
		b: uint256.NewInt(5),
		c: uint256.NewInt(1),
		d: uint256.NewInt(1),
	}
	checks := SignatureChecks(powers, signerSet(a, c, d))
	assert.Equal(t, uint256.NewInt(3), checks)
}

func TestSignatureChecksEmptySignerSet(t *testing.T) {
	a := addrBook(1)
	powers := bridgetypes.VotingPowersMap{a: uint256.NewInt(10)}
	checks := SignatureChecks(powers, signerSet())
	assert.True(t, checks.IsZero())
}
