// Package sourcerpc declares the source-chain RPC surface the relayer
// consumes (spec.md §6): bridge pool reads, relay-progress voting power,
// bridge pool proof generation, the bridge contract address, validator
// voting powers, and a single generic storage read used for the signed
// bridge pool root proof.
package sourcerpc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/example/eth-bridge-relay/bridgetypes"
)

// InProgressTransfer is a transfer already seen on Ethereum but not yet
// backed by a local quorum of validator signatures.
type InProgressTransfer struct {
	Transfer          bridgetypes.PendingTransfer
	FractionalBacking FractionalVotingPower
}

// FractionalVotingPower is an exact (numerator, denominator) fraction of
// total validator voting power, avoiding float drift when compared to
// fixed thresholds like 1/3.
type FractionalVotingPower struct {
	Numerator   uint64
	Denominator uint64
}

// ExceedsOneThird reports whether the fraction is strictly greater than
// 1/3, i.e. numerator*3 > denominator.
func (f FractionalVotingPower) ExceedsOneThird() bool {
	if f.Denominator == 0 {
		return false
	}
	return f.Numerator*3 > f.Denominator
}

// ProofRequest parameterizes a bridge pool proof request.
type ProofRequest struct {
	TransferHashes []string
	Relayer        common.Address
	WithAppendix   bool
}

// ProofAppendix carries the per-transfer gas fee metadata returned
// alongside a proof when WithAppendix is set, for fee-summation displays.
type ProofAppendix struct {
	TransferHash string
	GasFee       bridgetypes.GasFee
}

// ProofResponse is the opaque ABI-encoded proof plus optional appendices.
type ProofResponse struct {
	ABIEncodedProof []byte
	Appendices      []ProofAppendix
}

// SignedRootStorageKey is the storage key under which the source chain
// keeps its current signed bridge pool root proof, the
// `(BridgePoolRootProof, BlockHeight)` tuple StorageValue returns for
// borshkv.Decode.
const SignedRootStorageKey = "#eth_bridge/eth_msgs/signed_root"

// Client is the source-chain RPC surface the relayer core consumes.
type Client interface {
	ReadEthereumBridgePool(ctx context.Context) ([]bridgetypes.PendingTransfer, error)
	ReadSignedEthereumBridgePool(ctx context.Context) ([]bridgetypes.PendingTransfer, error)
	TransferToEthereumProgress(ctx context.Context) (map[string]InProgressTransfer, error)
	GenerateBridgePoolProof(ctx context.Context, req ProofRequest) (ProofResponse, error)
	ReadBridgeContract(ctx context.Context) (common.Address, error)
	VotingPowersAtHeight(ctx context.Context, height uint64) (bridgetypes.VotingPowersMap, error)
	StorageValue(ctx context.Context, key string, height uint64) ([]byte, error)
}
