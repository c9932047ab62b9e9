// Command relay wires the bridge pool relayer core end to end: sync gate,
// bridge pool query, eligibility filter, batch optimizer, proof
// constructor, and relay driver. It is deliberately thin — flag parsing
// and process wiring only; the core decision logic lives in the
// packages it imports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/example/eth-bridge-relay/borshkv"
	"github.com/example/eth-bridge-relay/bridgetypes"
	"github.com/example/eth-bridge-relay/eligibility"
	"github.com/example/eth-bridge-relay/feemodel"
	"github.com/example/eth-bridge-relay/optimizer"
	"github.com/example/eth-bridge-relay/poolquery"
	"github.com/example/eth-bridge-relay/proofconstructor"
	"github.com/example/eth-bridge-relay/quorum"
	"github.com/example/eth-bridge-relay/relaydriver"
	"github.com/example/eth-bridge-relay/sourcerpc"
)

// unconfiguredSourceClient stands in for the deployment-specific
// source-chain RPC client (sourcerpc.Client). The source chain itself
// (and its wire protocol) is out of scope for this core; operators wire
// a real implementation in before running against a live bridge pool.
type unconfiguredSourceClient struct{}

var errSourceClientNotConfigured = fmt.Errorf("relay: no source-chain RPC client configured")

func (unconfiguredSourceClient) ReadEthereumBridgePool(ctx context.Context) ([]bridgetypes.PendingTransfer, error) {
	return nil, errSourceClientNotConfigured
}
func (unconfiguredSourceClient) ReadSignedEthereumBridgePool(ctx context.Context) ([]bridgetypes.PendingTransfer, error) {
	return nil, errSourceClientNotConfigured
}
func (unconfiguredSourceClient) TransferToEthereumProgress(ctx context.Context) (map[string]sourcerpc.InProgressTransfer, error) {
	return nil, errSourceClientNotConfigured
}
func (unconfiguredSourceClient) GenerateBridgePoolProof(ctx context.Context, req sourcerpc.ProofRequest) (sourcerpc.ProofResponse, error) {
	return sourcerpc.ProofResponse{}, errSourceClientNotConfigured
}
func (unconfiguredSourceClient) ReadBridgeContract(ctx context.Context) (common.Address, error) {
	return common.Address{}, errSourceClientNotConfigured
}
func (unconfiguredSourceClient) VotingPowersAtHeight(ctx context.Context, height uint64) (bridgetypes.VotingPowersMap, error) {
	return nil, errSourceClientNotConfigured
}
func (unconfiguredSourceClient) StorageValue(ctx context.Context, key string, height uint64) ([]byte, error) {
	return nil, errSourceClientNotConfigured
}

// validatorGas estimates the gas the bridge contract will spend verifying
// a batch's validator signatures and valset: signature_fee() times the
// number of signature checks Ethereum will actually perform (quorum.
// SignatureChecks over the signed bridge pool root's signer set), plus
// valset_fee() times the current validator set size.
func validatorGas(ctx context.Context, sourceClient sourcerpc.Client) (*uint256.Int, error) {
	raw, err := sourceClient.StorageValue(ctx, sourcerpc.SignedRootStorageKey, 0)
	if err != nil {
		return nil, fmt.Errorf("relay: read signed bridge pool root: %w", err)
	}

	rootProof, height, err := borshkv.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("relay: decode signed bridge pool root: %w", err)
	}

	votingPowers, err := sourceClient.VotingPowersAtHeight(ctx, height)
	if err != nil {
		return nil, fmt.Errorf("relay: read voting powers at height %d: %w", height, err)
	}

	valsetSize := uint256.NewInt(uint64(len(votingPowers)))
	checks := quorum.SignatureChecks(votingPowers, rootProof.Signatures)

	gas := new(uint256.Int).Add(
		new(uint256.Int).Mul(feemodel.SignatureFee, checks),
		new(uint256.Int).Mul(feemodel.ValsetFee, valsetSize),
	)
	return gas, nil
}

func main() {
	ethURL := flag.String("eth-rpc", "http://127.0.0.1:8545", "Ethereum JSON-RPC endpoint")
	contract := flag.String("contract", "", "bridge contract address")
	sync := flag.Bool("sync", true, "block until the Ethereum client reports synced before relaying")
	confirmations := flag.Uint64("confirmations", 1, "number of confirmations to await after submission")
	safeMode := flag.Bool("safe-mode", true, "install a shutdown-signal listener that cancels at the next suspension point")
	maxGas := flag.Uint64("max-gas", 0, "maximum total gas in gwei for a batch (0 = unbounded)")
	maxCostGwei := flag.Int64("max-cost", 0, "maximum net cost in gwei for a batch (positive allows net loss)")
	flag.Parse()

	if *contract == "" {
		fmt.Fprintln(os.Stderr, "relay: -contract is required")
		os.Exit(2)
	}

	ctx := context.Background()
	if *safeMode {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
		defer cancel()
	}

	client, err := ethclient.DialContext(ctx, *ethURL)
	if err != nil {
		log.Crit("dial ethereum client", "err", err)
	}

	// The source chain's RPC surface (sourcerpc.Client) is deployment-
	// specific: it speaks to whatever non-Ethereum chain hosts the
	// bridge pool, which is out of scope for this core. A concrete
	// implementation must be supplied here before this binary can run
	// against a live deployment.
	var sourceClient sourcerpc.Client = unconfiguredSourceClient{}

	pool := poolquery.ReadSigned(ctx, sourceClient)
	signedPool, ok := pool.Value()
	if !ok {
		if pool.IsHalt() {
			log.Info("signed bridge pool is empty, nothing to relay")
			return
		}
		log.Crit("read signed bridge pool", "err", pool.Err())
	}

	inProgress, err := sourceClient.TransferToEthereumProgress(ctx)
	if err != nil {
		log.Crit("read in-progress transfers", "err", err)
	}
	inProgressKeys := make(map[string]struct{}, len(inProgress))
	for hash := range inProgress {
		inProgressKeys[hash] = struct{}{}
	}

	recs := eligibility.Filter(signedPool, inProgressKeys, eligibility.ConversionTable{})
	eligible, ok := recs.Value()
	if !ok {
		if recs.IsHalt() {
			log.Info("eligibility filter halted the run")
			return
		}
		log.Crit("eligibility filter failed", "err", recs.Err())
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].Cost.Cmp(eligible[j].Cost) < 0
	})

	maxCost := feemodel.FromInt64(*maxCostGwei)
	gasCeiling := feemodel.MaxUint()
	if *maxGas > 0 {
		gasCeiling = uint256.NewInt(*maxGas)
	}

	gas, err := validatorGas(ctx, sourceClient)
	if err != nil {
		log.Crit("compute validator gas", "err", err)
	}

	batch, err := optimizer.Generate(eligible, eligibility.ConversionTable{}, gas, gasCeiling, maxCost)
	if err != nil {
		log.Crit("optimizer failed", "err", err)
	}
	if len(batch.Hashes) == 0 {
		log.Info("optimizer found no recommendable batch")
		return
	}

	outcome := relaydriver.Run(
		ctx,
		client,
		sourceClient,
		common.HexToAddress(*contract),
		proofconstructor.Request{TransferHashes: batch.Hashes, WithAppendix: true},
		relaydriver.Config{Sync: *sync, Confirmations: *confirmations},
		os.Stdin,
		os.Stdout,
	)
	result, err := outcome.Unwrap()
	if err != nil {
		log.Crit("relay failed", "err", err)
	}
	fmt.Printf("relayed in state %s, tx %s\n", result.State, strings.ToLower(result.Receipt.TxHash.Hex()))
}
