// Package relaydriver implements the relay state machine (spec.md §4.6):
// wait for sync, obtain a proof, reconcile the batch nonce against the
// bridge contract, submit the transaction, and await confirmations.
// Adapted from the teacher's geth/08-abigen BoundContract pattern and
// geth/05-tx-nonces's nonce-comparison logic.
package relaydriver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/holiman/uint256"

	"github.com/example/eth-bridge-relay/bridgetypes"
	"github.com/example/eth-bridge-relay/ethrpc"
	"github.com/example/eth-bridge-relay/haltflow"
	"github.com/example/eth-bridge-relay/proofconstructor"
	"github.com/example/eth-bridge-relay/sourcerpc"
	"github.com/example/eth-bridge-relay/syncgate"
)

var errColor = color.New(color.FgRed, color.Bold)

// bridgeABI declares only the two bridge-contract methods this driver
// calls: the current ERC-20 transfer nonce, and proof submission.
const bridgeABI = `[
	{"constant":true,"inputs":[],"name":"transfer_to_erc_20_nonce","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"batch_nonce","type":"uint256"},{"name":"payload","type":"bytes"}],"name":"transfer_to_erc","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var relayProofArgs = abi.Arguments{
	{Type: mustType("uint256")},
	{Type: mustType("bytes")},
}

func mustType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// State is a step in the relay state machine.
type State int

const (
	PreSync State = iota
	Proven
	NonceChecked
	Submitted
	Confirmed
	Halted
)

func (s State) String() string {
	switch s {
	case PreSync:
		return "PreSync"
	case Proven:
		return "Proven"
	case NonceChecked:
		return "NonceChecked"
	case Submitted:
		return "Submitted"
	case Confirmed:
		return "Confirmed"
	case Halted:
		return "Halted"
	default:
		return "Unknown"
	}
}

// Config parameterizes a single relay attempt.
type Config struct {
	Sync          bool
	Confirmations uint64
	Gas           uint64
	GasPrice      *big.Int
	From          *common.Address
	Signer        bind.SignerFn
}

// Result is the terminal outcome of a successful relay.
type Result struct {
	State   State
	Receipt *types.Receipt
}

// DecodeRelayProof ABI-decodes an opaque proof into its batch nonce and
// payload (spec.md §4.6).
func DecodeRelayProof(encoded []byte) (bridgetypes.RelayProof, error) {
	values, err := relayProofArgs.Unpack(encoded)
	if err != nil {
		return bridgetypes.RelayProof{}, fmt.Errorf("relaydriver: decode proof: %w", err)
	}
	if len(values) != 2 {
		return bridgetypes.RelayProof{}, errors.New("relaydriver: decode proof: unexpected field count")
	}
	nonceBig, ok := abi.ConvertType(values[0], new(big.Int)).(*big.Int)
	if !ok {
		return bridgetypes.RelayProof{}, errors.New("relaydriver: decode proof: batch_nonce is not a uint256")
	}
	payload, ok := abi.ConvertType(values[1], new([]byte)).(*[]byte)
	if !ok {
		return bridgetypes.RelayProof{}, errors.New("relaydriver: decode proof: payload is not bytes")
	}
	nonce, overflow := uint256.FromBig(nonceBig)
	if overflow {
		return bridgetypes.RelayProof{}, errors.New("relaydriver: decode proof: batch_nonce overflows uint256")
	}
	return bridgetypes.RelayProof{BatchNonce: nonce, Payload: *payload}, nil
}

// Run drives the relay state machine to completion: PreSync → Proven →
// NonceChecked → Submitted → Confirmed, or a clean Halt at any of the
// nonce-mismatch, sync-timeout, or proof-request decision points.
func Run(
	ctx context.Context,
	ethClient ethrpc.Client,
	sourceClient sourcerpc.Client,
	contract common.Address,
	proofReq proofconstructor.Request,
	cfg Config,
	prompt io.Reader,
	out io.Writer,
) haltflow.Outcome[Result] {
	// PreSync -> Proven
	if cfg.Sync {
		if err := syncgate.Await(ctx, ethClient, syncgate.Config{
			Mode:         syncgate.Block,
			PollInterval: time.Second,
			Deadline:     60 * time.Second,
		}); err != nil {
			log.Error("sync gate did not clear before deadline", "err", err)
			return haltflow.Halt[Result]()
		}
	} else {
		if err := syncgate.Await(ctx, ethClient, syncgate.Config{Mode: syncgate.ExitIfNotSynced}); err != nil {
			if errors.Is(err, syncgate.ErrNotSynced) || errors.Is(err, syncgate.ErrStale) {
				return haltflow.Halt[Result]()
			}
			return haltflow.Fail[Result](err)
		}
	}

	proofOutcome := proofconstructor.Construct(ctx, sourceClient, proofReq, prompt, out)
	proofResp, ok := proofOutcome.Value()
	if !ok {
		if proofOutcome.IsHalt() {
			return haltflow.Halt[Result]()
		}
		return haltflow.Fail[Result](proofOutcome.Err())
	}

	// Proven -> NonceChecked
	proof, err := DecodeRelayProof(proofResp.ABIEncodedProof)
	if err != nil {
		log.Error("proof decode failed", "err", err)
		return haltflow.Halt[Result]()
	}

	parsedABI, err := abi.JSON(strings.NewReader(bridgeABI))
	if err != nil {
		return haltflow.Fail[Result](fmt.Errorf("relaydriver: parse bridge ABI: %w", err))
	}
	bound := bind.NewBoundContract(contract, parsedABI, ethClient, ethClient, ethClient)

	var nonceOut []interface{}
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &nonceOut, "transfer_to_erc_20_nonce"); err != nil {
		return haltflow.Fail[Result](fmt.Errorf("relaydriver: read contract nonce: %w", err))
	}
	if len(nonceOut) == 0 {
		return haltflow.Fail[Result](errors.New("relaydriver: empty nonce response"))
	}
	contractNonceBig, ok := abi.ConvertType(nonceOut[0], new(big.Int)).(*big.Int)
	if !ok {
		return haltflow.Fail[Result](errors.New("relaydriver: contract nonce is not a uint256"))
	}
	contractNonce, overflow := uint256.FromBig(contractNonceBig)
	if overflow {
		return haltflow.Fail[Result](errors.New("relaydriver: contract nonce overflows uint256"))
	}

	if proceed, message := reconcileNonce(proof.BatchNonce, contractNonce); !proceed {
		errColor.Fprintln(out, message)
		return haltflow.Halt[Result]()
	}

	// NonceChecked -> Submitted
	opts := &bind.TransactOpts{
		Context: ctx,
		From:    common.Address{},
		Signer:  cfg.Signer,
	}
	if cfg.From != nil {
		opts.From = *cfg.From
	}
	if cfg.Gas > 0 {
		opts.GasLimit = cfg.Gas
	}
	if cfg.GasPrice != nil {
		opts.GasPrice = cfg.GasPrice
	}

	tx, err := bound.Transact(opts, "transfer_to_erc", proof.BatchNonce.ToBig(), proof.Payload)
	if err != nil {
		return haltflow.Fail[Result](fmt.Errorf("relaydriver: submit transfer_to_erc: %w", err))
	}

	// Submitted -> Confirmed
	receipt, err := awaitConfirmations(ctx, ethClient, tx, cfg.Confirmations)
	if err != nil {
		return haltflow.Fail[Result](fmt.Errorf("relaydriver: await confirmations: %w", err))
	}

	log.Info("relay confirmed", "txHash", tx.Hash().Hex(), "blockNumber", receipt.BlockNumber)
	return haltflow.Proceed(Result{State: Confirmed, Receipt: receipt})
}

// reconcileNonce compares the proof's batch nonce against the bridge
// contract's current nonce (spec.md §4.6 Proven -> NonceChecked). Equal
// nonces proceed; a lower proof nonce means the proof is stale (already
// relayed); a higher proof nonce indicates source-chain divergence.
func reconcileNonce(proofNonce, contractNonce *uint256.Int) (proceed bool, message string) {
	switch proofNonce.Cmp(contractNonce) {
	case 0:
		return true, ""
	case -1:
		return false, "Error: already relayed; local proof stale."
	default:
		return false, "Error: local nonce ahead of contract; source-chain divergence suspected."
	}
}

// awaitConfirmations polls for the transaction's block inclusion and then
// waits until the chain head is at least `confirmations` blocks past it.
func awaitConfirmations(ctx context.Context, client ethrpc.Client, tx *types.Transaction, confirmations uint64) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		return nil, err
	}
	if confirmations == 0 {
		return receipt, nil
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			head, err := client.HeaderByNumber(ctx, nil)
			if err != nil {
				return nil, err
			}
			if head.Number.Uint64() >= receipt.BlockNumber.Uint64()+confirmations {
				return receipt, nil
			}
		}
	}
}
