// Package ethrpc declares the narrow subset of an Ethereum client the
// relayer needs: sync status, header lookups, and the bind.ContractBackend
// surface abi/bind needs to call and transact against the bridge
// contract. Generalizes the teacher's per-module *Client interfaces
// (geth/21-sync's SyncClient, geth/24-monitor's MonitorClient,
// geth/08-abigen's ContractCaller) into one client the relay driver and
// sync gate share.
package ethrpc

import (
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Client is the Ethereum-side RPC surface consumed by syncgate,
// relaydriver, and nodehealth. It embeds bind.ContractBackend so a
// bind.BoundContract can be built directly on top of it, plus
// TransactionReceipt so bind.WaitMined can poll for confirmation.
type Client interface {
	bind.ContractBackend

	SyncProgress(ctx context.Context) (*ethereum.SyncProgress, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}
