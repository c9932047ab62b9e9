// Package poolquery reads the source chain's pending and signed bridge
// pools and indexes their contents by transfer hash for downstream
// eligibility filtering (spec.md §4.2). Adapted from the teacher's
// geth/14-explorer read-and-summarize pattern and geth/23-mempool's
// pending-transaction indexing.
package poolquery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/eth-bridge-relay/bridgetypes"
	"github.com/example/eth-bridge-relay/haltflow"
	"github.com/example/eth-bridge-relay/sourcerpc"
)

// Pool indexes pending transfers by their canonical keccak256 hash.
type Pool map[string]bridgetypes.PendingTransfer

// Contents is the pretty-printable view of a queried pool, matching the
// {"bridge_pool_contents": {...}} shape the original CLI prints.
type Contents struct {
	BridgePoolContents Pool `json:"bridge_pool_contents"`
}

// ReadSigned reads the signed bridge pool and returns it indexed by hash.
// An empty pool halts the caller: there is nothing downstream to batch or
// relay, and that is a normal outcome, not an error.
func ReadSigned(ctx context.Context, client sourcerpc.Client) haltflow.Outcome[Pool] {
	transfers, err := client.ReadSignedEthereumBridgePool(ctx)
	if err != nil {
		return haltflow.Fail[Pool](fmt.Errorf("poolquery: read signed bridge pool: %w", err))
	}
	if len(transfers) == 0 {
		return haltflow.Halt[Pool]()
	}
	return haltflow.Proceed(indexByHash(transfers))
}

// Read reads the full (unsigned) bridge pool, indexed by hash.
func Read(ctx context.Context, client sourcerpc.Client) haltflow.Outcome[Pool] {
	transfers, err := client.ReadEthereumBridgePool(ctx)
	if err != nil {
		return haltflow.Fail[Pool](fmt.Errorf("poolquery: read bridge pool: %w", err))
	}
	if len(transfers) == 0 {
		return haltflow.Halt[Pool]()
	}
	return haltflow.Proceed(indexByHash(transfers))
}

func indexByHash(transfers []bridgetypes.PendingTransfer) Pool {
	pool := make(Pool, len(transfers))
	for _, tr := range transfers {
		pool[tr.Keccak256()] = tr
	}
	return pool
}

// PrettyJSON renders a pool in the {"bridge_pool_contents": {...}} shape,
// indented for human display at the CLI.
func PrettyJSON(pool Pool) ([]byte, error) {
	return json.MarshalIndent(Contents{BridgePoolContents: pool}, "", "  ")
}
