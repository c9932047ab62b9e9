// Package nodehealth checks Ethereum node freshness by comparing the
// latest block's timestamp to wall-clock time. Adapted from the teacher's
// geth/24-monitor exercise into a relayer precondition: a node lagging
// past MaxLag should not be trusted to report an accurate bridge pool or
// accept a relay transaction.
package nodehealth

import (
	"context"
	"fmt"
	"time"

	"github.com/example/eth-bridge-relay/ethrpc"
)

// Status is the binary classification of a health check.
type Status string

const (
	OK    Status = "OK"
	Stale Status = "STALE"
)

// DefaultMaxLag matches the teacher's 60-second default, reasonable for
// Ethereum mainnet's ~12s block time.
const DefaultMaxLag = 60 * time.Second

// Result is the outcome of a single health check.
type Result struct {
	Status         Status
	BlockNumber    uint64
	BlockTimestamp time.Time
	Lag            time.Duration
}

// Check fetches the latest header (block number nil means "latest") and
// classifies the node as OK or Stale based on how far its timestamp lags
// behind now. A negative lag (block timestamp in the future, from clock
// skew) is treated as OK.
func Check(ctx context.Context, client ethrpc.Client, maxLag time.Duration) (*Result, error) {
	if maxLag <= 0 {
		maxLag = DefaultMaxLag
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("nodehealth: header by number: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("nodehealth: nil header response")
	}

	blockTime := time.Unix(int64(header.Time), 0)
	lag := time.Since(blockTime)

	status := OK
	if lag >= maxLag {
		status = Stale
	}

	return &Result{
		Status:         status,
		BlockNumber:    header.Number.Uint64(),
		BlockTimestamp: blockTime,
		Lag:            lag,
	}, nil
}
