// Package syncgate blocks (or checks) Ethereum client sync status before
// the relayer core is allowed to read the bridge pool or submit proofs
// (spec.md §4.7). Generalizes the teacher's geth/21-sync exercise, which
// polls eth_syncing on a fixed interval until the node reports caught up.
package syncgate

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/example/eth-bridge-relay/ethrpc"
	"github.com/example/eth-bridge-relay/nodehealth"
)

// ErrNotSynced is returned by Await in ExitIfNotSynced mode when the
// client is behind, instead of blocking.
var ErrNotSynced = errors.New("syncgate: ethereum client is not synced")

// ErrStale is returned when the client reports itself synced but its
// latest header lags beyond MaxLag: synced is necessary but not
// sufficient for freshness.
var ErrStale = errors.New("syncgate: ethereum client is synced but stale")

// Mode selects how the gate behaves when the node is behind.
type Mode int

const (
	// Block polls until the node reports synced or the deadline elapses.
	Block Mode = iota
	// ExitIfNotSynced returns ErrNotSynced immediately instead of waiting.
	ExitIfNotSynced
)

// Config parameterizes a sync gate check.
type Config struct {
	Mode         Mode
	PollInterval time.Duration
	Deadline     time.Duration
	// MaxLag bounds the post-sync health check; zero uses
	// nodehealth.DefaultMaxLag.
	MaxLag time.Duration
}

// DefaultPollInterval matches the teacher's 21-sync exercise default.
const DefaultPollInterval = 2 * time.Second

// Await blocks (per cfg.Mode) until client reports no sync in progress, or
// returns an error. A nil *ethereum.SyncProgress from SyncProgress means
// the node considers itself caught up.
func Await(ctx context.Context, client ethrpc.Client, cfg Config) error {
	progress, err := client.SyncProgress(ctx)
	if err != nil {
		return err
	}
	if progress == nil {
		return checkFreshness(ctx, client, cfg)
	}

	if cfg.Mode == ExitIfNotSynced {
		log.Warn("ethereum client not synced, exiting per configured mode",
			"currentBlock", progress.CurrentBlock, "highestBlock", progress.HighestBlock)
		return ErrNotSynced
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadlineCtx := ctx
	var cancel context.CancelFunc
	if cfg.Deadline > 0 {
		deadlineCtx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("waiting for ethereum client to sync",
		"currentBlock", progress.CurrentBlock, "highestBlock", progress.HighestBlock)

	for {
		select {
		case <-deadlineCtx.Done():
			return deadlineCtx.Err()
		case <-ticker.C:
			progress, err = client.SyncProgress(deadlineCtx)
			if err != nil {
				return err
			}
			if progress == nil {
				log.Info("ethereum client is synced")
				return checkFreshness(deadlineCtx, client, cfg)
			}
			log.Info("still syncing",
				"currentBlock", progress.CurrentBlock, "highestBlock", progress.HighestBlock)
		}
	}
}

// checkFreshness runs the node health check once the client reports itself
// synced, so a "synced but stalled" node is still caught before the
// eligibility filter runs.
func checkFreshness(ctx context.Context, client ethrpc.Client, cfg Config) error {
	result, err := nodehealth.Check(ctx, client, cfg.MaxLag)
	if err != nil {
		return err
	}
	if result.Status == nodehealth.Stale {
		log.Warn("ethereum client synced but stale", "blockNumber", result.BlockNumber, "lag", result.Lag)
		return ErrStale
	}
	return nil
}
