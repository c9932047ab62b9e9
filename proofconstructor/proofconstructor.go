// Package proofconstructor turns a recommended hash set into an
// ABI-encoded bridge pool proof, warning the operator when hashes in the
// batch look like they may already be in flight on Ethereum (spec.md
// §4.5). Grounded in the teacher's geth/12-proofs validate-then-fetch
// shape, with the interactive confirmation borrowed from the teacher's
// stdin-prompt conventions in geth/03-keys-addresses's cmd entrypoint.
package proofconstructor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/eth-bridge-relay/haltflow"
	"github.com/example/eth-bridge-relay/sourcerpc"
)

var warn = color.New(color.FgYellow, color.Bold)

// Request parameterizes a proof construction call.
type Request struct {
	TransferHashes []string
	WithAppendix   bool
}

// Construct queries in-progress transfers, warns about hashes already
// carrying more than 1/3 backing voting power, prompts for confirmation,
// and — if the operator agrees — submits the hash set for proof
// generation. A "no" answer halts cleanly; an unrecognized answer
// re-prompts; a stdin read failure halts.
func Construct(ctx context.Context, client sourcerpc.Client, req Request, prompt io.Reader, out io.Writer) haltflow.Outcome[sourcerpc.ProofResponse] {
	inProgress, err := client.TransferToEthereumProgress(ctx)
	if err != nil {
		return haltflow.Fail[sourcerpc.ProofResponse](fmt.Errorf("proofconstructor: transfer to ethereum progress: %w", err))
	}

	likelyRelayed := likelyAlreadyRelayed(req.TransferHashes, inProgress)
	if len(likelyRelayed) > 0 {
		warn.Fprintf(out, "Warning: the following transfers already carry more than 1/3 backing "+
			"voting power and may already be relayed:\n")
		for _, hash := range likelyRelayed {
			warn.Fprintf(out, "  %s\n", hash)
		}

		proceed, err := Confirm(prompt, out)
		if err != nil {
			fmt.Fprintf(out, "Error: confirmation prompt: %v\n", err)
			return haltflow.Halt[sourcerpc.ProofResponse]()
		}
		if !proceed {
			return haltflow.Halt[sourcerpc.ProofResponse]()
		}
	}

	resp, err := client.GenerateBridgePoolProof(ctx, sourcerpc.ProofRequest{
		TransferHashes: req.TransferHashes,
		WithAppendix:   req.WithAppendix,
	})
	if err != nil {
		return haltflow.Fail[sourcerpc.ProofResponse](fmt.Errorf("proofconstructor: generate bridge pool proof: %w", err))
	}
	return haltflow.Proceed(resp)
}

// likelyAlreadyRelayed returns, among hashes, those whose fractional
// backing voting power exceeds 1/3.
func likelyAlreadyRelayed(hashes []string, inProgress map[string]sourcerpc.InProgressTransfer) []string {
	var out []string
	for _, hash := range hashes {
		entry, found := inProgress[hash]
		if !found {
			continue
		}
		if entry.FractionalBacking.ExceedsOneThird() {
			out = append(out, hash)
		}
	}
	return out
}

// Confirm reads a single y/n answer from prompt, re-prompting on the
// writer until it gets one. It returns (true, nil) for "y", (false, nil)
// for "n", and a non-nil error if the reader fails.
func Confirm(prompt io.Reader, out io.Writer) (bool, error) {
	scanner := bufio.NewScanner(prompt)
	fmt.Fprint(out, "Do you wish to proceed? (y/n): ")
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		default:
			fmt.Fprint(out, "Expected 'y' or 'n'. Please try again: ")
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("proofconstructor: read stdin: %w", err)
	}
	return false, fmt.Errorf("proofconstructor: stdin closed without an answer")
}
