package proofconstructor

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/example/eth-bridge-relay/bridgetypes"
	"github.com/example/eth-bridge-relay/sourcerpc"
)

type fakeClient struct {
	sourcerpc.Client
	inProgress map[string]sourcerpc.InProgressTransfer
	progressErr error
	proofResp  sourcerpc.ProofResponse
	proofErr   error
	gotRequest sourcerpc.ProofRequest
}

func (f *fakeClient) TransferToEthereumProgress(ctx context.Context) (map[string]sourcerpc.InProgressTransfer, error) {
	return f.inProgress, f.progressErr
}

func (f *fakeClient) GenerateBridgePoolProof(ctx context.Context, req sourcerpc.ProofRequest) (sourcerpc.ProofResponse, error) {
	f.gotRequest = req
	return f.proofResp, f.proofErr
}

func TestConstructNoWarningNoPrompt(t *testing.T) {
	client := &fakeClient{
		inProgress: map[string]sourcerpc.InProgressTransfer{},
		proofResp:  sourcerpc.ProofResponse{ABIEncodedProof: []byte{0x01}},
	}
	out := &bytes.Buffer{}
	outcome := Construct(context.Background(), client, Request{TransferHashes: []string{"abc"}}, strings.NewReader(""), out)
	resp, ok := outcome.Value()
	if !ok {
		t.Fatalf("expected success, got err=%v halt=%v", outcome.Err(), outcome.IsHalt())
	}
	if len(resp.ABIEncodedProof) != 1 {
		t.Fatal("expected proof bytes to pass through")
	}
}

func TestConstructWarnsAndProceedsOnY(t *testing.T) {
	client := &fakeClient{
		inProgress: map[string]sourcerpc.InProgressTransfer{
			"abc": {
				Transfer:          bridgetypes.PendingTransfer{},
				FractionalBacking: sourcerpc.FractionalVotingPower{Numerator: 2, Denominator: 3},
			},
		},
		proofResp: sourcerpc.ProofResponse{ABIEncodedProof: []byte{0x01}},
	}
	out := &bytes.Buffer{}
	outcome := Construct(context.Background(), client, Request{TransferHashes: []string{"abc"}}, strings.NewReader("y\n"), out)
	if !outcome.IsHalt() && outcome.Err() != nil {
		t.Fatalf("unexpected error: %v", outcome.Err())
	}
	if _, ok := outcome.Value(); !ok {
		t.Fatal("expected a value after confirming")
	}
	if !strings.Contains(out.String(), "abc") {
		t.Fatal("expected warning to list the hash")
	}
}

func TestConstructHaltsOnN(t *testing.T) {
	client := &fakeClient{
		inProgress: map[string]sourcerpc.InProgressTransfer{
			"abc": {FractionalBacking: sourcerpc.FractionalVotingPower{Numerator: 2, Denominator: 3}},
		},
	}
	out := &bytes.Buffer{}
	outcome := Construct(context.Background(), client, Request{TransferHashes: []string{"abc"}}, strings.NewReader("n\n"), out)
	if !outcome.IsHalt() {
		t.Fatal("expected halt on 'n'")
	}
}

func TestConfirmReprompts(t *testing.T) {
	out := &bytes.Buffer{}
	proceed, err := Confirm(strings.NewReader("maybe\ny\n"), out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !proceed {
		t.Fatal("expected eventual yes")
	}
	if !strings.Contains(out.String(), "Expected 'y' or 'n'") {
		t.Fatal("expected re-prompt message")
	}
}
