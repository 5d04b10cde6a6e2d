/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package channel

import (
	reqContext "context"
	"time"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/context"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

// DefaultFcn is the function called when a request names none
const DefaultFcn = "invoke"

// opts allows the user to specify more advanced options
type requestOptions struct {
	Targets       []fab.Peer // targets
	Timeout       time.Duration
	CommitTimeout time.Duration
	ParentContext reqContext.Context
}

// RequestOption func for each Opts argument
type RequestOption func(ctx context.Client, opts *requestOptions) error

// Request contains the parameters to query and execute an invocation transaction
type Request struct {
	ChaincodeID  string
	Fcn          string
	Args         [][]byte
	TransientMap map[string][]byte
}

//Response contains response parameters for query and execute an invocation transaction.
//A query leaves TxValidationCode and BlockNumber unset. An executed transaction
//carries no Payload.
type Response struct {
	TransactionID    fab.TransactionID
	Status           int32
	Message          string
	Payload          []byte
	TxValidationCode pb.TxValidationCode
	BlockNumber      uint64
	Proposal         *fab.TransactionProposal
	Responses        []*fab.TransactionProposalResponse
}

//WithTimeout encapsulates time.Duration to Option
func WithTimeout(timeout time.Duration) RequestOption {
	return func(ctx context.Client, o *requestOptions) error {
		o.Timeout = timeout
		return nil
	}
}

// WithCommitTimeout bounds the wait for the commit event of an invoke
func WithCommitTimeout(timeout time.Duration) RequestOption {
	return func(ctx context.Client, o *requestOptions) error {
		o.CommitTimeout = timeout
		return nil
	}
}

//WithTargets encapsulates ProposalProcessors to Option
func WithTargets(targets ...fab.Peer) RequestOption {
	return func(ctx context.Client, o *requestOptions) error {
		for _, t := range targets {
			if t == nil {
				return errors.New("target is nil")
			}
		}
		o.Targets = targets
		return nil
	}
}

// WithParentContext encapsulates grpc context parent to Options
func WithParentContext(parentContext reqContext.Context) RequestOption {
	return func(ctx context.Client, o *requestOptions) error {
		o.ParentContext = parentContext
		return nil
	}
}
