/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package invoke provides the handlers for performing chaincode invocations.
package invoke

import (
	reqContext "context"
	"time"

	pb "github.com/hyperledger/fabric-protos-go/peer"

	"github.com/securekey/fabric-ccdeploy/pkg/client/common/txflow"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/context"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

// Opts allows the user to specify more advanced options
type Opts struct {
	Targets       []fab.Peer // targets
	Timeout       time.Duration
	CommitTimeout time.Duration
	ParentContext reqContext.Context //parent grpc context
}

// Request contains the parameters to execute transaction
type Request struct {
	ChaincodeID  string
	Fcn          string
	Args         [][]byte
	TransientMap map[string][]byte
}

//Response contains response parameters for query and execute transaction
type Response struct {
	TransactionID fab.TransactionID
	// Status, Message and Payload are taken from the first endorsement
	Status           int32
	Message          string
	Payload          []byte
	TxValidationCode pb.TxValidationCode
	BlockNumber      uint64
	Proposal         *fab.TransactionProposal
	Responses        []*fab.TransactionProposalResponse
}

//Handler for chaining transaction executions
type Handler interface {
	Handle(context *RequestContext, clientContext *ClientContext)
}

//ClientContext contains context parameters for handler execution
type ClientContext struct {
	Client    context.Client
	ChannelID string
}

//RequestContext contains request, opts, response parameters for handler execution
type RequestContext struct {
	Request  Request
	Opts     Opts
	Response Response
	Error    error
	Ctx      reqContext.Context
	Tracker  *txflow.Tracker
}
