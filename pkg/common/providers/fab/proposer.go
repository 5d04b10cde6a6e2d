/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	reqContext "context"

	pb "github.com/hyperledger/fabric-protos-go/peer"
)

// ProposalProcessor simulates transaction proposal, so that a client can submit the result for ordering.
type ProposalProcessor interface {
	ProcessTransactionProposal(reqContext.Context, ProcessProposalRequest) (*TransactionProposalResponse, error)
}

// TransactionID provides the identifier of a Fabric transaction proposal.
type TransactionID string

// EmptyTransactionID represents a non-existing transaction (usually due to error).
const EmptyTransactionID = TransactionID("")

// SystemChannel is the channel used for proposals that are not bound to a channel, such as install.
const SystemChannel = ""

// TransactionHeader provides a handle to transaction metadata.
type TransactionHeader interface {
	TransactionID() TransactionID
	Creator() []byte
	Nonce() []byte
	ChannelID() string
}

// ChaincodeInvokeRequest contains the parameters for sending a transaction proposal.
type ChaincodeInvokeRequest struct {
	ChaincodeID  string
	Lang         pb.ChaincodeSpec_Type
	TransientMap map[string][]byte
	Fcn          string
	Args         [][]byte
}

// TransactionProposal contains a marashalled transaction proposal.
type TransactionProposal struct {
	TxnID TransactionID
	*pb.Proposal
}

// ProcessProposalRequest requests simulation of a proposed transaction from transaction processors.
type ProcessProposalRequest struct {
	SignedProposal *pb.SignedProposal
}

// TransactionProposalResponse respresents the result of transaction proposal processing.
type TransactionProposalResponse struct {
	Endorser string
	// Status is the EndorserStatus
	Status int32
	// ChaincodeStatus is the status returned by Chaincode
	ChaincodeStatus int32
	*pb.ProposalResponse
}

// PeerResult is the outcome of sending a proposal to a single endorser. Exactly
// one of Response and Err is set.
type PeerResult struct {
	Endorser string
	Response *TransactionProposalResponse
	Err      error
}

// ProposalResult is the ordered set of per-endorser results together with the
// proposal they respond to.
type ProposalResult struct {
	Proposal  *TransactionProposal
	Responses []PeerResult
}

// ProposalResponses returns the responses of the result, in order. It must only
// be called once the result has been validated.
func (r *ProposalResult) ProposalResponses() []*TransactionProposalResponse {
	responses := make([]*TransactionProposalResponse, 0, len(r.Responses))
	for _, res := range r.Responses {
		if res.Response != nil {
			responses = append(responses, res.Response)
		}
	}
	return responses
}
