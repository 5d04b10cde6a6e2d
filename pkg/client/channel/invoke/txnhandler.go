/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package invoke

import (
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/client/common/txflow"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/txn"
)

//ProposalProcessorHandler for selecting proposal processors
type ProposalProcessorHandler struct {
	next Handler
}

//Handle selects proposal processors. Without explicit targets the
//organization's peers joined to the channel are used.
func (h *ProposalProcessorHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	if len(requestContext.Opts.Targets) == 0 {
		peers, err := txflow.ChannelPeers(clientContext.Client, clientContext.ChannelID)
		if err != nil {
			requestContext.Error = requestContext.Tracker.Fail(txflow.PhaseConfiguration, err)
			return
		}
		requestContext.Opts.Targets = peers
	}

	//Delegate to next step if any
	if h.next != nil {
		h.next.Handle(requestContext, clientContext)
	}
}

//EndorsementHandler for handling endorse transactions
type EndorsementHandler struct {
	next Handler
}

//Handle for endorsing transactions. The response carries the status, message
//and payload of the first endorsement once all endorsements are validated.
func (e *EndorsementHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	txh, err := txn.NewHeader(clientContext.Client, clientContext.ChannelID)
	if err != nil {
		requestContext.Error = requestContext.Tracker.Fail(txflow.PhaseProposal, errors.WithMessage(err, "create transaction ID failed"))
		return
	}

	request := fab.ChaincodeInvokeRequest{
		ChaincodeID:  requestContext.Request.ChaincodeID,
		Fcn:          requestContext.Request.Fcn,
		Args:         requestContext.Request.Args,
		TransientMap: requestContext.Request.TransientMap,
	}
	proposal, err := txn.CreateChaincodeInvokeProposal(txh, request)
	if err != nil {
		requestContext.Error = requestContext.Tracker.Fail(txflow.PhaseProposal, errors.WithMessage(err, "creating transaction proposal failed"))
		return
	}

	requestContext.Response.Proposal = proposal
	requestContext.Response.TransactionID = proposal.TxnID

	result, err := txflow.Endorse(requestContext.Ctx, requestContext.Tracker, proposal, txflow.Processors(requestContext.Opts.Targets))
	if err != nil {
		requestContext.Error = requestContext.Tracker.Fail(txflow.PhaseProposal, err)
		return
	}

	responses := result.ProposalResponses()
	requestContext.Response.Responses = responses
	if len(responses) > 0 {
		first := responses[0].ProposalResponse.GetResponse()
		requestContext.Response.Status = first.GetStatus()
		requestContext.Response.Message = first.GetMessage()
		requestContext.Response.Payload = first.GetPayload()
	}

	//Delegate to next step if any
	if e.next != nil {
		e.next.Handle(requestContext, clientContext)
	}
}

//CommitTxHandler for committing transactions
type CommitTxHandler struct {
	next Handler
}

//Handle broadcasts the endorsed transaction and waits for its commit event
func (c *CommitTxHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	result := &fab.ProposalResult{Proposal: requestContext.Response.Proposal}
	for _, r := range requestContext.Response.Responses {
		result.Responses = append(result.Responses, fab.PeerResult{Endorser: r.Endorser, Response: r})
	}

	commitTimeout := requestContext.Opts.CommitTimeout
	if commitTimeout <= 0 {
		commitTimeout = requestContext.Opts.Timeout
	}

	outcome, err := txflow.Commit(requestContext.Ctx, clientContext.Client, requestContext.Tracker, clientContext.ChannelID, result, commitTimeout)
	if err != nil {
		requestContext.Error = err
		return
	}

	// a committed transaction reports its outcome only, return values come from a query
	requestContext.Response.Payload = nil
	requestContext.Response.TxValidationCode = outcome.ValidationCode
	requestContext.Response.BlockNumber = outcome.BlockNumber

	//Delegate to next step if any
	if c.next != nil {
		c.next.Handle(requestContext, clientContext)
	}
}

//NewQueryHandler returns query handler with chain of ProposalProcessorHandler and EndorsementHandler
func NewQueryHandler(next ...Handler) Handler {
	return NewProposalProcessorHandler(
		NewEndorsementHandler(next...),
	)
}

//NewExecuteHandler returns execute handler with chain of ProposalProcessorHandler, EndorsementHandler and CommitTxHandler
func NewExecuteHandler(next ...Handler) Handler {
	return NewProposalProcessorHandler(
		NewEndorsementHandler(
			NewCommitHandler(next...),
		),
	)
}

//NewProposalProcessorHandler returns a handler that selects proposal processors
func NewProposalProcessorHandler(next ...Handler) *ProposalProcessorHandler {
	return &ProposalProcessorHandler{next: getNext(next)}
}

//NewEndorsementHandler returns a handler that endorses a transaction proposal
func NewEndorsementHandler(next ...Handler) *EndorsementHandler {
	return &EndorsementHandler{next: getNext(next)}
}

//NewCommitHandler returns a handler that commits transaction propsal responses
func NewCommitHandler(next ...Handler) *CommitTxHandler {
	return &CommitTxHandler{next: getNext(next)}
}

func getNext(next []Handler) Handler {
	if len(next) > 0 {
		return next[0]
	}
	return nil
}
