/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package txflow holds the steps shared by the chaincode clients: target
// resolution, validated endorsement and the broadcast/commit tail. Each step
// reports its failures through the operation's Tracker.
package txflow

import (
	reqContext "context"
	"time"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/context"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/channel"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/txn"
)

var logger = logging.NewLogger("ccdeploy/client")

// CommitOutcome is the result of a committed transaction
type CommitOutcome struct {
	TxnID          fab.TransactionID
	ValidationCode pb.TxValidationCode
	BlockNumber    uint64
}

// ChannelPeers creates the organization's peers joined to the channel, in
// the order the organization lists them
func ChannelPeers(ctx context.Client, channelID string) ([]fab.Peer, error) {
	targets, err := ctx.Topology().ChannelPeers(channelID)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, status.NewConfigurationError(status.InvalidProfile, "organization '%s' has no peers on channel '%s'", ctx.Topology().Organization(), channelID)
	}

	peers := make([]fab.Peer, len(targets))
	for i, target := range targets {
		p, err := ctx.InfraProvider().CreatePeer(target, ctx.Topology().MSPID())
		if err != nil {
			return nil, err
		}
		peers[i] = p
	}
	return peers, nil
}

// Processors converts a slice of Peers to a slice of ProposalProcessors
func Processors(peers []fab.Peer) []fab.ProposalProcessor {
	processors := make([]fab.ProposalProcessor, len(peers))
	for i := range peers {
		processors[i] = peers[i]
	}
	return processors
}

// Endorse sends the proposal to every target and validates the responses.
// The tracker is moved through Proposing and Validated.
func Endorse(reqCtx reqContext.Context, tracker *Tracker, proposal *fab.TransactionProposal, targets []fab.ProposalProcessor) (*fab.ProposalResult, error) {
	tracker.Enter(Proposing)

	results, err := txn.SendProposal(reqCtx, proposal, targets)
	if err != nil {
		return nil, err
	}

	if err := channel.Validate(results); err != nil {
		return nil, err
	}

	tracker.Enter(Validated)

	return &fab.ProposalResult{Proposal: proposal, Responses: results}, nil
}

type broadcastResult struct {
	response *fab.BroadcastResponse
	err      error
}

type commitResult struct {
	event *fab.TxStatusEvent
	err   error
}

// Commit registers for the commit event of the endorsed transaction on the
// first channel peer, broadcasts it to the first channel orderer and waits up
// to commitTimeout for the event. Broadcast and wait run concurrently and are
// both settled before Commit returns. The returned error is already prefixed
// with the phase it was reported against.
func Commit(reqCtx reqContext.Context, ctx context.Client, tracker *Tracker, channelID string, result *fab.ProposalResult, commitTimeout time.Duration) (*CommitOutcome, error) {
	txID := result.Proposal.TxnID

	envelope, err := txn.New(ctx, result.Proposal, result.ProposalResponses())
	if err != nil {
		return nil, tracker.Fail(PhaseProposal, status.New(status.EndorserClientStatus, status.EndorsementFailed.ToInt32(),
			"endorsements could not be assembled into a transaction: "+err.Error(), []interface{}{string(txID)}))
	}

	orderer, err := channelOrderer(ctx, channelID)
	if err != nil {
		return nil, tracker.Fail(PhaseConfiguration, err)
	}

	reg, err := register(reqCtx, ctx, channelID, txID)
	if err != nil {
		return nil, tracker.Fail(PhaseCommit, err)
	}
	defer reg.Close()

	tracker.Enter(Broadcasting)

	waitCtx, cancelWait := reqContext.WithCancel(reqCtx)
	defer cancelWait()

	broadcastDone := make(chan broadcastResult, 1)
	commitDone := make(chan commitResult, 1)

	go func() {
		resp, err := txn.BroadcastEnvelope(reqCtx, envelope, []fab.Orderer{orderer})
		if err == nil {
			err = channel.ValidateBroadcast(resp)
		}
		broadcastDone <- broadcastResult{response: resp, err: err}
	}()

	go func() {
		event, err := reg.Wait(waitCtx, commitTimeout)
		commitDone <- commitResult{event: event, err: err}
	}()

	b := <-broadcastDone
	if b.err != nil {
		cancelWait()
		<-commitDone
		return nil, tracker.Fail(PhaseBroadcast, b.err)
	}

	logger.Debugf("transaction [%s] accepted by orderer %s", txID, b.response.Orderer)
	tracker.Enter(AwaitingCommit)

	c := <-commitDone
	if c.err != nil {
		if status.IsCommitTimeout(c.err) {
			logger.Warnf("no commit event received for transaction [%s] within %s; the outcome is unknown", txID, commitTimeout)
		}
		return nil, tracker.Fail(PhaseCommit, c.err)
	}

	return &CommitOutcome{
		TxnID:          txID,
		ValidationCode: c.event.TxValidationCode,
		BlockNumber:    c.event.BlockNumber,
	}, nil
}

func channelOrderer(ctx context.Client, channelID string) (fab.Orderer, error) {
	targets, err := ctx.Topology().ChannelOrderers(channelID)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, status.NewConfigurationError(status.InvalidProfile, "no orderers found for channel '%s'", channelID)
	}
	return ctx.InfraProvider().CreateOrderer(targets[0])
}

func register(reqCtx reqContext.Context, ctx context.Client, channelID string, txID fab.TransactionID) (fab.TxStatusRegistration, error) {
	peers, err := ctx.Topology().ChannelPeers(channelID)
	if err != nil {
		return nil, err
	}
	if len(peers) == 0 {
		return nil, status.NewConfigurationError(status.InvalidProfile, "no event source found for channel '%s'", channelID)
	}

	eventService, err := ctx.InfraProvider().CreateEventService(ctx, channelID, peers[0])
	if err != nil {
		return nil, errors.WithMessage(err, "unable to get event service")
	}

	reg, err := eventService.RegisterTxStatus(reqCtx, txID)
	if err != nil {
		return nil, errors.WithMessage(err, "error registering for TxStatus event")
	}
	return reg, nil
}
