/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package txn enables creating, endorsing and sending transactions to Fabric peers and orderers.
package txn

import (
	reqContext "context"

	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/hyperledger/fabric/protoutil"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/multi"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/msp"
)

// New creates a signed transaction envelope from the proposal and its endorsements.
func New(signer msp.SigningIdentity, proposal *fab.TransactionProposal, responses []*fab.TransactionProposalResponse) (*common.Envelope, error) {
	if proposal == nil || proposal.Proposal == nil {
		return nil, errors.New("proposal is required")
	}
	if len(responses) == 0 {
		return nil, errors.New("at least one proposal response is necessary")
	}

	prs := make([]*pb.ProposalResponse, len(responses))
	for i, r := range responses {
		if r == nil || r.ProposalResponse == nil {
			return nil, errors.Errorf("proposal response %d is nil", i)
		}
		prs[i] = r.ProposalResponse
	}

	envelope, err := protoutil.CreateSignedTx(proposal.Proposal, signer, prs...)
	if err != nil {
		return nil, errors.Wrap(err, "transaction creation failed")
	}

	return envelope, nil
}

// BroadcastEnvelope sends the envelope to the orderers in the given order and
// returns the first response received. The next orderer is only tried when the
// previous one could not be reached; a response carrying an error status is
// returned as is.
func BroadcastEnvelope(reqCtx reqContext.Context, envelope *common.Envelope, orderers []fab.Orderer) (*fab.BroadcastResponse, error) {
	if len(orderers) == 0 {
		return nil, status.New(status.OrdererClientStatus, status.BroadcastFailed.ToInt32(), "orderers not set", nil)
	}
	if envelope == nil {
		return nil, errors.New("envelope is nil")
	}

	var errs error
	for _, o := range orderers {
		logger.Debugf("Broadcasting envelope to orderer: %s", o.URL())

		resp, err := o.SendBroadcast(reqCtx, envelope)
		if err != nil {
			logger.Warnf("Broadcast to orderer [%s] failed: %s", o.URL(), err)
			errs = multi.Append(errs, errors.WithMessagef(err, "calling orderer '%s' failed", o.URL()))
			if reqCtx.Err() != nil {
				break
			}
			continue
		}

		logger.Debugf("Received response from orderer [%s]: %s", o.URL(), resp.Status)
		return resp, nil
	}

	return nil, errs
}
