/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package channel holds the checks applied to endorsement results and to the
// ordering service's answer before an operation may move to its next phase.
package channel

import (
	"fmt"

	"github.com/hyperledger/fabric-protos-go/common"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

var logger = logging.NewLogger("ccdeploy/fab")

const (
	sendFailedMsg  = "Failed to send proposal or receive valid response"
	badResponseMsg = "Response null or has a status not equal to 200"
)

// Validate checks the per-endorser results of a proposal. Results are examined
// in order and the first failing element decides the error: a transport error
// is reported before a bad status even if the bad status came first in a
// different element.
func Validate(results []fab.PeerResult) error {
	if len(results) == 0 {
		return status.New(status.EndorserClientStatus, status.NoPeersFound.ToInt32(), "no proposal responses received", nil)
	}

	for _, r := range results {
		if r.Err != nil {
			logger.Debugf("proposal to [%s] failed: %s", r.Endorser, r.Err)
			return sendError(r)
		}
	}

	for _, r := range results {
		if err := validateResponse(r); err != nil {
			logger.Debugf("invalid proposal response from [%s]: %s", r.Endorser, err)
			return err
		}
	}

	logger.Debugf("%d proposal responses validated", len(results))
	return nil
}

func sendError(r fab.PeerResult) error {
	if s, ok := status.FromError(r.Err); ok {
		switch s.Group {
		case status.EndorserClientStatus, status.EndorserServerStatus:
			return errors.WithMessage(r.Err, sendFailedMsg)
		}
	}
	return errors.WithStack(status.New(status.EndorserClientStatus, status.EndorsementFailed.ToInt32(),
		fmt.Sprintf("%s: %s", sendFailedMsg, r.Err), []interface{}{r.Endorser, r.Err}))
}

func validateResponse(r fab.PeerResult) error {
	resp := r.Response
	if resp == nil || resp.ProposalResponse == nil || resp.ProposalResponse.Response == nil {
		return errors.WithStack(status.New(status.EndorserClientStatus, status.EmptyResponse.ToInt32(), badResponseMsg, []interface{}{r.Endorser}))
	}

	if resp.Status != 200 || resp.ProposalResponse.Response.Status != 200 {
		code := resp.Status
		if code == 200 {
			code = resp.ProposalResponse.Response.Status
		}
		msg := fmt.Sprintf("%s: endorser [%s] returned status %d: %s", badResponseMsg, endorserOf(r), code, resp.ProposalResponse.Response.Message)
		return errors.WithStack(status.New(status.EndorserServerStatus, code, msg,
			[]interface{}{endorserOf(r), resp.ProposalResponse.Response.Message, resp.ProposalResponse.Response.Payload}))
	}

	return nil
}

func endorserOf(r fab.PeerResult) string {
	if r.Endorser != "" {
		return r.Endorser
	}
	if r.Response != nil {
		return r.Response.Endorser
	}
	return ""
}

// ValidateBroadcast checks the ordering service's answer to a broadcast.
func ValidateBroadcast(resp *fab.BroadcastResponse) error {
	if resp == nil {
		return errors.WithStack(status.New(status.OrdererClientStatus, status.EmptyResponse.ToInt32(), "no broadcast response received", nil))
	}

	if resp.Status != common.Status_SUCCESS {
		logger.Debugf("broadcast to [%s] rejected: %s %s", resp.Orderer, resp.Status, resp.Info)
		return errors.WithStack(status.New(status.OrdererServerStatus, int32(resp.Status),
			fmt.Sprintf("sendTransaction returned with an invalid status code: %s: %s", resp.Status, resp.Info),
			[]interface{}{resp.Orderer, resp.Info}))
	}

	return nil
}
