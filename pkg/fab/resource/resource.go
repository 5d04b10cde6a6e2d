/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resource provides the lscc requests used to install chaincode and
// to query installed and instantiated chaincodes on a peer.
package resource

import (
	reqContext "context"

	"github.com/golang/protobuf/proto"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	contextImpl "github.com/securekey/fabric-ccdeploy/pkg/context"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/channel"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/txn"
)

var logger = logging.NewLogger("ccdeploy/resource")

// QueryInstalledChaincodes queries the installed chaincodes on a peer.
// Returns the details of all chaincodes installed on a peer.
func QueryInstalledChaincodes(reqCtx reqContext.Context, peer fab.ProposalProcessor) (*pb.ChaincodeQueryResponse, error) {
	if peer == nil {
		return nil, errors.New("peer required")
	}

	payload, err := queryChaincodeWithTarget(reqCtx, fab.SystemChannel, createInstalledChaincodesInvokeRequest(), peer)
	if err != nil {
		return nil, errors.WithMessage(err, "lscc.getinstalledchaincodes failed")
	}

	response := new(pb.ChaincodeQueryResponse)
	if err := proto.Unmarshal(payload, response); err != nil {
		return nil, errors.Wrap(err, "unmarshal ChaincodeQueryResponse failed")
	}

	return response, nil
}

// QueryInstantiatedChaincodes queries the chaincodes instantiated on the
// channel, as seen by the given peer.
func QueryInstantiatedChaincodes(reqCtx reqContext.Context, channelID string, peer fab.ProposalProcessor) (*pb.ChaincodeQueryResponse, error) {
	if peer == nil {
		return nil, errors.New("peer required")
	}
	if channelID == "" {
		return nil, errors.New("channel ID required")
	}

	payload, err := queryChaincodeWithTarget(reqCtx, channelID, createChaincodesInvokeRequest(), peer)
	if err != nil {
		return nil, errors.WithMessage(err, "lscc.getchaincodes failed")
	}

	response := new(pb.ChaincodeQueryResponse)
	if err := proto.Unmarshal(payload, response); err != nil {
		return nil, errors.Wrap(err, "unmarshal ChaincodeQueryResponse failed")
	}

	logger.Debugf("%d chaincodes instantiated on channel [%s]", len(response.Chaincodes), channelID)
	return response, nil
}

// InstallChaincode sends an install proposal to one or more endorsing peers.
// The per-peer results are returned unvalidated.
func InstallChaincode(reqCtx reqContext.Context, req ChaincodeInstallRequest, targets []fab.ProposalProcessor) (*fab.ProposalResult, error) {
	if req.Name == "" {
		return nil, errors.New("chaincode name required")
	}
	if req.Path == "" {
		return nil, errors.New("chaincode path required")
	}
	if req.Version == "" {
		return nil, errors.New("chaincode version required")
	}
	if req.Package == nil {
		return nil, errors.New("chaincode package is required")
	}

	ctx, ok := contextImpl.RequestClientContext(reqCtx)
	if !ok {
		return nil, errors.New("failed get client context from reqContext for txn header")
	}

	txh, err := txn.NewHeader(ctx, fab.SystemChannel)
	if err != nil {
		return nil, errors.WithMessage(err, "create transaction ID failed")
	}

	prop, err := CreateChaincodeInstallProposal(txh, req)
	if err != nil {
		return nil, errors.WithMessage(err, "creation of install chaincode proposal failed")
	}

	results, err := txn.SendProposal(reqCtx, prop, targets)
	if err != nil {
		return nil, err
	}

	return &fab.ProposalResult{Proposal: prop, Responses: results}, nil
}

func queryChaincodeWithTarget(reqCtx reqContext.Context, channelID string, request fab.ChaincodeInvokeRequest, target fab.ProposalProcessor) ([]byte, error) {
	ctx, ok := contextImpl.RequestClientContext(reqCtx)
	if !ok {
		return nil, errors.New("failed get client context from reqContext for txn header")
	}

	txh, err := txn.NewHeader(ctx, channelID)
	if err != nil {
		return nil, errors.WithMessage(err, "create transaction ID failed")
	}

	tp, err := txn.CreateChaincodeInvokeProposal(txh, request)
	if err != nil {
		return nil, errors.WithMessage(err, "NewProposal failed")
	}

	results, err := txn.SendProposal(reqCtx, tp, []fab.ProposalProcessor{target})
	if err != nil {
		return nil, errors.WithMessage(err, "SendProposal failed")
	}

	if err := channel.Validate(results); err != nil {
		return nil, err
	}

	return results[0].Response.ProposalResponse.Response.Payload, nil
}
