/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package peer

import (
	reqContext "context"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/hyperledger/fabric/protoutil"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/options"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/comm"
)

const (
	// GRPC max message size (same as Fabric)
	maxCallRecvMsgSize = 100 * 1024 * 1024
	maxCallSendMsgSize = 100 * 1024 * 1024
)

// peerEndorser enables access to a GRPC-based endorser for running transaction proposal simulations
type peerEndorser struct {
	target   string
	connOpts []options.Opt
}

func newPeerEndorser(target string, connOpts []options.Opt) *peerEndorser {
	return &peerEndorser{
		target:   target,
		connOpts: connOpts,
	}
}

// ProcessTransactionProposal sends the transaction proposal to a peer and returns the response.
// A response with a status other than 200 is returned without an error.
func (p *peerEndorser) ProcessTransactionProposal(ctx reqContext.Context, request fab.ProcessProposalRequest) (*fab.TransactionProposalResponse, error) {
	logger.Debugf("Processing proposal using endorser: %s", p.target)

	proposalResponse, err := p.sendProposal(ctx, request)
	if err != nil {
		return nil, errors.WithMessagef(err, "Transaction processing for endorser [%s]", p.target)
	}

	if proposalResponse.GetResponse() == nil {
		return nil, status.NewFromProposalResponse(proposalResponse, p.target)
	}

	chaincodeStatus, err := getChaincodeResponseStatus(proposalResponse)
	if err != nil {
		return nil, errors.WithMessage(err, "chaincode response status parsing failed")
	}

	tpr := fab.TransactionProposalResponse{
		ProposalResponse: proposalResponse,
		Endorser:         p.target,
		ChaincodeStatus:  chaincodeStatus,
		Status:           proposalResponse.GetResponse().Status,
	}
	return &tpr, nil
}

func (p *peerEndorser) sendProposal(ctx reqContext.Context, proposal fab.ProcessProposalRequest) (*pb.ProposalResponse, error) {
	conn, err := comm.NewConnection(ctx, p.target, p.connOpts...)
	if err != nil {
		return nil, status.New(status.EndorserClientStatus, status.ConnectionFailed.ToInt32(), err.Error(), []interface{}{p.target})
	}
	defer conn.Close()

	endorserClient := pb.NewEndorserClient(conn.ClientConn())
	resp, err := endorserClient.ProcessProposal(ctx, proposal.SignedProposal,
		grpc.MaxCallRecvMsgSize(maxCallRecvMsgSize), grpc.MaxCallSendMsgSize(maxCallSendMsgSize))
	if err != nil {
		logger.Warnf("process proposal failed [%s]", err)
		return nil, fromGRPCError(err, p.target)
	}

	return resp, nil
}

func fromGRPCError(err error, target string) error {
	rpcStatus, ok := grpcstatus.FromError(err)
	if !ok {
		return status.New(status.EndorserClientStatus, status.EndorsementFailed.ToInt32(), err.Error(), []interface{}{target})
	}

	switch rpcStatus.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return status.New(status.EndorserClientStatus, status.ConnectionFailed.ToInt32(), rpcStatus.Message(), []interface{}{target})
	default:
		return status.New(status.EndorserClientStatus, status.EndorsementFailed.ToInt32(), rpcStatus.Message(), []interface{}{target, rpcStatus.Code().String()})
	}
}

// getChaincodeResponseStatus gets the actual response status from response.Payload.extension.Response.status, as fabric always returns actual 200
func getChaincodeResponseStatus(response *pb.ProposalResponse) (int32, error) {
	if response.Payload != nil {
		payload, err := protoutil.UnmarshalProposalResponsePayload(response.Payload)
		if err != nil {
			return 0, errors.Wrap(err, "unmarshal of proposal response payload failed")
		}

		extension, err := protoutil.UnmarshalChaincodeAction(payload.Extension)
		if err != nil {
			return 0, errors.Wrap(err, "unmarshal of chaincode action failed")
		}

		if extension != nil && extension.Response != nil {
			return extension.Response.Status, nil
		}
	}
	return response.Response.Status, nil
}
