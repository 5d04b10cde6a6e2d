/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn

import (
	reqContext "context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/hyperledger/fabric/protoutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/test/mockfab"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/test/mockmsp"
	"github.com/securekey/fabric-ccdeploy/pkg/context"
)

const testChannel = "testchannel"

func newTestContext(mockCtrl *gomock.Controller) *context.Operation {
	ctx, err := context.NewOperation(mockmsp.DefaultMockSigningIdentity(mockCtrl),
		context.WithTopology(mockfab.DefaultMockTopology(mockCtrl)),
		context.WithInfraProvider(mockfab.NewMockInfraProvider(mockCtrl)))
	if err != nil {
		panic(err)
	}
	return ctx
}

func newTestProposal(t *testing.T, ctx *context.Operation) *fab.TransactionProposal {
	txh, err := NewHeader(ctx, testChannel)
	require.NoError(t, err)

	tp, err := CreateChaincodeInvokeProposal(txh, fab.ChaincodeInvokeRequest{
		ChaincodeID: "cc",
		Lang:        pb.ChaincodeSpec_GOLANG,
		Fcn:         "invoke",
		Args:        [][]byte{[]byte("a"), []byte("b")},
	})
	require.NoError(t, err)
	return tp
}

func goodResponse(endorser string) *fab.TransactionProposalResponse {
	return &fab.TransactionProposalResponse{
		Endorser: endorser,
		Status:   200,
		ProposalResponse: &pb.ProposalResponse{
			Response:    &pb.Response{Status: 200, Payload: []byte("result")},
			Payload:     []byte("payload"),
			Endorsement: &pb.Endorsement{Endorser: []byte(endorser), Signature: []byte("signature")},
		},
	}
}

func TestNewHeader(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx := newTestContext(mockCtrl)

	txh, err := NewHeader(ctx, testChannel)
	require.NoError(t, err)
	assert.Equal(t, testChannel, txh.ChannelID())
	assert.Equal(t, []byte("creator"), txh.Creator())
	assert.NotEmpty(t, txh.Nonce())
	assert.Equal(t, protoutil.ComputeTxID(txh.Nonce(), txh.Creator()), string(txh.TransactionID()))

	other, err := NewHeader(ctx, testChannel)
	require.NoError(t, err)
	assert.NotEqual(t, txh.TransactionID(), other.TransactionID())
}

func TestNewTransactionProposal(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx := newTestContext(mockCtrl)
	tp := newTestProposal(t, ctx)

	hdr, err := protoutil.UnmarshalHeader(tp.Header)
	require.NoError(t, err)
	chdr, err := protoutil.UnmarshalChannelHeader(hdr.ChannelHeader)
	require.NoError(t, err)
	assert.Equal(t, string(tp.TxnID), chdr.TxId)
	assert.Equal(t, testChannel, chdr.ChannelId)
	assert.Equal(t, int32(common.HeaderType_ENDORSER_TRANSACTION), chdr.Type)

	cpp, err := protoutil.UnmarshalChaincodeProposalPayload(tp.Payload)
	require.NoError(t, err)
	cis := &pb.ChaincodeInvocationSpec{}
	require.NoError(t, proto.Unmarshal(cpp.Input, cis))
	assert.Equal(t, "cc", cis.ChaincodeSpec.ChaincodeId.Name)
	assert.Equal(t, [][]byte{[]byte("invoke"), []byte("a"), []byte("b")}, cis.ChaincodeSpec.Input.Args)

	signedProposal, err := signProposal(ctx, tp.Proposal)
	require.NoError(t, err)
	assert.Equal(t, []byte("signature"), signedProposal.Signature)
}

func TestNewTransactionProposalParams(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	txh, err := NewHeader(newTestContext(mockCtrl), testChannel)
	require.NoError(t, err)

	_, err = CreateChaincodeInvokeProposal(txh, fab.ChaincodeInvokeRequest{Fcn: "invoke"})
	assert.EqualError(t, err, "ChaincodeID is required")

	_, err = CreateChaincodeInvokeProposal(txh, fab.ChaincodeInvokeRequest{ChaincodeID: "cc"})
	assert.EqualError(t, err, "Fcn is required")
}

func TestSendTransactionProposal(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx := newTestContext(mockCtrl)
	tp := newTestProposal(t, ctx)

	peer1 := mockfab.NewNamedMockPeer(mockCtrl, "peer1", "grpc://peer1:7051")
	peer1.EXPECT().ProcessTransactionProposal(gomock.Any(), gomock.Any()).Return(goodResponse("peer1"), nil)
	peer2 := mockfab.NewNamedMockPeer(mockCtrl, "peer2", "grpc://peer2:7051")
	peer2.EXPECT().ProcessTransactionProposal(gomock.Any(), gomock.Any()).Return(nil, errors.New("unreachable"))

	reqCtx, cancel := context.NewRequest(ctx, context.WithTimeout(10*time.Second))
	defer cancel()

	results, err := SendProposal(reqCtx, tp, []fab.ProposalProcessor{peer1, peer2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "grpc://peer1:7051", results[0].Endorser)
	assert.NotNil(t, results[0].Response)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, "grpc://peer2:7051", results[1].Endorser)
	assert.Nil(t, results[1].Response)
	assert.EqualError(t, results[1].Err, "unreachable")
}

func TestSendTransactionProposalSignsOnce(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx := newTestContext(mockCtrl)
	tp := newTestProposal(t, ctx)

	var requests []fab.ProcessProposalRequest
	peer := mockfab.NewNamedMockPeer(mockCtrl, "peer1", "grpc://peer1:7051")
	peer.EXPECT().ProcessTransactionProposal(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ reqContext.Context, req fab.ProcessProposalRequest) (*fab.TransactionProposalResponse, error) {
			requests = append(requests, req)
			return goodResponse("peer1"), nil
		})

	reqCtx, cancel := context.NewRequest(ctx)
	defer cancel()

	_, err := SendProposal(reqCtx, tp, []fab.ProposalProcessor{peer})
	require.NoError(t, err)
	require.Len(t, requests, 1)

	proposalBytes, err := proto.Marshal(tp.Proposal)
	require.NoError(t, err)
	assert.Equal(t, proposalBytes, requests[0].SignedProposal.ProposalBytes)
	assert.Equal(t, []byte("signature"), requests[0].SignedProposal.Signature)
}

func TestSendTransactionProposalErrors(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx := newTestContext(mockCtrl)
	tp := newTestProposal(t, ctx)

	reqCtx, cancel := context.NewRequest(ctx)
	defer cancel()

	_, err := SendProposal(reqCtx, nil, []fab.ProposalProcessor{mockfab.NewMockPeer(mockCtrl)})
	assert.EqualError(t, err, "proposal is required")

	_, err = SendProposal(reqCtx, tp, nil)
	require.Error(t, err)
	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.EqualValues(t, status.NoPeersFound, s.Code)
	assert.True(t, status.IsProposalError(err))

	_, err = SendProposal(reqCtx, tp, []fab.ProposalProcessor{nil})
	assert.EqualError(t, err, "target is nil")

	_, err = SendProposal(reqContext.Background(), tp, []fab.ProposalProcessor{mockfab.NewMockPeer(mockCtrl)})
	assert.EqualError(t, err, "failed get client context from reqContext for signProposal")
}

func TestSendTransactionProposalDuplicateTargets(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx := newTestContext(mockCtrl)
	tp := newTestProposal(t, ctx)

	peer1 := mockfab.NewNamedMockPeer(mockCtrl, "peer1", "grpc://peer1:7051")
	peer1.EXPECT().ProcessTransactionProposal(gomock.Any(), gomock.Any()).Return(goodResponse("peer1"), nil).Times(1)
	peer1Dup := mockfab.NewNamedMockPeer(mockCtrl, "peer1", "grpc://peer1:7051")

	reqCtx, cancel := context.NewRequest(ctx)
	defer cancel()

	results, err := SendProposal(reqCtx, tp, []fab.ProposalProcessor{peer1, peer1Dup})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestConcurrentPeers(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx := newTestContext(mockCtrl)
	tp := newTestProposal(t, ctx)

	const numPeers = 200
	targets := make([]fab.ProposalProcessor, numPeers)
	for i := 0; i < numPeers; i++ {
		url := fmt.Sprintf("grpc://peer%d:7051", i)
		peer := mockfab.NewNamedMockPeer(mockCtrl, fmt.Sprintf("peer%d", i), url)
		peer.EXPECT().ProcessTransactionProposal(gomock.Any(), gomock.Any()).Return(goodResponse(url), nil)
		targets[i] = peer
	}

	reqCtx, cancel := context.NewRequest(ctx, context.WithTimeout(10*time.Second))
	defer cancel()

	results, err := SendProposal(reqCtx, tp, targets)
	require.NoError(t, err)
	require.Len(t, results, numPeers)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("grpc://peer%d:7051", i), r.Endorser)
		assert.Equal(t, r.Endorser, r.Response.Endorser)
	}
}
