/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package deliverclient

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/golang/protobuf/proto"
	cb "github.com/hyperledger/fabric-protos-go/common"
	ab "github.com/hyperledger/fabric-protos-go/orderer"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/hyperledger/fabric/protoutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/test/mockmsp"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/mocks"
)

const (
	testChannel = "mychannel"
	testTxID    = "txid-1"
	testTimeout = 5 * time.Second
)

func startDeliverServer(t *testing.T) (*mocks.MockDeliverServer, string) {
	deliver := mocks.NewMockDeliverServer()
	srv := &mocks.MockEndorserServer{Deliver: deliver}
	addr := srv.Start("127.0.0.1:0")
	t.Cleanup(srv.Stop)
	return deliver, "grpc://" + addr
}

func newClient(t *testing.T, mockCtrl *gomock.Controller, url string) *Client {
	client, err := New(mockmsp.DefaultMockSigningIdentity(mockCtrl), testChannel, url)
	require.NoError(t, err)
	return client
}

func streamsClosed(deliver *mocks.MockDeliverServer, expected int) func() bool {
	return func() bool {
		_, closed := deliver.Streams()
		return closed == expected
	}
}

func TestNew(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	identity := mockmsp.DefaultMockSigningIdentity(mockCtrl)

	_, err := New(nil, testChannel, "grpc://localhost:7051")
	assert.Error(t, err)
	_, err = New(identity, "", "grpc://localhost:7051")
	assert.Error(t, err)
	_, err = New(identity, testChannel, "")
	assert.Error(t, err)

	client, err := FromTarget(identity, testChannel, fab.NetworkTarget{Name: "peer0", URL: "grpc://localhost:7051"})
	require.NoError(t, err)
	assert.Equal(t, "grpc://localhost:7051", client.URL())

	_, err = FromTarget(identity, testChannel, fab.NetworkTarget{Name: "peer0", URL: "grpcs://localhost:7051", TLSCACert: []byte("not a cert")})
	assert.Error(t, err)
}

func TestCommitValid(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	deliver, url := startDeliverServer(t)
	client := newClient(t, mockCtrl, url)

	reg, err := client.RegisterTxStatus(context.Background(), testTxID)
	require.NoError(t, err)
	defer reg.Close()

	deliver.Blocks <- mocks.NewFilteredBlock(testChannel, mocks.NewFilteredTx("other", pb.TxValidationCode_MVCC_READ_CONFLICT))
	block := mocks.NewFilteredBlock(testChannel, mocks.NewFilteredTx(testTxID, pb.TxValidationCode_VALID))
	block.Number = 7
	deliver.Blocks <- block

	event, err := reg.Wait(context.Background(), testTimeout)
	require.NoError(t, err)
	assert.Equal(t, testTxID, event.TxID)
	assert.Equal(t, pb.TxValidationCode_VALID, event.TxValidationCode)
	assert.EqualValues(t, 7, event.BlockNumber)
	assert.Equal(t, url, event.SourceURL)
}

func TestSeekRequest(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	deliver, url := startDeliverServer(t)
	client := newClient(t, mockCtrl, url)

	reg, err := client.RegisterTxStatus(context.Background(), testTxID)
	require.NoError(t, err)
	defer reg.Close()

	require.Eventually(t, func() bool { return len(deliver.SeekEnvelopes()) == 1 }, testTimeout, 10*time.Millisecond)

	env := deliver.SeekEnvelopes()[0]
	assert.Equal(t, []byte("signature"), env.Signature)

	payload, err := protoutil.UnmarshalPayload(env.Payload)
	require.NoError(t, err)
	chdr, err := protoutil.UnmarshalChannelHeader(payload.Header.ChannelHeader)
	require.NoError(t, err)
	assert.Equal(t, int32(cb.HeaderType_DELIVER_SEEK_INFO), chdr.Type)
	assert.Equal(t, testChannel, chdr.ChannelId)

	seekInfo := &ab.SeekInfo{}
	require.NoError(t, proto.Unmarshal(payload.Data, seekInfo))
	assert.NotNil(t, seekInfo.Start.GetNewest())
	assert.Equal(t, ab.SeekInfo_BLOCK_UNTIL_READY, seekInfo.Behavior)
}

func TestCommitInvalid(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	deliver, url := startDeliverServer(t)
	client := newClient(t, mockCtrl, url)

	reg, err := client.RegisterTxStatus(context.Background(), testTxID)
	require.NoError(t, err)
	defer reg.Close()

	deliver.Blocks <- mocks.NewFilteredBlock(testChannel, mocks.NewFilteredTx(testTxID, pb.TxValidationCode_ENDORSEMENT_POLICY_FAILURE))

	event, err := reg.Wait(context.Background(), testTimeout)
	require.Error(t, err)
	assert.True(t, status.IsCommitFailure(err))
	require.NotNil(t, event)
	assert.Equal(t, pb.TxValidationCode_ENDORSEMENT_POLICY_FAILURE, event.TxValidationCode)

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, int32(pb.TxValidationCode_ENDORSEMENT_POLICY_FAILURE), s.Code)
}

func TestCommitTimeout(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	deliver, url := startDeliverServer(t)
	client := newClient(t, mockCtrl, url)

	reg, err := client.RegisterTxStatus(context.Background(), testTxID)
	require.NoError(t, err)

	_, err = reg.Wait(context.Background(), 100*time.Millisecond)
	require.Error(t, err)
	assert.True(t, status.IsCommitTimeout(err))

	reg.Close()
	assert.Eventually(t, streamsClosed(deliver, 1), testTimeout, 10*time.Millisecond)
}

func TestWaitContextDone(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	_, url := startDeliverServer(t)
	client := newClient(t, mockCtrl, url)

	reg, err := client.RegisterTxStatus(context.Background(), testTxID)
	require.NoError(t, err)
	defer reg.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = reg.Wait(ctx, testTimeout)
	require.Error(t, err)
	assert.False(t, status.IsCommitTimeout(err))
	assert.Equal(t, status.KindEventTransport, status.KindOf(err))

	ctx, cancel = context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = reg.Wait(ctx, testTimeout)
	require.Error(t, err)
	assert.True(t, status.IsCommitTimeout(err))
}

func TestStreamError(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	deliver, url := startDeliverServer(t)
	deliver.Disconnect(errors.New("peer going down"))
	client := newClient(t, mockCtrl, url)

	reg, err := client.RegisterTxStatus(context.Background(), testTxID)
	require.NoError(t, err)
	defer reg.Close()

	_, err = reg.Wait(context.Background(), testTimeout)
	require.Error(t, err)
	assert.Equal(t, status.KindEventTransport, status.KindOf(err))
	assert.Contains(t, err.Error(), "peer going down")
}

func TestStatusResponse(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	deliver, url := startDeliverServer(t)
	deliver.RespondWithStatus(cb.Status_FORBIDDEN)
	client := newClient(t, mockCtrl, url)

	reg, err := client.RegisterTxStatus(context.Background(), testTxID)
	require.NoError(t, err)
	defer reg.Close()

	_, err = reg.Wait(context.Background(), testTimeout)
	require.Error(t, err)
	assert.Equal(t, status.KindEventTransport, status.KindOf(err))
	assert.Contains(t, err.Error(), "FORBIDDEN")
}

func TestCloseOnce(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	deliver, url := startDeliverServer(t)
	client := newClient(t, mockCtrl, url)

	reg, err := client.RegisterTxStatus(context.Background(), testTxID)
	require.NoError(t, err)

	reg.Close()
	reg.Close()
	client.Close()

	assert.Eventually(t, streamsClosed(deliver, 1), testTimeout, 10*time.Millisecond)
	opened, closed := deliver.Streams()
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, closed)

	_, err = client.RegisterTxStatus(context.Background(), testTxID)
	assert.Error(t, err)
}

func TestClientCloseClosesRegistrations(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	deliver, url := startDeliverServer(t)
	client := newClient(t, mockCtrl, url)

	_, err := client.RegisterTxStatus(context.Background(), "tx1")
	require.NoError(t, err)
	_, err = client.RegisterTxStatus(context.Background(), "tx2")
	require.NoError(t, err)

	client.Close()
	assert.Eventually(t, streamsClosed(deliver, 2), testTimeout, 10*time.Millisecond)
}

func TestRegisterErrors(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	client := newClient(t, mockCtrl, "grpc://"+addr)

	_, err = client.RegisterTxStatus(context.Background(), "")
	assert.Error(t, err)

	_, err = client.RegisterTxStatus(context.Background(), testTxID)
	require.Error(t, err)
	assert.Equal(t, status.KindEventTransport, status.KindOf(err))
}
