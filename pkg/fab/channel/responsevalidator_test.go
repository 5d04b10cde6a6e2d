/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package channel

import (
	"testing"

	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

func okResult(endorser string) fab.PeerResult {
	return resultWithStatus(endorser, 200, "")
}

func resultWithStatus(endorser string, code int32, msg string) fab.PeerResult {
	return fab.PeerResult{
		Endorser: endorser,
		Response: &fab.TransactionProposalResponse{
			Endorser: endorser,
			Status:   code,
			ProposalResponse: &pb.ProposalResponse{
				Response: &pb.Response{Status: code, Message: msg},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	err := Validate([]fab.PeerResult{okResult("peer0"), okResult("peer1")})
	assert.NoError(t, err)
}

func TestValidateIdempotent(t *testing.T) {
	good := []fab.PeerResult{okResult("peer0"), okResult("peer1")}
	bad := []fab.PeerResult{okResult("peer0"), resultWithStatus("peer1", 500, "boom")}

	for i := 0; i < 3; i++ {
		assert.NoError(t, Validate(good))

		err := Validate(bad)
		require.Error(t, err)
		assert.Equal(t, Validate(bad).Error(), err.Error())
	}
}

func TestValidateEmpty(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, status.IsProposalError(err))

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.NoPeersFound.ToInt32(), s.Code)
}

func TestValidateSendError(t *testing.T) {
	cause := errors.New("connection refused")
	results := []fab.PeerResult{
		resultWithStatus("peer0", 500, "bad"),
		{Endorser: "peer1", Err: cause},
	}

	err := Validate(results)
	require.Error(t, err)
	assert.True(t, status.IsProposalError(err))
	assert.Contains(t, err.Error(), "Failed to send proposal or receive valid response: connection refused")

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.EndorserClientStatus, s.Group)
	assert.Equal(t, cause, s.Details[1])
}

func TestValidateSendStatusErrorPreserved(t *testing.T) {
	cause := status.New(status.EndorserClientStatus, status.ConnectionFailed.ToInt32(), "unreachable", nil)

	err := Validate([]fab.PeerResult{{Endorser: "peer0", Err: cause}})
	require.Error(t, err)
	assert.Equal(t, cause, errors.Cause(err))
	assert.Contains(t, err.Error(), "Failed to send proposal or receive valid response")
}

func TestValidateFirstBadStatusWins(t *testing.T) {
	results := []fab.PeerResult{
		okResult("peer0"),
		resultWithStatus("peer1", 400, "first"),
		resultWithStatus("peer2", 500, "second"),
	}

	err := Validate(results)
	require.Error(t, err)
	assert.True(t, status.IsProposalError(err))
	assert.Contains(t, err.Error(), "Response null or has a status not equal to 200")
	assert.Contains(t, err.Error(), "peer1")
	assert.NotContains(t, err.Error(), "peer2")

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.EndorserServerStatus, s.Group)
	assert.EqualValues(t, 400, s.Code)
	assert.Equal(t, "peer1", s.Details[0])
	assert.Equal(t, "first", s.Details[1])
}

func TestValidateNilResponse(t *testing.T) {
	results := []fab.PeerResult{
		okResult("peer0"),
		{Endorser: "peer1"},
		{Endorser: "peer2", Response: &fab.TransactionProposalResponse{Status: 200, ProposalResponse: &pb.ProposalResponse{}}},
	}

	err := Validate(results)
	require.Error(t, err)
	assert.True(t, status.IsProposalError(err))

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.EmptyResponse.ToInt32(), s.Code)
	assert.Equal(t, "peer1", s.Details[0])

	err = Validate(results[2:])
	require.Error(t, err)
	s, ok = status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.EmptyResponse.ToInt32(), s.Code)
}

func TestValidateChaincodeStatus(t *testing.T) {
	r := okResult("peer0")
	r.Response.ProposalResponse.Response.Status = 500
	r.Response.ProposalResponse.Response.Message = "chaincode error"

	err := Validate([]fab.PeerResult{r})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chaincode error")
}

func TestValidateBroadcast(t *testing.T) {
	assert.NoError(t, ValidateBroadcast(&fab.BroadcastResponse{Status: common.Status_SUCCESS, Orderer: "orderer"}))

	err := ValidateBroadcast(nil)
	require.Error(t, err)
	assert.True(t, status.IsBroadcastError(err))

	err = ValidateBroadcast(&fab.BroadcastResponse{Status: common.Status_BAD_REQUEST, Info: "bad envelope", Orderer: "orderer"})
	require.Error(t, err)
	assert.True(t, status.IsBroadcastError(err))
	assert.Contains(t, err.Error(), "sendTransaction returned with an invalid status code: BAD_REQUEST: bad envelope")

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.OrdererServerStatus, s.Group)
	assert.Equal(t, int32(common.Status_BAD_REQUEST), s.Code)
}
