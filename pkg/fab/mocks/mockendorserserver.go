/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/golang/protobuf/proto"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
)

var logger = logging.NewLogger("ccdeploy/mocks")

// ProposalHandler produces the response for a signed proposal
type ProposalHandler func(proposal *pb.SignedProposal) (*pb.ProposalResponse, error)

// MockEndorserServer mock endorser server to process endorsement proposals. If
// Deliver is set, the deliver service is served on the same address, as on a
// real peer.
type MockEndorserServer struct {
	Creds         credentials.TransportCredentials
	ProposalError error
	// ResponseStatus is returned in the response. Zero means 200.
	ResponseStatus  int32
	ResponseMessage string
	// Payload is set as the response payload
	Payload []byte
	// Handler, when set, takes precedence over the fields above
	Handler ProposalHandler
	Deliver *MockDeliverServer

	mutex     sync.RWMutex
	proposals []*pb.SignedProposal
	wg        sync.WaitGroup
	srv       *grpc.Server
}

// ProcessProposal mock implementation that returns success if error is not set
// error if it is
func (m *MockEndorserServer) ProcessProposal(ctx context.Context, proposal *pb.SignedProposal) (*pb.ProposalResponse, error) {
	m.mutex.Lock()
	m.proposals = append(m.proposals, proposal)
	m.mutex.Unlock()

	if m.Handler != nil {
		return m.Handler(proposal)
	}

	if m.ProposalError != nil {
		return nil, m.ProposalError
	}

	status := m.ResponseStatus
	if status == 0 {
		status = 200
	}

	return &pb.ProposalResponse{
		Response: &pb.Response{
			Status:  status,
			Message: m.ResponseMessage,
			Payload: m.Payload,
		},
		Endorsement: &pb.Endorsement{Endorser: []byte("endorser"), Signature: []byte("signature")},
		Payload:     NewProposalResponsePayload(status, m.Payload),
	}, nil
}

// Proposals returns the signed proposals received so far
func (m *MockEndorserServer) Proposals() []*pb.SignedProposal {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	proposals := make([]*pb.SignedProposal, len(m.proposals))
	copy(proposals, m.proposals)
	return proposals
}

// NewProposalResponsePayload returns a marshalled ProposalResponsePayload whose
// chaincode action carries the given status and payload
func NewProposalResponsePayload(status int32, payload []byte) []byte {
	ccAction := &pb.ChaincodeAction{
		Response: &pb.Response{Status: status, Payload: payload},
	}
	ccActionBytes, err := proto.Marshal(ccAction)
	if err != nil {
		return nil
	}

	prpBytes, err := proto.Marshal(&pb.ProposalResponsePayload{Extension: ccActionBytes})
	if err != nil {
		return nil
	}
	return prpBytes
}

// Start the mock endorser server
func (m *MockEndorserServer) Start(address string) string {
	if m.srv != nil {
		panic("MockEndorserServer already started")
	}

	// pass in TLS creds if present
	if m.Creds != nil {
		m.srv = grpc.NewServer(grpc.Creds(m.Creds))
	} else {
		m.srv = grpc.NewServer()
	}

	lis, err := net.Listen("tcp", address)
	if err != nil {
		panic(fmt.Sprintf("Error starting EndorserServer %s", err))
	}
	addr := lis.Addr().String()

	logger.Debugf("Starting MockEndorserServer [%s]", addr)
	pb.RegisterEndorserServer(m.srv, m)
	if m.Deliver != nil {
		pb.RegisterDeliverServer(m.srv, m.Deliver)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.srv.Serve(lis); err != nil {
			logger.Debugf("StartMockEndorserServer failed [%s]", err)
		}
	}()

	return addr
}

// Stop the mock endorser server and wait for completion.
func (m *MockEndorserServer) Stop() {
	if m.srv == nil {
		panic("MockEndorserServer not started")
	}

	m.srv.Stop()
	m.wg.Wait()
	m.srv = nil
}
