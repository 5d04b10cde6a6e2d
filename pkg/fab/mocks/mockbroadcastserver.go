/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	po "github.com/hyperledger/fabric-protos-go/orderer"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// MockBroadcastServer mock broadcast server
type MockBroadcastServer struct {
	BroadcastError error
	// BroadcastStatus is returned for every envelope. Zero means SUCCESS.
	BroadcastStatus common.Status
	BroadcastInfo   string
	Creds           credentials.TransportCredentials
	// FilteredDeliveries receives a filtered block for every successfully
	// broadcast transaction, with CommitCode as its validation code
	FilteredDeliveries chan *pb.FilteredBlock
	CommitCode         pb.TxValidationCode

	blkNum    uint64
	mutex     sync.Mutex
	envelopes []*common.Envelope
	srv       *grpc.Server
	wg        sync.WaitGroup
}

// Broadcast mock broadcast
func (m *MockBroadcastServer) Broadcast(server po.AtomicBroadcast_BroadcastServer) error {
	res, err := server.Recv()
	if err == io.EOF {
		return nil
	}

	if err != nil {
		return err
	}

	m.mutex.Lock()
	m.envelopes = append(m.envelopes, res)
	m.mutex.Unlock()

	if m.BroadcastError != nil {
		return m.BroadcastError
	}

	status := m.BroadcastStatus
	if status == common.Status_UNKNOWN {
		status = common.Status_SUCCESS
	}

	if err := server.Send(&po.BroadcastResponse{Status: status, Info: m.BroadcastInfo}); err != nil {
		return err
	}

	if status != common.Status_SUCCESS {
		return nil
	}

	return m.mockBlockDelivery(res.Payload)
}

func (m *MockBroadcastServer) mockBlockDelivery(payload []byte) error {
	if m.FilteredDeliveries == nil {
		return nil
	}

	pl := &common.Payload{}
	if err := proto.Unmarshal(payload, pl); err != nil {
		return err
	}
	// if payload is empty, then no need to broadcast to block DeliveryServer
	if pl.Header == nil {
		return nil
	}
	chdr := &common.ChannelHeader{}
	if err := proto.Unmarshal(pl.Header.ChannelHeader, chdr); err != nil {
		return err
	}

	m.mutex.Lock()
	// increase m.blkNum to mock adding of filtered blocks to the ledger
	m.blkNum++
	filteredBlock := NewFilteredBlock(chdr.ChannelId, NewFilteredTx(chdr.TxId, m.CommitCode))
	filteredBlock.Number = m.blkNum
	m.mutex.Unlock()

	go func() {
		m.FilteredDeliveries <- filteredBlock
	}()

	return nil
}

// Deliver is not served by the mock orderer
func (m *MockBroadcastServer) Deliver(server po.AtomicBroadcast_DeliverServer) error {
	return errors.New("deliver not supported by mock orderer")
}

// Envelopes returns the envelopes received so far
func (m *MockBroadcastServer) Envelopes() []*common.Envelope {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	envelopes := make([]*common.Envelope, len(m.envelopes))
	copy(envelopes, m.envelopes)
	return envelopes
}

// Start the mock broadcast server
func (m *MockBroadcastServer) Start(address string) string {
	if m.srv != nil {
		panic("MockBroadcastServer already started")
	}

	// pass in TLS creds if present
	if m.Creds != nil {
		m.srv = grpc.NewServer(grpc.Creds(m.Creds))
	} else {
		m.srv = grpc.NewServer()
	}

	lis, err := net.Listen("tcp", address)
	if err != nil {
		panic(fmt.Sprintf("Error starting BroadcastServer %s", err))
	}
	addr := lis.Addr().String()

	logger.Debugf("Starting MockBroadcastServer [%s]", addr)
	po.RegisterAtomicBroadcastServer(m.srv, m)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.srv.Serve(lis); err != nil {
			logger.Debugf("StartMockBroadcastServer failed [%s]", err)
		}
	}()

	return addr
}

// Stop the mock broadcast server and wait for completion.
func (m *MockBroadcastServer) Stop() {
	if m.srv == nil {
		panic("MockBroadcastServer not started")
	}

	m.srv.Stop()
	m.wg.Wait()
	m.srv = nil
}
