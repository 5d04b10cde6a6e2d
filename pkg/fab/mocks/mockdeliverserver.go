/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"sync"

	cb "github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
)

// MockDeliverServer is a mock deliver server. Filtered blocks written to Blocks
// are sent to every open DeliverFiltered stream.
type MockDeliverServer struct {
	Blocks chan *pb.FilteredBlock

	mutex      sync.RWMutex
	disconnErr error
	status     cb.Status
	opened     int
	closed     int
	seeks      []*cb.Envelope
}

// NewMockDeliverServer returns a new MockDeliverServer
func NewMockDeliverServer() *MockDeliverServer {
	return &MockDeliverServer{
		Blocks: make(chan *pb.FilteredBlock, 10),
	}
}

// Disconnect terminates new streams with the given error once the seek request is received
func (s *MockDeliverServer) Disconnect(err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.disconnErr = err
}

// RespondWithStatus answers new streams with the given status instead of blocks
func (s *MockDeliverServer) RespondWithStatus(status cb.Status) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.status = status
}

// Streams returns the number of DeliverFiltered streams opened and closed
func (s *MockDeliverServer) Streams() (opened, closed int) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.opened, s.closed
}

func (s *MockDeliverServer) state() (cb.Status, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.status, s.disconnErr
}

// SeekEnvelopes returns the seek envelopes received, in order
func (s *MockDeliverServer) SeekEnvelopes() []*cb.Envelope {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]*cb.Envelope(nil), s.seeks...)
}

// Deliver is not served by the mock peer
func (s *MockDeliverServer) Deliver(srv pb.Deliver_DeliverServer) error {
	return errors.New("block delivery not supported by mock peer")
}

// DeliverWithPrivateData is not served by the mock peer
func (s *MockDeliverServer) DeliverWithPrivateData(srv pb.Deliver_DeliverWithPrivateDataServer) error {
	return errors.New("private data delivery not supported by mock peer")
}

// DeliverFiltered delivers a stream of filtered blocks
func (s *MockDeliverServer) DeliverFiltered(srv pb.Deliver_DeliverFilteredServer) error {
	s.mutex.Lock()
	s.opened++
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.closed++
		s.mutex.Unlock()
	}()

	envelope, err := srv.Recv()
	if err != nil {
		return err
	}
	if envelope == nil {
		return errors.New("nil seek envelope")
	}

	s.mutex.Lock()
	s.seeks = append(s.seeks, envelope)
	s.mutex.Unlock()

	status, disconnErr := s.state()
	if disconnErr != nil {
		return disconnErr
	}

	if status != cb.Status_UNKNOWN {
		return srv.Send(&pb.DeliverResponse{
			Type: &pb.DeliverResponse_Status{Status: status},
		})
	}

	for {
		select {
		case <-srv.Context().Done():
			return nil
		case block := <-s.Blocks:
			err := srv.Send(&pb.DeliverResponse{
				Type: &pb.DeliverResponse_FilteredBlock{FilteredBlock: block},
			})
			if err != nil {
				return err
			}
		}
	}
}
