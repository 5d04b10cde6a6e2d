/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mockfab

import (
	"github.com/golang/mock/gomock"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

// GoodPeerTarget is a peer target without TLS
var GoodPeerTarget = fab.NetworkTarget{Name: "peer0.org1.example.com", URL: "grpc://127.0.0.1:7051"}

// GoodOrdererTarget is an orderer target without TLS
var GoodOrdererTarget = fab.NetworkTarget{Name: "orderer.example.com", URL: "grpc://127.0.0.1:7050"}

// DefaultMockTopology returns a topology of Org1MSP with the given peers and a single orderer on every channel
func DefaultMockTopology(mockCtrl *gomock.Controller, peers ...fab.NetworkTarget) *MockChannelTopology {
	topology := NewMockChannelTopology(mockCtrl)

	topology.EXPECT().Organization().Return("Org1").AnyTimes()
	topology.EXPECT().MSPID().Return("Org1MSP").AnyTimes()
	topology.EXPECT().ChannelPeers(gomock.Any()).Return(peers, nil).AnyTimes()
	topology.EXPECT().ChannelOrderers(gomock.Any()).Return([]fab.NetworkTarget{GoodOrdererTarget}, nil).AnyTimes()

	return topology
}

// NewNamedMockPeer returns a peer mock that reports the given name and URL
func NewNamedMockPeer(mockCtrl *gomock.Controller, name, url string) *MockPeer {
	peer := NewMockPeer(mockCtrl)

	peer.EXPECT().Name().Return(name).AnyTimes()
	peer.EXPECT().URL().Return(url).AnyTimes()
	peer.EXPECT().MSPID().Return("Org1MSP").AnyTimes()

	return peer
}
