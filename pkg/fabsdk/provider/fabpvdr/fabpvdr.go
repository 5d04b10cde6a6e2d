/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fabpvdr

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/msp"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/events/deliverclient"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/orderer"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/peer"
)

var logger = logging.NewLogger("ccdeploy/fabsdk")

// InfraProvider represents the default implementation of Fabric objects.
// Peers and orderers dial on every request; event clients hold streams and
// are closed together with the provider.
type InfraProvider struct {
	lock         sync.Mutex
	eventClients []*deliverclient.Client
	closed       bool
}

// New creates an InfraProvider enabling access to core Fabric objects and functionality.
func New() *InfraProvider {
	return &InfraProvider{}
}

// CreatePeer returns a new default implementation of Peer
func (f *InfraProvider) CreatePeer(target fab.NetworkTarget, mspID string) (fab.Peer, error) {
	p, err := peer.New(peer.FromTarget(target), peer.WithMSPID(mspID))
	if err != nil {
		return nil, errors.WithMessagef(err, "creating peer %s failed", target.Name)
	}
	return p, nil
}

// CreateOrderer returns a new default implementation of Orderer
func (f *InfraProvider) CreateOrderer(target fab.NetworkTarget) (fab.Orderer, error) {
	o, err := orderer.New(orderer.FromTarget(target))
	if err != nil {
		return nil, errors.WithMessagef(err, "creating orderer %s failed", target.Name)
	}
	return o, nil
}

// CreateEventService returns a commit event service connected to the given peer
func (f *InfraProvider) CreateEventService(identity msp.SigningIdentity, channelID string, target fab.NetworkTarget) (fab.CommitEventService, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.closed {
		return nil, errors.New("infra provider is closed")
	}

	client, err := deliverclient.FromTarget(identity, channelID, target)
	if err != nil {
		return nil, errors.WithMessagef(err, "creating event service on %s failed", target.Name)
	}

	logger.Debugf("created event service for channel [%s] on %s", channelID, client.URL())
	f.eventClients = append(f.eventClients, client)

	return client, nil
}

// Close frees resources and caches.
func (f *InfraProvider) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.closed {
		return
	}
	f.closed = true

	logger.Debugf("closing %d event service(s)", len(f.eventClients))
	for _, client := range f.eventClients {
		client.Close()
	}
	f.eventClients = nil
}
