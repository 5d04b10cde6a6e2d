/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/msp"
)

// InfraProvider creates the transports used by a single operation. Every
// connection it opens is released by Close.
type InfraProvider interface {
	CreatePeer(target NetworkTarget, mspID string) (Peer, error)
	CreateOrderer(target NetworkTarget) (Orderer, error)
	CreateEventService(identity msp.SigningIdentity, channelID string, target NetworkTarget) (CommitEventService, error)
	Close()
}
