/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

// The Peer class represents a peer in the target blockchain network to which
// endorsement proposals or query requests are sent.
type Peer interface {
	ProposalProcessor
	// MSPID gets the Peer mspID.
	MSPID() string

	// URL gets the peer address
	URL() string

	// Name is the name of the peer in the connection profile
	Name() string
}
