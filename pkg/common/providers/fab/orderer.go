/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	reqContext "context"

	"github.com/hyperledger/fabric-protos-go/common"
)

// Orderer represents a node of the ordering service to which endorsed transactions are broadcast.
type Orderer interface {
	URL() string
	SendBroadcast(ctx reqContext.Context, envelope *common.Envelope) (*BroadcastResponse, error)
}

// BroadcastResponse is the acknowledgement returned by the ordering service for a broadcast envelope.
type BroadcastResponse struct {
	Status common.Status
	Info   string
	// Orderer is the URL of the orderer that acknowledged the envelope
	Orderer string
}
