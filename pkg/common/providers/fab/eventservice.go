/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	reqContext "context"
	"time"

	pb "github.com/hyperledger/fabric-protos-go/peer"
)

// TxStatusEvent contains the data for a transaction status event
type TxStatusEvent struct {
	// TxID is the ID of the transaction in which the event was set
	TxID string
	// TxValidationCode is the status code of the commit
	TxValidationCode pb.TxValidationCode
	// BlockNumber contains the block number in which the
	// transaction was committed
	BlockNumber uint64
	// SourceURL specifies the URL of the peer that produced the event
	SourceURL string
}

// CommitEventService opens commit event subscriptions on a single peer of a channel.
type CommitEventService interface {
	// RegisterTxStatus subscribes to commit events for the given transaction.
	// The subscription is live when the call returns.
	RegisterTxStatus(ctx reqContext.Context, txID TransactionID) (TxStatusRegistration, error)
}

// TxStatusRegistration is a live subscription for exactly one transaction.
type TxStatusRegistration interface {
	// Wait blocks until the transaction is committed as VALID, is rejected,
	// the event stream fails, or the timeout elapses.
	Wait(ctx reqContext.Context, timeout time.Duration) (*TxStatusEvent, error)
	// Close unregisters and disconnects. It is safe to call more than once.
	Close()
}
