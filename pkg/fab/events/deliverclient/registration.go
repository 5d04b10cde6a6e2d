/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package deliverclient

import (
	reqContext "context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/comm"
)

// outcome is the single terminal message posted by the stream reader
type outcome struct {
	event *fab.TxStatusEvent
	err   error
}

// Registration is a subscription to the commit event of one transaction.
// Exactly one outcome is produced, whether the transaction commits, the
// stream fails or the registration is closed first.
type Registration struct {
	client *Client
	conn   *comm.StreamConnection
	stream pb.Deliver_DeliverFilteredClient
	txID   string

	outcome   chan outcome
	closed    int32
	closeOnce sync.Once
}

func newRegistration(client *Client, conn *comm.StreamConnection, stream pb.Deliver_DeliverFilteredClient, txID string) *Registration {
	return &Registration{
		client:  client,
		conn:    conn,
		stream:  stream,
		txID:    txID,
		outcome: make(chan outcome, 1),
	}
}

// TxID returns the transaction the registration is waiting for
func (r *Registration) TxID() string {
	return r.txID
}

// receive reads the stream until the transaction shows up in a block or the
// stream ends. It posts at most one outcome and never blocks on posting.
func (r *Registration) receive() {
	defer logger.Debugf("Exiting stream listener for [%s]", r.txID)

	for {
		resp, err := r.stream.Recv()
		if atomic.LoadInt32(&r.closed) == 1 {
			logger.Debugf("The connection has closed with error [%v]. Terminating loop.", err)
			return
		}
		if err != nil {
			logger.Warnf("Received error from stream: [%s]", err)
			r.post(outcome{err: connectionFailed(errors.Wrapf(err, "event stream from %s failed", r.client.url))})
			return
		}

		switch evt := resp.Type.(type) {
		case *pb.DeliverResponse_FilteredBlock:
			if done := r.handleBlock(evt.FilteredBlock); done {
				return
			}
		case *pb.DeliverResponse_Status:
			r.post(outcome{err: connectionFailed(errors.Errorf("event source %s ended the stream with status %s", r.client.url, evt.Status))})
			return
		default:
			logger.Debugf("ignoring deliver response of type %T", resp.Type)
		}
	}
}

func (r *Registration) handleBlock(block *pb.FilteredBlock) bool {
	if block == nil {
		return false
	}

	logger.Debugf("received filtered block %d with %d transactions", block.Number, len(block.FilteredTransactions))

	for _, tx := range block.FilteredTransactions {
		if tx.Txid != r.txID {
			continue
		}

		event := &fab.TxStatusEvent{
			TxID:             tx.Txid,
			TxValidationCode: tx.TxValidationCode,
			BlockNumber:      block.Number,
			SourceURL:        r.client.url,
		}

		if tx.TxValidationCode == pb.TxValidationCode_VALID {
			r.post(outcome{event: event})
		} else {
			r.post(outcome{event: event, err: errors.WithStack(status.New(status.EventServerStatus, int32(tx.TxValidationCode),
				fmt.Sprintf("transaction [%s] was rejected with validation code %s", tx.Txid, tx.TxValidationCode),
				[]interface{}{tx.Txid, block.Number}))})
		}
		return true
	}

	return false
}

func (r *Registration) post(o outcome) {
	select {
	case r.outcome <- o:
	default:
		logger.Warnf("dropping duplicate outcome for [%s]", r.txID)
	}
}

// Wait blocks until the commit outcome of the transaction is known, the
// timeout elapses or ctx is done. A transaction committed with any code other
// than VALID returns the event together with an error.
func (r *Registration) Wait(ctx reqContext.Context, timeout time.Duration) (*fab.TxStatusEvent, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case o := <-r.outcome:
		if o.err == nil {
			logger.Debugf("transaction [%s] committed in block %d", r.txID, o.event.BlockNumber)
		}
		return o.event, o.err
	case <-timer.C:
		return nil, errors.WithStack(status.New(status.EventClientStatus, status.Timeout.ToInt32(),
			fmt.Sprintf("timed out after %s waiting for commit of transaction [%s]", timeout, r.txID), []interface{}{r.txID}))
	case <-ctx.Done():
		code := status.Unknown
		if ctx.Err() == reqContext.DeadlineExceeded {
			code = status.Timeout
		}
		return nil, errors.WithStack(status.New(status.EventClientStatus, code.ToInt32(),
			fmt.Sprintf("stopped waiting for commit of transaction [%s]: %s", r.txID, ctx.Err()), []interface{}{r.txID}))
	}
}

// Close cancels the stream and closes the connection. It is safe to call more than once.
func (r *Registration) Close() {
	r.closeOnce.Do(func() {
		logger.Debugf("closing registration for [%s]", r.txID)
		atomic.StoreInt32(&r.closed, 1)
		r.conn.Close()
		r.client.unregister(r)
	})
}

func connectionFailed(err error) error {
	return errors.WithStack(status.New(status.EventClientStatus, status.ConnectionFailed.ToInt32(), err.Error(), []interface{}{err}))
}
