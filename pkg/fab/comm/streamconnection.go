/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package comm

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/grpc"

	"github.com/securekey/fabric-ccdeploy/pkg/common/options"
)

// StreamProvider creates a GRPC stream. The returned function cancels the stream.
type StreamProvider func(conn *grpc.ClientConn) (grpc.ClientStream, func(), error)

// StreamConnection manages the GRPC connection and client stream
type StreamConnection struct {
	*GRPCConnection
	stream grpc.ClientStream
	cancel func()
	lock   sync.Mutex
}

// NewStreamConnection creates a new connection with stream
func NewStreamConnection(ctx context.Context, streamProvider StreamProvider, url string, opts ...options.Opt) (*StreamConnection, error) {
	conn, err := NewConnection(ctx, url, opts...)
	if err != nil {
		return nil, err
	}

	stream, cancel, err := streamProvider(conn.conn)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "could not create stream to %s", url)
	}

	if stream == nil {
		cancel()
		conn.Close()
		return nil, errors.New("unexpected nil stream received from provider")
	}

	return &StreamConnection{
		GRPCConnection: conn,
		stream:         stream,
		cancel:         cancel,
	}, nil
}

// Close closes the stream and the connection
func (c *StreamConnection) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.Closed() {
		return
	}

	logger.Debug("Closing stream....")

	if err := c.stream.CloseSend(); err != nil {
		logger.Warnf("error closing GRPC stream: %s", err)
	}

	c.cancel()

	c.GRPCConnection.Close()
}

// Stream returns the GRPC stream
func (c *StreamConnection) Stream() grpc.ClientStream {
	return c.stream
}
