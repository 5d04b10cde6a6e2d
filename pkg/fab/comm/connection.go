/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package comm

import (
	"context"
	"crypto/x509"
	"sync/atomic"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/options"
	"github.com/securekey/fabric-ccdeploy/pkg/core/config/comm"
	"github.com/securekey/fabric-ccdeploy/pkg/core/config/endpoint"
)

var logger = logging.NewLogger("ccdeploy/fab")

// GRPCConnection manages a GRPC client connection
type GRPCConnection struct {
	url  string
	conn *grpc.ClientConn
	done int32
}

// NewConnection creates a new connection
func NewConnection(ctx context.Context, url string, opts ...options.Opt) (*GRPCConnection, error) {
	if url == "" {
		return nil, errors.New("server URL not specified")
	}

	params := defaultParams()
	options.Apply(params, opts)

	dialOpts, err := newDialOpts(url, params)
	if err != nil {
		return nil, err
	}

	grpcctx, cancel := context.WithTimeout(ctx, params.connectTimeout)
	defer cancel()

	grpcconn, err := grpc.DialContext(grpcctx, endpoint.ToAddress(url), dialOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not connect to %s", url)
	}

	return &GRPCConnection{
		url:  url,
		conn: grpcconn,
	}, nil
}

// ClientConn returns the underlying GRPC connection
func (c *GRPCConnection) ClientConn() *grpc.ClientConn {
	return c.conn
}

// URL returns the URL of the remote end
func (c *GRPCConnection) URL() string {
	return c.url
}

// Close closes the connection
func (c *GRPCConnection) Close() {
	if !c.setClosed() {
		logger.Debugf("Already closed")
		return
	}

	logger.Debugf("Closing connection to %s....", c.url)
	if err := c.conn.Close(); err != nil {
		logger.Warnf("error closing GRPC connection: %s", err)
	}
}

// Closed returns true if the connection has been closed
func (c *GRPCConnection) Closed() bool {
	return atomic.LoadInt32(&c.done) == 1
}

func (c *GRPCConnection) setClosed() bool {
	return atomic.CompareAndSwapInt32(&c.done, 0, 1)
}

func newDialOpts(url string, params *params) ([]grpc.DialOption, error) {
	var dialOpts []grpc.DialOption

	if params.keepAliveParams.Time > 0 || params.keepAliveParams.Timeout > 0 {
		dialOpts = append(dialOpts, grpc.WithKeepaliveParams(params.keepAliveParams))
	}

	dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(grpc.WaitForReady(!params.failFast)))

	if endpoint.AttemptSecured(url, params.insecure) {
		if params.certificate == nil {
			return nil, errors.Errorf("TLS CA certificate required for secure connection to %s", url)
		}
		tlsConfig, err := comm.TLSConfig([]*x509.Certificate{params.certificate}, params.hostOverride)
		if err != nil {
			return nil, err
		}
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
		logger.Debugf("Creating a secure connection to [%s] with TLS HostOverride [%s]", url, params.hostOverride)
	} else {
		logger.Debugf("Creating an insecure connection [%s]", url)
		dialOpts = append(dialOpts, grpc.WithInsecure())
	}

	return dialOpts, nil
}
