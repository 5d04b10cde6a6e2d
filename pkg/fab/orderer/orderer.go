/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package orderer

import (
	reqContext "context"
	"io"

	"github.com/hyperledger/fabric-protos-go/common"
	ab "github.com/hyperledger/fabric-protos-go/orderer"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/options"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/core/config/endpoint"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/comm"
)

var logger = logging.NewLogger("ccdeploy/fab")

const (
	// GRPC max message size (same as Fabric)
	maxCallRecvMsgSize = 100 * 1024 * 1024
	maxCallSendMsgSize = 100 * 1024 * 1024
)

// Orderer allows a client to broadcast a transaction.
type Orderer struct {
	name     string
	url      string
	connOpts []options.Opt
}

// Option describes a functional parameter for the New constructor
type Option func(*Orderer) error

// New Returns a Orderer instance
func New(opts ...Option) (*Orderer, error) {
	orderer := &Orderer{}

	for _, opt := range opts {
		if err := opt(orderer); err != nil {
			return nil, err
		}
	}

	if err := endpoint.ValidateURL(orderer.url); err != nil {
		return nil, errors.WithMessage(err, "invalid orderer URL")
	}

	return orderer, nil
}

// WithURL is a functional option for the orderer.New constructor that configures the orderer's URL.
func WithURL(url string) Option {
	return func(o *Orderer) error {
		o.url = url
		return nil
	}
}

// WithConnectionOpts sets the options used to dial the orderer
func WithConnectionOpts(opts ...options.Opt) Option {
	return func(o *Orderer) error {
		o.connOpts = append(o.connOpts, opts...)
		return nil
	}
}

// FromTarget is a functional option for the orderer.New constructor that configures a new orderer
// from a network target resolved out of the connection profile
func FromTarget(target fab.NetworkTarget) Option {
	return func(o *Orderer) error {
		opts, err := comm.OptsFromTarget(target)
		if err != nil {
			return err
		}

		o.name = target.Name
		o.url = target.URL
		o.connOpts = append(o.connOpts, opts...)

		return nil
	}
}

// URL Get the Orderer url. Required property for the instance objects.
// Returns the address of the Orderer.
func (o *Orderer) URL() string {
	return o.url
}

// SendBroadcast sends the envelope to the orderer and returns the first
// response on the stream. A response with a status other than SUCCESS is
// returned without an error.
func (o *Orderer) SendBroadcast(ctx reqContext.Context, envelope *common.Envelope) (*fab.BroadcastResponse, error) {
	logger.Debugf("Broadcasting envelope to orderer %s [%s]", o.name, o.url)

	conn, err := comm.NewConnection(ctx, o.url, o.connOpts...)
	if err != nil {
		return nil, status.New(status.OrdererClientStatus, status.ConnectionFailed.ToInt32(), err.Error(), []interface{}{o.url})
	}
	defer conn.Close()

	broadcastClient, err := ab.NewAtomicBroadcastClient(conn.ClientConn()).Broadcast(ctx,
		grpc.MaxCallRecvMsgSize(maxCallRecvMsgSize), grpc.MaxCallSendMsgSize(maxCallSendMsgSize))
	if err != nil {
		return nil, errors.WithMessage(o.fromGRPCError(err), "NewAtomicBroadcastClient failed")
	}

	if err := broadcastClient.Send(envelope); err != nil {
		return nil, errors.WithMessage(o.fromGRPCError(err), "failed to send envelope to orderer")
	}
	if err := broadcastClient.CloseSend(); err != nil {
		logger.Debugf("unable to close broadcast client [%s]", err)
	}

	resp, err := broadcastClient.Recv()
	if err == io.EOF {
		return nil, status.New(status.OrdererClientStatus, status.EmptyResponse.ToInt32(), "orderer closed the stream without a response", []interface{}{o.url})
	}
	if err != nil {
		return nil, errors.WithMessage(o.fromGRPCError(err), "broadcast recv failed")
	}

	logger.Debugf("Received broadcast response from orderer [%s]: %s", o.url, resp.Status)

	return &fab.BroadcastResponse{
		Status:  resp.Status,
		Info:    resp.Info,
		Orderer: o.url,
	}, nil
}

func (o *Orderer) fromGRPCError(err error) error {
	rpcStatus, ok := grpcstatus.FromError(err)
	if !ok {
		return status.New(status.OrdererClientStatus, status.BroadcastFailed.ToInt32(), err.Error(), []interface{}{o.url})
	}

	switch rpcStatus.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return status.New(status.OrdererClientStatus, status.ConnectionFailed.ToInt32(), rpcStatus.Message(), []interface{}{o.url})
	default:
		return status.New(status.OrdererClientStatus, status.BroadcastFailed.ToInt32(), rpcStatus.Message(), []interface{}{o.url, rpcStatus.Code().String()})
	}
}
