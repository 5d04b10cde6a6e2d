/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package context provides the per-operation client context. An Operation is
// built fresh for every chaincode operation and owns the connections opened on
// its behalf; nothing is shared between operations.
package context

import (
	reqContext "context"
	"time"

	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/metrics"
	contextApi "github.com/securekey/fabric-ccdeploy/pkg/common/providers/context"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/msp"
)

// Operation implements the Client context for a single operation
type Operation struct {
	msp.SigningIdentity
	topology      fab.ChannelTopology
	infraProvider fab.InfraProvider
	metrics       *metrics.ClientMetrics
}

// Topology returns the endpoints of the operation's organization
func (c *Operation) Topology() fab.ChannelTopology {
	return c.topology
}

// InfraProvider returns the transport factory owned by the operation
func (c *Operation) InfraProvider() fab.InfraProvider {
	return c.infraProvider
}

// Metrics returns the client metrics
func (c *Operation) Metrics() *metrics.ClientMetrics {
	return c.metrics
}

// Close releases every connection opened by the operation
func (c *Operation) Close() {
	c.infraProvider.Close()
}

// OperationParams sets a field of an Operation
type OperationParams func(c *Operation)

// WithTopology sets the channel topology
func WithTopology(topology fab.ChannelTopology) OperationParams {
	return func(c *Operation) {
		c.topology = topology
	}
}

// WithInfraProvider sets the infra provider
func WithInfraProvider(infraProvider fab.InfraProvider) OperationParams {
	return func(c *Operation) {
		c.infraProvider = infraProvider
	}
}

// WithMetrics sets the client metrics. Metrics are disabled by default.
func WithMetrics(m *metrics.ClientMetrics) OperationParams {
	return func(c *Operation) {
		c.metrics = m
	}
}

// NewOperation returns a new operation context for the given identity
func NewOperation(identity msp.SigningIdentity, params ...OperationParams) (*Operation, error) {
	if identity == nil {
		return nil, errors.New("signing identity is required")
	}

	c := &Operation{SigningIdentity: identity}
	for _, param := range params {
		param(c)
	}

	if c.topology == nil {
		return nil, errors.New("channel topology is required")
	}
	if c.infraProvider == nil {
		return nil, errors.New("infra provider is required")
	}
	if c.metrics == nil {
		c.metrics = metrics.Disabled()
	}

	return c, nil
}

type reqContextKey string

var reqContextClient = reqContextKey("clientContext")

type requestContextOpts struct {
	timeout       time.Duration
	parentContext reqContext.Context
}

// ReqContextOptions parameter for creating requestContext
type ReqContextOptions func(opts *requestContextOpts)

// WithTimeout sets timeout for the request context
func WithTimeout(timeout time.Duration) ReqContextOptions {
	return func(ctx *requestContextOpts) {
		ctx.timeout = timeout
	}
}

// WithParent sets existing reqContext as a parent reqContext
func WithParent(context reqContext.Context) ReqContextOptions {
	return func(ctx *requestContextOpts) {
		ctx.parentContext = context
	}
}

// NewRequest creates a request-scope context from the client context. A zero
// timeout leaves the deadline of the parent in place.
func NewRequest(client contextApi.Client, options ...ReqContextOptions) (reqContext.Context, reqContext.CancelFunc) {
	reqCtxOpts := requestContextOpts{}
	for _, option := range options {
		option(&reqCtxOpts)
	}

	parentContext := reqCtxOpts.parentContext
	if parentContext == nil {
		parentContext = reqContext.Background()
	}

	ctx := reqContext.WithValue(parentContext, reqContextClient, client)
	if reqCtxOpts.timeout <= 0 {
		return reqContext.WithCancel(ctx)
	}
	return reqContext.WithTimeout(ctx, reqCtxOpts.timeout)
}

// RequestClientContext extracts the client context from the request context
func RequestClientContext(ctx reqContext.Context) (contextApi.Client, bool) {
	clientContext, ok := ctx.Value(reqContextClient).(contextApi.Client)
	return clientContext, ok
}
