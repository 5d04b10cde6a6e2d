/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package channel enables invoking and querying chaincode on a Fabric channel.
package channel

import (
	"time"

	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/client/channel/invoke"
	"github.com/securekey/fabric-ccdeploy/pkg/client/common/txflow"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/context"
	contextImpl "github.com/securekey/fabric-ccdeploy/pkg/context"
)

var logger = logging.NewLogger("ccdeploy/client")

const (
	defaultHandlerTimeout = time.Second * 120
)

// Client enables access to a channel on a Fabric network.
//
// A channel client instance sends invocations to the organization's peers on
// a single channel. An application that requires interaction with multiple
// channels should create a separate instance for each channel.
type Client struct {
	context   context.Client
	channelID string
}

// ClientOption describes a functional parameter for the New constructor
type ClientOption func(*Client) error

// New returns a Client instance.
func New(ctx context.Client, channelID string, opts ...ClientOption) (*Client, error) {
	if ctx == nil {
		return nil, errors.New("client context is required")
	}
	if channelID == "" {
		return nil, status.NewConfigurationError(status.InvalidArgument, "must provide channel ID")
	}

	channelClient := Client{context: ctx, channelID: channelID}

	for _, param := range opts {
		if err := param(&channelClient); err != nil {
			return nil, err
		}
	}

	return &channelClient, nil
}

// Query chaincode using request and optional options provided. Nothing is
// sent to the ordering service.
func (cc *Client) Query(request Request, options ...RequestOption) (Response, error) {
	return cc.InvokeOrQuery(request, true, options...)
}

// Execute prepares and executes transaction using request and optional options provided
func (cc *Client) Execute(request Request, options ...RequestOption) (Response, error) {
	return cc.InvokeOrQuery(request, false, options...)
}

// InvokeOrQuery sends the invocation to the target peers. A query returns once
// all endorsements are validated; an invoke also orders the transaction and
// waits for it to be committed.
func (cc *Client) InvokeOrQuery(request Request, query bool, options ...RequestOption) (Response, error) {
	operation, handler := "invoke", invoke.NewExecuteHandler()
	if query {
		operation, handler = "query", invoke.NewQueryHandler()
	}
	return cc.InvokeHandler(operation, handler, request, options...)
}

//InvokeHandler invokes handler using request and options provided
func (cc *Client) InvokeHandler(operation string, handler invoke.Handler, request Request, options ...RequestOption) (Response, error) {
	tracker := txflow.NewTracker(operation, request.ChaincodeID, cc.context.Metrics())

	//Read execute tx options
	txnOpts, err := cc.prepareOptsFromOptions(options...)
	if err != nil {
		return Response{}, tracker.Fail(txflow.PhaseConfiguration, err)
	}

	if request.ChaincodeID == "" {
		return Response{}, tracker.Fail(txflow.PhaseConfiguration,
			status.NewConfigurationError(status.InvalidArgument, "ChaincodeID is required"))
	}
	if request.Fcn == "" {
		request.Fcn = DefaultFcn
	}

	reqCtx, cancel := contextImpl.NewRequest(cc.context, contextImpl.WithTimeout(txnOpts.Timeout), contextImpl.WithParent(txnOpts.ParentContext))
	defer cancel()

	requestContext := &invoke.RequestContext{
		Request:  invoke.Request(request),
		Opts:     invoke.Opts(txnOpts),
		Response: invoke.Response{},
		Ctx:      reqCtx,
		Tracker:  tracker,
	}
	clientContext := &invoke.ClientContext{Client: cc.context, ChannelID: cc.channelID}

	logger.Debugf("%s of chaincode [%s] function [%s] on channel [%s]", operation, request.ChaincodeID, request.Fcn, cc.channelID)

	//Perform action through handler
	handler.Handle(requestContext, clientContext)
	if requestContext.Error != nil {
		return Response(requestContext.Response), requestContext.Error
	}

	tracker.Done()

	return Response(requestContext.Response), nil
}

//prepareOptsFromOptions Reads apitxn.Opts from Option array
func (cc *Client) prepareOptsFromOptions(options ...RequestOption) (requestOptions, error) {
	txnOpts := requestOptions{}
	for _, option := range options {
		err := option(cc.context, &txnOpts)
		if err != nil {
			return txnOpts, errors.WithMessage(err, "Failed to read opts")
		}
	}
	if txnOpts.Timeout <= 0 {
		txnOpts.Timeout = defaultHandlerTimeout
	}
	return txnOpts, nil
}
