/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package deliverclient waits for transaction commit events using the peer's
// DeliverFiltered service.
package deliverclient

import (
	reqContext "context"
	"math"
	"sync"

	cb "github.com/hyperledger/fabric-protos-go/common"
	ab "github.com/hyperledger/fabric-protos-go/orderer"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/hyperledger/fabric/protoutil"
	"github.com/pkg/errors"
	"google.golang.org/grpc"

	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/options"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/msp"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/comm"
)

var logger = logging.NewLogger("ccdeploy/events")

var (
	newestPos = &ab.SeekPosition{Type: &ab.SeekPosition_Newest{Newest: &ab.SeekNewest{}}}
	maxPos    = &ab.SeekPosition{Type: &ab.SeekPosition_Specified{Specified: &ab.SeekSpecified{Number: math.MaxUint64}}}
)

// seekNewest asks the deliver server for every block from the current one on
func seekNewest() *ab.SeekInfo {
	return &ab.SeekInfo{
		Start:    newestPos,
		Stop:     maxPos,
		Behavior: ab.SeekInfo_BLOCK_UNTIL_READY,
	}
}

// deliverFiltered opens a DeliverFiltered stream. The stream lives until its
// cancel function is called.
func deliverFiltered(conn *grpc.ClientConn) (grpc.ClientStream, func(), error) {
	ctx, cancel := reqContext.WithCancel(reqContext.Background())
	stream, err := pb.NewDeliverClient(conn).DeliverFiltered(ctx)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return stream, cancel, nil
}

// Client opens commit event subscriptions on one peer of a channel. Every
// subscription uses its own stream so that closing it never affects another.
type Client struct {
	identity  msp.SigningIdentity
	channelID string
	url       string
	connOpts  []options.Opt

	lock          sync.Mutex
	registrations map[*Registration]struct{}
	closed        bool
}

// New returns a deliver client for the peer at url
func New(identity msp.SigningIdentity, channelID, url string, connOpts ...options.Opt) (*Client, error) {
	if identity == nil {
		return nil, errors.New("signing identity is required")
	}
	if channelID == "" {
		return nil, errors.New("expecting channel ID")
	}
	if url == "" {
		return nil, errors.New("event source URL is required")
	}

	return &Client{
		identity:      identity,
		channelID:     channelID,
		url:           url,
		connOpts:      connOpts,
		registrations: make(map[*Registration]struct{}),
	}, nil
}

// FromTarget returns a deliver client for the peer described by target
func FromTarget(identity msp.SigningIdentity, channelID string, target fab.NetworkTarget) (*Client, error) {
	opts, err := comm.OptsFromTarget(target)
	if err != nil {
		return nil, err
	}
	return New(identity, channelID, target.URL, opts...)
}

// URL returns the URL of the event source peer
func (c *Client) URL() string {
	return c.url
}

// RegisterTxStatus connects to the peer and subscribes to filtered blocks from
// the newest block on. The subscription is live when the call returns.
func (c *Client) RegisterTxStatus(ctx reqContext.Context, txID fab.TransactionID) (fab.TxStatusRegistration, error) {
	if txID == "" {
		return nil, errors.New("transaction ID is required")
	}

	c.lock.Lock()
	closed := c.closed
	c.lock.Unlock()
	if closed {
		return nil, errors.New("event client is closed")
	}

	logger.Debugf("Connecting to %s for commit of [%s]...", c.url, txID)

	conn, err := comm.NewStreamConnection(ctx, deliverFiltered, c.url, c.connOpts...)
	if err != nil {
		return nil, connectionFailed(errors.WithMessagef(err, "connection to event source %s failed", c.url))
	}

	env, err := c.createSignedEnvelope()
	if err != nil {
		conn.Close()
		return nil, errors.WithMessage(err, "seek request creation failed")
	}

	stream := conn.Stream().(pb.Deliver_DeliverFilteredClient)
	if err := stream.Send(env); err != nil {
		conn.Close()
		return nil, connectionFailed(errors.Wrapf(err, "seek request to %s failed", c.url))
	}

	reg := newRegistration(c, conn, stream, string(txID))

	c.lock.Lock()
	c.registrations[reg] = struct{}{}
	c.lock.Unlock()

	go reg.receive()

	return reg, nil
}

func (c *Client) unregister(reg *Registration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.registrations, reg)
}

// Close closes every registration that is still open
func (c *Client) Close() {
	c.lock.Lock()
	c.closed = true
	regs := make([]*Registration, 0, len(c.registrations))
	for reg := range c.registrations {
		regs = append(regs, reg)
	}
	c.lock.Unlock()

	for _, reg := range regs {
		reg.Close()
	}
}

func (c *Client) createSignedEnvelope() (*cb.Envelope, error) {
	var msgVersion int32
	var epoch uint64
	return protoutil.CreateSignedEnvelope(cb.HeaderType_DELIVER_SEEK_INFO, c.channelID, c.identity, seekNewest(), msgVersion, epoch)
}
