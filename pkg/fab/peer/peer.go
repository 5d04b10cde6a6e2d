/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package peer

import (
	reqContext "context"

	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/options"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/core/config/endpoint"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/comm"
)

var logger = logging.NewLogger("ccdeploy/fab")

// Peer represents a node in the target blockchain network to which
// endorsement proposals or query requests are sent.
type Peer struct {
	name      string
	url       string
	mspID     string
	connOpts  []options.Opt
	processor fab.ProposalProcessor
}

// Option describes a functional parameter for the New constructor
type Option func(*Peer) error

// New Returns a new Peer instance
func New(opts ...Option) (*Peer, error) {
	peer := &Peer{}

	for _, opt := range opts {
		if err := opt(peer); err != nil {
			return nil, err
		}
	}

	if err := endpoint.ValidateURL(peer.url); err != nil {
		return nil, errors.WithMessage(err, "invalid peer URL")
	}

	if peer.name == "" {
		peer.name = peer.url
	}

	if peer.processor == nil {
		peer.processor = newPeerEndorser(peer.url, peer.connOpts)
	}

	return peer, nil
}

// WithURL is a functional option for the peer.New constructor that configures the peer's URL.
func WithURL(url string) Option {
	return func(p *Peer) error {
		p.url = url
		return nil
	}
}

// WithName sets the name of the peer as it appears in the connection profile
func WithName(name string) Option {
	return func(p *Peer) error {
		p.name = name
		return nil
	}
}

// WithMSPID is a functional option for the peer.New constructor that configures the peer's msp ID
func WithMSPID(mspID string) Option {
	return func(p *Peer) error {
		p.mspID = mspID
		return nil
	}
}

// WithConnectionOpts sets the options used to dial the peer
func WithConnectionOpts(opts ...options.Opt) Option {
	return func(p *Peer) error {
		p.connOpts = append(p.connOpts, opts...)
		return nil
	}
}

// FromTarget is a functional option for the peer.New constructor that configures a new peer
// from a network target resolved out of the connection profile
func FromTarget(target fab.NetworkTarget) Option {
	return func(p *Peer) error {
		opts, err := comm.OptsFromTarget(target)
		if err != nil {
			return err
		}

		p.name = target.Name
		p.url = target.URL
		p.connOpts = append(p.connOpts, opts...)

		return nil
	}
}

// WithProcessor replaces the GRPC endorser with the given processor
func WithProcessor(processor fab.ProposalProcessor) Option {
	return func(p *Peer) error {
		p.processor = processor
		return nil
	}
}

// ProcessTransactionProposal sends the created proposal to peer for endorsement.
func (p *Peer) ProcessTransactionProposal(ctx reqContext.Context, proposal fab.ProcessProposalRequest) (*fab.TransactionProposalResponse, error) {
	return p.processor.ProcessTransactionProposal(ctx, proposal)
}

// MSPID gets the Peer mspID.
func (p *Peer) MSPID() string {
	return p.mspID
}

// URL gets the Peer URL. Required property for the instance objects.
func (p *Peer) URL() string {
	return p.url
}

// Name is the name of the peer in the connection profile
func (p *Peer) Name() string {
	return p.name
}

func (p *Peer) String() string {
	return p.url
}
