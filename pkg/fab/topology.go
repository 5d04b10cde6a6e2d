/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"sort"
	"strings"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/core/config/endpoint"
)

// Topology resolves the endpoints of one organization from the connection profile
type Topology struct {
	config *EndpointConfig
	org    string
	mspID  string
	peers  []string
}

// Topology returns the topology of the given organization. An empty name selects
// the organization of the client stanza.
func (c *EndpointConfig) Topology(org string) (*Topology, error) {
	if org == "" {
		org = c.networkConfig.Client.Organization
	}
	if org == "" {
		return nil, status.NewConfigurationError(status.InvalidArgument, "organization is required")
	}

	orgConfig, ok := c.OrganizationConfig(org)
	if !ok {
		return nil, status.NewConfigurationError(status.InvalidArgument, "organization '%s' not found in connection profile", org)
	}
	if len(orgConfig.Peers) == 0 {
		return nil, status.NewConfigurationError(status.InvalidProfile, "organization '%s' has no peers", org)
	}

	mspID := orgConfig.MSPID
	if mspID == "" {
		logger.Debugf("organization '%s' has no mspid, using the organization name", org)
		mspID = org
	}

	return &Topology{
		config: c,
		org:    org,
		mspID:  mspID,
		peers:  orgConfig.Peers,
	}, nil
}

// Organization is the name of the organization
func (t *Topology) Organization() string {
	return t.org
}

// MSPID of the organization
func (t *Topology) MSPID() string {
	return t.mspID
}

// ChannelPeers returns the organization's peers listed for the channel, in
// organization order. When the profile has no peers of the organization for
// the channel, all of the organization's peers are returned.
func (t *Topology) ChannelPeers(channelID string) ([]fab.NetworkTarget, error) {
	names := t.peers
	if ch, ok := t.config.ChannelConfig(channelID); ok && len(ch.Peers) > 0 {
		var joined []string
		for _, name := range t.peers {
			if _, ok := ch.Peers[strings.ToLower(name)]; ok {
				joined = append(joined, name)
			}
		}
		if len(joined) > 0 {
			names = joined
		}
	}

	targets := make([]fab.NetworkTarget, 0, len(names))
	for _, name := range names {
		p, ok := t.config.PeerConfig(name)
		if !ok {
			return nil, status.NewConfigurationError(status.InvalidProfile, "peer '%s' of organization '%s' not found in connection profile", name, t.org)
		}
		target, err := newTarget("peer", name, p.URL, p.GRPCOptions, p.TLSCACerts)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	return targets, nil
}

// ChannelOrderers returns the orderers listed for the channel. When the channel
// lists none, every orderer of the profile is returned, ordered by name.
func (t *Topology) ChannelOrderers(channelID string) ([]fab.NetworkTarget, error) {
	var names []string
	if ch, ok := t.config.ChannelConfig(channelID); ok {
		names = ch.Orderers
	}
	if len(names) == 0 {
		for name := range t.config.networkConfig.Orderers {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	if len(names) == 0 {
		return nil, status.NewConfigurationError(status.InvalidProfile, "no orderers found in connection profile")
	}

	targets := make([]fab.NetworkTarget, 0, len(names))
	for _, name := range names {
		o, ok := t.config.OrdererConfig(name)
		if !ok {
			return nil, status.NewConfigurationError(status.InvalidProfile, "orderer '%s' of channel '%s' not found in connection profile", name, channelID)
		}
		target, err := newTarget("orderer", name, o.URL, o.GRPCOptions, o.TLSCACerts)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	return targets, nil
}

func newTarget(kind, name, url string, grpcOptions map[string]interface{}, tlsCACerts endpoint.TLSConfig) (fab.NetworkTarget, error) {
	if err := endpoint.ValidateURL(url); err != nil {
		return fab.NetworkTarget{}, status.NewConfigurationError(status.InvalidProfile, "%s '%s': %s", kind, name, err)
	}

	if endpoint.IsTLSEnabled(url) {
		if len(tlsCACerts.Bytes()) == 0 {
			return fab.NetworkTarget{}, status.NewConfigurationError(status.InvalidProfile,
				"grpcs protocol detected for %s '%s', tlsCACerts required but none found in network config", kind, name)
		}
		if _, ok, err := tlsCACerts.TLSCert(); err != nil || !ok {
			return fab.NetworkTarget{}, status.NewConfigurationError(status.InvalidProfile,
				"invalid tlsCACerts for %s '%s'", kind, name)
		}
	}

	return fab.NetworkTarget{
		Name:        name,
		URL:         url,
		TLSCACert:   tlsCACerts.Bytes(),
		GRPCOptions: grpcOptions,
	}, nil
}
