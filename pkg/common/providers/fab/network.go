/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

// NetworkTarget is an addressable peer or ordering node
type NetworkTarget struct {
	Name        string
	URL         string
	TLSCACert   []byte
	GRPCOptions map[string]interface{}
}

// ChannelTopology resolves the endpoints an organization uses on a channel
type ChannelTopology interface {
	// Organization is the name of the organization stanza
	Organization() string
	// MSPID of the organization
	MSPID() string
	// ChannelPeers returns the organization's peers joined to the channel, in
	// the order the organization lists them
	ChannelPeers(channelID string) ([]NetworkTarget, error)
	// ChannelOrderers returns the ordering nodes serving the channel
	ChannelOrderers(channelID string) ([]NetworkTarget, error)
}
