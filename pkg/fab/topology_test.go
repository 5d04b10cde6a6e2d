/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
)

func TestTopology(t *testing.T) {
	c := loadConfig(t)

	topology, err := c.Topology("Org1")
	require.NoError(t, err)
	assert.Equal(t, "Org1", topology.Organization())
	assert.Equal(t, "Org1MSP", topology.MSPID())

	peers, err := topology.ChannelPeers("mychannel")
	require.NoError(t, err)
	require.Len(t, peers, 2)
	assert.Equal(t, "peer0.org1.example.com", peers[0].Name)
	assert.Equal(t, "grpc://localhost:7051", peers[0].URL)
	assert.Equal(t, "peer1.org1.example.com", peers[1].Name)

	orderers, err := topology.ChannelOrderers("mychannel")
	require.NoError(t, err)
	require.Len(t, orderers, 1)
	assert.Equal(t, "grpc://localhost:7050", orderers[0].URL)
	assert.Equal(t, false, orderers[0].GRPCOptions["fail-fast"])
}

func TestTopologyDefaults(t *testing.T) {
	c := loadConfig(t)

	// client organization
	topology, err := c.Topology("")
	require.NoError(t, err)
	assert.Equal(t, "Org1MSP", topology.MSPID())

	// mspid falls back to the organization name
	topology, err = c.Topology("Org2")
	require.NoError(t, err)
	assert.Equal(t, "Org2", topology.MSPID())

	// unknown channel uses all organization peers and all orderers
	peers, err := topology.ChannelPeers("otherchannel")
	require.NoError(t, err)
	require.Len(t, peers, 1)
	assert.Equal(t, "peer0.org2.example.com", peers[0].Name)

	orderers, err := topology.ChannelOrderers("otherchannel")
	require.NoError(t, err)
	assert.Len(t, orderers, 1)
}

func TestTopologyUnknownOrg(t *testing.T) {
	c := loadConfig(t)

	_, err := c.Topology("Org9")
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "organization 'Org9' not found")
}

func TestTopologyOrgWithoutPeers(t *testing.T) {
	c, err := loadRawConfig("organizations:\n  Org1:\n    mspid: Org1MSP\n")
	require.NoError(t, err)

	_, err = c.Topology("Org1")
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "has no peers")
}

func TestTopologyMissingPeer(t *testing.T) {
	c, err := loadRawConfig("organizations:\n  Org1:\n    peers: [peer0]\n")
	require.NoError(t, err)

	topology, err := c.Topology("Org1")
	require.NoError(t, err)

	_, err = topology.ChannelPeers("mychannel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "peer 'peer0' of organization 'Org1' not found")

	_, err = topology.ChannelOrderers("mychannel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no orderers found")
}

func TestTopologyTLS(t *testing.T) {
	pemBytes, err := ioutil.ReadFile("../core/config/testdata/certs/tlsca.org1.example.com-cert.pem")
	require.NoError(t, err)
	indented := "        " + strings.Replace(strings.TrimSpace(string(pemBytes)), "\n", "\n        ", -1)

	c, err := loadRawConfig(`
organizations:
  Org1:
    peers: [peer0, peer1]
orderers:
  orderer0:
    url: grpcs://localhost:7050
peers:
  peer0:
    url: grpcs://localhost:7051
    tlsCACerts:
      pem: |
` + indented + `
  peer1:
    url: http://localhost:8051
`)
	require.NoError(t, err)

	topology, err := c.Topology("Org1")
	require.NoError(t, err)

	_, err = topology.ChannelPeers("mychannel")
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "unsupported protocol")

	_, err = topology.ChannelOrderers("mychannel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grpcs protocol detected for orderer 'orderer0', tlsCACerts required")

	target, err := newTarget("peer", "peer0", "grpcs://localhost:7051", nil, c.NetworkConfig().Peers["peer0"].TLSCACerts)
	require.NoError(t, err)
	assert.NotEmpty(t, target.TLSCACert)
}
