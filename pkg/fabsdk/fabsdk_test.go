/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fabsdk

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/metrics"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/core"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/test/mockmsp"
)

const sdkConfigFile = "../core/config/testdata/profile.yaml"

func TestNewGoodOpt(t *testing.T) {
	sdk, err := New(ConfigFile(sdkConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "test-network", sdk.EndpointConfig().NetworkConfig().Name)
}

func TestNewBadOpt(t *testing.T) {
	badOpt := func(sdk *FabricSDK) (*FabricSDK, error) {
		return nil, errors.New("Bad Opt")
	}
	_, err := New(ConfigFile(sdkConfigFile), badOpt)
	assert.EqualError(t, err, "Error in option passed to New: Bad Opt")
}

func TestNewWithoutProfile(t *testing.T) {
	_, err := New()
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))

	_, err = New(ConfigFile("testdata/does-not-exist.yaml"))
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))

	_, err = New(WithConfigProvider(func() ([]core.ConfigBackend, error) {
		return nil, errors.New("backend unavailable")
	}))
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestNewInvalidProfile(t *testing.T) {
	_, err := New(ConfigBytes([]byte("name: empty\n"), "yaml"))
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
}

func TestNewOperation(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	sdk, err := New(ConfigFile(sdkConfigFile), WithMetricsProvider(&metrics.DisabledProvider{}))
	require.NoError(t, err)

	op, err := sdk.NewOperation("", mockmsp.DefaultMockSigningIdentity(mockCtrl))
	require.NoError(t, err)
	defer op.Close()

	assert.Equal(t, "Org1", op.Topology().Organization())
	assert.Equal(t, "Org1MSP", op.Topology().MSPID())
	assert.NotNil(t, op.InfraProvider())
	assert.NotNil(t, op.Metrics())

	peers, err := op.Topology().ChannelPeers("mychannel")
	require.NoError(t, err)
	assert.Len(t, peers, 2)
}

func TestNewOperationErrors(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	sdk, err := New(ConfigFile(sdkConfigFile))
	require.NoError(t, err)

	_, err = sdk.NewOperation("Org9", mockmsp.DefaultMockSigningIdentity(mockCtrl))
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))

	_, err = sdk.NewOperation("Org1", nil)
	assert.EqualError(t, err, "failed to create operation context: signing identity is required")
}

func TestResolveIdentityErrors(t *testing.T) {
	sdk, err := New(ConfigFile(sdkConfigFile))
	require.NoError(t, err)

	_, err = sdk.ResolveIdentity("Org1", "testdata/missing.json")
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))

	_, err = sdk.ResolveIdentity("Org9", "testdata/missing.json")
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
}
