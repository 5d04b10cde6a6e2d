/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fabsdk loads the connection profile and builds the per-operation
// client contexts used by the chaincode clients. The SDK itself holds only
// immutable configuration; every Operation it returns owns its own
// connections and must be closed by the caller.
package fabsdk

import (
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/metrics"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/core"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/msp"
	"github.com/securekey/fabric-ccdeploy/pkg/context"
	"github.com/securekey/fabric-ccdeploy/pkg/core/config"
	"github.com/securekey/fabric-ccdeploy/pkg/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/fabsdk/provider/fabpvdr"
	mspimpl "github.com/securekey/fabric-ccdeploy/pkg/msp"
)

var logger = logging.NewLogger("ccdeploy/fabsdk")

// FabricSDK provides access (and context) to clients being managed by the SDK
type FabricSDK struct {
	configProvider  core.ConfigProvider
	metricsProvider metrics.Provider

	endpointConfig *fab.EndpointConfig
	clientMetrics  *metrics.ClientMetrics
}

// SDKOption provides an option for the SDK contructor
type SDKOption func(sdk *FabricSDK) (*FabricSDK, error)

// ConfigFile sets the SDK to use configFile for loading configuration
func ConfigFile(configFile string) SDKOption {
	return WithConfigProvider(config.FromFile(configFile))
}

// ConfigBytes sets the SDK to load configuration from the passed bytes
func ConfigBytes(configBytes []byte, configType string) SDKOption {
	return WithConfigProvider(config.FromRaw(configBytes, configType))
}

// WithConfigProvider sets the provider of the connection profile backends
func WithConfigProvider(configProvider core.ConfigProvider) SDKOption {
	return func(sdk *FabricSDK) (*FabricSDK, error) {
		if configProvider == nil {
			return nil, errors.New("config provider is nil")
		}
		sdk.configProvider = configProvider
		return sdk, nil
	}
}

// WithMetricsProvider records operation metrics with the given provider
func WithMetricsProvider(p metrics.Provider) SDKOption {
	return func(sdk *FabricSDK) (*FabricSDK, error) {
		sdk.metricsProvider = p
		return sdk, nil
	}
}

// New initializes the SDK based on the set of options provided. A connection
// profile must be given with ConfigFile, ConfigBytes or WithConfigProvider.
func New(options ...SDKOption) (*FabricSDK, error) {
	sdk := &FabricSDK{}

	for _, option := range options {
		if _, err := option(sdk); err != nil {
			return nil, errors.WithMessage(err, "Error in option passed to New")
		}
	}

	if sdk.configProvider == nil {
		return nil, status.NewConfigurationError(status.InvalidProfile, "connection profile is required")
	}

	backends, err := sdk.configProvider()
	if err != nil {
		if _, ok := status.FromError(err); ok {
			return nil, err
		}
		return nil, status.NewConfigurationError(status.InvalidProfile, "failed to load connection profile: %s", err)
	}

	sdk.endpointConfig, err = fab.ConfigFromBackend(backends...)
	if err != nil {
		return nil, err
	}

	if sdk.metricsProvider != nil {
		sdk.clientMetrics = metrics.NewClientMetrics(sdk.metricsProvider)
	} else {
		sdk.clientMetrics = metrics.Disabled()
	}

	logger.Debugf("loaded connection profile [%s]", sdk.endpointConfig.NetworkConfig().Name)

	return sdk, nil
}

// EndpointConfig returns the decoded connection profile
func (sdk *FabricSDK) EndpointConfig() *fab.EndpointConfig {
	return sdk.endpointConfig
}

// Topology returns the endpoints of the given organization
func (sdk *FabricSDK) Topology(org string) (*fab.Topology, error) {
	return sdk.endpointConfig.Topology(org)
}

// ResolveIdentity loads the operator credentials at credentialsPath and scopes
// them to the MSP of the given organization
func (sdk *FabricSDK) ResolveIdentity(org, credentialsPath string) (*mspimpl.SigningIdentity, error) {
	topology, err := sdk.Topology(org)
	if err != nil {
		return nil, err
	}
	return mspimpl.ResolveIdentity(topology.MSPID(), credentialsPath)
}

// NewOperation returns a fresh client context for a single chaincode operation.
// The caller must Close the operation once it completes.
func (sdk *FabricSDK) NewOperation(org string, identity msp.SigningIdentity) (*context.Operation, error) {
	topology, err := sdk.Topology(org)
	if err != nil {
		return nil, err
	}

	op, err := context.NewOperation(identity,
		context.WithTopology(topology),
		context.WithInfraProvider(fabpvdr.New()),
		context.WithMetrics(sdk.clientMetrics),
	)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create operation context")
	}

	return op, nil
}
