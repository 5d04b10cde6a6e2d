/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/multi"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/core"
	"github.com/securekey/fabric-ccdeploy/pkg/core/config/lookup"
)

var logger = logging.NewLogger("ccdeploy/fab")

//ConfigFromBackend returns endpoint config implementation for given backend
func ConfigFromBackend(coreBackend ...core.ConfigBackend) (*EndpointConfig, error) {
	config := &EndpointConfig{
		backend: lookup.New(coreBackend...),
	}

	if err := config.loadEndpointConfiguration(); err != nil {
		return nil, errors.WithMessage(err, "network configuration load failed")
	}

	return config, nil
}

// EndpointConfig represents the endpoint configuration for the client
type EndpointConfig struct {
	backend       *lookup.ConfigLookup
	networkConfig *NetworkConfig
}

// NetworkConfig returns the decoded connection profile
func (c *EndpointConfig) NetworkConfig() *NetworkConfig {
	return c.networkConfig
}

// ChannelConfig returns the channel stanza of the profile, if any
func (c *EndpointConfig) ChannelConfig(name string) (*ChannelEndpointConfig, bool) {
	ch, ok := c.networkConfig.Channels[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return &ch, true
}

// OrganizationConfig returns the organization stanza of the profile. Names are case insensitive.
func (c *EndpointConfig) OrganizationConfig(name string) (*OrganizationConfig, bool) {
	org, ok := c.networkConfig.Organizations[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return &org, true
}

// PeerConfig returns the peer stanza of the profile
func (c *EndpointConfig) PeerConfig(name string) (*PeerConfig, bool) {
	p, ok := c.networkConfig.Peers[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return &p, true
}

// OrdererConfig returns the orderer stanza of the profile
func (c *EndpointConfig) OrdererConfig(name string) (*OrdererConfig, bool) {
	o, ok := c.networkConfig.Orderers[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return &o, true
}

func (c *EndpointConfig) loadEndpointConfiguration() error {
	if !c.backend.IsSet("organizations") && !c.backend.IsSet("client") && !c.backend.IsSet("certificateAuthorities") {
		return status.NewConfigurationError(status.InvalidProfile,
			"connection profile must contain at least one of 'organizations', 'client' or 'certificateAuthorities'")
	}

	networkConfig := NetworkConfig{
		Name:        c.backend.GetString("name"),
		Description: c.backend.GetString("description"),
		Version:     c.backend.GetString("version"),
	}

	sections := []struct {
		key   string
		value interface{}
		opts  []lookup.UnmarshalOption
	}{
		{key: "client", value: &networkConfig.Client},
		{key: "channels", value: &networkConfig.Channels, opts: []lookup.UnmarshalOption{lookup.WithUnmarshalHookFunction(peerChannelConfigHookFunc())}},
		{key: "organizations", value: &networkConfig.Organizations},
		{key: "orderers", value: &networkConfig.Orderers},
		{key: "peers", value: &networkConfig.Peers},
		{key: "certificateAuthorities", value: &networkConfig.CertificateAuthorities},
	}

	var errs error
	for _, s := range sections {
		if err := c.backend.UnmarshalKey(s.key, s.value, s.opts...); err != nil {
			errs = multi.Append(errs, status.NewConfigurationError(status.InvalidProfile, "failed to parse '%s': %s", s.key, err))
		}
	}
	if errs != nil {
		return errs
	}

	logger.Debugf("organizations are: %+v", networkConfig.Organizations)
	logger.Debugf("channels are: %+v", networkConfig.Channels)

	if err := loadTLSConfigs(&networkConfig); err != nil {
		return err
	}

	c.networkConfig = &networkConfig
	return nil
}

// loadTLSConfigs resolves the TLS CA certificate of every peer and orderer
func loadTLSConfigs(networkConfig *NetworkConfig) error {
	var errs error

	for name, peer := range networkConfig.Peers {
		if err := peer.TLSCACerts.LoadBytes(); err != nil {
			errs = multi.Append(errs, status.NewConfigurationError(status.InvalidProfile, "peer '%s': %s", name, err))
			continue
		}
		networkConfig.Peers[name] = peer
	}

	for name, orderer := range networkConfig.Orderers {
		if err := orderer.TLSCACerts.LoadBytes(); err != nil {
			errs = multi.Append(errs, status.NewConfigurationError(status.InvalidProfile, "orderer '%s': %s", name, err))
			continue
		}
		networkConfig.Orderers[name] = orderer
	}

	return errs
}

//peerChannelConfigHookFunc returns hook function for unmarshalling 'PeerChannelConfig'
// Rule : default set to 'true' if not provided in config
func peerChannelConfigHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		//If target is of type 'PeerChannelConfig', then only hook should work
		if t == reflect.TypeOf(PeerChannelConfig{}) {
			dataMap, ok := data.(map[string]interface{})
			if ok {
				setDefault(dataMap, "endorsingpeer", true)
				setDefault(dataMap, "chaincodequery", true)
				setDefault(dataMap, "ledgerquery", true)
				setDefault(dataMap, "eventsource", true)

				return dataMap, nil
			}
		}

		return data, nil
	}
}

//setDefault sets default value provided to map if given key not found
func setDefault(dataMap map[string]interface{}, key string, defaultVal bool) {
	_, ok := dataMap[key]
	if !ok {
		dataMap[key] = defaultVal
	}
}
