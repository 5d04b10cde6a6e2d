/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resmgmt

import (
	reqContext "context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/resource"
)

// ChaincodeVersionState is the version decision for an instantiate or upgrade.
// It is computed for every operation and never cached.
type ChaincodeVersionState struct {
	// InstalledVersions lists, per peer URL, the versions of the chaincode
	// installed on that peer. Only filled with WithInstalledVersions.
	InstalledVersions map[string][]string
	// InstantiatedVersion is empty when the chaincode is not instantiated
	InstantiatedVersion string
	// NextVersion is the version the proposal deploys
	NextVersion string
	// IsUpgrade selects an upgrade proposal over an instantiate proposal
	IsUpgrade bool
}

type resolveOptions struct {
	installedOn []fab.ProposalProcessor
}

// ResolveOption configures Resolve
type ResolveOption func(opts *resolveOptions)

// WithInstalledVersions also reports the versions installed on the given peers.
// Peers that fail the query are logged and left out of the report.
func WithInstalledVersions(peers ...fab.Peer) ResolveOption {
	return func(opts *resolveOptions) {
		for _, p := range peers {
			opts.installedOn = append(opts.installedOn, p)
		}
	}
}

// Resolve decides between a fresh instantiate and an upgrade of chaincode ccID
// on the channel by querying the instantiated chaincodes on the reference peer.
//
// If the chaincode is instantiated at the requested version a VersionConflict
// is returned. An upgrade without a requested version increments the
// instantiated version, which must then be an integer. A fresh instantiate
// requires a requested version, which is used as is.
func Resolve(reqCtx reqContext.Context, channelID string, reference fab.ProposalProcessor, ccID, requested string, options ...ResolveOption) (*ChaincodeVersionState, error) {
	opts := resolveOptions{}
	for _, option := range options {
		option(&opts)
	}

	response, err := resource.QueryInstantiatedChaincodes(reqCtx, channelID, reference)
	if err != nil {
		return nil, errors.WithMessage(err, "querying instantiated chaincodes failed")
	}

	state := &ChaincodeVersionState{}
	for _, cc := range response.Chaincodes {
		if cc.Name == ccID {
			state.InstantiatedVersion = cc.Version
			state.IsUpgrade = true
			break
		}
	}

	if state.IsUpgrade {
		next, err := nextVersion(ccID, state.InstantiatedVersion, requested)
		if err != nil {
			return nil, err
		}
		state.NextVersion = next
		logger.Debugf("chaincode [%s] is instantiated on channel [%s] at version [%s], upgrading to [%s]", ccID, channelID, state.InstantiatedVersion, next)
	} else {
		if requested == "" {
			return nil, status.NewConfigurationError(status.InvalidArgument,
				"chaincode %s is not instantiated on channel %s, a version is required", ccID, channelID)
		}
		state.NextVersion = requested
		logger.Debugf("chaincode [%s] is not instantiated on channel [%s], instantiating version [%s]", ccID, channelID, requested)
	}

	if len(opts.installedOn) > 0 {
		state.InstalledVersions = installedVersions(reqCtx, ccID, opts.installedOn)
	}

	return state, nil
}

func nextVersion(ccID, current, requested string) (string, error) {
	if requested != "" && requested == current {
		return "", status.New(status.LifecycleStatus, status.VersionConflict.ToInt32(),
			"version "+current+" of chaincode "+ccID+" is already instantiated", []interface{}{ccID, current})
	}
	if requested != "" {
		return requested, nil
	}

	n, err := strconv.Atoi(current)
	if err != nil {
		return "", status.NewConfigurationError(status.InvalidVersion,
			"instantiated version '%s' of chaincode %s is not an integer, a version is required", current, ccID)
	}
	return strconv.Itoa(n + 1), nil
}

// installedVersions is informational only. Peers that cannot be queried are
// left out of the report.
func installedVersions(reqCtx reqContext.Context, ccID string, peers []fab.ProposalProcessor) map[string][]string {
	versions := make(map[string][]string, len(peers))
	for _, p := range peers {
		url := peerURL(p)

		response, err := resource.QueryInstalledChaincodes(reqCtx, p)
		if err != nil {
			logger.Warnf("querying installed chaincodes on %s failed: %s", url, err)
			continue
		}

		installed := []string{}
		for _, cc := range response.Chaincodes {
			if cc.Name == ccID {
				installed = append(installed, cc.Version)
			}
		}
		versions[url] = installed
	}
	return versions
}

func peerURL(p fab.ProposalProcessor) string {
	if peer, ok := p.(fab.Peer); ok {
		return peer.URL()
	}
	return ""
}
