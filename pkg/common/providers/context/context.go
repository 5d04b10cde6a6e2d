/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package context

import (
	"github.com/securekey/fabric-ccdeploy/pkg/common/metrics"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/msp"
)

// Client supplies the configuration and signing identity of a single operation
type Client interface {
	msp.SigningIdentity
	Topology() fab.ChannelTopology
	InfraProvider() fab.InfraProvider
	Metrics() *metrics.ClientMetrics
}
