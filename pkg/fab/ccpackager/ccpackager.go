/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ccpackager packages chaincode source for installation.
package ccpackager

import (
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/ccpackager/gopackager"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/ccpackager/javapackager"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/ccpackager/nodepackager"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/resource"
)

// NewCCPackage packages the chaincode source of the given type. For golang,
// path is relative to $goPath/src; for node and java it is the project directory.
func NewCCPackage(ccType fab.ChaincodeType, path, goPath string) (*resource.ChaincodePackage, error) {
	switch ccType {
	case fab.Golang:
		return gopackager.NewCCPackage(path, goPath)
	case fab.Node:
		return nodepackager.NewCCPackage(path)
	case fab.Java:
		return javapackager.NewCCPackage(path)
	default:
		return nil, status.NewConfigurationError(status.InvalidArgument, "unsupported chaincode type %d", ccType)
	}
}
