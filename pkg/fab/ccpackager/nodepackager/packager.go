/*
 Copyright Mioto Yaku All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

package nodepackager

import (
	pb "github.com/hyperledger/fabric-protos-go/peer"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/ccpackager/archive"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/resource"
)

// dependencies are installed by the peer with npm
var excludeDirs = []string{".git", "node_modules"}

var logger = logging.NewLogger("ccdeploy/ccpackager")

// NewCCPackage creates a node chaincode package from the project at chaincodePath
func NewCCPackage(chaincodePath string) (*resource.ChaincodePackage, error) {
	if chaincodePath == "" {
		return nil, status.NewConfigurationError(status.InvalidArgument, "chaincode path must be provided")
	}

	logger.Debugf("projDir variable=%s", chaincodePath)

	descriptors, err := archive.FindSource(chaincodePath, chaincodePath, "src/", archive.Filter{ExcludeDirs: excludeDirs})
	if err != nil {
		return nil, status.NewConfigurationError(status.InvalidArgument, "node chaincode: %s", err)
	}
	tarBytes, err := archive.GenerateTarGz(descriptors)
	if err != nil {
		return nil, err
	}

	return &resource.ChaincodePackage{Type: pb.ChaincodeSpec_NODE, Code: tarBytes}, nil
}
