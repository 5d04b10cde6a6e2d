/*
 Copyright Mioto Yaku All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

package javapackager

import (
	pb "github.com/hyperledger/fabric-protos-go/peer"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/ccpackager/archive"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/resource"
)

var keep = []string{".c", ".h", ".s", ".java", ".yaml", ".json", ".xml", ".gradle", ".properties"}

// build output is rebuilt by the peer
var excludeDirs = []string{".git", "target", "build", ".gradle"}

var logger = logging.NewLogger("ccdeploy/ccpackager")

// NewCCPackage creates a java chaincode package from the project at chaincodePath
func NewCCPackage(chaincodePath string) (*resource.ChaincodePackage, error) {
	if chaincodePath == "" {
		return nil, status.NewConfigurationError(status.InvalidArgument, "chaincode path must be provided")
	}

	logger.Debugf("projDir variable=%s", chaincodePath)

	descriptors, err := archive.FindSource(chaincodePath, chaincodePath, "src/", archive.Filter{Extensions: keep, ExcludeDirs: excludeDirs})
	if err != nil {
		return nil, status.NewConfigurationError(status.InvalidArgument, "java chaincode: %s", err)
	}
	tarBytes, err := archive.GenerateTarGz(descriptors)
	if err != nil {
		return nil, err
	}

	return &resource.ChaincodePackage{Type: pb.ChaincodeSpec_JAVA, Code: tarBytes}, nil
}
