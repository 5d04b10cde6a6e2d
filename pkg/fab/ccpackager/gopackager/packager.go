/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gopackager

import (
	"os"
	"path/filepath"

	pb "github.com/hyperledger/fabric-protos-go/peer"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/ccpackager/archive"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/resource"
)

// A list of file extensions that should be packaged into the .tar.gz.
// Files with all other file extenstions will be excluded to minimize the size
// of the install payload.
var keep = []string{".c", ".h", ".s", ".go", ".yaml", ".json"}

var logger = logging.NewLogger("ccdeploy/ccpackager")

// NewCCPackage creates a golang chaincode package from $goPath/src/chaincodePath.
// Entries are named relative to goPath, as the peer expects.
func NewCCPackage(chaincodePath string, goPath string) (*resource.ChaincodePackage, error) {
	if chaincodePath == "" {
		return nil, status.NewConfigurationError(status.InvalidArgument, "chaincode path must be provided")
	}
	if goPath == "" {
		return nil, status.NewConfigurationError(status.MissingEnvironment, "GOPATH not defined")
	}

	projDir := filepath.Join(goPath, "src", chaincodePath)
	logger.Debugf("projDir variable=%s", projDir)

	if info, err := os.Stat(projDir); err != nil || !info.IsDir() {
		return nil, status.NewConfigurationError(status.InvalidArgument, "chaincode directory %s does not exist", projDir)
	}

	descriptors, err := archive.FindSource(goPath, projDir, "", archive.Filter{Extensions: keep, ExcludeDirs: []string{".git"}})
	if err != nil {
		return nil, status.NewConfigurationError(status.InvalidArgument, "golang chaincode: %s", err)
	}
	tarBytes, err := archive.GenerateTarGz(descriptors)
	if err != nil {
		return nil, err
	}

	return &resource.ChaincodePackage{Type: pb.ChaincodeSpec_GOLANG, Code: tarBytes}, nil
}
