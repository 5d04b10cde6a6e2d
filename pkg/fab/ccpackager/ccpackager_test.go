/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ccpackager

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"path/filepath"
	"testing"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

func entries(t *testing.T, code []byte) map[string]*tar.Header {
	gzf, err := gzip.NewReader(bytes.NewReader(code))
	require.NoError(t, err)

	headers := make(map[string]*tar.Header)
	tarReader := tar.NewReader(gzf)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		headers[header.Name] = header
	}
	return headers
}

func TestGolangPackage(t *testing.T) {
	goPath, err := filepath.Abs("testdata/gopath")
	require.NoError(t, err)

	pkg, err := NewCCPackage(fab.Golang, "github.com/example_cc", goPath)
	require.NoError(t, err)
	assert.Equal(t, pb.ChaincodeSpec_GOLANG, pkg.Type)

	files := entries(t, pkg.Code)
	assert.Contains(t, files, "src/github.com/example_cc/example_cc.go")
	assert.Contains(t, files, "META-INF/statedb/couchdb/indexes/indexOwner.json")
	assert.NotContains(t, files, "src/github.com/example_cc/README.md")
}

func TestGolangPackageDeterministic(t *testing.T) {
	goPath, err := filepath.Abs("testdata/gopath")
	require.NoError(t, err)

	pkg1, err := NewCCPackage(fab.Golang, "github.com/example_cc", goPath)
	require.NoError(t, err)
	pkg2, err := NewCCPackage(fab.Golang, "github.com/example_cc", goPath)
	require.NoError(t, err)
	assert.Equal(t, pkg1.Code, pkg2.Code)
}

func TestGolangPackageErrors(t *testing.T) {
	goPath, err := filepath.Abs("testdata/gopath")
	require.NoError(t, err)

	_, err = NewCCPackage(fab.Golang, "github.com/example_cc", "")
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "GOPATH")

	_, err = NewCCPackage(fab.Golang, "github.com/missing_cc", goPath)
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))

	_, err = NewCCPackage(fab.Golang, "", goPath)
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
}

func TestNodePackage(t *testing.T) {
	pkg, err := NewCCPackage(fab.Node, "testdata/node_cc", "")
	require.NoError(t, err)
	assert.Equal(t, pb.ChaincodeSpec_NODE, pkg.Type)

	files := entries(t, pkg.Code)
	assert.Contains(t, files, "src/package.json")
	assert.Contains(t, files, "src/chaincode.js")
	assert.Contains(t, files, "META-INF/statedb/couchdb/indexes/indexOwner.json")
	assert.NotContains(t, files, "src/node_modules/dep/index.js")
}

func TestJavaPackage(t *testing.T) {
	pkg, err := NewCCPackage(fab.Java, "testdata/java_cc", "")
	require.NoError(t, err)
	assert.Equal(t, pb.ChaincodeSpec_JAVA, pkg.Type)

	files := entries(t, pkg.Code)
	assert.Contains(t, files, "src/build.gradle")
	assert.Contains(t, files, "src/src/main/java/example/SimpleChaincode.java")
	assert.NotContains(t, files, "src/build/libs/chaincode.jar")
}

func TestPackageErrors(t *testing.T) {
	_, err := NewCCPackage(fab.Node, "testdata/missing", "")
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))

	_, err = NewCCPackage(fab.Java, "", "")
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))

	_, err = NewCCPackage(fab.ChaincodeType(9), "testdata/node_cc", "")
	assert.Error(t, err)
}
