/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securekey/fabric-ccdeploy/pkg/client/channel"
	"github.com/securekey/fabric-ccdeploy/pkg/client/resmgmt"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/context"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

const profilePath = "../../../pkg/core/config/testdata/profile.yaml"

type mockDeployer struct {
	installReq     *resmgmt.InstallCCRequest
	installOpts    int
	instantiateReq *resmgmt.InstantiateCCRequest
	channelID      string
	installResp    []resmgmt.InstallCCResponse
	instantiate    resmgmt.InstantiateCCResponse
	err            error
}

func (m *mockDeployer) InstallCC(channelID string, req resmgmt.InstallCCRequest, options ...resmgmt.RequestOption) ([]resmgmt.InstallCCResponse, error) {
	m.channelID = channelID
	m.installReq = &req
	m.installOpts = len(options)
	return m.installResp, m.err
}

func (m *mockDeployer) InstantiateOrUpgradeCC(channelID string, req resmgmt.InstantiateCCRequest, options ...resmgmt.RequestOption) (resmgmt.InstantiateCCResponse, error) {
	m.channelID = channelID
	m.instantiateReq = &req
	return m.instantiate, m.err
}

type mockInvoker struct {
	request *channel.Request
	query   bool
	resp    channel.Response
	err     error
}

func (m *mockInvoker) InvokeOrQuery(request channel.Request, query bool, options ...channel.RequestOption) (channel.Response, error) {
	m.request = &request
	m.query = query
	return m.resp, m.err
}

type mockFactory struct {
	deployer  *mockDeployer
	invoker   *mockInvoker
	channelID string
	mspID     string
}

func (f *mockFactory) Deployer(ctx context.Client) (Deployer, error) {
	f.mspID = ctx.Topology().MSPID()
	return f.deployer, nil
}

func (f *mockFactory) Invoker(ctx context.Client, channelID string) (Invoker, error) {
	f.mspID = ctx.Topology().MSPID()
	f.channelID = channelID
	return f.invoker, nil
}

func newMockFactory() *mockFactory {
	return &mockFactory{deployer: &mockDeployer{}, invoker: &mockInvoker{}}
}

func writeCredentials(t *testing.T, dir string) string {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Admin@org1.example.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	raw, err := json.Marshal(map[string]string{
		"private_key": base64.StdEncoding.EncodeToString(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})),
		"cert":        base64.StdEncoding.EncodeToString(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
	})
	require.NoError(t, err)

	path := filepath.Join(dir, "credentials.json")
	require.NoError(t, ioutil.WriteFile(path, raw, 0600))
	return path
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "ccdeploy-cmd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func execute(f *mockFactory, args ...string) (string, string, error) {
	cmd := Cmd(f)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestInstantiate(t *testing.T) {
	creds := writeCredentials(t, tempDir(t))

	f := newMockFactory()
	f.deployer.instantiate = resmgmt.InstantiateCCResponse{
		TransactionID:  "txid",
		Version:        "4",
		Upgrade:        true,
		ValidationCode: pb.TxValidationCode_VALID,
		BlockNumber:    9,
	}

	stdout, _, err := execute(f, "instantiate",
		"--conn-profile", profilePath, "--org", "Org1",
		"--cc-name", "mycc", "--channel", "mychannel",
		"--init-args", "a,100",
		"--endorsement-policy", "OR('Org1MSP.member')",
		"--admin-identity", creds)
	require.NoError(t, err)

	req := f.deployer.instantiateReq
	require.NotNil(t, req)
	assert.Equal(t, "mychannel", f.deployer.channelID)
	assert.Equal(t, "Org1MSP", f.mspID)
	assert.Equal(t, "mycc", req.Name)
	assert.Empty(t, req.Version)
	assert.Equal(t, "init", req.Fcn)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("100")}, req.Args)
	assert.Equal(t, fab.Golang, req.Type)
	assert.NotNil(t, req.Policy)
	assert.Nil(t, req.CollConfig)

	assert.Contains(t, stdout, "Chaincode mycc upgraded at version 4 on channel mychannel")
	assert.Contains(t, stdout, "Transaction txid: VALID in block 9")
}

func TestInstantiateInvalidPolicy(t *testing.T) {
	creds := writeCredentials(t, tempDir(t))
	f := newMockFactory()

	_, _, err := execute(f, "instantiate",
		"--conn-profile", profilePath, "--org", "Org1",
		"--cc-name", "mycc", "--cc-version", "1", "--channel", "mychannel",
		"--endorsement-policy", "AND('Org1MSP.member',",
		"--admin-identity", creds)
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "configuration failed: ")
	assert.Nil(t, f.deployer.instantiateReq)
}

func TestInstantiateCollectionsConfig(t *testing.T) {
	dir := tempDir(t)
	creds := writeCredentials(t, dir)

	collections := filepath.Join(dir, "collections.json")
	require.NoError(t, ioutil.WriteFile(collections, []byte(
		`[{"name":"private","policy":"OR('Org1MSP.member')","requiredPeerCount":0,"maxPeerCount":3,"blockToLive":100}]`), 0600))

	f := newMockFactory()
	_, _, err := execute(f, "instantiate",
		"--conn-profile", profilePath, "--org", "Org1",
		"--cc-name", "mycc", "--cc-version", "1", "--channel", "mychannel",
		"--collections-config", collections,
		"--admin-identity", creds)
	require.NoError(t, err)

	req := f.deployer.instantiateReq
	require.NotNil(t, req)
	require.NotNil(t, req.CollConfig)
	require.Len(t, req.CollConfig.Config, 1)
	static := req.CollConfig.Config[0].GetStaticCollectionConfig()
	assert.Equal(t, "private", static.Name)
	assert.Equal(t, int32(3), static.MaximumPeerCount)
	assert.Equal(t, uint64(100), static.BlockToLive)
}

func TestInstantiateCommitTimeout(t *testing.T) {
	creds := writeCredentials(t, tempDir(t))

	f := newMockFactory()
	f.deployer.err = errors.WithMessage(
		status.New(status.EventClientStatus, status.Timeout.ToInt32(), "timed out waiting for commit event", nil), "commit failed")

	_, stderr, err := execute(f, "instantiate",
		"--conn-profile", profilePath, "--org", "Org1",
		"--cc-name", "mycc", "--cc-version", "1", "--channel", "mychannel",
		"--timeout", "1000",
		"--admin-identity", creds)
	require.Error(t, err)
	assert.True(t, status.IsCommitTimeout(err))
	assert.Contains(t, err.Error(), "commit failed: ")
	assert.Contains(t, stderr, "outcome is unknown")
}

func TestInstall(t *testing.T) {
	dir := tempDir(t)
	creds := writeCredentials(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "github.com", "example_cc"), 0755))

	gopath := os.Getenv("GOPATH")
	defer os.Setenv("GOPATH", gopath)
	require.NoError(t, os.Setenv("GOPATH", dir))

	f := newMockFactory()
	f.deployer.installResp = []resmgmt.InstallCCResponse{
		{Target: "grpc://localhost:7051", Status: 200},
		{Target: "grpc://localhost:8051", Status: 200, Info: "already installed"},
	}

	stdout, _, err := execute(f, "install",
		"--conn-profile", profilePath, "--org", "Org1",
		"--cc-name", "mycc", "--cc-version", "1", "--channel", "mychannel",
		"--src-dir", "github.com/example_cc", "--skip-installed",
		"--org-credentials", creds)
	require.NoError(t, err)

	req := f.deployer.installReq
	require.NotNil(t, req)
	assert.Equal(t, dir, req.GoPath)
	assert.Equal(t, "github.com/example_cc", req.Path)
	assert.Equal(t, 1, f.deployer.installOpts)
	assert.Contains(t, stdout, "grpc://localhost:8051: status 200, already installed")
	assert.Contains(t, stdout, "installed on 2 peer(s)")
}

func TestInstallGoPathChecks(t *testing.T) {
	dir := tempDir(t)
	creds := writeCredentials(t, dir)

	gopath := os.Getenv("GOPATH")
	defer os.Setenv("GOPATH", gopath)

	args := []string{"install",
		"--conn-profile", profilePath, "--org", "Org1",
		"--cc-name", "mycc", "--cc-version", "1", "--channel", "mychannel",
		"--src-dir", "github.com/example_cc",
		"--org-credentials", creds}

	require.NoError(t, os.Setenv("GOPATH", ""))
	f := newMockFactory()
	_, _, err := execute(f, args...)
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "GOPATH")

	require.NoError(t, os.Setenv("GOPATH", dir))
	_, _, err = execute(f, args...)
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "does not exist")
	assert.Nil(t, f.deployer.installReq)
}

func TestInvokeQuery(t *testing.T) {
	creds := writeCredentials(t, tempDir(t))

	f := newMockFactory()
	f.invoker.resp = channel.Response{Status: 200, Message: "OK", Payload: []byte("100")}

	stdout, _, err := execute(f, "invoke",
		"--conn-profile", profilePath, "--org", "Org1",
		"--cc-name", "mycc", "--channel", "mychannel",
		"--invoke-fn", "query", "--invoke-args", "a", "--query",
		"--admin-identity", creds)
	require.NoError(t, err)

	assert.True(t, f.invoker.query)
	assert.Equal(t, "mychannel", f.channelID)
	assert.Equal(t, "query", f.invoker.request.Fcn)
	assert.Equal(t, [][]byte{[]byte("a")}, f.invoker.request.Args)
	assert.Equal(t, "status: 200\nmessage: OK\npayload: 100\n", stdout)
}

func TestInvoke(t *testing.T) {
	creds := writeCredentials(t, tempDir(t))

	f := newMockFactory()
	f.invoker.resp = channel.Response{TransactionID: "txid", TxValidationCode: pb.TxValidationCode_VALID, BlockNumber: 5}

	stdout, _, err := execute(f, "invoke",
		"--conn-profile", profilePath, "--org", "Org1",
		"--cc-name", "mycc", "--channel", "mychannel",
		"--invoke-fn", "move", "--invoke-args", "a,b,10",
		"--admin-identity", creds)
	require.NoError(t, err)

	assert.False(t, f.invoker.query)
	assert.Len(t, f.invoker.request.Args, 3)
	assert.Equal(t, "Transaction txid: VALID in block 5\n", stdout)
}

func TestInvokeFailed(t *testing.T) {
	creds := writeCredentials(t, tempDir(t))

	f := newMockFactory()
	f.invoker.err = errors.WithMessage(status.New(status.EndorserServerStatus, 500, "chaincode error", nil), "proposal failed")

	_, stderr, err := execute(f, "invoke",
		"--conn-profile", profilePath, "--org", "Org1",
		"--cc-name", "mycc", "--channel", "mychannel", "--invoke-fn", "move",
		"--admin-identity", creds)
	require.Error(t, err)
	assert.True(t, status.IsProposalError(err))
	assert.NotContains(t, stderr, "outcome is unknown")
}

func TestConfigurationErrors(t *testing.T) {
	dir := tempDir(t)
	creds := writeCredentials(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"missing profile", []string{"invoke", "--org", "Org1", "--cc-name", "mycc", "--channel", "mychannel", "--invoke-fn", "f", "--admin-identity", creds}},
		{"profile not found", []string{"invoke", "--conn-profile", filepath.Join(dir, "missing.yaml"), "--org", "Org1", "--cc-name", "mycc", "--channel", "mychannel", "--invoke-fn", "f", "--admin-identity", creds}},
		{"missing org", []string{"invoke", "--conn-profile", profilePath, "--cc-name", "mycc", "--channel", "mychannel", "--invoke-fn", "f", "--admin-identity", creds}},
		{"unknown org", []string{"invoke", "--conn-profile", profilePath, "--org", "Org9", "--cc-name", "mycc", "--channel", "mychannel", "--invoke-fn", "f", "--admin-identity", creds}},
		{"missing function", []string{"invoke", "--conn-profile", profilePath, "--org", "Org1", "--cc-name", "mycc", "--channel", "mychannel", "--admin-identity", creds}},
		{"bad credentials", []string{"invoke", "--conn-profile", profilePath, "--org", "Org1", "--cc-name", "mycc", "--channel", "mychannel", "--invoke-fn", "f", "--admin-identity", filepath.Join(dir, "missing.json")}},
		{"bad timeout", []string{"invoke", "--conn-profile", profilePath, "--org", "Org1", "--cc-name", "mycc", "--channel", "mychannel", "--invoke-fn", "f", "--timeout", "0", "--admin-identity", creds}},
		{"bad cc type", []string{"instantiate", "--conn-profile", profilePath, "--org", "Org1", "--cc-name", "mycc", "--channel", "mychannel", "--cc-type", "cobol", "--admin-identity", creds}},
		{"bad log format", []string{"invoke", "--log-format", "xml", "--conn-profile", profilePath, "--org", "Org1", "--cc-name", "mycc", "--channel", "mychannel", "--invoke-fn", "f", "--admin-identity", creds}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newMockFactory()
			_, _, err := execute(f, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "configuration failed: ")
			assert.Nil(t, f.invoker.request)
			assert.Nil(t, f.deployer.instantiateReq)
		})
	}
}

func TestEnvironmentOverride(t *testing.T) {
	creds := writeCredentials(t, tempDir(t))

	require.NoError(t, os.Setenv("CCDEPLOY_CONN_PROFILE", profilePath))
	defer os.Unsetenv("CCDEPLOY_CONN_PROFILE")

	f := newMockFactory()
	_, _, err := execute(f, "invoke", "--org", "Org1",
		"--cc-name", "mycc", "--channel", "mychannel", "--invoke-fn", "query", "--query",
		"--admin-identity", creds)
	require.NoError(t, err)
	assert.NotNil(t, f.invoker.request)
}
