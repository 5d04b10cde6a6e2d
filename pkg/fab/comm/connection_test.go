/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package comm

import (
	"context"
	"io/ioutil"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

func startServer(t *testing.T) string {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	return "grpc://" + lis.Addr().String()
}

func TestNewConnection(t *testing.T) {
	url := startServer(t)

	conn, err := NewConnection(context.Background(), url, WithConnectTimeout(time.Second))
	require.NoError(t, err)
	require.NotNil(t, conn.ClientConn())
	assert.Equal(t, url, conn.URL())
	assert.False(t, conn.Closed())

	conn.Close()
	assert.True(t, conn.Closed())

	// second close is a no-op
	conn.Close()
	assert.True(t, conn.Closed())
}

func TestNewConnectionNoURL(t *testing.T) {
	_, err := NewConnection(context.Background(), "")
	assert.EqualError(t, err, "server URL not specified")
}

func TestNewConnectionSecureWithoutCert(t *testing.T) {
	_, err := NewConnection(context.Background(), "grpcs://127.0.0.1:7051")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TLS CA certificate required")
}

func TestOptsFromTarget(t *testing.T) {
	pem, err := ioutil.ReadFile("../../core/config/testdata/certs/tlsca.org1.example.com-cert.pem")
	require.NoError(t, err)

	target := fab.NetworkTarget{
		Name:      "peer0.org1.example.com",
		URL:       "grpcs://localhost:7051",
		TLSCACert: pem,
		GRPCOptions: map[string]interface{}{
			"ssl-target-name-override": "peer0.org1.example.com",
			"keep-alive-time":          "20s",
			"keep-alive-timeout":       "10s",
			"keep-alive-permit":        "true",
			"fail-fast":                true,
			"allow-insecure":           false,
		},
	}

	opts, err := OptsFromTarget(target)
	require.NoError(t, err)

	p := defaultParams()
	for _, opt := range opts {
		opt(p)
	}

	assert.Equal(t, "peer0.org1.example.com", p.hostOverride)
	assert.Equal(t, 20*time.Second, p.keepAliveParams.Time)
	assert.Equal(t, 10*time.Second, p.keepAliveParams.Timeout)
	assert.True(t, p.keepAliveParams.PermitWithoutStream)
	assert.True(t, p.failFast)
	assert.False(t, p.insecure)
	require.NotNil(t, p.certificate)
	assert.Equal(t, "tlsca.org1.example.com", p.certificate.Subject.CommonName)
}

func TestOptsFromTargetInvalidCert(t *testing.T) {
	target := fab.NetworkTarget{
		Name:      "orderer.example.com",
		URL:       "grpcs://localhost:7050",
		TLSCACert: []byte("not a cert"),
	}

	_, err := OptsFromTarget(target)
	require.Error(t, err)
	assert.True(t, status.IsConfigurationError(err))
}

func TestOptsFromTargetDefaults(t *testing.T) {
	opts, err := OptsFromTarget(fab.NetworkTarget{Name: "peer0", URL: "grpc://localhost:7051"})
	require.NoError(t, err)

	p := defaultParams()
	for _, opt := range opts {
		opt(p)
	}

	assert.Empty(t, p.hostOverride)
	assert.True(t, p.failFast)
	assert.False(t, p.insecure)
	assert.Nil(t, p.certificate)
}

func TestStreamConnection(t *testing.T) {
	url := startServer(t)

	var cancelled bool
	provider := func(conn *grpc.ClientConn) (grpc.ClientStream, func(), error) {
		ctx, cancel := context.WithCancel(context.Background())
		stream, err := conn.NewStream(ctx, &grpc.StreamDesc{ServerStreams: true, ClientStreams: true}, "/test.Service/Stream")
		return stream, func() {
			cancelled = true
			cancel()
		}, err
	}

	conn, err := NewStreamConnection(context.Background(), provider, url)
	require.NoError(t, err)
	require.NotNil(t, conn.Stream())

	conn.Close()
	assert.True(t, cancelled)
	assert.True(t, conn.Closed())

	conn.Close()
}

func TestStreamConnectionNilStream(t *testing.T) {
	url := startServer(t)

	provider := func(conn *grpc.ClientConn) (grpc.ClientStream, func(), error) {
		return nil, func() {}, nil
	}

	_, err := NewStreamConnection(context.Background(), provider, url)
	assert.EqualError(t, err, "unexpected nil stream received from provider")
}
