/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package comm

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/securekey/fabric-ccdeploy/pkg/core/config/endpoint"
)

// TLSConfig returns the config for a TLS connection that trusts only the given
// root certificates. serverName overrides the host name used for verification.
func TLSConfig(rootCerts []*x509.Certificate, serverName string) (*tls.Config, error) {
	if len(rootCerts) == 0 {
		return nil, errors.New("at least one TLS root certificate is required")
	}

	certPool := x509.NewCertPool()
	for _, cert := range rootCerts {
		if cert == nil {
			return nil, errors.New("nil TLS root certificate")
		}
		certPool.AddCert(cert)
	}

	return &tls.Config{RootCAs: certPool, ServerName: serverName, MinVersion: tls.VersionTLS12}, nil
}

// TLSConfigFromPEM parses the PEM encoded root certificate and returns its TLS config
func TLSConfigFromPEM(pemBytes []byte, serverName string) (*tls.Config, error) {
	cert, ok, err := endpoint.ParseCert(pemBytes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("no certificate found in TLS CA PEM")
	}
	return TLSConfig([]*x509.Certificate{cert}, serverName)
}

// ServerHostOverride returns the ssl-target-name-override gRPC option, if any
func ServerHostOverride(grpcOptions map[string]interface{}) string {
	if v, ok := grpcOptions["ssl-target-name-override"]; ok {
		return cast.ToString(v)
	}
	return ""
}
