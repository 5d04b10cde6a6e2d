/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package endpoint

import (
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var securedURL = regexp.MustCompile(".*(?i)s://")

// IsTLSEnabled is a generic function that expects a URL and verifies if it has
// a prefix HTTPS or GRPCS to return true for TLS Enabled URLs or false otherwise
func IsTLSEnabled(url string) bool {
	tlsURL := strings.ToLower(url)
	if strings.HasPrefix(tlsURL, "https://") || strings.HasPrefix(tlsURL, "grpcs://") {
		return true
	}
	return false
}

// ToAddress is a utility function to trim the GRPC protocol prefix as it is not needed by GO
// if the GRPC protocol is not found, the url is returned unchanged
func ToAddress(url string) string {
	if strings.HasPrefix(url, "grpc://") {
		return strings.TrimPrefix(url, "grpc://")
	}
	if strings.HasPrefix(url, "grpcs://") {
		return strings.TrimPrefix(url, "grpcs://")
	}
	return url
}

//AttemptSecured is a utility function which verifies URL and returns if secured connections needs to established
// for protocol 'grpcs' in URL returns true
// for protocol 'grpc' in URL returns false
// for no protocol mentioned, returns !allowInSecure
func AttemptSecured(url string, allowInSecure bool) bool {
	if securedURL.MatchString(url) {
		return true
	} else if strings.Contains(url, "://") {
		return false
	} else {
		return !allowInSecure
	}
}

// ValidateURL checks that url addresses a gRPC endpoint
func ValidateURL(url string) error {
	if url == "" {
		return errors.New("url is required")
	}
	if i := strings.Index(url, "://"); i >= 0 {
		switch strings.ToLower(url[:i]) {
		case "grpc", "grpcs":
		default:
			return errors.Errorf("unsupported protocol in url '%s', expecting grpc or grpcs", url)
		}
	}
	if ToAddress(strings.ToLower(url)) == "" {
		return errors.Errorf("url '%s' has no address", url)
	}
	return nil
}

// TLSConfig holds a TLS root certificate given either inline or as a file.
type TLSConfig struct {
	// the following two fields are interchangeable.
	// If Path is available, then it will be used to load the cert
	// if Pem is available, then it has the raw data of the cert it will be used as-is
	// If both Path and Pem are available, pem takes the precedence
	Path string
	// Certificate actual content
	Pem string
	//bytes from Pem/Path
	bytes []byte
}

// IsSet returns true if either Pem or Path is configured
func (cfg *TLSConfig) IsSet() bool {
	return cfg.Pem != "" || cfg.Path != ""
}

// Bytes returns the tls certificate as a byte array
func (cfg *TLSConfig) Bytes() []byte {
	return cfg.bytes
}

//LoadBytes preloads bytes from Pem/Path
//Pem takes precedence over Path
func (cfg *TLSConfig) LoadBytes() error {
	var err error
	if cfg.Pem != "" {
		cfg.bytes = []byte(cfg.Pem)
	} else if cfg.Path != "" {
		cfg.bytes, err = ioutil.ReadFile(cfg.Path)
		if err != nil {
			return errors.Wrapf(err, "failed to load pem bytes from path %s", cfg.Path)
		}
	}
	return nil
}

// TLSCert returns the tls certificate as a *x509.Certificate by loading it either from the embedded Pem or Path
func (cfg *TLSConfig) TLSCert() (*x509.Certificate, bool, error) {
	return ParseCert(cfg.bytes)
}

// ParseCert decodes the first PEM block of raw as a certificate. It returns
// false without an error when raw holds no PEM block.
func ParseCert(raw []byte) (*x509.Certificate, bool, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, false, nil
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, false, errors.Wrap(err, "certificate parsing failed")
	}
	return cert, true, nil
}
