/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package msp

import (
	"encoding/base64"
	"encoding/json"
	"io/ioutil"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
)

// Credentials holds the PEM encoded key and certificate of an operator
type Credentials struct {
	KeyPEM  []byte
	CertPEM []byte
}

// credentialsFile is the on-disk form of Credentials. Both fields are base64 encoded PEM.
type credentialsFile struct {
	PrivateKey string `json:"private_key"`
	Cert       string `json:"cert"`
}

// LoadCredentials reads an operator credential file
func LoadCredentials(path string) (*Credentials, error) {
	if path == "" {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "credentials file is required")
	}

	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "failed to read credentials file: %s", err)
	}

	return ParseCredentials(raw)
}

// ParseCredentials decodes the JSON content of a credential file
func ParseCredentials(raw []byte) (*Credentials, error) {
	var f credentialsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "failed to parse credentials: %s", err)
	}

	keyPEM, err := decodeField("private_key", f.PrivateKey)
	if err != nil {
		return nil, err
	}
	certPEM, err := decodeField("cert", f.Cert)
	if err != nil {
		return nil, err
	}

	return &Credentials{KeyPEM: keyPEM, CertPEM: certPEM}, nil
}

func decodeField(name, value string) ([]byte, error) {
	if value == "" {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "credentials field '%s' is missing", name)
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "credentials field '%s' is not valid base64: %s", name, err)
	}
	return decoded, nil
}
