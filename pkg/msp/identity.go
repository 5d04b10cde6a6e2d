/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package msp

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"

	"github.com/cloudflare/cfssl/helpers"
	"github.com/golang/protobuf/proto"
	pb_msp "github.com/hyperledger/fabric-protos-go/msp"
	"github.com/hyperledger/fabric/bccsp/utils"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/msp"
)

var logger = logging.NewLogger("ccdeploy/msp")

// SigningIdentity is an operator identity backed by an in-memory ECDSA key
type SigningIdentity struct {
	id      *msp.IdentityIdentifier
	certPEM []byte
	key     *ecdsa.PrivateKey
}

// NewSigningIdentity returns the identity of the given MSP for the PEM encoded certificate and key.
// The key must be an ECDSA key matching the certificate.
func NewSigningIdentity(mspID string, certPEM, keyPEM []byte) (*SigningIdentity, error) {
	if mspID == "" {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "mspID is required")
	}

	cert, err := helpers.ParseCertificatePEM(certPEM)
	if err != nil {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "failed to parse certificate: %s", err)
	}

	signer, err := helpers.ParsePrivateKeyPEM(keyPEM)
	if err != nil {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "failed to parse private key: %s", err)
	}

	key, ok := signer.(*ecdsa.PrivateKey)
	if !ok {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "unsupported private key type %T, expecting ECDSA", signer)
	}

	pub, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok || pub.X.Cmp(key.X) != 0 || pub.Y.Cmp(key.Y) != 0 {
		return nil, status.NewConfigurationError(status.InvalidCredentials, "private key does not match certificate")
	}

	logger.Debugf("loaded identity [%s] of MSP [%s]", cert.Subject.CommonName, mspID)

	return &SigningIdentity{
		id:      &msp.IdentityIdentifier{MSPID: mspID, ID: cert.Subject.CommonName},
		certPEM: certPEM,
		key:     key,
	}, nil
}

// Identifier returns the MSP ID and common name of the identity
func (s *SigningIdentity) Identifier() *msp.IdentityIdentifier {
	return s.id
}

// EnrollmentCertificate returns the PEM encoded certificate
func (s *SigningIdentity) EnrollmentCertificate() []byte {
	return s.certPEM
}

// Serialize returns the protobuf encoding of an msp.SerializedIdentity
func (s *SigningIdentity) Serialize() ([]byte, error) {
	serializedIdentity := &pb_msp.SerializedIdentity{
		Mspid:   s.id.MSPID,
		IdBytes: s.certPEM,
	}
	identity, err := proto.Marshal(serializedIdentity)
	if err != nil {
		return nil, errors.Wrap(err, "marshal serializedIdentity failed")
	}
	return identity, nil
}

// Sign computes a SHA256 message digest, signs it with the private key and
// returns the signature after low-S normalization.
func (s *SigningIdentity) Sign(msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)

	r, sv, err := ecdsa.Sign(rand.Reader, s.key, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "signing failed")
	}

	sig, err := utils.MarshalECDSASignature(r, sv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal signature")
	}

	return utils.SignatureToLowS(&s.key.PublicKey, sig)
}

// ResolveIdentity loads the credential file at path and returns the signing identity of mspID
func ResolveIdentity(mspID, path string) (*SigningIdentity, error) {
	creds, err := LoadCredentials(path)
	if err != nil {
		return nil, err
	}
	return NewSigningIdentity(mspID, creds.CertPEM, creds.KeyPEM)
}
