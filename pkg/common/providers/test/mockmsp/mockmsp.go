/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mockmsp

import (
	"github.com/golang/mock/gomock"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/msp"
)

// DefaultMockSigningIdentity returns an identity of Org1MSP that signs every message with the same signature
func DefaultMockSigningIdentity(mockCtrl *gomock.Controller) *MockSigningIdentity {
	identity := NewMockSigningIdentity(mockCtrl)

	identity.EXPECT().Identifier().Return(&msp.IdentityIdentifier{MSPID: "Org1MSP", ID: "Admin"}).AnyTimes()
	identity.EXPECT().Serialize().Return([]byte("creator"), nil).AnyTimes()
	identity.EXPECT().EnrollmentCertificate().Return([]byte("cert")).AnyTimes()
	identity.EXPECT().Sign(gomock.Any()).Return([]byte("signature"), nil).AnyTimes()

	return identity
}
