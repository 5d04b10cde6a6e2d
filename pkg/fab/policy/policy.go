/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package policy parses chaincode endorsement policies.
//
// Two notations are accepted. The JSON notation used by the Fabric node SDK:
//
//  {
//    "identities": [
//      {"role": {"name": "member", "mspId": "Org1MSP"}},
//      {"role": {"name": "member", "mspId": "Org2MSP"}}
//    ],
//    "policy": {"1-of": [{"signed-by": 0}, {"signed-by": 1}]}
//  }
//
// and the policy DSL used by the peer CLI:
//
//  OR('Org1MSP.member', AND('Org2MSP.peer', 'Org3MSP.admin'))
package policy

import (
	"strings"

	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	mb "github.com/hyperledger/fabric-protos-go/msp"
	"github.com/hyperledger/fabric/common/policydsl"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
)

// Role names accepted in principals
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleClient = "client"
	RolePeer   = "peer"
)

// Parse returns the signature policy described by s, in either notation.
// Errors are configuration errors.
func Parse(s string) (*common.SignaturePolicyEnvelope, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, status.NewConfigurationError(status.InvalidArgument, "endorsement policy is empty")
	}

	var envelope *common.SignaturePolicyEnvelope
	var err error
	if strings.HasPrefix(s, "{") {
		envelope, err = FromJSON([]byte(s))
	} else {
		envelope, err = FromString(s)
	}
	if err != nil {
		return nil, status.NewConfigurationError(status.InvalidArgument, "invalid endorsement policy: %s", err)
	}
	return envelope, nil
}

// Default returns a policy satisfied by a signature of any member of the given MSPs
func Default(mspIDs ...string) *common.SignaturePolicyEnvelope {
	return policydsl.SignedByAnyMember(mspIDs)
}

func parseRole(name string) (mb.MSPRole_MSPRoleType, error) {
	switch strings.ToLower(name) {
	case RoleMember:
		return mb.MSPRole_MEMBER, nil
	case RoleAdmin:
		return mb.MSPRole_ADMIN, nil
	case RoleClient:
		return mb.MSPRole_CLIENT, nil
	case RolePeer:
		return mb.MSPRole_PEER, nil
	default:
		return 0, errors.Errorf("unknown role '%s'", name)
	}
}

func rolePrincipal(mspID string, role mb.MSPRole_MSPRoleType) (*mb.MSPPrincipal, error) {
	if mspID == "" {
		return nil, errors.New("MSP ID is required for a role principal")
	}
	principal, err := proto.Marshal(&mb.MSPRole{MspIdentifier: mspID, Role: role})
	if err != nil {
		return nil, errors.Wrap(err, "marshal of MSP role failed")
	}
	return &mb.MSPPrincipal{PrincipalClassification: mb.MSPPrincipal_ROLE, Principal: principal}, nil
}
