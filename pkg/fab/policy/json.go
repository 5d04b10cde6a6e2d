/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policy

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/hyperledger/fabric-protos-go/common"
	mb "github.com/hyperledger/fabric-protos-go/msp"
	"github.com/hyperledger/fabric/common/policydsl"
	"github.com/pkg/errors"
)

const signedBy = "signed-by"

var nOfKey = regexp.MustCompile(`^([0-9]+)-of$`)

type jsonPolicy struct {
	Identities []jsonIdentity   `json:"identities"`
	Policy     *json.RawMessage `json:"policy"`
}

type jsonIdentity struct {
	Role *jsonRole `json:"role"`
}

type jsonRole struct {
	Name  string `json:"name"`
	MspID string `json:"mspId"`
}

// FromJSON parses a policy in the node SDK JSON notation
func FromJSON(data []byte) (*common.SignaturePolicyEnvelope, error) {
	var p jsonPolicy
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "policy is not valid JSON")
	}

	if len(p.Identities) == 0 {
		return nil, errors.New("policy has no identities")
	}
	if p.Policy == nil {
		return nil, errors.New("policy has no 'policy' element")
	}

	principals := make([]*mb.MSPPrincipal, len(p.Identities))
	for i, id := range p.Identities {
		if id.Role == nil {
			return nil, errors.Errorf("identity %d: only role identities are supported", i)
		}
		role, err := parseRole(id.Role.Name)
		if err != nil {
			return nil, errors.WithMessagef(err, "identity %d", i)
		}
		principals[i], err = rolePrincipal(id.Role.MspID, role)
		if err != nil {
			return nil, errors.WithMessagef(err, "identity %d", i)
		}
	}

	rule, err := parseRule(*p.Policy, len(principals))
	if err != nil {
		return nil, err
	}

	return &common.SignaturePolicyEnvelope{Version: 0, Rule: rule, Identities: principals}, nil
}

func parseRule(data json.RawMessage, identities int) (*common.SignaturePolicy, error) {
	var element map[string]json.RawMessage
	if err := json.Unmarshal(data, &element); err != nil {
		return nil, errors.Wrap(err, "policy element must be an object")
	}
	if len(element) != 1 {
		return nil, errors.Errorf("policy element must have exactly one key, got %d", len(element))
	}

	for key, value := range element {
		if key == signedBy {
			var index int32
			if err := json.Unmarshal(value, &index); err != nil {
				return nil, errors.Wrapf(err, "invalid '%s' value", signedBy)
			}
			if index < 0 || int(index) >= identities {
				return nil, errors.Errorf("'%s' index %d out of range of %d identities", signedBy, index, identities)
			}
			return policydsl.SignedBy(index), nil
		}

		m := nOfKey.FindStringSubmatch(key)
		if m == nil {
			return nil, errors.Errorf("unrecognized policy element '%s'", key)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid policy element '%s'", key)
		}

		var children []json.RawMessage
		if err := json.Unmarshal(value, &children); err != nil {
			return nil, errors.Wrapf(err, "'%s' value must be an array", key)
		}
		if n < 1 || n > len(children) {
			return nil, errors.Errorf("invalid '%s' policy with %d rules", key, len(children))
		}

		rules := make([]*common.SignaturePolicy, len(children))
		for i, child := range children {
			rules[i], err = parseRule(child, identities)
			if err != nil {
				return nil, err
			}
		}
		return policydsl.NOutOf(int32(n), rules), nil
	}

	return nil, errors.New("empty policy element")
}
