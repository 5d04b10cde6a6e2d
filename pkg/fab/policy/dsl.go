/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policy

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/hyperledger/fabric-protos-go/common"
	mb "github.com/hyperledger/fabric-protos-go/msp"
	"github.com/hyperledger/fabric/common/policydsl"
	"github.com/pkg/errors"
)

// Gates of the policy DSL
const (
	GateAnd   = "And"
	GateOr    = "Or"
	GateOutOf = "OutOf"
)

var (
	principalRegex = regexp.MustCompile(
		fmt.Sprintf("^([[:alnum:].-]+)([.])(%s|%s|%s|%s)$", RoleAdmin, RoleMember, RoleClient, RolePeer),
	)
	unknownParamRegex = regexp.MustCompile("^No parameter '([^']+)' found[.]$")
)

// gate is a threshold node produced while evaluating the DSL. Its rules are
// either principal strings or nested gates.
type gate struct {
	n     int
	rules []interface{}
}

func outOf(args ...interface{}) (interface{}, error) {
	if len(args) < 2 {
		return nil, errors.Errorf("expected at least two arguments to OutOf, given %d", len(args))
	}

	n, ok := args[0].(float64)
	if !ok {
		return nil, errors.Errorf("expected a number as first argument to OutOf, got %v", reflect.TypeOf(args[0]))
	}
	return newGate(int(n), args[1:])
}

func and(args ...interface{}) (interface{}, error) {
	return newGate(len(args), args)
}

func or(args ...interface{}) (interface{}, error) {
	return newGate(1, args)
}

func newGate(n int, rules []interface{}) (*gate, error) {
	if len(rules) == 0 {
		return nil, errors.New("gate requires at least one principal or policy")
	}
	if n < 1 || n > len(rules) {
		return nil, errors.Errorf("invalid t-out-of-n predicate, t %d, n %d", n, len(rules))
	}
	for _, r := range rules {
		switch r.(type) {
		case string, *gate:
		default:
			return nil, errors.Errorf("unexpected type %v, expected a principal or a policy", reflect.TypeOf(r))
		}
	}
	return &gate{n: n, rules: rules}, nil
}

func gateFunctions() map[string]govaluate.ExpressionFunction {
	functions := make(map[string]govaluate.ExpressionFunction)
	for name, fn := range map[string]govaluate.ExpressionFunction{GateAnd: and, GateOr: or, GateOutOf: outOf} {
		functions[name] = fn
		functions[strings.ToLower(name)] = fn
		functions[strings.ToUpper(name)] = fn
	}
	return functions
}

// FromString parses a policy in the DSL notation, e.g.
// AND('Org1MSP.member', OutOf(1, 'Org2MSP.peer', 'Org3MSP.peer'))
func FromString(policy string) (*common.SignaturePolicyEnvelope, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(policy, gateFunctions())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid policy string '%s'", policy)
	}

	res, err := expr.Evaluate(map[string]interface{}{})
	if err != nil {
		if sm := unknownParamRegex.FindStringSubmatch(err.Error()); len(sm) == 2 {
			return nil, errors.Errorf("unrecognized token '%s' in policy string", sm[1])
		}
		return nil, errors.Wrapf(err, "invalid policy string '%s'", policy)
	}

	root, ok := res.(*gate)
	if !ok {
		return nil, errors.Errorf("invalid policy string '%s'", policy)
	}

	b := &builder{index: make(map[string]int32)}
	rule, err := b.build(root)
	if err != nil {
		return nil, err
	}

	return &common.SignaturePolicyEnvelope{Version: 0, Rule: rule, Identities: b.principals}, nil
}

// builder converts gates to signature policies. Identical principals share
// one identity index.
type builder struct {
	principals []*mb.MSPPrincipal
	index      map[string]int32
}

func (b *builder) build(g *gate) (*common.SignaturePolicy, error) {
	rules := make([]*common.SignaturePolicy, len(g.rules))
	for i, r := range g.rules {
		switch v := r.(type) {
		case string:
			idx, err := b.principal(v)
			if err != nil {
				return nil, err
			}
			rules[i] = policydsl.SignedBy(idx)
		case *gate:
			rule, err := b.build(v)
			if err != nil {
				return nil, err
			}
			rules[i] = rule
		}
	}
	return policydsl.NOutOf(int32(g.n), rules), nil
}

func (b *builder) principal(s string) (int32, error) {
	if idx, ok := b.index[s]; ok {
		return idx, nil
	}

	subm := principalRegex.FindStringSubmatch(s)
	if len(subm) != 4 {
		return 0, errors.Errorf("error parsing principal %s", s)
	}

	role, err := parseRole(subm[3])
	if err != nil {
		return 0, err
	}
	p, err := rolePrincipal(subm[1], role)
	if err != nil {
		return 0, err
	}

	idx := int32(len(b.principals))
	b.principals = append(b.principals, p)
	b.index[s] = idx
	return idx, nil
}
