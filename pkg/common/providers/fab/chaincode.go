/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"strings"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
)

// ChaincodeType is the language a chaincode is written in
type ChaincodeType int

const (
	// Golang chaincode, packaged relative to GOPATH/src
	Golang ChaincodeType = iota
	// Node chaincode
	Node
	// Java chaincode
	Java
)

// ParseChaincodeType returns the ChaincodeType for the given name. An empty name is Golang.
func ParseChaincodeType(name string) (ChaincodeType, error) {
	switch strings.ToLower(name) {
	case "", "golang", "go":
		return Golang, nil
	case "node":
		return Node, nil
	case "java":
		return Java, nil
	default:
		return Golang, errors.Errorf("unsupported chaincode type '%s', expecting one of golang, node, java", name)
	}
}

func (t ChaincodeType) String() string {
	switch t {
	case Golang:
		return "golang"
	case Node:
		return "node"
	case Java:
		return "java"
	default:
		return "unknown"
	}
}

// SpecType returns the chaincode spec type sent to peers
func (t ChaincodeType) SpecType() pb.ChaincodeSpec_Type {
	switch t {
	case Golang:
		return pb.ChaincodeSpec_GOLANG
	case Node:
		return pb.ChaincodeSpec_NODE
	case Java:
		return pb.ChaincodeSpec_JAVA
	default:
		return pb.ChaincodeSpec_UNDEFINED
	}
}
