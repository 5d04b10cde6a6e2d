/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resource

import (
	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/txn"
)

const (
	lscc                    = "lscc"
	lsccInstall             = "install"
	lsccDeploy              = "deploy"
	lsccUpgrade             = "upgrade"
	lsccInstalledChaincodes = "getinstalledchaincodes"
	lsccChaincodes          = "getchaincodes"
	escc                    = "escc"
	vscc                    = "vscc"
)

// ChaincodeProposalType reflects transitions in the chaincode lifecycle
type ChaincodeProposalType int

// Define chaincode proposal types
const (
	InstantiateChaincode ChaincodeProposalType = iota
	UpgradeChaincode
)

func (t ChaincodeProposalType) String() string {
	switch t {
	case InstantiateChaincode:
		return "instantiate"
	case UpgradeChaincode:
		return "upgrade"
	default:
		return "unknown"
	}
}

// ChaincodeInstallRequest requests chaincode installation on the network
type ChaincodeInstallRequest struct {
	Name    string
	Path    string
	Version string
	Package *ChaincodePackage
}

// ChaincodePackage contains package type and bytes required to create CDS
type ChaincodePackage struct {
	Type pb.ChaincodeSpec_Type
	Code []byte
}

// ChaincodeDeployRequest holds parameters for creating an instantiate or upgrade chaincode proposal.
type ChaincodeDeployRequest struct {
	Name       string
	Path       string
	Version    string
	Lang       pb.ChaincodeSpec_Type
	Fcn        string
	Args       [][]byte
	Policy     *common.SignaturePolicyEnvelope
	CollConfig *pb.CollectionConfigPackage
}

// CreateChaincodeInstallProposal creates an install chaincode proposal.
func CreateChaincodeInstallProposal(txh fab.TransactionHeader, request ChaincodeInstallRequest) (*fab.TransactionProposal, error) {
	cir, err := createInstallInvokeRequest(request)
	if err != nil {
		return nil, errors.WithMessage(err, "creating lscc install invocation request failed")
	}

	return txn.CreateChaincodeInvokeProposal(txh, cir)
}

func createInstallInvokeRequest(request ChaincodeInstallRequest) (fab.ChaincodeInvokeRequest, error) {
	if request.Package == nil {
		return fab.ChaincodeInvokeRequest{}, errors.New("chaincode package is required")
	}

	ccds := &pb.ChaincodeDeploymentSpec{ChaincodeSpec: &pb.ChaincodeSpec{
		Type: request.Package.Type, ChaincodeId: &pb.ChaincodeID{Name: request.Name, Path: request.Path, Version: request.Version}},
		CodePackage: request.Package.Code}

	ccdsBytes, err := proto.Marshal(ccds)
	if err != nil {
		return fab.ChaincodeInvokeRequest{}, errors.Wrap(err, "marshal of chaincode deployment spec failed")
	}

	cir := fab.ChaincodeInvokeRequest{
		ChaincodeID: lscc,
		Fcn:         lsccInstall,
		Args:        [][]byte{ccdsBytes},
	}
	return cir, nil
}

// CreateChaincodeDeployProposal creates an instantiate or upgrade chaincode proposal.
func CreateChaincodeDeployProposal(txh fab.TransactionHeader, deploy ChaincodeProposalType, channelID string, chaincode ChaincodeDeployRequest) (*fab.TransactionProposal, error) {
	var fcn string
	switch deploy {
	case InstantiateChaincode:
		fcn = lsccDeploy
	case UpgradeChaincode:
		fcn = lsccUpgrade
	default:
		return nil, errors.Errorf("chaincode deployment type unknown: %d", deploy)
	}

	if chaincode.Policy == nil {
		return nil, errors.New("endorsement policy is required")
	}

	// Generate arguments for deploy (channel, marshaled CCDS, marshaled chaincode policy, escc, vscc, marshaled collection config)
	args := [][]byte{[]byte(channelID)}

	input := make([][]byte, 0, len(chaincode.Args)+1)
	if chaincode.Fcn != "" {
		input = append(input, []byte(chaincode.Fcn))
	}
	input = append(input, chaincode.Args...)

	ccds := &pb.ChaincodeDeploymentSpec{ChaincodeSpec: &pb.ChaincodeSpec{
		Type: chaincode.Lang, ChaincodeId: &pb.ChaincodeID{Name: chaincode.Name, Path: chaincode.Path, Version: chaincode.Version},
		Input: &pb.ChaincodeInput{Args: input}}}
	ccdsBytes, err := proto.Marshal(ccds)
	if err != nil {
		return nil, errors.Wrap(err, "marshal of chaincode deployment spec failed")
	}
	args = append(args, ccdsBytes)

	chaincodePolicyBytes, err := proto.Marshal(chaincode.Policy)
	if err != nil {
		return nil, errors.Wrap(err, "marshal of chaincode policy failed")
	}
	args = append(args, chaincodePolicyBytes)

	args = append(args, []byte(escc))
	args = append(args, []byte(vscc))

	if chaincode.CollConfig != nil {
		collConfigBytes, err := proto.Marshal(chaincode.CollConfig)
		if err != nil {
			return nil, errors.Wrap(err, "marshal of collection policy failed")
		}
		args = append(args, collConfigBytes)
	}

	cir := fab.ChaincodeInvokeRequest{
		ChaincodeID: lscc,
		Fcn:         fcn,
		Args:        args,
	}

	return txn.CreateChaincodeInvokeProposal(txh, cir)
}

func createInstalledChaincodesInvokeRequest() fab.ChaincodeInvokeRequest {
	return fab.ChaincodeInvokeRequest{
		ChaincodeID: lscc,
		Fcn:         lsccInstalledChaincodes,
	}
}

func createChaincodesInvokeRequest() fab.ChaincodeInvokeRequest {
	return fab.ChaincodeInvokeRequest{
		ChaincodeID: lscc,
		Fcn:         lsccChaincodes,
	}
}
