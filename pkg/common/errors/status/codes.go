/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

import (
	"strconv"

	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	grpcCodes "google.golang.org/grpc/codes"
)

// Code represents a status code
type Code uint32

const (
	// OK is returned on success.
	OK Code = 0

	// Unknown represents status codes that are uncategorized or unknown
	Unknown Code = 1

	// ConnectionFailed is returned when a network connection attempt fails
	ConnectionFailed Code = 2

	// EmptyResponse is returned when a peer response carries no response body
	EmptyResponse Code = 3

	// EmptyCert is return when an empty cert is returned
	EmptyCert Code = 4

	// Timeout operation timed out
	Timeout Code = 5

	// NoPeersFound No peers were discovered/configured
	NoPeersFound Code = 6

	// MultipleErrors multiple errors occurred
	MultipleErrors Code = 7

	// EndorsementFailed is returned when a peer could not be reached or rejected the proposal
	EndorsementFailed Code = 8

	// BroadcastFailed is returned when the envelope could not be delivered to the orderer
	BroadcastFailed Code = 9

	// InvalidProfile is returned for a missing or malformed connection profile
	InvalidProfile Code = 30

	// InvalidCredentials is returned for a missing or malformed credential file
	InvalidCredentials Code = 31

	// InvalidArgument is returned for a malformed command argument or request field
	InvalidArgument Code = 32

	// MissingEnvironment is returned when a required environment value is not set
	MissingEnvironment Code = 33

	// InvalidVersion is returned when a chaincode version cannot be interpreted
	InvalidVersion Code = 34

	// VersionConflict is returned when the requested chaincode version is already instantiated
	VersionConflict Code = 40
)

// CodeName maps the codes in this packages to human-readable strings
var CodeName = map[int32]string{
	0:  "OK",
	1:  "UNKNOWN",
	2:  "CONNECTION_FAILED",
	3:  "EMPTY_RESPONSE",
	4:  "EMPTY_CERT",
	5:  "TIMEOUT",
	6:  "NO_PEERS_FOUND",
	7:  "MULTIPLE_ERRORS",
	8:  "ENDORSEMENT_FAILED",
	9:  "BROADCAST_FAILED",
	30: "INVALID_PROFILE",
	31: "INVALID_CREDENTIALS",
	32: "INVALID_ARGUMENT",
	33: "MISSING_ENVIRONMENT",
	34: "INVALID_VERSION",
	40: "VERSION_CONFLICT",
}

// ToInt32 cast to int32
func (c Code) ToInt32() int32 {
	return int32(c)
}

// String representation of the code
func (c Code) String() string {
	if s, ok := CodeName[c.ToInt32()]; ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// ToSDKStatusCode cast to a ccdeploy status code
func ToSDKStatusCode(c int32) Code {
	return Code(c)
}

// ToGRPCStatusCode cast to gRPC status code
func ToGRPCStatusCode(c int32) grpcCodes.Code {
	return grpcCodes.Code(c)
}

// ToFabricCommonStatusCode cast to common.Status
func ToFabricCommonStatusCode(c int32) common.Status {
	return common.Status(c)
}

// ToTransactionValidationCode cast to transaction validation status code
func ToTransactionValidationCode(c int32) pb.TxValidationCode {
	return pb.TxValidationCode(c)
}
