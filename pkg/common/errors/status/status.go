/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package status defines metadata for errors returned by ccdeploy. Every
// failure of a chaincode operation carries a Status whose group identifies the
// component (and therefore the phase) that produced it, and whose code
// identifies the condition within that component.
//
// The groups map onto the operation error taxonomy as follows:
//
//  ConfigurationStatus                        ConfigurationError
//  LifecycleStatus/VersionConflict            VersionConflict
//  EndorserServerStatus, EndorserClientStatus ProposalError
//  OrdererServerStatus, OrdererClientStatus   BroadcastError
//  EventServerStatus                          CommitFailure
//  EventClientStatus/Timeout                  CommitTimeout
package status

import (
	"fmt"

	"github.com/pkg/errors"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/multi"
	grpcstatus "google.golang.org/grpc/status"
)

// Status provides additional information about an unsuccessful operation.
type Status struct {
	// Group status group
	Group Group
	// Code status code
	Code int32
	// Message status message
	Message string
	// Details any additional status details
	Details []interface{}
}

// Group of status to help users infer status codes from various components
type Group int32

const (
	// UnknownStatus unknown status group
	UnknownStatus Group = iota

	// GRPCTransportStatus is the status associated with requests made over
	// gRPC connections
	GRPCTransportStatus

	// EndorserServerStatus status returned by the endorser server
	EndorserServerStatus
	// EventServerStatus status returned by the event service. The code is the
	// transaction validation code reported for the transaction.
	EventServerStatus
	// OrdererServerStatus status returned by the ordering service
	OrdererServerStatus

	// EndorserClientStatus status inferred by the client while sending or
	// validating proposals
	EndorserClientStatus
	// OrdererClientStatus status inferred by the client while broadcasting
	OrdererClientStatus
	// EventClientStatus status inferred by the client while waiting for a
	// commit event
	EventClientStatus
	// ClientStatus is a generic client status
	ClientStatus

	// ConfigurationStatus is returned for malformed connection profiles,
	// credentials, arguments and environment
	ConfigurationStatus
	// LifecycleStatus is returned by chaincode lifecycle checks performed
	// before any proposal is sent
	LifecycleStatus
)

// GroupName maps the groups in this packages to human-readable strings
var GroupName = map[int32]string{
	0:  "Unknown",
	1:  "gRPC Transport Status",
	2:  "Endorser Server Status",
	3:  "Event Server Status",
	4:  "Orderer Server Status",
	5:  "Endorser Client Status",
	6:  "Orderer Client Status",
	7:  "Event Client Status",
	8:  "Client Status",
	9:  "Configuration Status",
	10: "Lifecycle Status",
}

func (g Group) String() string {
	if s, ok := GroupName[int32(g)]; ok {
		return s
	}
	return UnknownStatus.String()
}

// FromError returns a Status representing err if available,
// otherwise it returns nil, false.
func FromError(err error) (s *Status, ok bool) {
	if err == nil {
		return &Status{Code: int32(OK)}, true
	}
	if s, ok := err.(*Status); ok {
		return s, true
	}
	unwrappedErr := errors.Cause(err)
	if s, ok := unwrappedErr.(*Status); ok {
		return s, true
	}
	if m, ok := unwrappedErr.(multi.Errors); ok {
		// a single status group shared by every error is kept
		if s, ok := commonGroup(m); ok {
			return New(s, MultipleErrors.ToInt32(), m.Error(), m.Details()), true
		}
		return New(ClientStatus, MultipleErrors.ToInt32(), m.Error(), m.Details()), true
	}

	return nil, false
}

func commonGroup(m multi.Errors) (Group, bool) {
	var group Group
	for i, err := range m {
		s, ok := FromError(err)
		if !ok {
			return UnknownStatus, false
		}
		if i > 0 && s.Group != group {
			return UnknownStatus, false
		}
		group = s.Group
	}
	return group, len(m) > 0
}

func (s *Status) Error() string {
	return fmt.Sprintf("%s Code: (%d) %s. Description: %s", s.Group.String(), s.Code, s.codeString(), s.Message)
}

func (s *Status) codeString() string {
	switch s.Group {
	case GRPCTransportStatus:
		return ToGRPCStatusCode(s.Code).String()
	case EndorserServerStatus, OrdererServerStatus:
		return ToFabricCommonStatusCode(s.Code).String()
	case EventServerStatus:
		return ToTransactionValidationCode(s.Code).String()
	case EndorserClientStatus, OrdererClientStatus, EventClientStatus, ClientStatus, ConfigurationStatus, LifecycleStatus:
		return ToSDKStatusCode(s.Code).String()
	default:
		return Unknown.String()
	}
}

// New returns a Status with the given parameters
func New(group Group, code int32, msg string, details []interface{}) *Status {
	return &Status{Group: group, Code: code, Message: msg, Details: details}
}

// NewFromProposalResponse creates a status created from the given ProposalResponse
func NewFromProposalResponse(res *pb.ProposalResponse, endorser string) *Status {
	if res == nil || res.Response == nil {
		return New(EndorserClientStatus, EmptyResponse.ToInt32(), "Response null or has a status not equal to 200", []interface{}{endorser})
	}
	details := []interface{}{endorser, res.Response.Payload}

	return New(EndorserServerStatus, res.Response.Status, res.Response.Message, details)
}

// NewFromGRPCStatus new Status from gRPC status response
func NewFromGRPCStatus(s *grpcstatus.Status) *Status {
	if s == nil {
		return nil
	}
	details := make([]interface{}, len(s.Proto().Details))
	for i, detail := range s.Proto().Details {
		details[i] = detail
	}

	return &Status{Group: GRPCTransportStatus, Code: s.Proto().Code,
		Message: s.Message(), Details: details}
}

// NewConfigurationError returns a ConfigurationError status with a formatted message
func NewConfigurationError(code Code, format string, args ...interface{}) *Status {
	return New(ConfigurationStatus, code.ToInt32(), fmt.Sprintf(format, args...), nil)
}
