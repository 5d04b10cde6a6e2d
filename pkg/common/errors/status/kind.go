/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

// Kind classifies an operation failure.
type Kind int

const (
	// KindUnknown is any error that does not carry a recognised status
	KindUnknown Kind = iota
	// KindConfiguration malformed profile, credentials, arguments or environment. Not retried.
	KindConfiguration
	// KindVersionConflict the chaincode id and version are already instantiated
	KindVersionConflict
	// KindProposal an endorser was unreachable or did not return status 200. Safe to retry.
	KindProposal
	// KindBroadcast the ordering service rejected the envelope. Ledger state is unchanged.
	KindBroadcast
	// KindCommitFailure the transaction was ordered but peer validation rejected it
	KindCommitFailure
	// KindCommitTimeout no commit event arrived in time. The outcome is unknown.
	KindCommitTimeout
	// KindEventTransport the event stream failed before the commit event arrived
	KindEventTransport
)

var kindName = map[Kind]string{
	KindUnknown:         "Unknown",
	KindConfiguration:   "ConfigurationError",
	KindVersionConflict: "VersionConflict",
	KindProposal:        "ProposalError",
	KindBroadcast:       "BroadcastError",
	KindCommitFailure:   "CommitFailure",
	KindCommitTimeout:   "CommitTimeout",
	KindEventTransport:  "EventTransportError",
}

func (k Kind) String() string {
	if s, ok := kindName[k]; ok {
		return s
	}
	return kindName[KindUnknown]
}

// KindOf returns the Kind of the given error
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	s, ok := FromError(err)
	if !ok {
		return KindUnknown
	}
	switch s.Group {
	case ConfigurationStatus:
		return KindConfiguration
	case LifecycleStatus:
		if s.Code == VersionConflict.ToInt32() {
			return KindVersionConflict
		}
		return KindConfiguration
	case EndorserServerStatus, EndorserClientStatus:
		return KindProposal
	case OrdererServerStatus, OrdererClientStatus:
		return KindBroadcast
	case EventServerStatus:
		return KindCommitFailure
	case EventClientStatus:
		if s.Code == Timeout.ToInt32() {
			return KindCommitTimeout
		}
		return KindEventTransport
	default:
		return KindUnknown
	}
}

// IsConfigurationError returns true if err is a ConfigurationError
func IsConfigurationError(err error) bool {
	return KindOf(err) == KindConfiguration
}

// IsVersionConflict returns true if err is a VersionConflict
func IsVersionConflict(err error) bool {
	return KindOf(err) == KindVersionConflict
}

// IsProposalError returns true if err is a ProposalError
func IsProposalError(err error) bool {
	return KindOf(err) == KindProposal
}

// IsBroadcastError returns true if err is a BroadcastError
func IsBroadcastError(err error) bool {
	return KindOf(err) == KindBroadcast
}

// IsCommitFailure returns true if err is a CommitFailure
func IsCommitFailure(err error) bool {
	return KindOf(err) == KindCommitFailure
}

// IsCommitTimeout returns true if err is a CommitTimeout
func IsCommitTimeout(err error) bool {
	return KindOf(err) == KindCommitTimeout
}
