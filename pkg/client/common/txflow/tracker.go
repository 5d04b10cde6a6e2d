/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txflow

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/metrics"
)

// State of a chaincode operation
type State int

const (
	// Started is the state of an operation that has not entered any phase yet
	Started State = iota
	// Resolving the instantiated chaincode version is being queried
	Resolving
	// Proposing the proposal has been sent to the endorsers
	Proposing
	// Validated every endorser returned a successful response
	Validated
	// Broadcasting the endorsed transaction is being sent to the orderer
	Broadcasting
	// AwaitingCommit the orderer accepted the transaction
	AwaitingCommit
	// Done the operation completed
	Done
	// Failed the operation failed. See the returned error for the cause.
	Failed
)

var stateName = map[State]string{
	Started:        "started",
	Resolving:      "resolving",
	Proposing:      "proposing",
	Validated:      "validated",
	Broadcasting:   "broadcasting",
	AwaitingCommit: "awaiting_commit",
	Done:           "done",
	Failed:         "failed",
}

func (s State) String() string {
	if n, ok := stateName[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal returns true for Done and Failed
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// Phase names the step of an operation an error is reported against
type Phase string

const (
	// PhaseConfiguration request, profile or credential problems
	PhaseConfiguration Phase = "configuration"
	// PhaseResolution instantiated version lookup
	PhaseResolution Phase = "resolution"
	// PhaseProposal endorsement
	PhaseProposal Phase = "proposal"
	// PhaseBroadcast ordering
	PhaseBroadcast Phase = "broadcast"
	// PhaseCommit commit event
	PhaseCommit Phase = "commit"
)

// Tracker follows a single operation through its states. Every transition is
// logged and counted; the duration is observed when a terminal state is reached.
type Tracker struct {
	operation string
	chaincode string
	metrics   *metrics.ClientMetrics
	start     time.Time

	mutex   sync.Mutex
	state   State
	history []State
}

// NewTracker starts tracking the named operation on the given chaincode
func NewTracker(operation, chaincode string, m *metrics.ClientMetrics) *Tracker {
	if m == nil {
		m = metrics.Disabled()
	}
	m.OperationsReceived.With("operation", operation, "chaincode", chaincode).Add(1)

	logger.Debugf("%s of chaincode [%s] started", operation, chaincode)

	return &Tracker{
		operation: operation,
		chaincode: chaincode,
		metrics:   m,
		start:     time.Now(),
		state:     Started,
	}
}

// State returns the current state
func (t *Tracker) State() State {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.state
}

// History returns the states entered so far, in order
func (t *Tracker) History() []State {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([]State(nil), t.history...)
}

// Enter moves the operation into the given state. Transitions out of a
// terminal state are ignored.
func (t *Tracker) Enter(s State) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.state.Terminal() {
		logger.Warnf("%s of chaincode [%s] is %s, ignoring transition to %s", t.operation, t.chaincode, t.state, s)
		return
	}

	logger.Debugf("%s of chaincode [%s]: %s -> %s", t.operation, t.chaincode, t.state, s)

	t.state = s
	t.history = append(t.history, s)
	t.metrics.OperationPhases.With("operation", t.operation, "phase", s.String()).Add(1)
}

// Done completes the operation
func (t *Tracker) Done() {
	t.Enter(Done)
	t.observe("success")
	logger.Infof("%s of chaincode [%s] completed in %s", t.operation, t.chaincode, time.Since(t.start))
}

// Fail moves the operation to Failed and returns err prefixed with the phase.
// The status carried by err remains reachable through errors.Cause.
func (t *Tracker) Fail(phase Phase, err error) error {
	t.Enter(Failed)

	kind := status.KindOf(err)
	t.observe(kind.String())

	logger.Debugf("%s of chaincode [%s] failed in phase %s (%s): %s", t.operation, t.chaincode, phase, kind, err)

	return errors.WithMessagef(err, "%s failed", phase)
}

func (t *Tracker) observe(outcome string) {
	t.metrics.OperationDuration.With("operation", t.operation, "outcome", outcome).Observe(time.Since(t.start).Seconds())
}
