/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txflow

import (
	"testing"

	"github.com/pkg/errors"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/metrics"
)

func TestTrackerTransitions(t *testing.T) {
	tracker := NewTracker("instantiate", "mycc", nil)
	assert.Equal(t, Started, tracker.State())

	tracker.Enter(Resolving)
	tracker.Enter(Proposing)
	tracker.Enter(Validated)
	tracker.Done()

	assert.Equal(t, Done, tracker.State())
	assert.Equal(t, []State{Resolving, Proposing, Validated, Done}, tracker.History())

	tracker.Enter(Broadcasting)
	assert.Equal(t, Done, tracker.State())
}

func TestTrackerFail(t *testing.T) {
	tracker := NewTracker("instantiate", "mycc", nil)
	tracker.Enter(Resolving)

	cause := status.New(status.LifecycleStatus, status.VersionConflict.ToInt32(), "version 2 of chaincode mycc is already instantiated", nil)
	err := tracker.Fail(PhaseResolution, cause)

	assert.Equal(t, Failed, tracker.State())
	assert.EqualError(t, err, "resolution failed: "+cause.Error())
	assert.Equal(t, cause, errors.Cause(err))
	assert.True(t, status.IsVersionConflict(err))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_commit", AwaitingCommit.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, Failed.Terminal())
	assert.False(t, Broadcasting.Terminal())
}

func TestTrackerMetrics(t *testing.T) {
	p := metrics.NewPrometheusProvider()
	tracker := NewTracker("invoke", "mycc", metrics.NewClientMetrics(p))

	tracker.Enter(Proposing)
	tracker.Enter(Validated)
	_ = tracker.Fail(PhaseBroadcast, status.New(status.OrdererServerStatus, 400, "bad request", nil))

	families, err := p.Gatherer().Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	received := byName["ccdeploy_operations_received"]
	require.NotNil(t, received)
	assert.Equal(t, float64(1), received.GetMetric()[0].GetCounter().GetValue())

	phases := byName["ccdeploy_operation_phase_total"]
	require.NotNil(t, phases)
	assert.Len(t, phases.GetMetric(), 3)

	duration := byName["ccdeploy_operation_duration_seconds"]
	require.NotNil(t, duration)
	require.Len(t, duration.GetMetric(), 1)
	assert.Equal(t, uint64(1), duration.GetMetric()[0].GetHistogram().GetSampleCount())

	var outcome string
	for _, l := range duration.GetMetric()[0].GetLabel() {
		if l.GetName() == "outcome" {
			outcome = l.GetValue()
		}
	}
	assert.Equal(t, "BroadcastError", outcome)
}
