/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	kitmetrics "github.com/go-kit/kit/metrics"
)

const namespace = "ccdeploy"

var (
	operationsReceived = CounterOpts{
		Namespace:  namespace,
		Name:       "operations_received",
		Help:       "The number of chaincode operations started.",
		LabelNames: []string{"operation", "chaincode"},
	}
	operationPhases = CounterOpts{
		Namespace:  namespace,
		Name:       "operation_phase_total",
		Help:       "The number of times an operation entered a phase.",
		LabelNames: []string{"operation", "phase"},
	}
	operationDuration = HistogramOpts{
		Namespace:  namespace,
		Name:       "operation_duration_seconds",
		Help:       "The time to complete a chaincode operation.",
		Buckets:    []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		LabelNames: []string{"operation", "outcome"},
	}
	endorsements = CounterOpts{
		Namespace:  namespace,
		Name:       "endorsements_total",
		Help:       "The number of proposal results received from endorsers.",
		LabelNames: []string{"status"},
	}
)

// ClientMetrics contains the metrics used by the chaincode operation clients
type ClientMetrics struct {
	OperationsReceived kitmetrics.Counter
	OperationPhases    kitmetrics.Counter
	OperationDuration  kitmetrics.Histogram
	Endorsements       kitmetrics.Counter
}

// NewClientMetrics builds a new instance of ClientMetrics
func NewClientMetrics(p Provider) *ClientMetrics {
	return &ClientMetrics{
		OperationsReceived: p.NewCounter(operationsReceived),
		OperationPhases:    p.NewCounter(operationPhases),
		OperationDuration:  p.NewHistogram(operationDuration),
		Endorsements:       p.NewCounter(endorsements),
	}
}

// Disabled returns client metrics that record nothing
func Disabled() *ClientMetrics {
	return NewClientMetrics(&DisabledProvider{})
}
