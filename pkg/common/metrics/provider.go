/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records the progress and outcome of chaincode operations.
// Metrics are kept in a private Prometheus registry and, since every command
// is short lived, can be pushed to a Pushgateway when the command completes.
package metrics

import (
	kitmetrics "github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// CounterOpts contains the options for creating a counter
type CounterOpts struct {
	Namespace  string
	Subsystem  string
	Name       string
	Help       string
	LabelNames []string
}

// HistogramOpts contains the options for creating a histogram
type HistogramOpts struct {
	Namespace  string
	Subsystem  string
	Name       string
	Help       string
	Buckets    []float64
	LabelNames []string
}

// Provider creates counters and histograms
type Provider interface {
	NewCounter(o CounterOpts) kitmetrics.Counter
	NewHistogram(o HistogramOpts) kitmetrics.Histogram
}

// DisabledProvider discards every observation
type DisabledProvider struct{}

// NewCounter returns a counter that discards observations
func (p *DisabledProvider) NewCounter(CounterOpts) kitmetrics.Counter {
	return discard.NewCounter()
}

// NewHistogram returns a histogram that discards observations
func (p *DisabledProvider) NewHistogram(HistogramOpts) kitmetrics.Histogram {
	return discard.NewHistogram()
}

// PrometheusProvider registers metrics in its own registry
type PrometheusProvider struct {
	registry *prom.Registry
}

// NewPrometheusProvider returns a provider backed by a new registry
func NewPrometheusProvider() *PrometheusProvider {
	return &PrometheusProvider{registry: prom.NewRegistry()}
}

// NewCounter creates and registers a counter vector
func (p *PrometheusProvider) NewCounter(o CounterOpts) kitmetrics.Counter {
	cv := prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: o.Namespace,
			Subsystem: o.Subsystem,
			Name:      o.Name,
			Help:      o.Help,
		},
		o.LabelNames,
	)
	p.registry.MustRegister(cv)
	return kitprometheus.NewCounter(cv)
}

// NewHistogram creates and registers a histogram vector
func (p *PrometheusProvider) NewHistogram(o HistogramOpts) kitmetrics.Histogram {
	hv := prom.NewHistogramVec(
		prom.HistogramOpts{
			Namespace: o.Namespace,
			Subsystem: o.Subsystem,
			Name:      o.Name,
			Help:      o.Help,
			Buckets:   o.Buckets,
		},
		o.LabelNames,
	)
	p.registry.MustRegister(hv)
	return kitprometheus.NewHistogram(hv)
}

// Gatherer returns the registry backing this provider
func (p *PrometheusProvider) Gatherer() prom.Gatherer {
	return p.registry
}

// Push sends all registered metrics to the Pushgateway at url under the given job name
func (p *PrometheusProvider) Push(url, job string) error {
	if err := push.New(url, job).Gatherer(p.registry).Push(); err != nil {
		return errors.Wrapf(err, "failed to push metrics to %s", url)
	}
	return nil
}
