// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a thin, swappable observability layer: every metric
// starts out a no-op and is promoted to a real Prometheus collector once
// InitializePrometheusMetrics is called, so packages can declare their
// counters and gauges at init time without caring whether metrics
// collection is actually enabled for this process.
package metrics

import "sync"

// metricNamePrefix namespaces every metric this package creates.
const metricNamePrefix = "hub_sync_"

// CountMeter is a monotonic counter.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a counter with labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter can move in either direction.
type GaugeMeter interface {
	Add(int64)
}

// GaugeVecMeter is a gauge with labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// HistogramMeter records individual observations.
type HistogramMeter interface {
	Observe(int64)
}

// HistogramVecMeter is a histogram with labels.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// backend is implemented by the noop and Prometheus metric backends.
type backend interface {
	counter(name string) CountMeter
	counterVec(name string, labels []string) CountVecMeter
	gauge(name string) GaugeMeter
	gaugeVec(name string, labels []string) GaugeVecMeter
	histogram(name string, buckets []float64) HistogramMeter
	histogramVec(name string, labels []string, buckets []float64) HistogramVecMeter
}

var (
	mu      sync.Mutex
	metrics backend = defaultNoopMetrics()
)

// Counter returns (creating if necessary) the named counter.
func Counter(name string) CountMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.counter(name)
}

// CounterVec returns the named labeled counter.
func CounterVec(name string, labels []string) CountVecMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.counterVec(name, labels)
}

// Gauge returns the named gauge.
func Gauge(name string) GaugeMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.gauge(name)
}

// GaugeVec returns the named labeled gauge.
func GaugeVec(name string, labels []string) GaugeVecMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.gaugeVec(name, labels)
}

// Histogram returns the named histogram.
func Histogram(name string, buckets []float64) HistogramMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.histogram(name, buckets)
}

// HistogramVec returns the named labeled histogram.
func HistogramVec(name string, labels []string, buckets []float64) HistogramVecMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.histogramVec(name, labels, buckets)
}

// LazyLoadCounter defers the Counter(name) lookup to call time, so a
// package-level var declared before InitializePrometheusMetrics still ends
// up backed by the real collector once metrics collection is turned on.
func LazyLoadCounter(name string) func() CountMeter {
	return func() CountMeter { return Counter(name) }
}

// LazyLoadCounterVec is LazyLoadCounter for labeled counters.
func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return func() CountVecMeter { return CounterVec(name, labels) }
}

// LazyLoadGauge is LazyLoadCounter for gauges.
func LazyLoadGauge(name string) func() GaugeMeter {
	return func() GaugeMeter { return Gauge(name) }
}

// LazyLoadGaugeVec is LazyLoadCounter for labeled gauges.
func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return func() GaugeVecMeter { return GaugeVec(name, labels) }
}

// LazyLoadHistogram is LazyLoadCounter for histograms.
func LazyLoadHistogram(name string, buckets []float64) func() HistogramMeter {
	return func() HistogramMeter { return Histogram(name, buckets) }
}

// LazyLoadHistogramVec is LazyLoadCounter for labeled histograms.
func LazyLoadHistogramVec(name string, labels []string, buckets []float64) func() HistogramVecMeter {
	return func() HistogramVecMeter { return HistogramVec(name, labels, buckets) }
}
