// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitializePrometheusMetrics switches the package over to a real
// Prometheus-backed implementation; every metric created after this call
// (and every lazily-resolved one) registers with the default registerer.
func InitializePrometheusMetrics() {
	mu.Lock()
	defer mu.Unlock()
	metrics = newPromBackend()
}

type promBackend struct {
	mu           sync.Mutex
	counters     map[string]*promCountMeter
	counterVecs  map[string]*promCountVecMeter
	gauges       map[string]*promGaugeMeter
	gaugeVecs    map[string]*promGaugeVecMeter
	histograms   map[string]*promHistogramMeter
	histogramVecs map[string]*promHistogramVecMeter
}

func newPromBackend() *promBackend {
	return &promBackend{
		counters:      map[string]*promCountMeter{},
		counterVecs:   map[string]*promCountVecMeter{},
		gauges:        map[string]*promGaugeMeter{},
		gaugeVecs:     map[string]*promGaugeVecMeter{},
		histograms:    map[string]*promHistogramMeter{},
		histogramVecs: map[string]*promHistogramVecMeter{},
	}
}

func (b *promBackend) handler() http.Handler {
	return promhttp.Handler()
}

func (b *promBackend) counter(name string) CountMeter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.counters[name]; ok {
		return m
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: metricNamePrefix + name})
	prometheus.MustRegister(c)
	m := &promCountMeter{c: c}
	b.counters[name] = m
	return m
}

func (b *promBackend) counterVec(name string, labels []string) CountVecMeter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.counterVecs[name]; ok {
		return m
	}
	v := prometheus.NewCounterVec(prometheus.CounterOpts{Name: metricNamePrefix + name}, labels)
	prometheus.MustRegister(v)
	m := &promCountVecMeter{v: v}
	b.counterVecs[name] = m
	return m
}

func (b *promBackend) gauge(name string) GaugeMeter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.gauges[name]; ok {
		return m
	}
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: metricNamePrefix + name})
	prometheus.MustRegister(g)
	m := &promGaugeMeter{g: g}
	b.gauges[name] = m
	return m
}

func (b *promBackend) gaugeVec(name string, labels []string) GaugeVecMeter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.gaugeVecs[name]; ok {
		return m
	}
	v := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metricNamePrefix + name}, labels)
	prometheus.MustRegister(v)
	m := &promGaugeVecMeter{v: v}
	b.gaugeVecs[name] = m
	return m
}

func (b *promBackend) histogram(name string, buckets []float64) HistogramMeter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.histograms[name]; ok {
		return m
	}
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	h := prometheus.NewHistogram(prometheus.HistogramOpts{Name: metricNamePrefix + name, Buckets: buckets})
	prometheus.MustRegister(h)
	m := &promHistogramMeter{h: h}
	b.histograms[name] = m
	return m
}

func (b *promBackend) histogramVec(name string, labels []string, buckets []float64) HistogramVecMeter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.histogramVecs[name]; ok {
		return m
	}
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	v := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: metricNamePrefix + name, Buckets: buckets}, labels)
	prometheus.MustRegister(v)
	m := &promHistogramVecMeter{v: v}
	b.histogramVecs[name] = m
	return m
}

type promCountMeter struct{ c prometheus.Counter }

func (m *promCountMeter) Add(v int64) { m.c.Add(float64(v)) }

type promCountVecMeter struct{ v *prometheus.CounterVec }

func (m *promCountVecMeter) AddWithLabel(v int64, labels map[string]string) {
	m.v.With(labels).Add(float64(v))
}

type promGaugeMeter struct{ g prometheus.Gauge }

func (m *promGaugeMeter) Add(v int64) { m.g.Add(float64(v)) }

type promGaugeVecMeter struct{ v *prometheus.GaugeVec }

func (m *promGaugeVecMeter) AddWithLabel(v int64, labels map[string]string) {
	m.v.With(labels).Add(float64(v))
}

type promHistogramMeter struct{ h prometheus.Histogram }

func (m *promHistogramMeter) Observe(v int64) { m.h.Observe(float64(v)) }

type promHistogramVecMeter struct{ v *prometheus.HistogramVec }

func (m *promHistogramVecMeter) ObserveWithLabels(v int64, labels map[string]string) {
	m.v.With(labels).Observe(float64(v))
}
