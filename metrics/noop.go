// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// noopMeters implements every meter interface as a no-op, so code can
// unconditionally call Add/Observe without checking whether metrics
// collection is enabled.
type noopMeters struct{}

func (*noopMeters) Add(int64)                                  {}
func (*noopMeters) AddWithLabel(int64, map[string]string)      {}
func (*noopMeters) Observe(int64)                               {}
func (*noopMeters) ObserveWithLabels(int64, map[string]string) {}

type noopBackend struct {
	shared *noopMeters
}

func defaultNoopMetrics() backend {
	return &noopBackend{shared: &noopMeters{}}
}

func (b *noopBackend) counter(string) CountMeter                                    { return b.shared }
func (b *noopBackend) counterVec(string, []string) CountVecMeter                    { return b.shared }
func (b *noopBackend) gauge(string) GaugeMeter                                      { return b.shared }
func (b *noopBackend) gaugeVec(string, []string) GaugeVecMeter                      { return b.shared }
func (b *noopBackend) histogram(string, []float64) HistogramMeter                   { return b.shared }
func (b *noopBackend) histogramVec(string, []string, []float64) HistogramVecMeter   { return b.shared }

// HTTPHandler returns the handler serving the Prometheus scrape endpoint
// once InitializePrometheusMetrics has run; under the default no-op
// backend every request 404s.
func HTTPHandler() http.Handler {
	mu.Lock()
	b := metrics
	mu.Unlock()

	if pb, ok := b.(*promBackend); ok {
		return pb.handler()
	}
	return http.NotFoundHandler()
}
