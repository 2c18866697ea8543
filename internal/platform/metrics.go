// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric service labels.
const (
	ServiceAuth      = "auth"
	ServiceData      = "data"
	ServiceStorage   = "storage"
	ServiceFunctions = "functions"
	ServiceCheckout  = "checkout"
)

// Metrics records platform request counts and latency for Prometheus.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the platform metric collectors and registers them with
// the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sarangxanh_platform_requests_total",
			Help: "Platform API requests by service and HTTP status code.",
		}, []string{"service", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sarangxanh_platform_request_seconds",
			Help:    "Platform API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
	}

	reg.MustRegister(m.requests, m.latency)
	return m
}

// recordRequest records one platform request. A status code of 0 means the
// request failed before a response arrived. Safe to call on a nil receiver
// so that metrics stay optional in tests.
func (m *Metrics) recordRequest(service string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if service == "" {
		service = "unknown"
	}
	m.requests.WithLabelValues(service, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(service).Observe(d.Seconds())
}
