// Package metrics provides operational metrics collection.
//
// This package handles system observability for monitoring and alerting:
//
// # Metric Categories
//
//   - Latency: HTTP request duration histograms by endpoint
//   - Traffic: request counts by method, path, and status
//   - Business: campaign and donation counters, donation amount histogram
//   - Protection: rate limiter rejections
//
// # Integration
//
// Metrics are collected by the HTTP middleware and exposed in Prometheus
// format on the /metrics endpoint, scrapeable by standard monitoring
// infrastructure.
package metrics
