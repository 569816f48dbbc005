// Package telemetry provides observability for the Crowdfund ledger.
//
// This package separates two distinct concerns:
//
// # Ledger Events
//
// Ledger events are an operational journal of campaign and donation
// activity, persisted alongside the campaign records for audits and
// incident analysis. They never participate in state derivation.
//
// # Operational Metrics (telemetry/metrics)
//
// Operational metrics capture system health and performance:
//   - Request latency
//   - Error rates
//   - Campaign and donation throughput
//
// These metrics support monitoring, alerting, and capacity planning.
package telemetry
