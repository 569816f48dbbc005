// Package migrations embeds SQL migration scripts used by the SQLite backend.
//
// Why this package exists:
// - It centralizes schema history for campaign records and telemetry events.
// - It allows upgrade-safe evolution without manual operator SQL.
// - It supports both development bootstrap and production migration workflows.
package migrations
