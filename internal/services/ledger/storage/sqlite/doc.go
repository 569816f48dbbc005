// Package sqlite implements the ledger persistence contracts on an embedded
// SQLite database.
//
// Why this package exists:
// - It is the default durable backend for single-node deployments.
// - It owns migration and schema-compatibility behavior for campaign records.
// - It keeps serialized campaign records opaque so the domain shape can evolve
//   without schema rewrites.
package sqlite
