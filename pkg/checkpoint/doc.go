// Package checkpoint provides the durable per-URL outcome log that makes
// passes crash-resumable.
//
// The store is append-only: one `URL:outcome` line per processed URL,
// written and synced before the outcome is acknowledged. At startup the
// whole file seeds an in-memory skip-set, so resuming after a crash
// processes exactly the URLs that have no record yet and never reprocesses
// completed ones.
package checkpoint
