// Package catalog exposes the read-only client and product lookups used by the
// import pipeline.
//
// Bulk matching works on a Snapshot of every product. Snapshots are cached for
// a short TTL and concurrent loads are deduplicated with singleflight, so a
// burst of uploads issues a single catalog query. Emission never trusts the
// snapshot: it re-reads prices and kit recipes with LoadProducts inside its own
// transaction.
package catalog
