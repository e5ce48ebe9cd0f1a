// Package alias stores the per-client free-text to SKU mappings learned from
// confirmed manual matches.
//
// Alias text is kept in normalized form (see Normalize) and is unique per
// client. Only Upsert creates or repoints an alias; the matcher reads them in
// bulk with Preload and reports hits back through Touch.
package alias
