// Package imports is the marketplace import pipeline.
//
// An upload is decoded (package sheet), normalized into canonical rows
// (package normalize), persisted and run through the matching cascade
// (package match). Lines left pending are resolved by operators through
// ManualMatch, which propagates the choice to identical lines of the same
// shipment or batch and can teach the alias store. AutoRelate re-runs the
// cascade after the catalog or the aliases change.
//
// Resolved shipments and order batches are posted by package emit through the
// ledger. Progress of each batch is published to a progress.Reporter and every
// operator action is sent to the audit sink.
//
// # Routes
//
//	POST /imports/upload
//	POST /imports/lines/:id/match
//	POST /imports/relate
//	POST /imports/shipments/:id/emit
//	POST /imports/batches/:id/emit
//	GET  /imports/progress/:batch
//
// Validation errors map to 400, unknown ids to 404 and units with nothing to
// emit to 422.
package imports
