// Package progress stores the pollable progress of long-running imports.
//
// A run owns its key (the batch id) and is the only writer; readers poll with Get.
// Once a run reaches a terminal stage ("completed" or "error") the entry stays
// readable for a grace period and is then evicted, so the store never grows
// without bound.
//
// Two backends exist: Memory for a single instance and Redis for deployments
// where the progress endpoint may be served by another instance than the one
// running the import.
package progress
