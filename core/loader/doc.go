// Package loader registers features and mounts their routes.
//
// A feature is anything implementing Feature: it names itself, says whether
// it is enabled and registers its routes on the router it is given. The
// start command registers features on a Manager and calls LoadAll once, after
// the global middleware is in place. Disabled features are skipped and the
// first Load error aborts startup.
package loader
