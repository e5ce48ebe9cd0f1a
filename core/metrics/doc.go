// Package metrics declares the Prometheus collectors of the import pipeline.
// They are registered on the default registry and exposed at /metrics.
package metrics
