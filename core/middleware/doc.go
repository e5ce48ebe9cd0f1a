// Package middleware contains the HTTP middleware shared by every feature.
//
//   - auth: rejects requests without the configured X-API-Key. Path prefixes
//     listed in Config.Skip (swagger, metrics) stay public, and an empty key
//     turns the check off for local use.
//   - rayid: tags each request with an id, stored in the fiber locals and
//     echoed in the X-Ray-ID response header, so logger.WithRayID can
//     correlate the log lines of one upload.
//
// rayid must be registered before any middleware that logs.
package middleware
