// Package prometheus renders authkit metrics in Prometheus text exposition
// format.
//
// [NewExporter] accepts an [authkit.Engine] and exposes an http.Handler
// that renders every counter and histogram. Counter names are prefixed
// authkit_*_total; the single histogram is authkit_authorize_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler themselves.
//   - Mutate engine state.
package prometheus
