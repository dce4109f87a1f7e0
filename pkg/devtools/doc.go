// Package devtools inspects a running reactor runtime.
//
// A Hub is attached to a runtime with reactive.WithEventSink. It keeps the
// last events (flushes, hooks, errors, warnings, mounts) and streams them to
// WebSocket clients. NewServer exposes the hub, a component tree snapshot
// and prometheus metrics over HTTP. S3Exporter uploads a timeline for later
// analysis.
//
//	hub := devtools.NewHub(1000)
//	rt := reactive.New(reactive.WithEventSink(hub))
//	http.ListenAndServe(":7070", devtools.NewServer(hub, devtools.ServerOptions{}))
package devtools
