// Package server serves a routekit application over HTTP.
//
// Every GET that is not claimed by a fixed endpoint goes through the
// history fallback: the request URL is mapped to an application location
// by the router's history strategy, resolved against the route table, and
// the matched view is rendered inside the HTML document. Locations that do
// not match render the NotFound view with status 404, so deep links behave
// the same on the server as they do in the client.
//
// Fixed endpoints:
//
//	GET /healthz   liveness probe
//	GET /metrics   Prometheus metrics, when enabled
//	GET /_nav      navigation channel (WebSocket)
//	GET /assets/*  client bundle from the asset store
//
// # Navigation Channel
//
// Each WebSocket connection owns a navigator, so back and forward are
// tracked per client. Clients send JSON messages:
//
//	{"op": "push", "to": "/login?next=/"}
//	{"op": "replace", "to": "/"}
//	{"op": "back"}
//	{"op": "forward"}
//	{"op": "go", "delta": -2}
//
// and receive a "location", "no_match" or "error" message in reply.
package server
