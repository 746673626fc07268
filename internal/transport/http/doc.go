// Package http contains the chi handlers that expose the dashboard over
// HTTP: session lifecycle and events, instrument options, dataset exports,
// health probes, and the websocket attach point for live chart pushes.
// Handlers translate raw interactions into tagged reducer events and map
// domain errors to RFC 7807 responses; no business logic lives here.
package http
