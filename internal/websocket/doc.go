// Package websocket pushes job and data-update events to browser clients.
//
// A Hub owns the set of connected clients and fans every event out to
// them from a single goroutine. Each Client runs a read pump and a write
// pump. Events are wrapped in a Message envelope:
//
//	{"type":"job:progress","data":{...},"timestamp":"2025-01-01T10:00:00Z"}
package websocket
