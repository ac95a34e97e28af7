// Package ws pushes launch progress to UI clients over WebSocket.
//
// The Hub is the Publisher of restoration sessions: every accepted status
// change becomes a "status" message. Publish runs while the status registry
// is locked, so it only queues messages; a writer goroutine per client
// drains the queue. New clients receive a welcome message and the latest
// status. Clients may send {"type":"ping"} or {"type":"status"}.
package ws
