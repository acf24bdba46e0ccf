// Package transport frames JSON-RPC messages for the three ways clients
// reach the server: newline-delimited JSON on stdio, unary HTTP POST, and
// an SSE stream paired with POSTs to the announced endpoint.
//
// Transports never interpret protocol semantics. They hand raw or decoded
// requests to the shared mcp.Dispatcher and write back whatever it
// returns; when the dispatcher says a message is not deliverable (a
// notification) the transport emits nothing, which on HTTP means an empty
// 204 response.
package transport
