// Package mcp implements the Model Context Protocol method surface on top
// of JSON-RPC 2.0: initialize, tools/list, tools/call, and the
// notifications/initialized notification.
//
// The Dispatcher is the single protocol engine. It is stateless and
// reentrant, so the stdio, HTTP, and SSE transports all share one
// instance; each transport only frames bytes and forwards them here.
// Notifications never produce a response object, and transports must not
// write anything for them.
package mcp
