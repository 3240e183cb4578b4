// Package server wires and runs the application's HTTP transport.
//
// It provides startup, signal handling, and graceful shutdown around an
// [net/http.Server]. Both the authority and the storage tier reuse it
// with their own routers.
package server
