// Package http implements the authority's HTTP transport layer.
//
// It exposes route wiring, request handlers, and middleware for the
// session handshake and the banking API. Tracing, access logging and
// session-token authentication are handled here before requests are
// delegated to the service layer. Every body exchanged after the
// handshake travels AES-CBC encrypted under the negotiated session key.
package http
