// Package client implements the headless banking client.
//
// The client negotiates a session with the authority, logs into one
// account and runs a short sequence of operations: balance, history,
// an optional transfer, and the standing direct debits. There is no
// interactive surface; account, PIN and the optional transfer are taken
// from the environment.
package client
