package server

// Server is the lifecycle contract for the authority and storage tier
// listeners.
//
// RunServer blocks until the process receives a termination signal or
// Shutdown is called; Shutdown drains in-flight requests and releases the
// listener.
type Server interface {
	RunServer()
	Shutdown()
}
