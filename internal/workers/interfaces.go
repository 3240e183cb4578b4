// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// Start launches the worker's loop and returns immediately; the loop must
// exit when ctx is cancelled. Stop blocks until the loop has fully exited.
//
// Example implementation:
//
//	type MyWorker struct{ ... }
//
//	func (w *MyWorker) Start(ctx context.Context) { go w.loop(ctx) }
//	func (w *MyWorker) Stop()                     { ... }
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
