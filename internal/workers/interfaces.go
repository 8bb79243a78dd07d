// Package workers provides abstractions for managing and running
// background workers of the field client.
// It defines the Worker interface and a Workers aggregate that runs
// several workers side by side until their context is cancelled.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Implementations are expected to block until ctx is done.
type Worker interface {
	Run(ctx context.Context)
}
