package server

import "context"

// Server defines the lifecycle of a transport server. It satisfies
// workers.Worker so it can run next to the scheduled jobs.
type Server interface {
	// Run serves requests until ctx is cancelled, then shuts down.
	Run(ctx context.Context) error
}
