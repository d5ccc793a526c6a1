// Package server runs the inbound HTTP server of the synchronization
// service and shuts it down gracefully when its context is cancelled.
package server
