// Package http implements the inbound HTTP surface of the synchronization
// service: the remote webhook endpoint and the manual synchronization
// endpoints. Tracing and access logging are handled here before requests
// reach the service layer.
package http
