// Package http implements the HTTP transport of the backup receiver.
//
// It exposes route wiring, the backup submission handler and the middleware
// used around it. Cross-cutting concerns such as panic recovery, request
// tracing and access logging are handled in this package before requests are
// delegated to the service layer.
package http
