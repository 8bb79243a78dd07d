// Package server runs the backup receiver's HTTP transport.
//
// It provides startup, signal handling and graceful shutdown of the HTTP
// server built from the handler layer.
package server
