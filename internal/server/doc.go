// Package server wires the gateway together: configuration, logging,
// the filesystem provider, HTTP and websocket transports.
package server
