// Package http implements the gateway's HTTP API handlers.
package http
