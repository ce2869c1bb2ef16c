// Package ws implements the websocket streaming transport. Each
// connection multiplexes independent tool calls correlated by frame ID.
package ws
