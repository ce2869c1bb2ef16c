// Command server runs the filesystem gateway: a path-confined
// file-access service exposing its operations over HTTP and websocket.
package main
