// Package connection provides connection management for taskhub-cli.
//
// This package manages connections to TaskHub servers:
//
//   - http.go: HTTP/HTTPS client with bearer token authentication
//
// The client holds at most one bearer token at a time; a login replaces
// the previous token for all subsequent requests.
package connection
