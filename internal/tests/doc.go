// Package tests holds end-to-end tests that run the RESP server, the admin
// HTTP server and the CLI client together over loopback TCP.
package tests
