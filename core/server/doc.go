// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure and its validation: listen port, API key and the
// request body limit applied to the Fiber application.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by cmd/start to configure Fiber.
package server
