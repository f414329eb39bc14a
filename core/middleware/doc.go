// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation. Scrape and documentation paths can be left
//     public.
//   - rayid: generates a request id (RayID) for every incoming request and
//     injects it into the context and response headers for tracing.
//
// Both are registered globally in cmd/start, rayid first so every log line of
// a request carries its id.
package middleware
