// Package api contains the HTTP handlers for the presentation pipeline:
// deck upload, task status polling and spoken Q&A. Handlers depend on
// narrow consumer-side interfaces over the service layer and translate
// internal errors to sanitized JSON responses.
package api
