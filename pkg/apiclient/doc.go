// Package apiclient is the small HTTP helper the upload box talks to its
// host through.
//
// Hosts answer every JSON or multipart call with a success envelope:
//
//	{"success": true, "message": "ok", "data": {...}}
//
// A call succeeds when the HTTP status is 2xx and the envelope says so;
// IsSuccess encodes that rule. Binary downloads bypass the envelope and
// come back as a Blob.
//
// Every request runs inside an OpenTelemetry client span and carries
// the trace context in its headers. Timeouts belong to the *http.Client
// supplied through WithHTTPClient.
package apiclient
