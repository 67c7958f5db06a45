// Package traffic is the HTTP gateway to the traffic analysis backend.
//
// The Client wraps every REST endpoint the CLI consumes: credential
// exchange, job creation and video upload, dashboard and history listings,
// report resolution and download, and the example asset gallery. Authorized
// requests pull their bearer token from an injected TokenSource so no
// ambient credential state exists; a missing token fails fast with
// ErrNoCredential before any network traffic.
//
// Failures surface as *APIError values carrying the backend's optional
// detail string, which callers use verbatim in user-facing messages.
package traffic
