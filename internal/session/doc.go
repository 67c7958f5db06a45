// Package session persists the authenticated session between CLI
// invocations.
//
// The Manager is constructed once per command and handed to the API client
// as its token source, so credential lookup is explicit rather than ambient.
// Init stores the bearer token after login, Clear removes it on logout, and
// ExpiresAt lets commands warn about stale tokens before calling out.
package session
