// Package dashboard polls the active job list, filters it for display, and
// handles the post-submission highlight handshake.
package dashboard
