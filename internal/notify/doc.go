// Package notify delivers transient user-facing notifications.
//
// The console notifier is the primary surface: single colored lines on
// stderr, the CLI equivalent of the dashboard's toast messages. When an
// ntfy topic is configured the same notifications fan out as push messages
// on a best-effort basis; delivery failures are swallowed so a flaky push
// endpoint never affects command outcomes.
package notify
