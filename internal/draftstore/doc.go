// Package draftstore persists the in-progress job draft between command
// invocations using a SQLite database in the state directory. A file lock
// keeps concurrent invocations from interleaving draft edits.
package draftstore
