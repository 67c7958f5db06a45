// Package jobs defines the server-owned survey job model as seen by the
// client: job records, attached videos, generated reports, and the closed
// status enumeration with its presentation mapping.
package jobs
