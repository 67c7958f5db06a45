// Package reports resolves the newest generated report for a completed job
// and downloads it to local disk.
package reports
