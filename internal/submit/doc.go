// Package submit runs the two-phase job submission: create the job record,
// then upload the staged video batch. The phases are deliberately not
// atomic.
package submit
