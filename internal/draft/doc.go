// Package draft models an in-progress traffic survey job: the form fields,
// the survey type selection, the staged video batch, and the coordinate
// selection state machine.
package draft
