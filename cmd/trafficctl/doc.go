// Command trafficctl is the CLI client for the traffic survey analysis
// service: drafting and submitting jobs, watching the analysis dashboard,
// and downloading generated reports.
package main
