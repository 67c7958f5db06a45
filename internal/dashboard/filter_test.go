package dashboard_test

import (
	"testing"

	"trafficctl/internal/dashboard"
	"trafficctl/internal/jobs"
)

func TestFilterMatchesJobNumberAndName(t *testing.T) {
	records := []jobs.JobRecord{
		{ID: 1, JobNumber: "JOB-100", Name: "Peachtree St"},
		{ID: 2, JobNumber: "JOB-200", Name: "Midtown Count"},
		{ID: 3, JobNumber: "XYZ-1", Name: "peachtree connector"},
	}

	got := dashboard.Filter(records, "peachtree")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("Filter(peachtree) = %+v", got)
	}

	got = dashboard.Filter(records, "job-2")
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("Filter(job-2) = %+v", got)
	}
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	records := []jobs.JobRecord{{ID: 1}, {ID: 2}}
	if got := dashboard.Filter(records, "  "); len(got) != 2 {
		t.Fatalf("Filter(blank) = %+v", got)
	}
}

func TestFilterNoMatches(t *testing.T) {
	records := []jobs.JobRecord{{ID: 1, JobNumber: "JOB-1", Name: "A"}}
	if got := dashboard.Filter(records, "missing"); len(got) != 0 {
		t.Fatalf("Filter(missing) = %+v", got)
	}
}
