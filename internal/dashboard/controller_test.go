package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"trafficctl/internal/dashboard"
	"trafficctl/internal/jobs"
	"trafficctl/internal/notify"
	"trafficctl/internal/services/traffic"
)

type fakeAPI struct {
	records []jobs.JobRecord
	err     error
	calls   int
}

func (f *fakeAPI) DashboardJobs(context.Context) ([]jobs.JobRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func TestRefreshReplacesJobsWholesale(t *testing.T) {
	api := &fakeAPI{records: []jobs.JobRecord{{ID: 1, JobNumber: "JOB-1"}, {ID: 2, JobNumber: "JOB-2"}}}
	ctrl := dashboard.NewController(api, &notify.Recorder{}, nil, time.Second)

	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if got := ctrl.Snapshot(); len(got.Jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(got.Jobs))
	}

	api.records = []jobs.JobRecord{{ID: 3, JobNumber: "JOB-3"}}
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	got := ctrl.Snapshot()
	if len(got.Jobs) != 1 || got.Jobs[0].ID != 3 {
		t.Fatalf("jobs = %+v, want only JOB-3", got.Jobs)
	}
}

func TestRefreshMapsMissingCredential(t *testing.T) {
	api := &fakeAPI{err: traffic.ErrNoCredential}
	ctrl := dashboard.NewController(api, &notify.Recorder{}, nil, time.Second)

	err := ctrl.Refresh(context.Background())
	if !errors.Is(err, dashboard.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if snap := ctrl.Snapshot(); snap.Err == nil {
		t.Fatal("snapshot missing error state")
	}
}

func TestRefreshIgnoresLateResponseAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &fakeAPI{records: []jobs.JobRecord{{ID: 1}}}
	ctrl := dashboard.NewController(api, &notify.Recorder{}, nil, time.Second)

	cancel()
	if err := ctrl.Refresh(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if snap := ctrl.Snapshot(); len(snap.Jobs) != 0 {
		t.Fatalf("state written after cancel: %+v", snap.Jobs)
	}
}

func TestHighlightAnnouncesExactlyOnce(t *testing.T) {
	api := &fakeAPI{records: []jobs.JobRecord{{ID: 5, JobNumber: "JOB-5", Status: jobs.StatusAnalyzing}}}
	recorder := &notify.Recorder{}
	ctrl := dashboard.NewController(api, recorder, nil, time.Second)
	ctrl.SetHighlight(5)

	for i := 0; i < 3; i++ {
		if err := ctrl.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh %d returned error: %v", i, err)
		}
	}

	got := recorder.ByKind(notify.KindSuccess)
	if len(got) != 1 {
		t.Fatalf("success notifications = %v, want exactly one", got)
	}
	if got[0] != "Job JOB-5 is now being analyzed!" {
		t.Fatalf("notification = %q", got[0])
	}
}

func TestHighlightWaitsForJobToAppear(t *testing.T) {
	api := &fakeAPI{records: []jobs.JobRecord{{ID: 1, JobNumber: "JOB-1"}}}
	recorder := &notify.Recorder{}
	ctrl := dashboard.NewController(api, recorder, nil, time.Second)
	ctrl.SetHighlight(9)

	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if got := recorder.ByKind(notify.KindSuccess); len(got) != 0 {
		t.Fatalf("announced before job appeared: %v", got)
	}

	api.records = append(api.records, jobs.JobRecord{ID: 9, JobNumber: "JOB-9"})
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if got := recorder.ByKind(notify.KindSuccess); len(got) != 1 {
		t.Fatalf("success notifications = %v", got)
	}
}

func TestTakeScrollTargetConsumesOnce(t *testing.T) {
	api := &fakeAPI{records: []jobs.JobRecord{{ID: 5, JobNumber: "JOB-5"}}}
	ctrl := dashboard.NewController(api, &notify.Recorder{}, nil, time.Second)
	ctrl.SetHighlight(5)

	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if got := ctrl.TakeScrollTarget(); got != 5 {
		t.Fatalf("first take = %d, want 5", got)
	}
	if got := ctrl.TakeScrollTarget(); got != 0 {
		t.Fatalf("second take = %d, want 0", got)
	}
}

func TestRunStopsOnMissingCredential(t *testing.T) {
	api := &fakeAPI{err: traffic.ErrNoCredential}
	ctrl := dashboard.NewController(api, &notify.Recorder{}, nil, 10*time.Millisecond)

	err := ctrl.Run(context.Background(), nil)
	if !errors.Is(err, dashboard.ErrNotAuthenticated) {
		t.Fatalf("Run error = %v, want ErrNotAuthenticated", err)
	}
	if api.calls != 1 {
		t.Fatalf("calls = %d, want 1", api.calls)
	}
}

func TestRunPollsUntilCancelled(t *testing.T) {
	api := &fakeAPI{records: []jobs.JobRecord{{ID: 1, JobNumber: "JOB-1"}}}
	ctrl := dashboard.NewController(api, &notify.Recorder{}, nil, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	updates := 0
	err := ctrl.Run(ctx, func(dashboard.Snapshot) {
		updates++
		if updates >= 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if updates < 3 {
		t.Fatalf("updates = %d, want at least 3", updates)
	}
}
