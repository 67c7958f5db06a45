package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"trafficctl/internal/jobs"
	"trafficctl/internal/logging"
	"trafficctl/internal/notify"
	"trafficctl/internal/services/traffic"
)

// API is the subset of the traffic client the dashboard needs.
type API interface {
	DashboardJobs(ctx context.Context) ([]jobs.JobRecord, error)
}

// ErrNotAuthenticated indicates no session token is available for polling.
var ErrNotAuthenticated = errors.New("No authentication token found")

// Snapshot is a point-in-time copy of the dashboard state.
type Snapshot struct {
	Jobs      []jobs.JobRecord
	Err       error
	UpdatedAt time.Time
}

// Controller polls the dashboard job list on a fixed interval and manages
// the post-submission highlight handshake.
type Controller struct {
	api      API
	notifier notify.Notifier
	logger   *slog.Logger
	interval time.Duration

	mu        sync.Mutex
	jobs      []jobs.JobRecord
	lastErr   error
	updatedAt time.Time

	highlightID  int64
	announced    bool
	scrollTarget int64
}

// NewController builds a controller polling at the given interval.
func NewController(api API, notifier notify.Notifier, logger *slog.Logger, interval time.Duration) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Controller{api: api, notifier: notifier, logger: logger, interval: interval}
}

// SetHighlight arms the highlight handshake for the given job. The next
// refresh that sees the job announces it once and records a scroll target.
func (c *Controller) SetHighlight(jobID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.highlightID = jobID
	c.announced = false
}

// HighlightID returns the armed highlight target, zero when none.
func (c *Controller) HighlightID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlightID
}

// TakeScrollTarget returns the pending scroll target and clears it. The
// second call returns zero until a new highlight lands.
func (c *Controller) TakeScrollTarget() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.scrollTarget
	c.scrollTarget = 0
	return target
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := Snapshot{Err: c.lastErr, UpdatedAt: c.updatedAt}
	out.Jobs = make([]jobs.JobRecord, len(c.jobs))
	copy(out.Jobs, c.jobs)
	return out
}

// Refresh fetches the job list once and replaces the state wholesale.
// Cancellation is checked before any state write so a stopped controller
// never records a late response.
func (c *Controller) Refresh(ctx context.Context) error {
	fetched, err := c.api.DashboardJobs(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		if errors.Is(err, traffic.ErrNoCredential) {
			err = ErrNotAuthenticated
		}
		c.mu.Lock()
		c.lastErr = err
		c.updatedAt = time.Now()
		c.mu.Unlock()
		return err
	}

	for _, job := range fetched {
		if !job.Status.Known() {
			c.logger.Warn("unrecognized job status", "job_id", job.ID, "status", string(job.Status))
		}
	}

	c.mu.Lock()
	c.jobs = fetched
	c.lastErr = nil
	c.updatedAt = time.Now()
	highlightID := c.highlightID
	announced := c.announced
	c.mu.Unlock()

	if highlightID != 0 && !announced {
		c.announceHighlight(ctx, fetched, highlightID)
	}
	return nil
}

func (c *Controller) announceHighlight(ctx context.Context, fetched []jobs.JobRecord, highlightID int64) {
	for _, job := range fetched {
		if job.ID != highlightID {
			continue
		}
		c.mu.Lock()
		if c.announced {
			c.mu.Unlock()
			return
		}
		c.announced = true
		c.scrollTarget = highlightID
		c.mu.Unlock()
		c.notifier.Success(ctx, fmt.Sprintf("Job %s is now being analyzed!", job.JobNumber))
		return
	}
}

// Run polls until the context is cancelled. The first fetch happens
// immediately; a missing credential stops the loop, while transient fetch
// errors are recorded and polling continues.
func (c *Controller) Run(ctx context.Context, onUpdate func(Snapshot)) error {
	refresh := func() error {
		err := c.Refresh(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if errors.Is(err, ErrNotAuthenticated) {
			return err
		}
		if err != nil {
			c.logger.Warn("dashboard refresh failed", "error", err)
		}
		if onUpdate != nil {
			onUpdate(c.Snapshot())
		}
		return nil
	}

	if err := refresh(); err != nil {
		return err
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := refresh(); err != nil {
				return err
			}
		}
	}
}
