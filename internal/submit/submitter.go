package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"trafficctl/internal/draft"
	"trafficctl/internal/jobs"
	"trafficctl/internal/logging"
	"trafficctl/internal/notify"
	"trafficctl/internal/services/traffic"
)

// API is the subset of the traffic client the submitter needs.
type API interface {
	CreateJob(ctx context.Context, req traffic.CreateJobRequest) (jobs.JobRecord, error)
	UploadVideos(ctx context.Context, jobID int64, paths []string) error
}

// ErrEmptyJobNumber indicates the draft has no job number to submit.
var ErrEmptyJobNumber = errors.New("draft has no job number")

// Result describes the outcome of a submission. UploadErr records a phase
// two failure; the job itself exists once JobID is set.
type Result struct {
	JobID     int64
	JobNumber string
	Uploaded  int
	UploadErr error
}

// Submitter runs the two-phase job submission: a metadata create followed
// by a video batch upload. The phases are not atomic; a job record survives
// an upload failure.
type Submitter struct {
	api      API
	notifier notify.Notifier
	logger   *slog.Logger
}

// New builds a submitter.
func New(api API, notifier notify.Notifier, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Submitter{api: api, notifier: notifier, logger: logger}
}

// Submit dispatches on the draft intent. Both intents post to the create
// endpoint; an update draft resubmits the revised fields as a new job
// record, mirroring how the backend treats edits.
func (s *Submitter) Submit(ctx context.Context, d *draft.Draft) (*Result, error) {
	switch d.Intent() {
	case draft.IntentUpdate:
		return s.submitUpdate(ctx, d)
	default:
		return s.submitCreate(ctx, d)
	}
}

func (s *Submitter) submitCreate(ctx context.Context, d *draft.Draft) (*Result, error) {
	return s.run(ctx, d)
}

func (s *Submitter) submitUpdate(ctx context.Context, d *draft.Draft) (*Result, error) {
	s.logger.Info("submitting revised job", "source_job_id", d.SourceJobID())
	return s.run(ctx, d)
}

func (s *Submitter) run(ctx context.Context, d *draft.Draft) (*Result, error) {
	if d.ReadOnly() {
		return nil, errors.New("draft is read-only")
	}
	if d.JobNumber() == "" {
		return nil, ErrEmptyJobNumber
	}

	lat, lng := d.CoordinateStrings()
	created, err := s.api.CreateJob(ctx, traffic.CreateJobRequest{
		Name:            d.JobNumber(),
		JobNumber:       d.JobNumber(),
		Latitude:        lat,
		Longitude:       lng,
		AdditionalNotes: d.Notes(),
		SurveyHours:     d.SurveyHours(),
		SurveyTypes:     d.SurveyTypesJoined(),
	})
	if err != nil {
		if detail := traffic.Detail(err); detail != "" {
			s.notifier.Error(ctx, detail)
		} else {
			s.notifier.Error(ctx, "Failed to create job")
		}
		return nil, fmt.Errorf("create job: %w", err)
	}

	result := &Result{JobID: created.ID, JobNumber: created.JobNumber}
	s.logger.Info("job created", "job_id", created.ID, "job_number", created.JobNumber)

	// Phase two runs only when files are staged. An upload failure is
	// recorded and logged but intentionally not announced; the job record
	// already exists and shows up on the dashboard without videos.
	if files := d.StagedFiles(); len(files) > 0 {
		if uploadErr := s.api.UploadVideos(ctx, created.ID, files); uploadErr != nil {
			s.logger.Error("video upload failed after job create",
				"job_id", created.ID, "files", len(files), "error", uploadErr)
			result.UploadErr = uploadErr
		} else {
			result.Uploaded = len(files)
		}
	}

	s.notifier.Success(ctx, "Job created successfully!")
	return result, nil
}
