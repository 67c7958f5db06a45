package traffic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"trafficctl/internal/jobs"
)

// CreateJobRequest carries the scalar draft fields for job creation.
type CreateJobRequest struct {
	Name            string `json:"name"`
	JobNumber       string `json:"job_number"`
	Latitude        string `json:"latitude"`
	Longitude       string `json:"longitude"`
	AdditionalNotes string `json:"additional_notes"`
	SurveyHours     string `json:"survey_hours"`
	SurveyTypes     string `json:"survey_types"`
}

// CreateJob creates a job from draft scalar fields and returns the server's
// record, including the identifier that keys the upload phase.
func (c *Client) CreateJob(ctx context.Context, reqBody CreateJobRequest) (jobs.JobRecord, error) {
	if strings.TrimSpace(reqBody.Name) == "" {
		return jobs.JobRecord{}, errors.New("job name must not be empty")
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return jobs.JobRecord{}, fmt.Errorf("encode job payload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/jobs/create/", bytes.NewReader(body), true)
	if err != nil {
		return jobs.JobRecord{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var record jobs.JobRecord
	if err := c.doJSON(req, &record); err != nil {
		return jobs.JobRecord{}, fmt.Errorf("create job: %w", err)
	}
	return record, nil
}

// UploadVideos attaches the staged files to a job as a single multipart
// batch, one `files` part per file in order.
func (c *Client) UploadVideos(ctx context.Context, jobID int64, paths []string) error {
	if len(paths) == 0 {
		return errors.New("no files to upload")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, path := range paths {
		if err := appendFilePart(writer, "files", path); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	endpoint := fmt.Sprintf("/jobs/%d/upload-videos/", jobID)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, body, true)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("upload videos: %w", err)
	}
	return nil
}

// UploadVideo sends a single video through the standalone upload endpoint.
func (c *Client) UploadVideo(ctx context.Context, path string) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := appendFilePart(writer, "file", path); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/videos/upload/", body, true)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("upload video: %w", err)
	}
	return nil
}

func appendFilePart(writer *multipart.Writer, field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open video %q: %w", path, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy video %q: %w", path, err)
	}
	return nil
}

// GetJob fetches the full job detail for hydration.
func (c *Client) GetJob(ctx context.Context, id int64) (jobs.JobRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/jobs/%d/", id), nil, true)
	if err != nil {
		return jobs.JobRecord{}, err
	}
	var record jobs.JobRecord
	if err := c.doJSON(req, &record); err != nil {
		return jobs.JobRecord{}, fmt.Errorf("fetch job %d: %w", id, err)
	}
	return record, nil
}

// DashboardJobs lists jobs for the polling dashboard.
func (c *Client) DashboardJobs(ctx context.Context) ([]jobs.JobRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/jobs/dashboard/", nil, true)
	if err != nil {
		return nil, err
	}
	var records []jobs.JobRecord
	if err := c.doJSON(req, &records); err != nil {
		return nil, fmt.Errorf("fetch dashboard: %w", err)
	}
	return records, nil
}

// HistoricalJobs lists completed and analyzing jobs for the history view.
func (c *Client) HistoricalJobs(ctx context.Context) ([]jobs.JobRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/jobs/historical/", nil, true)
	if err != nil {
		return nil, err
	}
	var records []jobs.JobRecord
	if err := c.doJSON(req, &records); err != nil {
		return nil, fmt.Errorf("fetch historical surveys: %w", err)
	}
	return records, nil
}
