package traffic

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"trafficctl/internal/jobs"
)

const spreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListReports fetches the reports generated for a job.
func (c *Client) ListReports(ctx context.Context, jobID int64) ([]jobs.ReportRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/jobs/%d/reports/", jobID), nil, true)
	if err != nil {
		return nil, err
	}
	var records []jobs.ReportRecord
	if err := c.doJSON(req, &records); err != nil {
		return nil, fmt.Errorf("fetch reports for job %d: %w", jobID, err)
	}
	return records, nil
}

// ReportDownload is a fetched report binary plus the headers needed for
// filename resolution.
type ReportDownload struct {
	Data               []byte
	ContentType        string
	ContentDisposition string
}

// DownloadReport fetches a report's binary content as an opaque blob.
func (c *Client) DownloadReport(ctx context.Context, jobID, reportID int64) (*ReportDownload, error) {
	endpoint := fmt.Sprintf("/jobs/%d/reports/%d/download", jobID, reportID)
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", spreadsheetContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download report %d: %w", reportID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download report %d: %w", reportID, decodeAPIError(resp))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read report %d: %w", reportID, err)
	}
	return &ReportDownload{
		Data:               data,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
	}, nil
}
