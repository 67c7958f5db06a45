package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"trafficctl/internal/jobs"
	"trafficctl/internal/logging"
	"trafficctl/internal/notify"
	"trafficctl/internal/services/traffic"
)

// API is the subset of the traffic client the resolver needs.
type API interface {
	ListReports(ctx context.Context, jobID int64) ([]jobs.ReportRecord, error)
	DownloadReport(ctx context.Context, jobID, reportID int64) (*traffic.ReportDownload, error)
}

// ErrDownloadInFlight indicates a download for the same job is already
// running.
var ErrDownloadInFlight = errors.New("report download already in flight")

// ErrNoReports indicates the job has no generated reports yet.
var ErrNoReports = errors.New("no reports available")

// Resolver picks the newest report for a job and downloads it into the
// download directory. Concurrent downloads for different jobs may overlap;
// a second request for the same job is rejected until the first finishes.
type Resolver struct {
	api         API
	notifier    notify.Notifier
	logger      *slog.Logger
	downloadDir string

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewResolver builds a resolver saving into downloadDir.
func NewResolver(api API, notifier notify.Notifier, logger *slog.Logger, downloadDir string) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		api:         api,
		notifier:    notifier,
		logger:      logger,
		downloadDir: downloadDir,
		inFlight:    make(map[int64]struct{}),
	}
}

// Latest returns the report with the newest generation time. Ties keep the
// earlier list entry.
func Latest(records []jobs.ReportRecord) (jobs.ReportRecord, bool) {
	if len(records) == 0 {
		return jobs.ReportRecord{}, false
	}
	best := records[0]
	for _, record := range records[1:] {
		if record.GeneratedAt.After(best.GeneratedAt.Time) {
			best = record
		}
	}
	return best, true
}

// FetchLatest resolves and downloads the newest report for the job,
// returning the saved file path.
func (r *Resolver) FetchLatest(ctx context.Context, jobID int64) (string, error) {
	if !r.begin(jobID) {
		return "", ErrDownloadInFlight
	}
	defer r.finish(jobID)

	records, err := r.api.ListReports(ctx, jobID)
	if err != nil {
		return "", fmt.Errorf("list reports: %w", err)
	}
	latest, ok := Latest(records)
	if !ok {
		r.notifier.Info(ctx, "No reports available for this job")
		return "", ErrNoReports
	}

	if err := r.ensureDownloadDir(); err != nil {
		return "", err
	}

	download, err := r.api.DownloadReport(ctx, jobID, latest.ID)
	if err != nil {
		if detail := traffic.Detail(err); detail != "" {
			r.notifier.Error(ctx, detail)
		} else {
			r.notifier.Error(ctx, "Failed to download report")
		}
		return "", fmt.Errorf("download report: %w", err)
	}

	name := Filename(download.ContentDisposition, latest.FilePath, jobID)
	target := filepath.Join(r.downloadDir, name)
	if err := writeAtomic(target, download.Data); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	r.logger.Info("report saved", "job_id", jobID, "report_id", latest.ID, "path", target)
	r.notifier.Success(ctx, "Report downloaded successfully!")
	return target, nil
}

func (r *Resolver) begin(jobID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[jobID]; busy {
		return false
	}
	r.inFlight[jobID] = struct{}{}
	return true
}

func (r *Resolver) finish(jobID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, jobID)
}

func (r *Resolver) ensureDownloadDir() error {
	if err := os.MkdirAll(r.downloadDir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	if err := unix.Access(r.downloadDir, unix.W_OK); err != nil {
		return fmt.Errorf("download dir %s not writable: %w", r.downloadDir, err)
	}
	return nil
}

// Filename resolves the saved file name: the Content-Disposition filename
// when present, then the last segment of the server file path, then a
// job-derived fallback.
func Filename(contentDisposition, filePath string, jobID int64) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := strings.TrimSpace(params["filename"]); name != "" {
				return path.Base(name)
			}
		}
	}
	if filePath != "" {
		if name := path.Base(strings.ReplaceAll(filePath, "\\", "/")); name != "." && name != "/" {
			return name
		}
	}
	return fmt.Sprintf("report_%d.xlsx", jobID)
}

func writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".report-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
