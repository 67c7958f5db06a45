package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"trafficctl/internal/config"
)

const userAgent = "trafficctl/0.1.0"

// Kind classifies a notification for presentation.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

// Notifier is the user-visible notification surface. Every user-triggered
// action reports its outcome here; delivery is best-effort and never blocks
// the action's result.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
	Info(ctx context.Context, message string)
}

// NewService builds the default notifier: console output, fanned out to ntfy
// when a topic is configured.
func NewService(cfg *config.Config) Notifier {
	console := NewConsole(os.Stderr)
	if cfg == nil {
		return console
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return console
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	push := &ntfyNotifier{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
	return fanout{console, push}
}

// Console renders notifications as single colored lines.
type Console struct {
	mu       sync.Mutex
	writer   io.Writer
	colorize bool
}

// NewConsole builds a console notifier writing to w. Color is applied only
// when w is a terminal.
func NewConsole(w io.Writer) *Console {
	colorize := false
	if file, ok := w.(*os.File); ok {
		fd := file.Fd()
		colorize = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return &Console{writer: w, colorize: colorize}
}

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

func (c *Console) Success(_ context.Context, message string) { c.write(KindSuccess, message) }

func (c *Console) Error(_ context.Context, message string) { c.write(KindError, message) }

func (c *Console) Info(_ context.Context, message string) { c.write(KindInfo, message) }

func (c *Console) write(kind Kind, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	marker := "•"
	color := ansiBlue
	switch kind {
	case KindSuccess:
		marker = "✔"
		color = ansiGreen
	case KindError:
		marker = "✖"
		color = ansiRed
	}
	line := marker + " " + message
	if c.colorize {
		line = color + line + ansiReset
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.writer, line)
}

type ntfyNotifier struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyNotifier) Success(ctx context.Context, message string) {
	n.send(ctx, "trafficctl", message, "white_check_mark")
}

func (n *ntfyNotifier) Error(ctx context.Context, message string) {
	n.send(ctx, "trafficctl - Error", message, "rotating_light")
}

func (n *ntfyNotifier) Info(ctx context.Context, message string) {
	n.send(ctx, "trafficctl", message, "")
}

func (n *ntfyNotifier) send(ctx context.Context, title, message, tags string) {
	if n == nil || n.client == nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if title != "" {
		req.Header.Set("Title", title)
	}
	if tags != "" {
		req.Header.Set("Tags", tags)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

type fanout []Notifier

func (f fanout) Success(ctx context.Context, message string) {
	for _, n := range f {
		n.Success(ctx, message)
	}
}

func (f fanout) Error(ctx context.Context, message string) {
	for _, n := range f {
		n.Error(ctx, message)
	}
}

func (f fanout) Info(ctx context.Context, message string) {
	for _, n := range f {
		n.Info(ctx, message)
	}
}

// Recorder captures notifications for tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []Recorded
}

// Recorded is a single captured notification.
type Recorded struct {
	Kind    Kind
	Message string
}

func (r *Recorder) Success(_ context.Context, message string) { r.record(KindSuccess, message) }

func (r *Recorder) Error(_ context.Context, message string) { r.record(KindError, message) }

func (r *Recorder) Info(_ context.Context, message string) { r.record(KindInfo, message) }

func (r *Recorder) record(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Recorded{Kind: kind, Message: message})
}

// ByKind returns the captured messages matching kind, in order.
func (r *Recorder) ByKind(kind Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.Messages {
		if m.Kind == kind {
			out = append(out, m.Message)
		}
	}
	return out
}
