package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"trafficctl/internal/config"
)

func TestConsoleWritesMarkers(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	ctx := context.Background()
	console.Success(ctx, "Location saved successfully!")
	console.Error(ctx, "Failed to load jobs")
	console.Info(ctx, "polling")

	out := buf.String()
	if !strings.Contains(out, "✔ Location saved successfully!") {
		t.Fatalf("missing success line: %q", out)
	}
	if !strings.Contains(out, "✖ Failed to load jobs") {
		t.Fatalf("missing error line: %q", out)
	}
	if !strings.Contains(out, "• polling") {
		t.Fatalf("missing info line: %q", out)
	}
}

func TestConsoleSkipsEmptyMessages(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)
	console.Info(context.Background(), "   ")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestNewServiceWithoutTopicIsConsoleOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	if _, ok := NewService(&cfg).(*Console); !ok {
		t.Fatal("expected bare console notifier when no topic configured")
	}
}

func TestRecorderCapturesByKind(t *testing.T) {
	rec := &Recorder{}
	ctx := context.Background()
	rec.Success(ctx, "one")
	rec.Error(ctx, "two")
	rec.Success(ctx, "three")

	got := rec.ByKind(KindSuccess)
	if len(got) != 2 || got[0] != "one" || got[1] != "three" {
		t.Fatalf("unexpected success messages: %#v", got)
	}
}
