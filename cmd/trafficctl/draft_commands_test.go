package main

import (
	"testing"
)

func TestDraftLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"draft", "new"}, env.configPath)
	if err != nil {
		t.Fatalf("draft new: %v", err)
	}
	requireContains(t, out, "Started a new job draft")

	if _, _, err := runCLI(t, []string{"draft", "set", "--job-number", "JOB-77", "--notes", "weekend"}, env.configPath); err != nil {
		t.Fatalf("draft set: %v", err)
	}

	out, _, err = runCLI(t, []string{"draft", "types", "toggle", "Speed Study"}, env.configPath)
	if err != nil {
		t.Fatalf("draft types toggle: %v", err)
	}
	requireContains(t, out, "Selected Speed Study")

	// Draft state survives across invocations.
	out, _, err = runCLI(t, []string{"draft", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("draft show: %v", err)
	}
	requireContains(t, out, "JOB-77")
	requireContains(t, out, "Speed Study")

	out, _, err = runCLI(t, []string{"draft", "types", "toggle", "Speed Study"}, env.configPath)
	if err != nil {
		t.Fatalf("draft types toggle off: %v", err)
	}
	requireContains(t, out, "Deselected Speed Study")

	out, _, err = runCLI(t, []string{"draft", "discard"}, env.configPath)
	if err != nil {
		t.Fatalf("draft discard: %v", err)
	}
	requireContains(t, out, "Draft discarded")

	if _, _, err := runCLI(t, []string{"draft", "show"}, env.configPath); err == nil {
		t.Fatal("draft show succeeded after discard")
	}
}

func TestDraftLocationFlow(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"draft", "new"}, env.configPath); err != nil {
		t.Fatalf("draft new: %v", err)
	}

	// Picking a point before editing is rejected.
	if _, _, err := runCLI(t, []string{"draft", "location", "point", "34.0", "-85.0"}, env.configPath); err == nil {
		t.Fatal("location point succeeded outside editing")
	}

	if _, _, err := runCLI(t, []string{"draft", "location", "edit"}, env.configPath); err != nil {
		t.Fatalf("location edit: %v", err)
	}
	if _, _, err := runCLI(t, []string{"draft", "location", "point", "34.0", "-85.0"}, env.configPath); err != nil {
		t.Fatalf("location point: %v", err)
	}
	if _, _, err := runCLI(t, []string{"draft", "location", "save"}, env.configPath); err != nil {
		t.Fatalf("location save: %v", err)
	}

	out, _, err := runCLI(t, []string{"draft", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("draft show: %v", err)
	}
	requireContains(t, out, "34, -85 (saved)")
}

func TestDraftFilesOrdering(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"draft", "new"}, env.configPath); err != nil {
		t.Fatalf("draft new: %v", err)
	}
	if _, _, err := runCLI(t, []string{"draft", "files", "add", "a.mp4", "b.mp4"}, env.configPath); err != nil {
		t.Fatalf("files add: %v", err)
	}
	out, _, err := runCLI(t, []string{"draft", "files", "add", "a.mp4"}, env.configPath)
	if err != nil {
		t.Fatalf("files add duplicate: %v", err)
	}
	requireContains(t, out, "3 total")

	if _, _, err := runCLI(t, []string{"draft", "files", "remove", "1"}, env.configPath); err != nil {
		t.Fatalf("files remove: %v", err)
	}
	out, _, err = runCLI(t, []string{"draft", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("draft show: %v", err)
	}
	requireContains(t, out, "a.mp4")
	if _, _, err := runCLI(t, []string{"draft", "files", "remove", "9"}, env.configPath); err == nil {
		t.Fatal("files remove accepted out-of-range index")
	}
}
