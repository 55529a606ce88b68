package cmd

import (
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"remind", "--detach", "--interval", "30", "--detach=true"})
	want := []string{"remind", "--interval", "30"}
	if !slices.Equal(got, want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remind.pid")
	if err := writePID(path, 4242); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(path)
	if err != nil {
		t.Fatal(err)
	}
	if pid != 4242 {
		t.Fatalf("pid = %d, want 4242", pid)
	}

	if _, err := readPID(filepath.Join(t.TempDir(), "missing.pid")); err == nil {
		t.Fatal("missing pid file should error")
	}
}

func TestRuntimeStateRoundTrip(t *testing.T) {
	path := statePath(filepath.Join(t.TempDir(), "remind.pid"))
	in := remindRuntimeState{PID: 7, Addr: "127.0.0.1:8797", StartedAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), DataDir: "/tmp/h"}
	if err := writeState(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := readState(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.PID != in.PID || out.Addr != in.Addr || !out.StartedAt.Equal(in.StartedAt) || out.DataDir != in.DataDir {
		t.Fatalf("state = %+v, want %+v", out, in)
	}
}

func TestEnsureRemindNotRunningClearsStalePID(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "remind.pid")

	if err := ensureRemindNotRunning(pidFile); err != nil {
		t.Fatalf("no pid file: %v", err)
	}

	// PIDs above the kernel limit are never alive.
	if err := writePID(pidFile, 1<<30); err != nil {
		t.Fatal(err)
	}
	if err := ensureRemindNotRunning(pidFile); err != nil {
		t.Fatalf("stale pid: %v", err)
	}
	if _, err := readPID(pidFile); err == nil {
		t.Fatal("stale pid file should be removed")
	}
}
