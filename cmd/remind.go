package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hydrate/internal/cli"
	"github.com/theirongolddev/hydrate/internal/config"
	"github.com/theirongolddev/hydrate/internal/daemon"
	"github.com/theirongolddev/hydrate/internal/model"
	"github.com/theirongolddev/hydrate/internal/reminder"
	"github.com/theirongolddev/hydrate/internal/tracker"
	"github.com/theirongolddev/hydrate/internal/tui"
)

type remindRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DataDir   string    `json:"data_dir"`
}

var (
	flagRemindAddr         string
	flagRemindInterval     int
	flagRemindDetach       bool
	flagRemindPIDFile      string
	flagRemindLogFile      string
	flagRemindEventsBuffer int
	flagRemindChild        bool
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the reminder service with HTTP/SSE endpoints",
	Long: "Show a hydration reminder every interval while running. " +
		"Today's progress is re-read from the store on every reminder, so drinks logged " +
		"from other hydrate commands are reflected.",
	RunE: runRemind,
}

var remindStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show reminder process and API status",
	RunE:  runRemindStatus,
}

var remindStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running reminder service",
	RunE:  runRemindStop,
}

func init() {
	remindCmd.PersistentFlags().StringVar(&flagRemindAddr, "addr", "127.0.0.1:8797", "HTTP listen address")
	remindCmd.PersistentFlags().StringVar(&flagRemindPIDFile, "pid-file", "", "PID file path (default <data-dir>/remind.pid)")
	remindCmd.PersistentFlags().StringVar(&flagRemindLogFile, "log-file", "", "Output file for detached mode (default <data-dir>/remind.out)")

	remindCmd.Flags().IntVar(&flagRemindInterval, "interval", 0, "Minutes between reminders: 15, 30, 45, 60, 90 or 120 (default from config)")
	remindCmd.Flags().IntVar(&flagRemindEventsBuffer, "events-buffer", 200, "Max in-memory events retained")
	remindCmd.Flags().BoolVar(&flagRemindDetach, "detach", false, "Run as a background process")
	remindCmd.Flags().BoolVar(&flagRemindChild, "child", false, "Internal: mark detached child process")
	_ = remindCmd.Flags().MarkHidden("child")

	remindCmd.AddCommand(remindStatusCmd)
	remindCmd.AddCommand(remindStopCmd)
	rootCmd.AddCommand(remindCmd)
}

// remindPaths resolves the pid and output files against the data dir.
func remindPaths() (pidFile, logFile string) {
	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = loadConfigOrDefault().DataDir()
	}
	pidFile, logFile = flagRemindPIDFile, flagRemindLogFile
	if pidFile == "" {
		pidFile = filepath.Join(dataDir, "remind.pid")
	}
	if logFile == "" {
		logFile = filepath.Join(dataDir, "remind.out")
	}
	return pidFile, logFile
}

func runRemind(cmd *cobra.Command, _ []string) error {
	if flagRemindDetach && flagRemindChild {
		return errors.New("invalid reminder launch mode")
	}
	if flagRemindInterval != 0 && !model.ValidInterval(flagRemindInterval) {
		return fmt.Errorf("interval must be one of %v minutes", model.ReminderIntervals)
	}

	pidFile, logFile := remindPaths()
	if flagRemindDetach {
		return startRemindDetached(pidFile, logFile)
	}

	return runRemindForeground(cmd, pidFile)
}

func startRemindDetached(pidFile, logFile string) error {
	if err := ensureRemindNotRunning(pidFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	// Ask now; the detached child cannot prompt.
	if cfg := loadConfigOrDefault(); cfg.Permission() == model.PermissionUndetermined {
		perms := reminder.NewPermissions(cfg.Permission(), tui.PromptPermission, config.SavePermission)
		if _, err := perms.Request(); err != nil {
			return err
		}
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create reminder directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
		return fmt.Errorf("create reminder output directory: %w", err)
	}

	//nolint:gosec // output path is configured by the local user
	logf, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open reminder output file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached reminders: %w", err)
	}

	fmt.Printf("  Started reminders (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidFile)
	fmt.Printf("  API: http://%s/v1/status\n", flagRemindAddr)
	fmt.Printf("  Output: %s\n", logFile)
	return nil
}

func runRemindForeground(cmd *cobra.Command, pidFile string) error {
	if err := ensureRemindNotRunning(pidFile); err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create reminder directory: %w", err)
	}

	pid := os.Getpid()
	if err := writePID(pidFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(pidFile) }()

	state := remindRuntimeState{
		PID:       pid,
		Addr:      flagRemindAddr,
		StartedAt: time.Now(),
		DataDir:   sess.dataDir,
	}
	_ = writeState(statePath(pidFile), state)
	defer func() { _ = os.Remove(statePath(pidFile)) }()

	// A detached child has no terminal to prompt on.
	var prompt func() (bool, error)
	if !flagRemindChild {
		prompt = tui.PromptPermission
	}
	perms := reminder.NewPermissions(sess.cfg.Permission(), prompt, config.SavePermission)
	if _, err := perms.Request(); err != nil {
		sess.log.Warn("notification permission not recorded", "error", err)
	}
	if perms.State() != model.PermissionGranted {
		fmt.Printf("  %s\n", cli.WarnStyle.Render("Notifications are "+perms.State().String()+"; reminders will be skipped"))
	}

	interval := flagRemindInterval
	if interval == 0 {
		interval = sess.cfg.Reminders.IntervalMinutes
	}

	svc := daemon.New(daemon.Config{
		Addr:            flagRemindAddr,
		IntervalMinutes: interval,
		EventsBuffer:    flagRemindEventsBuffer,
		Goal:            sess.goal(),
		Template:        sess.cfg.Reminders.BodyTemplate,
	}, daemon.Deps{
		Store:    sess.kv,
		Clock:    tracker.SystemClock{},
		Notifier: &reminder.Gated{Perms: perms, Display: reminder.TerminalDisplay(os.Stdout, nil)},
		Logger:   sess.log,
	})

	fmt.Printf("  hydrate reminders listening on http://%s\n", flagRemindAddr)
	fmt.Printf("  Reminding every %s\n", model.IntervalLabel(interval))
	fmt.Printf("  Stop with: hydrate remind stop --pid-file %s\n", pidFile)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runRemindStatus(_ *cobra.Command, _ []string) error {
	pidFile, _ := remindPaths()
	pid, err := readPID(pidFile)
	if err != nil {
		fmt.Printf("  Reminders: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Reminders: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagRemindAddr
	if st, err := readState(statePath(pidFile)); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Reminder PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status check
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Uptime: %s\n", cli.FormatDuration(int64(time.Since(st.StartedAt).Seconds())))
	fmt.Printf("  Reminders: %s, every %s\n", st.Reminders, model.IntervalLabel(st.IntervalMinutes))
	fmt.Printf("  Notifications: %s\n", st.Permission)
	if st.LastReminderAt.IsZero() {
		fmt.Printf("  Last reminder: none yet\n")
	} else {
		fmt.Printf("  Last reminder: %s\n", cli.FormatAgo(st.LastReminderAt, time.Now()))
	}
	fmt.Printf("  Shown/skipped/failed: %d/%d/%d\n", st.Fired, st.Skipped, st.Failed)
	fmt.Printf("  Today: %s\n", cli.RenderGoalBar(st.Today.CurrentML, st.Today.GoalML, 20))
	return nil
}

func runRemindStop(_ *cobra.Command, _ []string) error {
	pidFile, _ := remindPaths()
	pid, err := readPID(pidFile)
	if err != nil {
		return errors.New("reminders are not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find reminder process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal reminder process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(pidFile)
			_ = os.Remove(statePath(pidFile))
			fmt.Printf("  Stopped reminders (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("reminders (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureRemindNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("reminders already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st remindRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (remindRuntimeState, error) {
	var st remindRuntimeState
	//nolint:gosec // state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
