package cli

import (
	"context"
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

	"github.com/galacticcic/galacticcic/internal/cache"
	"github.com/galacticcic/galacticcic/internal/collector"
	"github.com/galacticcic/galacticcic/internal/config"
	"github.com/galacticcic/galacticcic/internal/errors"
	"github.com/galacticcic/galacticcic/internal/logger"
	"github.com/galacticcic/galacticcic/internal/runner"
	"github.com/galacticcic/galacticcic/internal/scheduler"
	"github.com/galacticcic/galacticcic/internal/store"
	"github.com/google/uuid"
)

// pidFileName is the daemon's PID file, written on start and removed on
// a clean stop. restart/status/stop all key off this file rather than
// any process-table scan.
const pidFileName = "daemon.pid"

// logFileName is the daemon's rolling log, tailed by `galacticcic logs`.
const logFileName = "collector.log"

// dbFileName is the metrics store's SQLite file.
const dbFileName = "metrics.db"

func pidFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, pidFileName), nil
}

func logFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

func dbPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFileName), nil
}

// readPID returns the PID recorded in the daemon's PID file, and
// whether that file exists at all.
func readPID() (int, bool, error) {
	path, err := pidFilePath()
	if err != nil {
		return 0, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, errors.WrapWithCode(err, errors.ErrDaemon, "could not read "+path, "")
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false, errors.WrapWithCode(err, errors.ErrDaemon, "pid file is corrupt", "Remove "+path+" and run 'galacticcic start' again.")
	}
	return pid, true, nil
}

func writePID(pid int) error {
	path, err := pidFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644)
}

func removePIDFile() {
	path, err := pidFilePath()
	if err != nil {
		return
	}
	_ = os.Remove(path)
}

// isRunning reports whether pid names a live process, by sending it the
// null signal rather than anything that would actually act on it.
func isRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

// runningDaemonPID returns the recorded PID if the daemon's PID file
// exists and names a still-live process; it cleans up a stale file
// left behind by a crash.
func runningDaemonPID() (int, bool, error) {
	pid, found, err := readPID()
	if err != nil || !found {
		return 0, false, err
	}
	if !isRunning(pid) {
		removePIDFile()
		return 0, false, nil
	}
	return pid, true, nil
}

// openStore opens the metrics store at its well-known path, creating
// the parent directory and running migrations as needed.
func openStore() (*store.Store, error) {
	path, err := dbPath()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "could not open the metrics database at "+path, "Check that the path is writable, or run 'galacticcic db path' to see where it's looked for.")
	}
	return s, nil
}

// buildDeps assembles the collector dependency bundle shared by the
// daemon loop and `galacticcic collect`.
func buildDeps(s *store.Store, log logger.Logger) *collector.Deps {
	var nmapActive int32
	return &collector.Deps{
		Runner:      runner.New(),
		Store:       s,
		HTTPClient:  &http.Client{Timeout: 5 * time.Second},
		DNSCache:    cache.NewDNSCache(s),
		GeoCache:    cache.NewGeoCache(s),
		NmapCache:   cache.NewNmapCache(s),
		SitrepCache: cache.NewSitrepCache(s),
		NmapActive:  &nmapActive,
		Log:         log,
	}
}

// runForeground opens the store, wires up the scheduler, and blocks
// until ctx is cancelled (SIGTERM/SIGINT) or the scheduler's shutdown
// grace period elapses. This is what both the re-exec'd background
// daemon and `galacticcic start --foreground` ultimately run.
func runForeground(ctx context.Context, log logger.Logger) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	runID := uuid.New().String()[:8]
	log = logger.WithRunID(log, runID)

	deps := buildDeps(s, log)
	sched := scheduler.New(deps, log)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	log.Info("daemon: started, pid %d", os.Getpid())
	sched.Run(ctx)
	log.Info("daemon: stopped")
	return nil
}

// daemonizeAndStart re-execs the current binary with --foreground,
// detached into its own session with output redirected to collector.log,
// and records its PID. The parent returns once the child is launched;
// it does not wait for the child to become ready.
func daemonizeAndStart() (int, error) {
	exePath, err := os.Executable()
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrDaemon, "could not locate the galacticcic binary", "")
	}

	logPath, err := logFilePath()
	if err != nil {
		return 0, err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrDaemon, "could not open "+logPath+" for writing", "")
	}
	defer logFile.Close()

	cmd := exec.Command(exePath, "start", "--foreground")
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrDaemon, "could not start the daemon process", "")
	}

	if err := writePID(cmd.Process.Pid); err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrDaemon, "daemon started but its pid file couldn't be written", fmt.Sprintf("It's running as pid %d; stop it with 'kill %d'.", cmd.Process.Pid, cmd.Process.Pid))
	}

	return cmd.Process.Pid, nil
}

// stopDaemon sends SIGTERM to the recorded PID and waits up to
// shutdownGrace for it to exit before giving up.
const shutdownGrace = 6 * time.Second

func stopDaemon(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrDaemon, "could not signal pid "+strconv.Itoa(pid), "")
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return errors.WrapWithCode(err, errors.ErrDaemon, "could not stop the daemon", "It may have already exited; check 'galacticcic status'.")
	}

	deadline := time.Now().Add(shutdownGrace)
	for time.Now().Before(deadline) {
		if !isRunning(pid) {
			removePIDFile()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return errors.New(errors.ErrDaemon, fmt.Sprintf("the daemon (pid %d) did not exit within %s", pid, shutdownGrace), fmt.Sprintf("Check 'galacticcic status', or stop it with 'kill -9 %d'.", pid))
}
