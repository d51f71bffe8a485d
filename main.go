// Package main implements the entry point and system initialization for DriveMapper.
//
// This package handles:
//   - Single instance checking to prevent concurrent reconciliation runs
//   - System dependency validation (the net command on Windows)
//   - Signal handling for clean shutdown
//   - Headless flag-driven runs (--map, --unmap, --check, --readd)
//   - TUI initialization and execution
//
// Two drives mapped to the same letter by concurrent processes would fight
// over OS state, so only one DriveMapper instance may run at a time.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"drivemapper/internal"
	"drivemapper/internal/drives"

	tea "github.com/charmbracelet/bubbletea"
)

// lockFilePath is the singleton instance lock file. It lives in the system
// temp directory so it works on Windows and during development elsewhere.
var lockFilePath = filepath.Join(os.TempDir(), "drivemapper.lock")

// checkSingleInstance verifies that no other DriveMapper process is running.
// It checks for the lock file and validates that the recorded PID is still
// alive. Stale lock files are cleaned up automatically.
func checkSingleInstance() error {
	if _, err := os.Stat(lockFilePath); err == nil {
		lockContent, readErr := os.ReadFile(lockFilePath)
		if readErr == nil {
			pid := strings.TrimSpace(string(lockContent))
			if pid != "" {
				if pidInt, err := strconv.Atoi(pid); err == nil {
					if process, err := os.FindProcess(pidInt); err == nil {
						// FindProcess only opens a handle on Windows, so a
						// successful open means the process is alive there.
						// Elsewhere signal 0 probes for existence.
						if runtime.GOOS == "windows" {
							return fmt.Errorf("another DriveMapper process is already running (PID: %s)", pid)
						}
						if err := process.Signal(syscall.Signal(0)); err == nil {
							return fmt.Errorf("another DriveMapper process is already running (PID: %s)", pid)
						}
					}
				}
			}
		}
		// Stale lock file, remove it
		os.Remove(lockFilePath)
	}
	return nil
}

// createInstanceLock writes the current PID to the lock file.
func createInstanceLock() error {
	pid := fmt.Sprintf("%d", os.Getpid())
	return os.WriteFile(lockFilePath, []byte(pid), 0644)
}

// removeInstanceLock deletes the lock file so new instances can start.
func removeInstanceLock() {
	os.Remove(lockFilePath)
}

// checkSystemDependencies validates that the mount tooling is available.
// Everything goes through the net command, so that is the single hard
// requirement on Windows. Off Windows there is nothing to check; commands
// will fail at run time with a clear stderr line instead.
func checkSystemDependencies() error {
	if runtime.GOOS != "windows" {
		return nil
	}
	if _, err := exec.LookPath("net"); err != nil {
		return fmt.Errorf("the 'net' command is required but not available in PATH")
	}
	return nil
}

// consoleSink prints the plain event stream to stdout for headless runs and
// mirrors every event into slog, which SetupLogging(true) routes to both the
// log file and stderr.
type consoleSink struct{}

func (consoleSink) Emit(e drives.Event) {
	if e.Kind == drives.EventError {
		slog.Error(e.Message)
	} else {
		slog.Info(e.Message)
	}
	fmt.Println(e.Message)
}

// runHeadless performs a single reconciliation operation without the TUI and
// returns the process exit code: 0 when every record succeeded, 1 otherwise.
func runHeadless(op drives.Operation) int {
	logFile, err := internal.SetupLogging(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	defer logFile.Close()

	settings, err := internal.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		return 1
	}

	runner := drives.ShellRunner{}
	status := drives.NewStatusReader(runner, nil)
	reconciler := drives.NewReconciler(runner, status, consoleSink{})

	outcomes := reconciler.Run(op, settings.DriveMappings, false)
	if err := internal.SaveSettings(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save settings: %v\n", err)
		return 1
	}

	succeeded, failed := drives.Tally(outcomes)
	fmt.Printf("%s finished: %d succeeded, %d failed.\n", op, succeeded, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func main() {
	showVersion := flag.Bool("version", false, "print the version and exit")
	doMap := flag.Bool("map", false, "map all configured drives and exit")
	doUnmap := flag.Bool("unmap", false, "unmap all mapped drives and exit")
	doCheck := flag.Bool("check", false, "check mapping status and exit")
	doReAdd := flag.Bool("readd", false, "remove and re-add all drives and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(internal.GetFullVersionString())
		return
	}

	// Check for another instance
	if err := checkSingleInstance(); err != nil {
		fmt.Println("⚠️  " + err.Error())
		fmt.Printf("💡 If no other DriveMapper is running, remove the lock file: %s\n", lockFilePath)
		os.Exit(1)
	}

	if err := createInstanceLock(); err != nil {
		fmt.Printf("❌ Failed to create instance lock: %v\n", err)
		os.Exit(1)
	}
	defer removeInstanceLock()

	if err := checkSystemDependencies(); err != nil {
		fmt.Printf("❌ Dependency check failed: %v\n", err)
		os.Exit(1)
	}

	// Clean exit on signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		removeInstanceLock()
		os.Exit(1)
	}()

	switch {
	case *doMap:
		code := runHeadless(drives.OpMap)
		removeInstanceLock()
		os.Exit(code)
	case *doUnmap:
		code := runHeadless(drives.OpUnmap)
		removeInstanceLock()
		os.Exit(code)
	case *doCheck:
		code := runHeadless(drives.OpCheck)
		removeInstanceLock()
		os.Exit(code)
	case *doReAdd:
		code := runHeadless(drives.OpReAdd)
		removeInstanceLock()
		os.Exit(code)
	}

	runTUI()
}

// runTUI starts the interactive interface.
func runTUI() {
	logFile, err := internal.SetupLogging(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	settings, err := internal.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}
	settingsPath, err := internal.SettingsPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve settings path: %v\n", err)
		os.Exit(1)
	}

	session := internal.NewSession(settings, settingsPath, drives.ShellRunner{})
	m := internal.InitialModel(session)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
