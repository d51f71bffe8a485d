// Package drives implements the network drive mapping engine.
// This module reads the current mount state and computes free drive letters.
package drives

import (
	"log/slog"
	"strings"
)

// netUseMarkers are the status column values that identify a mount record in
// the "net use" report. The match is case-sensitive: the report is
// column-aligned human text and these markers are how real records are told
// apart from headers and separators.
var netUseMarkers = []string{"OK", "Disconnected", "Connecting"}

// StatusReader queries the operating system for currently mapped drives.
type StatusReader struct {
	Runner Runner
	Logger *slog.Logger
}

// NewStatusReader returns a StatusReader using the given runner.
func NewStatusReader(runner Runner, logger *slog.Logger) *StatusReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusReader{Runner: runner, Logger: logger}
}

// CurrentMounts runs "net use" and parses the mapped drives from its report.
// A command-level error degrades to an empty set: mount state observation is
// advisory and callers compare against it rather than depend on it.
func (s *StatusReader) CurrentMounts() []ObservedMount {
	stdout, stderr := s.Runner.Run("net use")
	if stdout == "" {
		if stderr != "" {
			s.Logger.Error("error retrieving mapped drives", "stderr", stderr)
		}
		return nil
	}
	return ParseNetUse(stdout)
}

// ParseNetUse extracts observed mounts from "net use" report text.
// A line is a mount record only if it begins with one of the status markers
// and splits into at least three whitespace-delimited fields: the marker, the
// drive letter, and the remote path. Everything else (headers, separators,
// completion messages) is skipped. This is a best-effort parse of free text,
// not a strict grammar.
func ParseNetUse(output string) []ObservedMount {
	var mounts []ObservedMount
	for _, line := range strings.Split(output, "\n") {
		if !hasMarker(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		mounts = append(mounts, ObservedMount{Drive: fields[1], UNCPath: fields[2]})
	}
	return mounts
}

func hasMarker(line string) bool {
	for _, marker := range netUseMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// FreeLetters returns the drive letters "A:".."Z:" that are neither currently
// mounted nor present in excluding, in alphabetical order. On any failure to
// observe the current state it fails open and only honors excluding: letter
// allocation is a suggestion, not a safety check.
func (s *StatusReader) FreeLetters(excluding []string) []string {
	used := make(map[string]bool, len(excluding)+8)
	for _, mount := range s.CurrentMounts() {
		used[strings.ToUpper(mount.Drive)] = true
	}
	for _, letter := range excluding {
		used[strings.ToUpper(NormalizeDriveLetter(letter))] = true
	}

	free := make([]string, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		letter := string(c) + ":"
		if !used[letter] {
			free = append(free, letter)
		}
	}
	return free
}

// IsDriveMapped reports whether the observed set contains a mount with the
// given letter (case-insensitive) and remote path (case-insensitive).
func IsDriveMapped(mounts []ObservedMount, drive, uncPath string) bool {
	for _, mount := range mounts {
		if strings.EqualFold(mount.Drive, drive) && strings.EqualFold(mount.UNCPath, uncPath) {
			return true
		}
	}
	return false
}
