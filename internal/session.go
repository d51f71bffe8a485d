// Package internal provides the operation session that bridges the
// reconciliation engine and the TUI.
//
// One session owns the desired-state list for the lifetime of the program.
// Reconciliation runs on a background goroutine so the Bubble Tea event loop
// stays responsive, with a compare-and-swap busy flag guaranteeing at most
// one operation in flight: a second request while one is running is refused,
// not queued. Engine events are forwarded both to slog and to the TUI over a
// channel.
package internal

import (
	"log/slog"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"drivemapper/internal/drives"
)

// Messages delivered to the Bubble Tea model while an operation runs.
type (
	// OpLogMsg is one progress line for the scrolling operation log.
	OpLogMsg string

	// OpErrorMsg is a discrete failure notice, in addition to its log line.
	OpErrorMsg string

	// OpDoneMsg signals that an operation finished, with its outcome tally.
	OpDoneMsg struct {
		Op       drives.Operation
		Outcomes []drives.Outcome
	}

	// ImportConflictMsg asks the presentation layer to resolve a drive
	// letter collision during import. The answer (true = replace) must be
	// sent on Answer exactly once.
	ImportConflictMsg struct {
		Existing drives.Mapping
		Incoming drives.Mapping
		Answer   chan<- bool
	}

	// ImportDoneMsg signals that an import finished.
	ImportDoneMsg struct {
		Result ImportResult
		Err    error
	}

	// DiscoveredMsg reports mounts found at startup that were merged into
	// the desired-state list.
	DiscoveredMsg struct {
		Added []string
	}
)

// Session owns the settings document and serializes operations against it.
type Session struct {
	Settings *Settings

	path       string
	reconciler *drives.Reconciler
	status     *drives.StatusReader
	events     chan tea.Msg
	busy       atomic.Bool
}

// sessionSink forwards engine events to slog and to the TUI channel.
type sessionSink struct {
	events chan<- tea.Msg
}

func (s sessionSink) Emit(e drives.Event) {
	switch e.Kind {
	case drives.EventError:
		slog.Error(e.Message)
		s.events <- OpErrorMsg(e.Message)
	default:
		slog.Info(e.Message)
		s.events <- OpLogMsg(e.Message)
	}
}

// NewSession wires a session around a settings document. settingsPath is
// where saves go; runner executes the mount commands.
func NewSession(settings *Settings, settingsPath string, runner drives.Runner) *Session {
	events := make(chan tea.Msg, 64)
	status := drives.NewStatusReader(runner, slog.Default())
	return &Session{
		Settings:   settings,
		path:       settingsPath,
		reconciler: drives.NewReconciler(runner, status, sessionSink{events: events}),
		status:     status,
		events:     events,
	}
}

// Status exposes the mount state reader for free-letter suggestions.
func (s *Session) Status() *drives.StatusReader {
	return s.status
}

// Busy reports whether an operation is currently in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Wait returns a command that delivers the next session message to the model.
func (s *Session) Wait() tea.Cmd {
	return func() tea.Msg {
		return <-s.events
	}
}

// Start launches a reconciliation operation over the whole desired-state
// list. Returns false if another operation is already in flight; nothing is
// queued in that case.
func (s *Session) Start(op drives.Operation, onlySelected bool) bool {
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer s.busy.Store(false)
		outcomes := s.reconciler.Run(op, s.Settings.DriveMappings, onlySelected)
		s.events <- OpDoneMsg{Op: op, Outcomes: outcomes}
	}()
	return true
}

// StartImport merges mappings from path in the background. Conflicts are
// routed to the model as ImportConflictMsg and the import goroutine blocks
// until the model answers.
func (s *Session) StartImport(path string) bool {
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer s.busy.Store(false)
		result, err := ImportMappings(path, s.Settings, func(existing, incoming *drives.Mapping) bool {
			answer := make(chan bool, 1)
			s.events <- ImportConflictMsg{Existing: *existing, Incoming: *incoming, Answer: answer}
			return <-answer
		})
		if err == nil {
			err = s.Save()
		}
		s.events <- ImportDoneMsg{Result: result, Err: err}
	}()
	return true
}

// DiscoverExisting returns a command that merges currently observed mounts
// into the desired-state list, saving when anything new appears. Run once at
// startup so mounts created outside the application become managed.
//
// The merge mutates the desired-state list, so it claims the same busy slot
// as Start. If an operation is already in flight the discovery is skipped
// rather than queued; the records are owned by that operation.
func (s *Session) DiscoverExisting() tea.Cmd {
	return func() tea.Msg {
		if !s.busy.CompareAndSwap(false, true) {
			return DiscoveredMsg{}
		}
		defer s.busy.Store(false)

		added := MergeObserved(s.Settings, s.status.CurrentMounts())
		if len(added) > 0 {
			if err := s.Save(); err != nil {
				slog.Error("failed to save discovered mappings", "error", err)
			}
			slog.Info("imported existing mapped drives", "drives", added)
		}
		return DiscoveredMsg{Added: added}
	}
}

// Save persists the settings document.
func (s *Session) Save() error {
	return SaveSettingsTo(s.path, s.Settings)
}
