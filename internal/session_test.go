package internal

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivemapper/internal/drives"
)

// gateRunner blocks every command until released, so tests can hold an
// operation in flight at a known point.
type gateRunner struct {
	entered chan struct{}
	release chan struct{}
	stdout  string
}

func (g *gateRunner) Run(string) (string, string) {
	g.entered <- struct{}{}
	<-g.release
	return g.stdout, ""
}

func newGateRunner(stdout string) *gateRunner {
	return &gateRunner{
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
		stdout:  stdout,
	}
}

// drainUntilDone consumes session messages until the operation completes.
func drainUntilDone(t *testing.T, s *Session) OpDoneMsg {
	t.Helper()
	for i := 0; i < 64; i++ {
		if done, ok := s.Wait()().(OpDoneMsg); ok {
			return done
		}
	}
	t.Fatal("no OpDoneMsg received")
	return OpDoneMsg{}
}

// Discovery mutates the desired-state list, so it must not run while an
// operation owns the records: it skips instead of merging concurrently.
func TestDiscoverySkipsWhileOperationInFlight(t *testing.T) {
	runner := newGateRunner("OK           Z:        \\\\server\\share    Microsoft Windows Network")
	settings := &Settings{DriveMappings: []*drives.Mapping{
		{Drive: "Y:", UNCPath: `\\server\other`, Mapped: drives.MappedYes},
	}}
	path := filepath.Join(t.TempDir(), "drive_settings.json")
	session := NewSession(settings, path, runner)

	require.True(t, session.Start(drives.OpCheck, false))
	<-runner.entered // the operation goroutine is inside its net use query

	msg := session.DiscoverExisting()()
	discovered, ok := msg.(DiscoveredMsg)
	require.True(t, ok)
	assert.Empty(t, discovered.Added)
	assert.Len(t, settings.DriveMappings, 1)

	close(runner.release)
	drainUntilDone(t, session)
}

// The busy slot is symmetric: while discovery holds it, no operation starts.
func TestStartRefusedWhileDiscoveryInFlight(t *testing.T) {
	runner := newGateRunner("OK           Z:        \\\\server\\share    Microsoft Windows Network")
	settings := DefaultSettings()
	path := filepath.Join(t.TempDir(), "drive_settings.json")
	session := NewSession(settings, path, runner)

	result := make(chan tea.Msg, 1)
	go func() {
		result <- session.DiscoverExisting()()
	}()
	<-runner.entered // discovery is inside its net use query

	assert.False(t, session.Start(drives.OpCheck, false))

	close(runner.release)
	discovered, ok := (<-result).(DiscoveredMsg)
	require.True(t, ok)
	assert.Equal(t, []string{"Z:"}, discovered.Added)
	require.Len(t, settings.DriveMappings, 1)
	assert.Equal(t, "Z:", settings.DriveMappings[0].Drive)
	assert.Equal(t, drives.MappedYes, settings.DriveMappings[0].Mapped)

	assert.True(t, session.Start(drives.OpCheck, false))
	<-runner.entered
	drainUntilDone(t, session)
}
