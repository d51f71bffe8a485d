package drives

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSink collects events in order for assertions.
type recordSink struct {
	events []Event
}

func (s *recordSink) Emit(e Event) {
	s.events = append(s.events, e)
}

func (s *recordSink) errors() []string {
	var messages []string
	for _, e := range s.events {
		if e.Kind == EventError {
			messages = append(messages, e.Message)
		}
	}
	return messages
}

func newTestReconciler(runner *stubRunner) (*Reconciler, *recordSink) {
	if runner.responses == nil {
		runner.responses = make(map[string]string)
	}
	sink := &recordSink{}
	return NewReconciler(runner, NewStatusReader(runner, nil), sink), sink
}

func mapping(drive, path string) *Mapping {
	return &Mapping{Drive: drive, UNCPath: path, Mapped: MappedNo}
}

func TestMap_Success(t *testing.T) {
	runner := &stubRunner{}
	rec, sink := newTestReconciler(runner)
	m := mapping("Z:", `\\server\share`)

	outcomes := rec.Map([]*Mapping{m}, false)

	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Succeeded)
	assert.Equal(t, MappedYes, m.Mapped)
	assert.Contains(t, runner.commands, `net use Z: "\\server\share" /persistent:no`)
	assert.Empty(t, sink.errors())
}

func TestMap_WithCredentials(t *testing.T) {
	runner := &stubRunner{}
	rec, _ := newTestReconciler(runner)
	m := mapping("Z:", `\\server\share`)
	m.UseCredentials = true
	m.Username = "corp\\alice"
	m.Password = "hunter2"

	rec.Map([]*Mapping{m}, false)

	assert.Contains(t, runner.commands,
		`net use Z: "\\server\share" "hunter2" /user:corp\alice /persistent:no`)
}

func TestMap_AlreadyMappedSkipsCommand(t *testing.T) {
	runner := &stubRunner{netUseOut: `OK           Z:        \\server\share            Microsoft Windows Network`}
	rec, _ := newTestReconciler(runner)
	m := mapping("Z:", `\\SERVER\Share`) // case differs, still the same mount

	outcomes := rec.Map([]*Mapping{m}, false)

	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Succeeded)
	assert.Contains(t, outcomes[0].Message, "already mapped")
	assert.Equal(t, MappedYes, m.Mapped)
	// Only the state query ran; no mount command was issued.
	assert.Equal(t, []string{"net use"}, runner.commands)
}

func TestMap_SecondPassIssuesNoCommands(t *testing.T) {
	runner := &stubRunner{netUseOut: `OK           Z:        \\server\share            x`}
	rec, _ := newTestReconciler(runner)
	m := mapping("Z:", `\\server\share`)

	rec.Map([]*Mapping{m}, false)
	before := len(runner.commands)
	rec.Map([]*Mapping{m}, false)

	// The second pass adds exactly one more state query and nothing else.
	assert.Equal(t, before+1, len(runner.commands))
	assert.Equal(t, before+1, runner.count("net use"))
}

func TestMap_TrailingBackslashRetry(t *testing.T) {
	first := `net use Z: "\\server\share\" /persistent:no`
	retry := `net use Z: "\\server\share" /persistent:no`
	runner := &stubRunner{responses: map[string]string{
		first: "System error 67 has occurred.",
	}}
	rec, sink := newTestReconciler(runner)
	m := mapping("Z:", `\\server\share\`)

	outcomes := rec.Map([]*Mapping{m}, false)

	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Succeeded)
	assert.Equal(t, 1, runner.count(first))
	assert.Equal(t, 1, runner.count(retry))
	// The stripped path is the effective remembered path.
	assert.Equal(t, `\\server\share`, m.UNCPath)
	assert.Equal(t, MappedYes, m.Mapped)
	assert.Empty(t, sink.errors())
}

func TestMap_RetryAlsoFails(t *testing.T) {
	first := `net use Z: "\\server\share\" /persistent:no`
	retry := `net use Z: "\\server\share" /persistent:no`
	runner := &stubRunner{responses: map[string]string{
		first: "System error 67 has occurred.",
		retry: "System error 53 has occurred.",
	}}
	rec, sink := newTestReconciler(runner)
	m := mapping("Z:", `\\server\share\`)

	outcomes := rec.Map([]*Mapping{m}, false)

	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Succeeded)
	// The retry's error text is what gets propagated.
	assert.Contains(t, outcomes[0].Message, "System error 53")
	assert.Equal(t, MappedNo, m.Mapped)
	require.Len(t, sink.errors(), 1)
}

func TestMap_NoRetryWithoutTrailingBackslash(t *testing.T) {
	cmd := `net use Z: "\\server\share" /persistent:no`
	runner := &stubRunner{responses: map[string]string{
		cmd: "System error 53 has occurred.",
	}}
	rec, sink := newTestReconciler(runner)
	m := mapping("Z:", `\\server\share`)

	outcomes := rec.Map([]*Mapping{m}, false)

	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Succeeded)
	assert.Equal(t, 1, runner.count(cmd))
	// One state query, one mount attempt, zero retries.
	assert.Len(t, runner.commands, 2)
	require.Len(t, sink.errors(), 1)
	assert.Contains(t, sink.errors()[0], "System error 53")
}

func TestMap_OnlySelectedSkipsSilently(t *testing.T) {
	runner := &stubRunner{}
	rec, sink := newTestReconciler(runner)
	selected := mapping("Y:", `\\srv\b`)
	selected.Selected = true
	skipped := mapping("Z:", `\\srv\a`)

	outcomes := rec.Map([]*Mapping{skipped, selected}, true)

	require.Len(t, outcomes, 1)
	assert.Equal(t, "Y:", outcomes[0].Drive)
	for _, e := range sink.events {
		assert.NotContains(t, e.Message, "Z:")
	}
}

func TestUnmap_Selected(t *testing.T) {
	runner := &stubRunner{}
	rec, _ := newTestReconciler(runner)
	m := mapping("Z:", `\\srv\a`)
	m.Selected = true
	m.Mapped = MappedYes

	outcomes := rec.Unmap([]*Mapping{m}, true)

	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Succeeded)
	assert.Equal(t, MappedNo, m.Mapped)
	assert.Equal(t, []string{"net use Z: /delete /y"}, runner.commands)
}

func TestUnmap_DefaultScopeIsMappedRecords(t *testing.T) {
	runner := &stubRunner{}
	rec, _ := newTestReconciler(runner)
	mapped := mapping("Y:", `\\srv\b`)
	mapped.Mapped = MappedYes
	unmapped := mapping("Z:", `\\srv\a`)

	outcomes := rec.Unmap([]*Mapping{unmapped, mapped}, false)

	// With nothing selected, only currently-mapped records are targeted.
	require.Len(t, outcomes, 1)
	assert.Equal(t, "Y:", outcomes[0].Drive)
	assert.Equal(t, []string{"net use Y: /delete /y"}, runner.commands)
}

func TestUnmap_FailureLeavesStatus(t *testing.T) {
	runner := &stubRunner{responses: map[string]string{
		"net use Z: /delete /y": "System error 2250 has occurred.",
	}}
	rec, sink := newTestReconciler(runner)
	m := mapping("Z:", `\\srv\a`)
	m.Mapped = MappedYes

	outcomes := rec.Unmap([]*Mapping{m}, false)

	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Succeeded)
	assert.Equal(t, MappedYes, m.Mapped)
	require.Len(t, sink.errors(), 1)
}

func TestCheck_SingleQueryAndReadOnly(t *testing.T) {
	runner := &stubRunner{netUseOut: `OK           Z:        \\srv\a            x`}
	rec, _ := newTestReconciler(runner)
	present := mapping("z:", `\\SRV\A`)
	absent := mapping("Y:", `\\srv\b`)
	absent.Mapped = MappedYes

	outcomes := rec.Check([]*Mapping{present, absent})

	require.Len(t, outcomes, 2)
	assert.Equal(t, MappedYes, present.Mapped)
	assert.Equal(t, MappedNo, absent.Mapped)
	// Exactly one state query for the whole operation, nothing else.
	assert.Equal(t, []string{"net use"}, runner.commands)
}

func TestReAdd_UnmapsThenMapsUnconditionally(t *testing.T) {
	// The observed state claims Z: is already correct; re-add must remount
	// it anyway.
	runner := &stubRunner{netUseOut: `OK           Z:        \\srv\a            x`}
	rec, _ := newTestReconciler(runner)
	a := mapping("Z:", `\\srv\a`)
	a.Mapped = MappedYes
	b := mapping("Y:", `\\srv\b`)

	outcomes := rec.ReAdd([]*Mapping{a, b})

	require.Len(t, outcomes, 2)
	assert.Equal(t, []string{
		"net use Z: /delete /y",
		"net use Y: /delete /y",
		`net use Z: "\\srv\a" /persistent:no`,
		`net use Y: "\\srv\b" /persistent:no`,
	}, runner.commands)
	assert.True(t, outcomes[0].Succeeded)
	assert.True(t, outcomes[1].Succeeded)
}

func TestReAdd_UnmapErrorsAreNonFatal(t *testing.T) {
	runner := &stubRunner{responses: map[string]string{
		"net use Z: /delete /y": "System error 2250 has occurred.",
	}}
	rec, sink := newTestReconciler(runner)
	m := mapping("Z:", `\\srv\a`)

	outcomes := rec.ReAdd([]*Mapping{m})

	// The failed delete is logged but the map phase still runs and succeeds.
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Succeeded)
	require.Len(t, sink.errors(), 1)
	assert.Contains(t, sink.errors()[0], "unmapping")
}

func TestRun_Dispatch(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpMap, "map"},
		{OpUnmap, "unmap"},
		{OpCheck, "check"},
		{OpReAdd, "re-add"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())

			runner := &stubRunner{}
			rec, _ := newTestReconciler(runner)
			m := mapping("Q:", `\\srv\q`)
			m.Mapped = MappedYes
			outcomes := rec.Run(tt.op, []*Mapping{m}, false)
			require.Len(t, outcomes, 1)
		})
	}
}

func TestTally(t *testing.T) {
	outcomes := []Outcome{
		{Drive: "X:", Succeeded: true},
		{Drive: "Y:", Succeeded: false},
		{Drive: "Z:", Succeeded: true},
	}
	succeeded, failed := Tally(outcomes)
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, failed)
}

func TestMap_BatchContinuesPastFailures(t *testing.T) {
	bad := `net use Y: "\\srv\bad" /persistent:no`
	runner := &stubRunner{responses: map[string]string{
		bad: "System error 53 has occurred.",
	}}
	rec, _ := newTestReconciler(runner)
	mappings := []*Mapping{
		mapping("Y:", `\\srv\bad`),
		mapping("Z:", `\\srv\good`),
	}

	outcomes := rec.Map(mappings, false)

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Succeeded)
	assert.True(t, outcomes[1].Succeeded)
}

func TestMountCommand_Forms(t *testing.T) {
	plain := mountCommand("Z:", `\\srv\a`, false, "", "")
	assert.Equal(t, `net use Z: "\\srv\a" /persistent:no`, plain)

	withCreds := mountCommand("Z:", `\\srv\a`, true, "alice", "pw")
	assert.Equal(t, `net use Z: "\\srv\a" "pw" /user:alice /persistent:no`, withCreds)
}

func ExampleTally() {
	succeeded, failed := Tally([]Outcome{{Succeeded: true}, {Succeeded: false}})
	fmt.Println(succeeded, failed)
	// Output: 1 1
}
