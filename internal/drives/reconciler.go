// Package drives implements the network drive mapping engine.
// This module is the reconciliation state machine: it decides which mount and
// unmount commands to run for a desired-state list, executes them, and
// classifies each result from the command's error stream.
package drives

import (
	"fmt"
	"strings"
)

// Reconciler executes map/unmap/check/re-add operations over a desired-state
// list. Records are processed strictly in order; a per-record failure never
// aborts the rest of the batch. Events are delivered through Sink as the
// operation progresses.
type Reconciler struct {
	Runner Runner
	Status *StatusReader
	Sink   EventSink
}

// NewReconciler wires a reconciler from a runner and event sink.
func NewReconciler(runner Runner, status *StatusReader, sink EventSink) *Reconciler {
	return &Reconciler{Runner: runner, Status: status, Sink: sink}
}

func (r *Reconciler) log(format string, args ...interface{}) {
	r.Sink.Emit(Event{Kind: EventLog, Message: fmt.Sprintf(format, args...)})
}

// fail emits both the log line and the discrete error event for a failure, so
// callers can scroll one and surface the other.
func (r *Reconciler) fail(format string, args ...interface{}) string {
	message := fmt.Sprintf(format, args...)
	r.Sink.Emit(Event{Kind: EventLog, Message: message})
	r.Sink.Emit(Event{Kind: EventError, Message: message})
	return message
}

// mountCommand builds the net use command line for a mapping. The mount is
// always non-persistent: persistence is this engine's job, not the OS's.
func mountCommand(drive, uncPath string, useCredentials bool, username, password string) string {
	if useCredentials {
		return fmt.Sprintf(`net use %s "%s" "%s" /user:%s /persistent:no`, drive, uncPath, password, username)
	}
	return fmt.Sprintf(`net use %s "%s" /persistent:no`, drive, uncPath)
}

// Map maps each record in order. With onlySelected set, unselected records are
// skipped silently. A record already mounted at its letter and path succeeds
// without issuing a command.
func (r *Reconciler) Map(mappings []*Mapping, onlySelected bool) []Outcome {
	r.log("Starting to map network drives...")
	var outcomes []Outcome
	for _, m := range mappings {
		if onlySelected && !m.Selected {
			continue
		}
		r.log("Processing drive %s -> %s...", m.Drive, m.UNCPath)
		outcomes = append(outcomes, r.mapOne(m, true))
	}
	r.log("Drive mapping process completed.")
	return outcomes
}

// mapOne performs a single mount attempt, including the idempotence probe and
// the one-shot retry with trailing backslashes stripped. checkExisting is
// false during re-add, where the mount is forced regardless of current state.
func (r *Reconciler) mapOne(m *Mapping, checkExisting bool) Outcome {
	if checkExisting && IsDriveMapped(r.Status.CurrentMounts(), m.Drive, m.UNCPath) {
		m.Mapped = MappedYes
		message := fmt.Sprintf("Drive %s is already mapped to %s. Skipping.", m.Drive, m.UNCPath)
		r.log("%s", message)
		return Outcome{Drive: m.Drive, Succeeded: true, Message: message}
	}

	_, stderr := r.Runner.Run(mountCommand(m.Drive, m.UNCPath, m.UseCredentials, m.Username, m.Password))
	if stderr == "" {
		m.Mapped = MappedYes
		message := fmt.Sprintf("Successfully mapped drive %s to %s.", m.Drive, m.UNCPath)
		r.log("%s", message)
		return Outcome{Drive: m.Drive, Succeeded: true, Message: message}
	}

	// net use rejects trailing backslashes in some environments; retry once
	// with them stripped before giving up.
	if strings.HasSuffix(m.UNCPath, `\`) {
		retryPath := strings.TrimRight(m.UNCPath, `\`)
		_, retryErr := r.Runner.Run(mountCommand(m.Drive, retryPath, m.UseCredentials, m.Username, m.Password))
		if retryErr == "" {
			// The stripped form is what actually mounted; remember it.
			m.UNCPath = retryPath
			m.Mapped = MappedYes
			message := fmt.Sprintf("Successfully mapped drive %s to %s.", m.Drive, retryPath)
			r.log("%s", message)
			return Outcome{Drive: m.Drive, Succeeded: true, Message: message}
		}
		stderr = retryErr
	}

	m.Mapped = MappedNo
	message := r.fail("Error mapping drive %s: %s", m.Drive, stderr)
	return Outcome{Drive: m.Drive, Succeeded: false, Message: message}
}

// Unmap deletes the mapping for each eligible record. With onlySelected set,
// eligibility follows the Selected flag; otherwise the scope defaults to the
// records currently marked mapped, since deleting letters that were never
// mapped only produces noise errors.
func (r *Reconciler) Unmap(mappings []*Mapping, onlySelected bool) []Outcome {
	r.log("Starting to unmap network drives...")
	var outcomes []Outcome
	for _, m := range mappings {
		if onlySelected {
			if !m.Selected {
				continue
			}
		} else if !m.IsMapped() {
			continue
		}
		outcomes = append(outcomes, r.unmapOne(m))
	}
	r.log("Drive unmapping process completed.")
	return outcomes
}

// unmapOne deletes a single mapping. Only the drive letter matters to the
// delete command. The mapped status is cleared on success and left untouched
// on failure.
func (r *Reconciler) unmapOne(m *Mapping) Outcome {
	_, stderr := r.Runner.Run(fmt.Sprintf("net use %s /delete /y", m.Drive))
	if stderr != "" {
		message := r.fail("Error unmapping drive %s: %s", m.Drive, stderr)
		return Outcome{Drive: m.Drive, Succeeded: false, Message: message}
	}
	m.Mapped = MappedNo
	message := fmt.Sprintf("Successfully unmapped drive %s.", m.Drive)
	r.log("%s", message)
	return Outcome{Drive: m.Drive, Succeeded: true, Message: message}
}

// Check refreshes the Mapped status of every record against a single snapshot
// of the observed mounts. It issues no mount or unmount commands.
func (r *Reconciler) Check(mappings []*Mapping) []Outcome {
	r.log("Starting to check network drives...")
	observed := r.Status.CurrentMounts()
	outcomes := make([]Outcome, 0, len(mappings))
	for _, m := range mappings {
		mapped := IsDriveMapped(observed, m.Drive, m.UNCPath)
		if mapped {
			m.Mapped = MappedYes
			r.log("Drive %s -> %s is mapped.", m.Drive, m.UNCPath)
		} else {
			m.Mapped = MappedNo
			r.log("Drive %s -> %s is not mapped.", m.Drive, m.UNCPath)
		}
		outcomes = append(outcomes, Outcome{Drive: m.Drive, Succeeded: mapped})
	}
	r.log("Drive checking process completed.")
	return outcomes
}

// ReAdd force-remounts the entire list: every record is unmapped best-effort
// (errors logged, never fatal to the sequence), then every record is mapped
// unconditionally with the same retry rule as Map but no idempotence skip.
// Used to recover from stale mounts, e.g. after the host reboots.
func (r *Reconciler) ReAdd(mappings []*Mapping) []Outcome {
	r.log("Starting to remove and re-add network drives...")
	for _, m := range mappings {
		_, stderr := r.Runner.Run(fmt.Sprintf("net use %s /delete /y", m.Drive))
		if stderr != "" {
			r.fail("Error unmapping drive %s: %s", m.Drive, stderr)
		} else {
			r.log("Successfully unmapped drive %s.", m.Drive)
		}
	}

	outcomes := make([]Outcome, 0, len(mappings))
	for _, m := range mappings {
		outcomes = append(outcomes, r.mapOne(m, false))
	}
	r.log("Remove and re-add drives process completed.")
	return outcomes
}

// Run dispatches an operation by kind. onlySelected is ignored for Check and
// ReAdd, which always act on the whole list.
func (r *Reconciler) Run(op Operation, mappings []*Mapping, onlySelected bool) []Outcome {
	switch op {
	case OpMap:
		return r.Map(mappings, onlySelected)
	case OpUnmap:
		return r.Unmap(mappings, onlySelected)
	case OpCheck:
		return r.Check(mappings)
	case OpReAdd:
		return r.ReAdd(mappings)
	}
	return nil
}

// Tally counts successes and failures across a set of outcomes.
func Tally(outcomes []Outcome) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Succeeded {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
