// Package drives implements the network drive mapping engine.
// This module defines the core types shared by the status reader and reconciler.
package drives

import "encoding/json"

// Mapped status values as stored in the settings file.
const (
	MappedYes = "Yes"
	MappedNo  = "No"
)

// Mapping is one desired drive mapping as persisted in the settings file.
// The JSON field names are a compatibility contract with existing settings
// documents and exported files.
type Mapping struct {
	Drive          string `json:"Drive"`          // Drive letter with colon (e.g., "Z:")
	UNCPath        string `json:"UNCPath"`        // Remote path (e.g., "\\server\share")
	AddedDate      string `json:"AddedDate"`      // "2006-01-02 15:04:05" local time
	Mapped         string `json:"Mapped"`         // Last observed status: "Yes" or "No"
	Selected       bool   `json:"Selected"`       // Transient UI selection flag
	UseCredentials bool   `json:"UseCredentials"` // true when Username/Password apply
	Username       string `json:"Username"`
	Password       string `json:"Password"` // Stored in cleartext, same as the settings schema
}

// UnmarshalJSON accepts the legacy "DriveLetter" key used by older settings
// files and normalizes it into Drive.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	type alias Mapping
	aux := struct {
		*alias
		DriveLetter string `json:"DriveLetter"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if m.Drive == "" && aux.DriveLetter != "" {
		m.Drive = NormalizeDriveLetter(aux.DriveLetter)
	}
	return nil
}

// IsMapped reports whether the record's last observed status is mapped.
func (m *Mapping) IsMapped() bool {
	return m.Mapped == MappedYes
}

// ObservedMount is a (drive letter, remote path) pair currently reported by
// the operating system. Recomputed on every status query, never persisted.
type ObservedMount struct {
	Drive   string
	UNCPath string
}

// Outcome is the per-record result of one reconciliation step.
type Outcome struct {
	Drive     string
	Succeeded bool
	Message   string
}

// EventKind distinguishes ordinary progress lines from discrete error events.
type EventKind int

const (
	// EventLog is a progress line for the scrolling operation log.
	EventLog EventKind = iota
	// EventError is a failure notice, emitted in addition to its log line so
	// callers can surface it independently.
	EventError
)

// Event is one reconciliation progress notification.
type Event struct {
	Kind    EventKind
	Message string
}

// EventSink receives ordered events during an operation. Implementations must
// be safe for use from the single goroutine running the operation.
type EventSink interface {
	Emit(Event)
}

// Operation identifies a reconciliation operation kind.
type Operation int

const (
	OpMap Operation = iota
	OpUnmap
	OpCheck
	OpReAdd
)

// String returns the operation name for logs.
func (op Operation) String() string {
	switch op {
	case OpMap:
		return "map"
	case OpUnmap:
		return "unmap"
	case OpCheck:
		return "check"
	case OpReAdd:
		return "re-add"
	}
	return "unknown"
}
