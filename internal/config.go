// Package internal provides configuration management and persistent storage
// for drive mappings and user preferences.
//
// This module handles:
//   - Loading and saving the settings document (mappings plus global flags)
//   - Transparent migration of the legacy "DriveLetter" field name
//   - Recovery from a corrupt settings file (reset to defaults, never
//     fabricated data)
//   - Import/export of mapping lists with caller-driven conflict resolution
//   - Merging mounts discovered at startup into the desired-state list
package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"drivemapper/internal/drives"
)

// Settings is the persisted settings document. The JSON key names are a
// compatibility contract with existing settings files.
type Settings struct {
	DriveMappings    []*drives.Mapping `json:"drive_mappings"`
	StartupEnabled   bool              `json:"startup_enabled"`
	AutoReaddEnabled bool              `json:"auto_readd_enabled"`
	LightMode        bool              `json:"light_mode"`
}

// DefaultSettings returns an empty settings document with default flags.
func DefaultSettings() *Settings {
	return &Settings{DriveMappings: []*drives.Mapping{}}
}

// Timestamp returns the current local time in the settings file's
// AddedDate format.
func Timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// getConfigDir returns the per-user configuration directory, creating it if
// needed. On Windows this lives under %AppData%.
func getConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %v", err)
	}

	configDir := filepath.Join(base, "DriveMapper")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %v", err)
	}
	return configDir, nil
}

// SettingsPath returns the full path to the settings file.
func SettingsPath() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "drive_settings.json"), nil
}

// LoadSettings reads the settings document from the default location.
// A missing file yields defaults and creates the file; a corrupt file is
// reset to defaults and re-saved, so the caller always gets a usable
// document backed by a parseable file on disk.
func LoadSettings() (*Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return nil, err
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom reads the settings document from an explicit path.
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		settings := DefaultSettings()
		if saveErr := SaveSettingsTo(path, settings); saveErr != nil {
			return nil, saveErr
		}
		slog.Info("settings file not found, created defaults", "path", path)
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %v", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		slog.Error("settings file is corrupt, recreating with defaults", "path", path, "error", err)
		settings := DefaultSettings()
		if saveErr := SaveSettingsTo(path, settings); saveErr != nil {
			return nil, saveErr
		}
		return settings, nil
	}
	if settings.DriveMappings == nil {
		settings.DriveMappings = []*drives.Mapping{}
	}

	// Mapping.UnmarshalJSON has already folded legacy "DriveLetter" keys into
	// Drive; if any were present, persist the upgraded document.
	if bytes.Contains(data, []byte(`"DriveLetter"`)) {
		if err := SaveSettingsTo(path, &settings); err != nil {
			return nil, err
		}
		slog.Info("migrated legacy DriveLetter field", "path", path)
	}

	return &settings, nil
}

// SaveSettings writes the settings document to the default location.
func SaveSettings(settings *Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	return SaveSettingsTo(path, settings)
}

// SaveSettingsTo writes the settings document atomically: marshal to a temp
// file in the same directory, then rename over the target.
func SaveSettingsTo(path string, settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %v", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp settings file: %v", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename settings file: %v", err)
	}
	return nil
}

// exportDocument is the on-disk shape for import/export files: the mapping
// list alone, without the global flags.
type exportDocument struct {
	DriveMappings []*drives.Mapping `json:"drive_mappings"`
}

// ExportMappings writes the mapping list to a user-chosen file.
func ExportMappings(path string, mappings []*drives.Mapping) error {
	data, err := json.MarshalIndent(exportDocument{DriveMappings: mappings}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %v", err)
	}
	return nil
}

// ConflictResolver decides whether an incoming mapping replaces the existing
// record that holds the same drive letter. Returning false skips the
// incoming record. The decision belongs to the presentation layer; the store
// never resolves conflicts unilaterally.
type ConflictResolver func(existing, incoming *drives.Mapping) bool

// ImportResult summarizes one import run.
type ImportResult struct {
	Added    int
	Replaced int
	Skipped  int
}

// ImportMappings merges mappings from an exported file into settings,
// resolving drive letter collisions through resolve. Imported records accept
// the legacy "DriveLetter" key and always arrive unmapped and unselected.
func ImportMappings(path string, settings *Settings, resolve ConflictResolver) (ImportResult, error) {
	var result ImportResult

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read import file: %v", err)
	}

	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return result, fmt.Errorf("failed to parse import file: %v", err)
	}

	for _, incoming := range doc.DriveMappings {
		incoming.Drive = drives.NormalizeDriveLetter(incoming.Drive)
		if incoming.Drive == "" || incoming.UNCPath == "" {
			result.Skipped++
			continue
		}
		if incoming.AddedDate == "" {
			incoming.AddedDate = Timestamp()
		}
		incoming.Mapped = drives.MappedNo
		incoming.Selected = false

		existingIdx := -1
		for i, m := range settings.DriveMappings {
			if strings.EqualFold(m.Drive, incoming.Drive) {
				existingIdx = i
				break
			}
		}

		if existingIdx < 0 {
			settings.DriveMappings = append(settings.DriveMappings, incoming)
			result.Added++
			continue
		}

		if resolve != nil && resolve(settings.DriveMappings[existingIdx], incoming) {
			settings.DriveMappings = append(settings.DriveMappings[:existingIdx], settings.DriveMappings[existingIdx+1:]...)
			settings.DriveMappings = append(settings.DriveMappings, incoming)
			result.Replaced++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// MergeObserved appends observed mounts that are not yet in the desired-state
// list, marked mapped and credential-less. Returns the drive letters added.
// Used at startup so mounts created outside the application become managed.
func MergeObserved(settings *Settings, observed []drives.ObservedMount) []string {
	var added []string
	for _, mount := range observed {
		known := false
		for _, m := range settings.DriveMappings {
			if strings.EqualFold(m.Drive, mount.Drive) {
				known = true
				break
			}
		}
		if known {
			continue
		}
		settings.DriveMappings = append(settings.DriveMappings, &drives.Mapping{
			Drive:     drives.NormalizeDriveLetter(mount.Drive),
			UNCPath:   mount.UNCPath,
			AddedDate: Timestamp(),
			Mapped:    drives.MappedYes,
		})
		added = append(added, drives.NormalizeDriveLetter(mount.Drive))
	}
	return added
}

// ExistingLetters returns the drive letters claimed by the desired-state
// list, optionally excluding one record (for edits).
func ExistingLetters(settings *Settings, skip *drives.Mapping) []string {
	var letters []string
	for _, m := range settings.DriveMappings {
		if m == skip {
			continue
		}
		letters = append(letters, m.Drive)
	}
	return letters
}

// RemoveMapping deletes a record from the desired-state list.
func RemoveMapping(settings *Settings, target *drives.Mapping) bool {
	for i, m := range settings.DriveMappings {
		if m == target {
			settings.DriveMappings = append(settings.DriveMappings[:i], settings.DriveMappings[i+1:]...)
			return true
		}
	}
	return false
}
