// Package internal provides version information and build metadata for the
// DriveMapper application.
//
// This module centralizes all version-related constants and provides
// formatted strings for consistent display across the application. To update
// the version, change the AppVersion constant - all other version strings
// follow automatically.
package internal

// Application metadata constants.
const (
	// AppName is the official name of the application
	AppName = "DriveMapper"

	// AppVersion follows semantic versioning (major.minor.patch)
	AppVersion = "1.1.0"

	// AppDesc is the tagline/description used in UI and documentation
	AppDesc = "Network Drive Mapping & Reconciliation"
)

// GetVersionString returns just the version number for programmatic use.
// Example: "1.1.0"
func GetVersionString() string {
	return AppVersion
}

// GetFullVersionString returns the application name with version for display.
// Example: "DriveMapper v1.1.0"
func GetFullVersionString() string {
	return AppName + " v" + AppVersion
}

// GetAppTitle returns the complete application title including description.
// Used for the main application header.
func GetAppTitle() string {
	return AppName + " v" + AppVersion + " - " + AppDesc
}
