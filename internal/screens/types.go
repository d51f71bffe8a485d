// Package screens defines the UI screen identifiers and menu contents.
package screens

// Screen represents the different UI screens available in the application.
// Each screen has its own rendering logic and input handling behavior.
type Screen int

const (
	ScreenMain     Screen = iota // Main menu with primary options
	ScreenMappings               // Drive mapping table with selection
	ScreenForm                   // Add/edit mapping form
	ScreenConfirm                // Confirmation dialog for operations
	ScreenLog                    // Scrolling operation log during reconciliation
	ScreenConflict               // Import conflict resolution (replace vs skip)
	ScreenSettings               // Startup / re-add / theme toggles
	ScreenPath                   // File path entry for import/export
	ScreenError                  // Error display requiring manual dismissal
	ScreenComplete               // Success completion requiring manual dismissal
)
