package screens

// Menu choice constants for different screens
var (
	// MainMenuChoices defines the main menu options in the correct order
	MainMenuChoices = []string{
		"🗂️  Manage Mappings",
		"🔌 Map Drives",
		"⏏️  Unmap Drives",
		"🔍 Check Drives",
		"🔄 Re-Add All Drives",
		"📥 Import Mappings",
		"📤 Export Mappings",
		"⚙️  Settings",
		"❌ Exit",
	}

	// ConfirmationChoices defines standard yes/no choices
	ConfirmationChoices = []string{
		"✅ Yes",
		"❌ No",
	}

	// ConflictChoices defines the import conflict resolution options
	ConflictChoices = []string{
		"♻️  Replace existing",
		"⏭️  Skip incoming",
	}

	// SettingsMenuChoices defines the settings toggles plus navigation.
	// The toggle rows are re-rendered with their current on/off state.
	SettingsMenuChoices = []string{
		"Start on Windows Startup",
		"Re-Add Drives on Startup",
		"Light Mode",
		"⬅️  Back",
	}
)
