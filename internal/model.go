// Package internal provides the core application model and state management
// for the DriveMapper TUI.
//
// This package implements the Bubble Tea model pattern for the interactive
// terminal user interface. The model handles:
//   - Screen transitions (main menu, mapping table, forms, confirmations)
//   - Message handling for user input and background reconciliation events
//   - The operation log view while map/unmap/check/re-add runs
//   - Import conflict prompts (replace vs skip)
//   - Settings toggles (startup registration, re-add at startup, theme)
//
// All drive state changes go through the Session; the model never runs
// commands or mutates the desired-state list while an operation is in flight.
package internal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"drivemapper/internal/drives"
	"drivemapper/internal/handlers"
	"drivemapper/internal/screens"
)

// formField identifies the focusable inputs on the add/edit form.
type formField int

const (
	fieldLetter formField = iota
	fieldPath
	fieldCreds
	fieldUsername
	fieldPassword
)

// mappingForm holds the add/edit dialog state.
type mappingForm struct {
	editing   *drives.Mapping // nil when adding a new mapping
	letters   []string        // candidate drive letters for the letter field
	letterIdx int
	path      string
	useCreds  bool
	username  string
	password  string
	focus     formField
	errText   string
}

// confirmKind identifies which pending action a yes/no dialog guards.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmMapSelected
	confirmMapAll
	confirmUnmapSelected
	confirmUnmapAll
	confirmReAdd
	confirmRemove
)

// pathPurpose distinguishes the import and export uses of the path prompt.
type pathPurpose int

const (
	purposeImport pathPurpose = iota
	purposeExport
)

// Model represents the complete application state for the DriveMapper TUI.
type Model struct {
	session *Session
	handler *handlers.MainMenuHandler
	theme   Theme

	// Screen and navigation state
	screen  screens.Screen
	cursor  int
	choices []string
	width   int
	height  int

	// Mapping table state
	tableCursor int

	// Add/edit form state
	form mappingForm

	// Confirmation state
	confirm      confirmKind
	confirmText  string
	removeTarget *drives.Mapping

	// Operation state
	opRunning bool
	logLines  []string
	lastError string
	readdDone bool

	// Import/export state
	conflict  *ImportConflictMsg
	pathValue string
	purpose   pathPurpose

	// Dismissable message for the error/complete screens
	message string
}

// InitialModel creates the model with the main menu active.
func InitialModel(session *Session) Model {
	return Model{
		session: session,
		handler: handlers.NewMainMenuHandler(),
		theme:   ThemeFor(session.Settings.LightMode),
		screen:  screens.ScreenMain,
		choices: screens.MainMenuChoices,
		width:   100,
		height:  30,
	}
}

// Init starts the initial mount discovery and arms the session event waiter.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.session.DiscoverExisting(), m.session.Wait())
}

// Update routes messages to the active screen's handler.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case OpLogMsg:
		m.logLines = append(m.logLines, string(msg))
		return m, m.session.Wait()

	case OpErrorMsg:
		m.lastError = string(msg)
		return m, m.session.Wait()

	case OpDoneMsg:
		m.opRunning = false
		succeeded, failed := drives.Tally(msg.Outcomes)
		m.logLines = append(m.logLines,
			fmt.Sprintf("Finished %s: %d succeeded, %d failed.", msg.Op, succeeded, failed))
		if err := m.session.Save(); err != nil {
			m.logLines = append(m.logLines, fmt.Sprintf("Error saving settings: %v", err))
		}
		return m, m.session.Wait()

	case ImportConflictMsg:
		// The import goroutine is blocked on our answer; the waiter is
		// re-armed when the user decides.
		m.conflict = &msg
		m.cursor = 0
		m.screen = screens.ScreenConflict
		return m, nil

	case ImportDoneMsg:
		m.opRunning = false
		if msg.Err != nil {
			m.message = fmt.Sprintf("Import failed: %v", msg.Err)
			m.screen = screens.ScreenError
		} else {
			m.message = fmt.Sprintf("Import complete: %d added, %d replaced, %d skipped.",
				msg.Result.Added, msg.Result.Replaced, msg.Result.Skipped)
			m.screen = screens.ScreenComplete
		}
		return m, m.session.Wait()

	case DiscoveredMsg:
		if len(msg.Added) > 0 {
			m.logLines = append(m.logLines,
				fmt.Sprintf("Detected existing mapped drives: %s.", strings.Join(msg.Added, ", ")))
		}
		if m.session.Settings.AutoReaddEnabled && !m.readdDone {
			m.readdDone = true
			return m.startOperation(drives.OpReAdd, false), nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey dispatches key input to the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screens.ScreenMain:
		return m.updateMain(msg)
	case screens.ScreenMappings:
		return m.updateMappings(msg)
	case screens.ScreenForm:
		return m.updateForm(msg)
	case screens.ScreenConfirm:
		return m.updateConfirm(msg)
	case screens.ScreenLog:
		return m.updateLog(msg)
	case screens.ScreenConflict:
		return m.updateConflict(msg)
	case screens.ScreenSettings:
		return m.updateSettings(msg)
	case screens.ScreenPath:
		return m.updatePath(msg)
	case screens.ScreenError, screens.ScreenComplete:
		m.message = ""
		m.screen = screens.ScreenMain
		m.cursor = 0
		return m, nil
	}
	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		return m.dispatchMainAction(m.handler.HandleSelection(m.cursor))
	}
	return m, nil
}

// dispatchMainAction performs a main menu action.
func (m Model) dispatchMainAction(action handlers.MainAction) (tea.Model, tea.Cmd) {
	switch action {
	case handlers.ActionManage:
		m.screen = screens.ScreenMappings
		m.tableCursor = 0
	case handlers.ActionMap:
		return m.askMap()
	case handlers.ActionUnmap:
		return m.askUnmap()
	case handlers.ActionCheck:
		return m.startOperation(drives.OpCheck, false), nil
	case handlers.ActionReAdd:
		m.confirm = confirmReAdd
		m.confirmText = "Do you want to remove and re-add all drives?"
		m.cursor = 1
		m.screen = screens.ScreenConfirm
	case handlers.ActionImport:
		m.purpose = purposeImport
		m.pathValue = ""
		m.screen = screens.ScreenPath
	case handlers.ActionExport:
		m.purpose = purposeExport
		m.pathValue = ""
		m.screen = screens.ScreenPath
	case handlers.ActionSettings:
		m.cursor = 0
		m.screen = screens.ScreenSettings
	case handlers.ActionQuit:
		return m, tea.Quit
	}
	return m, nil
}

// askMap opens the map confirmation: the selected subset when a selection
// exists, the whole list otherwise.
func (m Model) askMap() (tea.Model, tea.Cmd) {
	if n := m.selectedCount(); n > 0 {
		m.confirm = confirmMapSelected
		m.confirmText = fmt.Sprintf("Do you want to map the selected %d drive(s)?", n)
	} else {
		if len(m.session.Settings.DriveMappings) == 0 {
			m.message = "No drive mappings to map."
			m.screen = screens.ScreenError
			return m, nil
		}
		m.confirm = confirmMapAll
		m.confirmText = "Do you want to map all drives in the list?"
	}
	m.cursor = 1
	m.screen = screens.ScreenConfirm
	return m, nil
}

// askUnmap opens the unmap confirmation: the selected subset when a selection
// exists, otherwise exactly the records currently marked mapped.
func (m Model) askUnmap() (tea.Model, tea.Cmd) {
	if n := m.selectedCount(); n > 0 {
		m.confirm = confirmUnmapSelected
		m.confirmText = fmt.Sprintf("Do you want to unmap the selected %d drive(s)?", n)
	} else {
		mapped := 0
		for _, rec := range m.session.Settings.DriveMappings {
			if rec.IsMapped() {
				mapped++
			}
		}
		if mapped == 0 {
			m.message = "No mapped drives to unmap."
			m.screen = screens.ScreenError
			return m, nil
		}
		m.confirm = confirmUnmapAll
		m.confirmText = fmt.Sprintf("Do you want to unmap all %d mapped drive(s)?", mapped)
	}
	m.cursor = 1
	m.screen = screens.ScreenConfirm
	return m, nil
}

func (m Model) updateMappings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mappings := m.session.Settings.DriveMappings
	switch msg.String() {
	case "up", "k":
		if m.tableCursor > 0 {
			m.tableCursor--
		}
	case "down", "j":
		if m.tableCursor < len(mappings)-1 {
			m.tableCursor++
		}
	case " ":
		if m.tableCursor < len(mappings) {
			mappings[m.tableCursor].Selected = !mappings[m.tableCursor].Selected
		}
	case "a":
		return m.openForm(nil), nil
	case "e":
		if m.tableCursor < len(mappings) {
			return m.openForm(mappings[m.tableCursor]), nil
		}
	case "d":
		if m.tableCursor < len(mappings) {
			m.removeTarget = mappings[m.tableCursor]
			m.confirm = confirmRemove
			m.confirmText = fmt.Sprintf("Remove mapping %s -> %s?",
				m.removeTarget.Drive, m.removeTarget.UNCPath)
			m.cursor = 1
			m.screen = screens.ScreenConfirm
		}
	case "m":
		return m.askMap()
	case "u":
		return m.askUnmap()
	case "c":
		return m.startOperation(drives.OpCheck, false), nil
	case "esc", "q":
		m.screen = screens.ScreenMain
		m.cursor = 0
	}
	return m, nil
}

// openForm prepares the add/edit form. For edits the record's current letter
// leads the candidate list; free letters exclude both the other records'
// claims and local volumes that net use cannot report.
func (m Model) openForm(editing *drives.Mapping) Model {
	excluding := ExistingLetters(m.session.Settings, editing)
	excluding = append(excluding, drives.LocalDriveLetters()...)
	letters := m.session.Status().FreeLetters(excluding)

	form := mappingForm{editing: editing, letters: letters}
	if editing != nil {
		form.letters = append([]string{editing.Drive}, letters...)
		form.path = editing.UNCPath
		form.useCreds = editing.UseCredentials
		form.username = editing.Username
		form.password = editing.Password
	}
	if len(form.letters) == 0 {
		m.message = "No free drive letters available."
		m.screen = screens.ScreenError
		return m
	}

	m.form = form
	m.screen = screens.ScreenForm
	return m
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = screens.ScreenMappings
		return m, nil

	case tea.KeyEnter:
		return m.submitForm()

	case tea.KeyTab, tea.KeyDown:
		m.form.focus = m.nextField(m.form.focus, true)
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.form.focus = m.nextField(m.form.focus, false)
		return m, nil

	case tea.KeyLeft:
		if m.form.focus == fieldLetter && m.form.letterIdx > 0 {
			m.form.letterIdx--
		}
		return m, nil

	case tea.KeyRight:
		if m.form.focus == fieldLetter && m.form.letterIdx < len(m.form.letters)-1 {
			m.form.letterIdx++
		}
		return m, nil

	case tea.KeyBackspace:
		switch m.form.focus {
		case fieldPath:
			m.form.path = trimLastRune(m.form.path)
		case fieldUsername:
			m.form.username = trimLastRune(m.form.username)
		case fieldPassword:
			m.form.password = trimLastRune(m.form.password)
		}
		return m, nil

	case tea.KeySpace:
		if m.form.focus == fieldCreds {
			m.form.useCreds = !m.form.useCreds
			return m, nil
		}
	}

	if text := msg.String(); len([]rune(text)) == 1 {
		switch m.form.focus {
		case fieldPath:
			m.form.path += text
		case fieldUsername:
			m.form.username += text
		case fieldPassword:
			m.form.password += text
		case fieldCreds:
			if text == "x" || text == "t" {
				m.form.useCreds = !m.form.useCreds
			}
		}
	}
	return m, nil
}

// nextField cycles form focus, skipping credential inputs when disabled.
func (m Model) nextField(f formField, forward bool) formField {
	order := []formField{fieldLetter, fieldPath, fieldCreds}
	if m.form.useCreds {
		order = append(order, fieldUsername, fieldPassword)
	}
	idx := 0
	for i, field := range order {
		if field == f {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(order)
	} else {
		idx = (idx - 1 + len(order)) % len(order)
	}
	return order[idx]
}

// submitForm validates the draft and commits it to the desired-state list.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	draft := drives.Mapping{
		Drive:          m.form.letters[m.form.letterIdx],
		UNCPath:        m.form.path,
		UseCredentials: m.form.useCreds,
		Username:       m.form.username,
		Password:       m.form.password,
	}
	if err := drives.ValidateMapping(&draft, ExistingLetters(m.session.Settings, m.form.editing)); err != nil {
		m.form.errText = err.Error()
		return m, nil
	}

	if rec := m.form.editing; rec != nil {
		rec.Drive = draft.Drive
		rec.UNCPath = draft.UNCPath
		rec.UseCredentials = draft.UseCredentials
		rec.Username = draft.Username
		rec.Password = draft.Password
		rec.Mapped = drives.MappedNo // unknown until the next check
	} else {
		draft.AddedDate = Timestamp()
		draft.Mapped = drives.MappedNo
		m.session.Settings.DriveMappings = append(m.session.Settings.DriveMappings, &draft)
	}

	if err := m.session.Save(); err != nil {
		m.form.errText = fmt.Sprintf("failed to save settings: %v", err)
		return m, nil
	}
	m.screen = screens.ScreenMappings
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "right", "l":
		if m.cursor < len(screens.ConfirmationChoices)-1 {
			m.cursor++
		}
	case "esc", "n":
		return m.confirmNo(), nil
	case "y":
		return m.confirmYes()
	case "enter":
		if m.cursor == 0 {
			return m.confirmYes()
		}
		return m.confirmNo(), nil
	}
	return m, nil
}

// confirmNo dismisses the dialog, returning to where it was opened from.
func (m Model) confirmNo() Model {
	if m.confirm == confirmRemove {
		m.removeTarget = nil
		m.screen = screens.ScreenMappings
	} else {
		m.screen = screens.ScreenMain
		m.cursor = 0
	}
	m.confirm = confirmNone
	return m
}

// confirmYes performs the pending confirmed action.
func (m Model) confirmYes() (tea.Model, tea.Cmd) {
	kind := m.confirm
	m.confirm = confirmNone
	switch kind {
	case confirmMapSelected:
		return m.startOperation(drives.OpMap, true), nil
	case confirmMapAll:
		return m.startOperation(drives.OpMap, false), nil
	case confirmUnmapSelected:
		return m.startOperation(drives.OpUnmap, true), nil
	case confirmUnmapAll:
		return m.startOperation(drives.OpUnmap, false), nil
	case confirmReAdd:
		return m.startOperation(drives.OpReAdd, false), nil
	case confirmRemove:
		if m.removeTarget != nil {
			RemoveMapping(m.session.Settings, m.removeTarget)
			m.removeTarget = nil
			if err := m.session.Save(); err != nil {
				m.message = fmt.Sprintf("Failed to save settings: %v", err)
				m.screen = screens.ScreenError
				return m, nil
			}
		}
		if m.tableCursor >= len(m.session.Settings.DriveMappings) && m.tableCursor > 0 {
			m.tableCursor--
		}
		m.screen = screens.ScreenMappings
	}
	return m, nil
}

// startOperation launches a reconciliation operation and switches to the log
// view. A refusal (operation already in flight) surfaces as a message.
func (m Model) startOperation(op drives.Operation, onlySelected bool) Model {
	if !m.session.Start(op, onlySelected) {
		m.message = "Another operation is already running."
		m.screen = screens.ScreenError
		return m
	}
	m.opRunning = true
	m.lastError = ""
	m.logLines = nil
	m.screen = screens.ScreenLog
	return m
}

func (m Model) updateLog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// No mid-operation cancellation exists; the log is dismissable only once
	// the operation finished.
	if m.opRunning {
		return m, nil
	}
	switch msg.String() {
	case "esc", "q", "enter":
		m.screen = screens.ScreenMain
		m.cursor = 0
	}
	return m, nil
}

func (m Model) updateConflict(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j":
		m.cursor = 1 - m.cursor
	case "enter":
		if m.conflict != nil {
			m.conflict.Answer <- m.cursor == 0
			m.conflict = nil
		}
		m.screen = screens.ScreenLog
		return m, m.session.Wait()
	}
	return m, nil
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	settings := m.session.Settings
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(screens.SettingsMenuChoices)-1 {
			m.cursor++
		}
	case "esc", "q":
		m.screen = screens.ScreenMain
		m.cursor = 0
	case "enter", " ":
		switch m.cursor {
		case 0:
			settings.StartupEnabled = !settings.StartupEnabled
			if err := SetAutostart(settings.StartupEnabled); err != nil {
				settings.StartupEnabled = !settings.StartupEnabled
				m.message = fmt.Sprintf("Failed to update startup registration: %v", err)
				m.screen = screens.ScreenError
				return m, nil
			}
		case 1:
			settings.AutoReaddEnabled = !settings.AutoReaddEnabled
		case 2:
			settings.LightMode = !settings.LightMode
			m.theme = ThemeFor(settings.LightMode)
		case 3:
			m.screen = screens.ScreenMain
			m.cursor = 0
			return m, nil
		}
		if err := m.session.Save(); err != nil {
			m.message = fmt.Sprintf("Failed to save settings: %v", err)
			m.screen = screens.ScreenError
		}
	}
	return m, nil
}

func (m Model) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = screens.ScreenMain
		m.cursor = 0
		return m, nil

	case tea.KeyBackspace:
		m.pathValue = trimLastRune(m.pathValue)
		return m, nil

	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathValue)
		if path == "" {
			return m, nil
		}
		if m.purpose == purposeExport {
			if err := ExportMappings(path, m.session.Settings.DriveMappings); err != nil {
				m.message = fmt.Sprintf("Export failed: %v", err)
				m.screen = screens.ScreenError
			} else {
				m.message = fmt.Sprintf("Settings exported to %s.", path)
				m.screen = screens.ScreenComplete
			}
			return m, nil
		}
		if !m.session.StartImport(path) {
			m.message = "Another operation is already running."
			m.screen = screens.ScreenError
			return m, nil
		}
		m.opRunning = true
		m.logLines = nil
		m.screen = screens.ScreenLog
		return m, nil
	}

	if text := msg.String(); len([]rune(text)) == 1 {
		m.pathValue += text
	}
	return m, nil
}

func (m Model) selectedCount() int {
	n := 0
	for _, rec := range m.session.Settings.DriveMappings {
		if rec.Selected {
			n++
		}
	}
	return n
}

func trimLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}
