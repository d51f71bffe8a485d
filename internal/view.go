package internal

import (
	"fmt"
	"strings"

	"drivemapper/internal/screens"
)

// View renders the active screen.
func (m Model) View() string {
	var body, help string

	switch m.screen {
	case screens.ScreenMain:
		body = renderMenu(m.theme, screens.MainMenuChoices, m.cursor)
		help = "↑/↓ navigate • enter select • q quit"

	case screens.ScreenMappings:
		body = renderMappingsTable(m.theme, m.session.Settings.DriveMappings, m.tableCursor)
		help = "space select • a add • e edit • d delete • m map • u unmap • c check • esc back"

	case screens.ScreenForm:
		body = m.viewForm()
		help = "tab/↑/↓ fields • ←/→ pick letter • enter save • esc cancel"

	case screens.ScreenConfirm:
		body = m.theme.Subtitle.Render(m.confirmText) + "\n\n" +
			renderMenu(m.theme, screens.ConfirmationChoices, m.cursor)
		help = "↑/↓ navigate • enter confirm • esc cancel"

	case screens.ScreenLog:
		body = renderLog(m.theme, m.logLines, m.height-10)
		if m.lastError != "" {
			body += "\n" + m.theme.ErrorBox.Render(m.lastError) + "\n"
		}
		if m.opRunning {
			help = "working..."
		} else {
			help = "enter/esc back to menu"
		}

	case screens.ScreenConflict:
		body = m.viewConflict()
		help = "↑/↓ choose • enter apply"

	case screens.ScreenSettings:
		body = renderMenu(m.theme, m.settingsChoices(), m.cursor)
		help = "↑/↓ navigate • enter/space toggle • esc back"

	case screens.ScreenPath:
		label := "Export to"
		if m.purpose == purposeImport {
			label = "Import from"
		}
		body = renderField(m.theme, label, m.pathValue+"▏", true) + "\n"
		help = "type path • enter confirm • esc cancel"

	case screens.ScreenError:
		body = m.theme.ErrorBox.Render(m.message) + "\n"
		help = "press any key to continue"

	case screens.ScreenComplete:
		body = m.theme.SuccessBox.Render(m.message) + "\n"
		help = "press any key to continue"
	}

	content := m.theme.Title.Render(GetAppTitle()) + "\n" +
		body + "\n" +
		m.theme.Help.Render(help)
	return m.theme.Border.Render(content)
}

// viewForm renders the add/edit mapping form.
func (m Model) viewForm() string {
	var b strings.Builder

	title := "Add Drive Mapping"
	if m.form.editing != nil {
		title = "Edit Drive Mapping"
	}
	b.WriteString(m.theme.Subtitle.Render(title))
	b.WriteString("\n\n")

	letter := ""
	if len(m.form.letters) > 0 {
		letter = fmt.Sprintf("◂ %s ▸", m.form.letters[m.form.letterIdx])
	}
	b.WriteString(renderField(m.theme, "Drive", letter, m.form.focus == fieldLetter))
	b.WriteString("\n")
	b.WriteString(renderField(m.theme, "UNC Path", m.form.path, m.form.focus == fieldPath))
	b.WriteString("\n")

	creds := "[ ]"
	if m.form.useCreds {
		creds = "[x]"
	}
	b.WriteString(renderField(m.theme, "Credentials", creds, m.form.focus == fieldCreds))
	b.WriteString("\n")

	if m.form.useCreds {
		b.WriteString(renderField(m.theme, "Username", m.form.username, m.form.focus == fieldUsername))
		b.WriteString("\n")
		b.WriteString(renderField(m.theme, "Password", strings.Repeat("*", len(m.form.password)), m.form.focus == fieldPassword))
		b.WriteString("\n")
	}

	if m.form.errText != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.ErrorBox.Render(m.form.errText))
		b.WriteString("\n")
	}
	return b.String()
}

// viewConflict renders the import conflict prompt with both records.
func (m Model) viewConflict() string {
	if m.conflict == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.theme.Subtitle.Render(
		fmt.Sprintf("Drive %s is already configured.", m.conflict.Existing.Drive)))
	b.WriteString("\n\n")
	b.WriteString(m.theme.TableRow.Render(
		fmt.Sprintf("  Existing: %s -> %s", m.conflict.Existing.Drive, m.conflict.Existing.UNCPath)))
	b.WriteString("\n")
	b.WriteString(m.theme.TableRow.Render(
		fmt.Sprintf("  Incoming: %s -> %s", m.conflict.Incoming.Drive, m.conflict.Incoming.UNCPath)))
	b.WriteString("\n\n")
	b.WriteString(renderMenu(m.theme, screens.ConflictChoices, m.cursor))
	return b.String()
}

// settingsChoices decorates the settings rows with their current state.
func (m Model) settingsChoices() []string {
	onOff := func(v bool) string {
		if v {
			return "ON"
		}
		return "OFF"
	}
	s := m.session.Settings
	return []string{
		fmt.Sprintf("%s  [%s]", screens.SettingsMenuChoices[0], onOff(s.StartupEnabled)),
		fmt.Sprintf("%s  [%s]", screens.SettingsMenuChoices[1], onOff(s.AutoReaddEnabled)),
		fmt.Sprintf("%s  [%s]", screens.SettingsMenuChoices[2], onOff(s.LightMode)),
		screens.SettingsMenuChoices[3],
	}
}
