// Package internal provides the lipgloss themes and rendering helpers for the
// DriveMapper TUI.
//
// Two palettes are supported, honoring the persisted light_mode flag: the
// default dark palette (Tokyo Night inspired, matching the rest of the
// terminal tooling aesthetic) and a light palette for bright terminals.
package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"drivemapper/internal/drives"
)

// Theme bundles the styles used across all screens so the whole UI can be
// swapped between palettes at runtime.
type Theme struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	MenuItem     lipgloss.Style
	SelectedItem lipgloss.Style
	Help         lipgloss.Style
	Border       lipgloss.Style
	ErrorBox     lipgloss.Style
	SuccessBox   lipgloss.Style
	LogLine      lipgloss.Style
	LogError     lipgloss.Style
	TableHeader  lipgloss.Style
	TableRow     lipgloss.Style
	TableCursor  lipgloss.Style
	StatusYes    lipgloss.Style
	StatusNo     lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
}

// DarkTheme returns the default palette - Tokyo Night inspired.
func DarkTheme() Theme {
	var (
		primary    = lipgloss.Color("#7aa2f7") // blue
		secondary  = lipgloss.Color("#9ece6a") // green
		errColor   = lipgloss.Color("#f7768e") // red
		text       = lipgloss.Color("#c0caf5") // foreground
		dim        = lipgloss.Color("#565f89") // comment
		background = lipgloss.Color("#1a1b26")
	)
	return buildTheme(primary, secondary, errColor, text, dim, background)
}

// LightTheme returns the palette for light terminals.
func LightTheme() Theme {
	var (
		primary    = lipgloss.Color("#2e7de9")
		secondary  = lipgloss.Color("#387068")
		errColor   = lipgloss.Color("#f52a65")
		text       = lipgloss.Color("#3760bf")
		dim        = lipgloss.Color("#848cb5")
		background = lipgloss.Color("#e1e2e7")
	)
	return buildTheme(primary, secondary, errColor, text, dim, background)
}

// ThemeFor picks the palette for the persisted light_mode flag.
func ThemeFor(lightMode bool) Theme {
	if lightMode {
		return LightTheme()
	}
	return DarkTheme()
}

func buildTheme(primary, secondary, errColor, text, dim, background lipgloss.Color) Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(dim).
			MarginBottom(1),

		MenuItem: lipgloss.NewStyle().
			PaddingLeft(2).
			PaddingRight(2).
			Foreground(text),

		SelectedItem: lipgloss.NewStyle().
			PaddingLeft(2).
			PaddingRight(2).
			Background(primary).
			Foreground(background).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(dim).
			Italic(true).
			MarginTop(1),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2),

		ErrorBox: lipgloss.NewStyle().
			Foreground(background).
			Background(errColor).
			Bold(true).
			Padding(0, 2),

		SuccessBox: lipgloss.NewStyle().
			Foreground(background).
			Background(secondary).
			Bold(true).
			Padding(0, 2),

		LogLine: lipgloss.NewStyle().
			Foreground(text),

		LogError: lipgloss.NewStyle().
			Foreground(errColor),

		TableHeader: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		TableRow: lipgloss.NewStyle().
			Foreground(text),

		TableCursor: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true),

		StatusYes: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),

		StatusNo: lipgloss.NewStyle().
			Foreground(dim),

		Input: lipgloss.NewStyle().
			Foreground(text),

		InputFocused: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
	}
}

// renderMenu renders a vertical choice list with the cursor row highlighted.
func renderMenu(theme Theme, choices []string, cursor int) string {
	var b strings.Builder
	for i, choice := range choices {
		if i == cursor {
			b.WriteString(theme.SelectedItem.Render("▸ " + choice))
		} else {
			b.WriteString(theme.MenuItem.Render("  " + choice))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderMappingsTable renders the desired-state list with selection and
// mapped status columns.
func renderMappingsTable(theme Theme, mappings []*drives.Mapping, cursor int) string {
	if len(mappings) == 0 {
		return theme.Subtitle.Render("No drive mappings yet. Press 'a' to add one.") + "\n"
	}

	var b strings.Builder
	b.WriteString(theme.TableHeader.Render(fmt.Sprintf("    %-3s %-6s %-36s %-20s %-6s %s",
		"Sel", "Drive", "UNC Path", "Added", "Mapped", "Auth")))
	b.WriteString("\n")

	for i, m := range mappings {
		sel := "[ ]"
		if m.Selected {
			sel = "[x]"
		}
		auth := ""
		if m.UseCredentials {
			auth = m.Username
		}
		row := fmt.Sprintf("%-3s %-6s %-36s %-20s %-6s %s",
			sel, m.Drive, truncate(m.UNCPath, 36), m.AddedDate, m.Mapped, auth)

		switch {
		case i == cursor:
			b.WriteString(theme.TableCursor.Render("  ▸ " + row))
		case m.IsMapped():
			b.WriteString(theme.StatusYes.Render("    ") + theme.TableRow.Render(row))
		default:
			b.WriteString("    " + theme.TableRow.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderLog renders the trailing operation log lines, error lines styled.
func renderLog(theme Theme, lines []string, height int) string {
	if height < 3 {
		height = 3
	}
	start := 0
	if len(lines) > height {
		start = len(lines) - height
	}

	var b strings.Builder
	for _, line := range lines[start:] {
		if strings.HasPrefix(line, "Error ") {
			b.WriteString(theme.LogError.Render(line))
		} else {
			b.WriteString(theme.LogLine.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderField renders one labeled form field, highlighting the focused one.
func renderField(theme Theme, label, value string, focused bool) string {
	style := theme.Input
	marker := "  "
	if focused {
		style = theme.InputFocused
		marker = "▸ "
	}
	return marker + style.Render(fmt.Sprintf("%-12s %s", label+":", value))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
