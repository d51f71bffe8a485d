// Package drives implements the network drive mapping engine.
// This module validates mapping drafts before they enter the desired-state list.
package drives

import (
	"fmt"
	"strings"
)

// NormalizeDriveLetter uppercases a drive letter and ensures the trailing
// colon (e.g., "z" -> "Z:").
func NormalizeDriveLetter(letter string) string {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter != "" && !strings.HasSuffix(letter, ":") {
		letter += ":"
	}
	return letter
}

// ValidateMapping checks a mapping draft against the rules every entry path
// (add, edit, import) must satisfy. existingLetters holds the drive letters
// already claimed by other records; comparison is case-insensitive.
func ValidateMapping(m *Mapping, existingLetters []string) error {
	m.Drive = NormalizeDriveLetter(m.Drive)
	m.UNCPath = strings.TrimSpace(m.UNCPath)

	if m.Drive == "" {
		return fmt.Errorf("please select a drive letter")
	}
	for _, letter := range existingLetters {
		if strings.EqualFold(NormalizeDriveLetter(letter), m.Drive) {
			return fmt.Errorf("drive letter %s is already in use", m.Drive)
		}
	}
	if !strings.HasPrefix(m.UNCPath, `\\`) || len(strings.Split(m.UNCPath, `\`)) < 4 {
		return fmt.Errorf(`please enter a valid UNC path (e.g., \\server\share)`)
	}
	if m.UseCredentials && (strings.TrimSpace(m.Username) == "" || m.Password == "") {
		return fmt.Errorf("please enter both username and password")
	}
	if !m.UseCredentials {
		m.Username = ""
		m.Password = ""
	}
	return nil
}
