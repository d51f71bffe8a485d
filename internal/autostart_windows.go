//go:build windows

package internal

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows/registry"
)

const (
	autostartKeyPath   = `Software\Microsoft\Windows\CurrentVersion\Run`
	autostartValueName = "DriveMapper"
)

// SetAutostart registers or removes the per-user Run key entry that launches
// the application at Windows startup. Removal tolerates a missing value.
func SetAutostart(enable bool) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, autostartKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open Run key: %v", err)
	}
	defer key.Close()

	if !enable {
		if err := key.DeleteValue(autostartValueName); err != nil && err != registry.ErrNotExist {
			return fmt.Errorf("failed to remove autostart entry: %v", err)
		}
		return nil
	}

	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %v", err)
	}
	if err := key.SetStringValue(autostartValueName, `"`+exePath+`"`); err != nil {
		return fmt.Errorf("failed to set autostart entry: %v", err)
	}
	return nil
}
