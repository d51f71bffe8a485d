//go:build !windows

package internal

import "fmt"

// SetAutostart is only meaningful on Windows, where drive mapping itself
// lives; elsewhere it reports the limitation.
func SetAutostart(enable bool) error {
	return fmt.Errorf("startup registration is only supported on Windows")
}
