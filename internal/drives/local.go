// Package drives implements the network drive mapping engine.
// This module enumerates local drive letters that "net use" cannot see.
package drives

import (
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// LocalDriveLetters returns the drive letters of local volumes (e.g., "C:")
// so callers can exclude them from free-letter suggestions. The net use
// report only covers network mounts; fixed disks claim letters too. Errors
// degrade to an empty list since this is advisory input only.
func LocalDriveLetters() []string {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil
	}

	var letters []string
	for _, p := range partitions {
		mount := strings.TrimRight(p.Mountpoint, `\/`)
		if len(mount) == 2 && mount[1] == ':' {
			letters = append(letters, strings.ToUpper(mount))
		}
	}
	return letters
}
