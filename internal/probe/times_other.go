//go:build !darwin && !windows

package probe

import (
	"os"
	"time"
)

// createdTime falls back to the modification time where no birth time is exposed.
func createdTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
