//go:build windows

package probe

import (
	"os"
	"syscall"
	"time"
)

// createdTime returns the creation time recorded by NTFS.
func createdTime(info os.FileInfo) time.Time {
	if attr, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, attr.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
