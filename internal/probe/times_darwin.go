//go:build darwin

package probe

import (
	"os"
	"syscall"
	"time"
)

// createdTime returns the birth time recorded by the filesystem.
func createdTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	}
	return info.ModTime()
}
