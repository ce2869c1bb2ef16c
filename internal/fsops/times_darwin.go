//go:build darwin

package fsops

import (
	"io/fs"
	"syscall"
	"time"
)

// createdTime returns the file birth time on Darwin.
func createdTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok && st.Birthtimespec.Sec != 0 {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	}
	return info.ModTime()
}
