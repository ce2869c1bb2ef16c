//go:build linux

package fsops

import (
	"io/fs"
	"syscall"
	"time"
)

// createdTime returns the closest thing Linux offers to a creation time:
// the inode change time. Falls back to the modification time when the
// raw stat structure is unavailable.
func createdTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime()
}
