//go:build linux

package scheduler

import "golang.org/x/sys/unix"

// detectTotalRAM reads total physical RAM via unix.Sysinfo. It returns 0
// (disabling the memory-ceiling check) if the syscall fails.
func detectTotalRAM() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
