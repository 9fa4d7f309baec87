//go:build linux

package plan

import "golang.org/x/sys/unix"

func probeHostBytes() int64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return int64(info.Freeram) * int64(info.Unit)
}
