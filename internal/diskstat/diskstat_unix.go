//go:build unix

package diskstat

import "golang.org/x/sys/unix"

// Stat returns the capacity of the filesystem holding path. Free space is
// what an unprivileged process may use (Bavail, not Bfree).
func Stat(path string) (Usage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Usage{}, err
	}

	total := st.Blocks * uint64(st.Bsize)
	free := st.Bavail * uint64(st.Bsize)

	return Usage{
		TotalBytes: total,
		FreeBytes:  free,
		UsedBytes:  total - free,
	}, nil
}
