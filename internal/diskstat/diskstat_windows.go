//go:build windows

package diskstat

import "golang.org/x/sys/windows"

// Stat returns the capacity of the filesystem holding path. Free space is
// what the calling process may use.
func Stat(path string) (Usage, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Usage{}, err
	}

	var freeAvailable, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &freeAvailable, &total, &totalFree); err != nil {
		return Usage{}, err
	}

	return Usage{
		TotalBytes: total,
		FreeBytes:  freeAvailable,
		UsedBytes:  total - freeAvailable,
	}, nil
}
