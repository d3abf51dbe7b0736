//go:build windows

package commands

import (
	"fmt"
	"os"
)

// isProcessRunning reads a PID from the given file and checks whether
// that process is still alive. Windows has no signal 0; FindProcess
// opening a handle is the liveness check.
func isProcessRunning(pidPath string) (int, bool) {
	pidData, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, false
	}

	var pid int
	if _, err := fmt.Sscanf(string(pidData), "%d", &pid); err != nil {
		return 0, false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, false
	}
	_ = process.Release()

	return pid, true
}

// startDaemon is not supported on Windows.
// Run the server in the foreground instead.
func startDaemon() error {
	return fmt.Errorf("daemon mode is not supported on Windows, run without --daemon")
}
