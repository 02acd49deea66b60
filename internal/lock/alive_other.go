//go:build !unix

package lock

import "os"

// processAlive can only rule out pids the OS refuses to look up.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()
	return true
}
