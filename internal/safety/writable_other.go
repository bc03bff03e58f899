//go:build !unix

package safety

import "os"

// isWritable falls back to the owner write bit where access(2) is missing.
func isWritable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o200 != 0
}
