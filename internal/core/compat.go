package core

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
)

// DiskSpace is a snapshot of the filesystem holding a path.
type DiskSpace struct {
	Path  string
	Total uint64
	Free  uint64
}

// GetDiskSpace reports total and free bytes for the filesystem containing path.
func GetDiskSpace(path string) (DiskSpace, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return DiskSpace{}, Wrapf(err, "disk usage for %s", path)
	}
	return DiskSpace{Path: path, Total: usage.Total, Free: usage.Free}, nil
}

// PlatformString returns a human-readable platform description.
// Examples: "darwin 14.5 (arm64)", "ubuntu 24.04 (amd64)"
func PlatformString() string {
	info, err := host.Info()
	if err != nil || info.Platform == "" {
		return fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)
	}
	if info.PlatformVersion == "" {
		return fmt.Sprintf("%s (%s)", info.Platform, runtime.GOARCH)
	}
	return fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, runtime.GOARCH)
}
