package info

import (
	"os"
	"runtime"
	"strings"
)

func (i *Info) fillKernelInfo() {
	i.Data.Kernel.Architecture = runtime.GOARCH
	i.Data.Kernel.OSType = runtime.GOOS
	i.Data.Kernel.OSRelease = slurp("/proc/sys/kernel/osrelease")
	i.Data.Kernel.OSVersion = slurp("/proc/sys/kernel/version")
}

func slurp(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
