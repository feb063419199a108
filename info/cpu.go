package info

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

var (
	reTwoColumns = regexp.MustCompile("\t+: ")
	reExtraSpace = regexp.MustCompile(" +")
)

// fillCPUInfo picks the CPU identity out of /proc/cpuinfo. Only the
// first processor entry matters, every core repeats it.
func (i *Info) fillCPUInfo() {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	s := bufio.NewScanner(f)
	for s.Scan() {
		sl := reTwoColumns.Split(s.Text(), 2)
		if len(sl) != 2 {
			continue
		}
		switch sl[0] {
		case "vendor_id":
			if i.Data.CPU.Vendor == "" {
				i.Data.CPU.Vendor = sl[1]
			}
		case "model name":
			if i.Data.CPU.Model == "" {
				// CPU model, as reported by /proc/cpuinfo, can be a bit ugly. Clean up...
				model := reExtraSpace.ReplaceAllLiteralString(sl[1], " ")
				i.Data.CPU.Model = strings.Replace(model, "- ", "-", 1)
			}
		}
		if i.Data.CPU.Vendor != "" && i.Data.CPU.Model != "" {
			break
		}
	}
}
