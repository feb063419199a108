package boardid

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

const dmiDir = "/sys/class/dmi/id"

// Detect reads the BoardId from the DMI sysfs class. Boards without a
// DMI table (VMs, some ARM machines) simply come back undetected.
func Detect() (BoardId, error) {
	return detectDir(dmiDir)
}

func detectDir(dir string) (BoardId, error) {
	var streams [3]io.Reader
	for i, part := range [...]string{"board_vendor", "board_name", "board_version"} {
		f, err := openExisting(dir + "/" + part)
		if err != nil {
			return BoardId{}, err
		}
		if f == nil {
			continue
		}
		defer func(f *os.File) {
			_ = f.Close()
		}(f)
		streams[i] = f
	}
	return FromStreams(streams[0], streams[1], streams[2])
}

// openExisting opens a file, returning nil without error when it does
// not exist.
func openExisting(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
