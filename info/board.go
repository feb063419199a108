package info

import (
	"boardid-core/boardid"
)

func (i *Info) fillBoardInfo() {
	id, err := boardid.Detect()
	if err != nil {
		// degrade to the undetected label, the snapshot still ships
		id = boardid.BoardId{}
	}

	i.Data.Board.Label = id.String()
	if vendor, ok := id.Vendor(); ok {
		i.Data.Board.Vendor = string(vendor)
	}
	if name, ok := id.Name(); ok {
		i.Data.Board.Name = string(name)
	}
	if version, ok := id.Version(); ok {
		i.Data.Board.Version = string(version)
	}
}
