// Package boardid packs the motherboard identity exposed by the DMI
// sysfs class into a single fixed-size, comparable value.
package boardid

import (
	"errors"
	"io"
	"strings"
)

// capacity fits every valid offset in a uint8.
const capacity = 254

// ErrTooLarge is returned when the combined vendor, name and version
// data does not fit into a BoardId buffer.
var ErrTooLarge = errors.New("board id data too large")

// BoardId holds the board vendor, name and version as three adjacent
// byte ranges inside one fixed buffer. The zero value is a fully
// undetected board. Values are immutable once built, comparable with
// == and usable as map keys.
type BoardId struct {
	buffer     [capacity]byte
	vendorEnd  uint8
	nameEnd    uint8
	versionEnd uint8
}

// FromStreams builds a BoardId from up to three optional sources, in
// vendor, name, version order. A nil reader means the source does not
// exist. Each source is expected to carry its part followed by a
// trailing newline, the format of the /sys/class/dmi/id/board_* files.
// Sources are read to exhaustion straight into the buffer; if their
// combined data does not fit, ErrTooLarge is returned. Read errors are
// passed through unchanged.
func FromStreams(vendor, name, version io.Reader) (BoardId, error) {
	var id BoardId
	cursor := 0

	vn, err := readPart(id.buffer[cursor:], vendor)
	if err != nil {
		return BoardId{}, err
	}
	cursor += vn

	nn, err := readPart(id.buffer[cursor:], name)
	if err != nil {
		return BoardId{}, err
	}
	cursor += nn

	vv, err := readPart(id.buffer[cursor:], version)
	if err != nil {
		return BoardId{}, err
	}
	cursor += vv

	// The last source's trailing newline may still sit past the end of
	// the version range. Zero the tail so two BoardIds with the same
	// parts always compare equal.
	clear(id.buffer[cursor:])

	id.vendorEnd = uint8(vn)
	id.nameEnd = uint8(vn + nn)
	id.versionEnd = uint8(vn + nn + vv)
	return id, nil
}

// readPart reads src to exhaustion into buf and returns the part
// length with the trailing newline dropped. A nil or empty source
// contributes zero bytes.
func readPart(buf []byte, src io.Reader) (int, error) {
	if src == nil {
		return 0, nil
	}
	n := 0
	for {
		if n == len(buf) {
			// Buffer exhausted. Probe with a scratch byte so end of
			// stream on an exact fit is still observable.
			var probe [1]byte
			m, err := src.Read(probe[:])
			if m > 0 {
				return 0, ErrTooLarge
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return 0, err
			}
			continue
		}
		m, err := src.Read(buf[n:])
		n += m
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	return max(n-1, 0), nil
}

// Vendor returns the board vendor bytes, ok reporting whether a vendor
// was detected.
func (id BoardId) Vendor() ([]byte, bool) {
	if id.vendorEnd == 0 {
		return nil, false
	}
	return id.buffer[:id.vendorEnd], true
}

// Name returns the board name bytes, ok reporting whether a name was
// detected.
func (id BoardId) Name() ([]byte, bool) {
	if id.vendorEnd == id.nameEnd {
		return nil, false
	}
	return id.buffer[id.vendorEnd:id.nameEnd], true
}

// Version returns the board version bytes, ok reporting whether a
// version was detected.
func (id BoardId) Version() ([]byte, bool) {
	if id.nameEnd >= id.versionEnd {
		return nil, false
	}
	return id.buffer[id.nameEnd:id.versionEnd], true
}

// String renders a one-line label:
//
//   - "<vendor> <name> <version>" when everything is known
//   - "<vendor> motherboard" when only the vendor is known
//   - "undetected motherboard" when neither vendor nor name is known
//
// The version is only shown after a detected name, so a bare version
// can never produce labels like "undetected motherboard 1.0". Bytes
// outside printable ASCII are escaped.
func (id BoardId) String() string {
	var b strings.Builder

	wroteVendor := false
	if vendor, ok := id.Vendor(); ok {
		writeEscaped(&b, vendor)
		b.WriteByte(' ')
		wroteVendor = true
	}

	name, ok := id.Name()
	if !ok {
		if wroteVendor {
			b.WriteString("motherboard")
		} else {
			b.WriteString("undetected motherboard")
		}
		return b.String()
	}
	writeEscaped(&b, name)

	if version, ok := id.Version(); ok {
		b.WriteByte(' ')
		writeEscaped(&b, version)
	}
	return b.String()
}

const hexDigits = "0123456789abcdef"

// writeEscaped writes data with everything outside printable ASCII
// replaced by its escape sequence, so the label is always safe to log.
func writeEscaped(b *strings.Builder, data []byte) {
	for _, c := range data {
		switch {
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\\':
			b.WriteString(`\\`)
		case c >= 0x20 && c <= 0x7e:
			b.WriteByte(c)
		default:
			b.WriteString(`\x`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		}
	}
}
