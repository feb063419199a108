package boardid

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stream(payload string) io.Reader {
	return strings.NewReader(payload + "\n")
}

// chunkReader returns one byte per Read call, to exercise partial
// reads the way slow file backends would.
type chunkReader struct {
	data string
	pos  int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	p[0] = c.data[c.pos]
	c.pos++
	return 1, nil
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

func TestRoundTrip(t *testing.T) {
	id, err := FromStreams(stream("ASUSTeK COMPUTER INC."), stream("PRIME B450-PLUS"), stream("Rev X.0x"))
	assert.Nil(t, err)

	vendor, ok := id.Vendor()
	assert.True(t, ok)
	assert.Equal(t, "ASUSTeK COMPUTER INC.", string(vendor))

	name, ok := id.Name()
	assert.True(t, ok)
	assert.Equal(t, "PRIME B450-PLUS", string(name))

	version, ok := id.Version()
	assert.True(t, ok)
	assert.Equal(t, "Rev X.0x", string(version))
}

func TestPresence(t *testing.T) {
	// absent, empty payload and non-empty payload per field, in every
	// combination; empty must be reported exactly like absent.
	variants := []func() io.Reader{
		func() io.Reader { return nil },
		func() io.Reader { return stream("") },
		func() io.Reader { return stream("x") },
	}

	for vi, vendor := range variants {
		for ni, name := range variants {
			for gi, version := range variants {
				id, err := FromStreams(vendor(), name(), version())
				assert.Nil(t, err)

				_, ok := id.Vendor()
				assert.Equal(t, vi == 2, ok)
				_, ok = id.Name()
				assert.Equal(t, ni == 2, ok)
				_, ok = id.Version()
				assert.Equal(t, gi == 2, ok)
			}
		}
	}
}

func TestOffsetsMonotonic(t *testing.T) {
	id, err := FromStreams(stream("aa"), nil, stream("cccc"))
	assert.Nil(t, err)
	assert.LessOrEqual(t, id.vendorEnd, id.nameEnd)
	assert.LessOrEqual(t, id.nameEnd, id.versionEnd)
	assert.LessOrEqual(t, int(id.versionEnd), capacity)
}

func TestString(t *testing.T) {
	cases := []struct {
		vendor, name, version io.Reader
		want                  string
	}{
		{nil, nil, nil, "undetected motherboard"},
		{stream("VENDOR"), nil, nil, "VENDOR motherboard"},
		{stream("VENDOR"), nil, stream("VERSION"), "VENDOR motherboard"},
		{nil, nil, stream("VERSION"), "undetected motherboard"},
		{stream("VENDOR"), stream("NAME"), stream("VERSION"), "VENDOR NAME VERSION"},
		{nil, stream("NAME"), nil, "NAME"},
		{nil, stream("NAME"), stream("VERSION"), "NAME VERSION"},
	}
	for _, c := range cases {
		id, err := FromStreams(c.vendor, c.name, c.version)
		assert.Nil(t, err)
		assert.Equal(t, c.want, id.String())
	}
}

func TestStringEscapes(t *testing.T) {
	id, err := FromStreams(stream("AB\x01\xffC"), stream("a\tb\\c"), nil)
	assert.Nil(t, err)
	assert.Equal(t, `AB\x01\xffC a\tb\\c`, id.String())
}

func TestPartialReads(t *testing.T) {
	id, err := FromStreams(&chunkReader{data: "VENDOR\n"}, &chunkReader{data: "NAME\n"}, nil)
	assert.Nil(t, err)
	assert.Equal(t, "VENDOR NAME", id.String())
}

func TestCapacityBoundary(t *testing.T) {
	// capacity-1 payload bytes plus the newline exactly fill the
	// buffer; that still has to round-trip.
	fit := strings.Repeat("n", capacity-1)
	id, err := FromStreams(nil, stream(fit), nil)
	assert.Nil(t, err)
	name, ok := id.Name()
	assert.True(t, ok)
	assert.Equal(t, fit, string(name))

	// one more byte must fail loudly, not truncate.
	_, err = FromStreams(nil, stream(fit+"n"), nil)
	assert.True(t, errors.Is(err, ErrTooLarge))

	// overflow across sources counts too.
	_, err = FromStreams(stream(strings.Repeat("v", 200)), stream(strings.Repeat("n", 200)), nil)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestReadErrorPropagates(t *testing.T) {
	boom := errors.New("dmi read failed")
	_, err := FromStreams(stream("VENDOR"), errReader{err: boom}, nil)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrTooLarge))
}

func TestValueEquality(t *testing.T) {
	a, err := FromStreams(stream("VENDOR"), stream("NAME"), stream("VERSION"))
	assert.Nil(t, err)
	// same parts delivered in different read patterns, with a
	// different trailing terminator history.
	b, err := FromStreams(&chunkReader{data: "VENDOR\n"}, stream("NAME"), stream("VERSION"))
	assert.Nil(t, err)
	assert.True(t, a == b)

	c, err := FromStreams(stream("VENDOR"), stream("NAME"), nil)
	assert.Nil(t, err)
	assert.False(t, a == c)

	// usable as a map key.
	seen := map[BoardId]int{a: 1}
	assert.Equal(t, 1, seen[b])
}

func TestAccessorsIdempotent(t *testing.T) {
	id, err := FromStreams(stream("VENDOR"), stream("NAME"), stream("VERSION"))
	assert.Nil(t, err)
	first, _ := id.Name()
	second, _ := id.Name()
	assert.Equal(t, first, second)
	assert.Equal(t, id.String(), id.String())
}
