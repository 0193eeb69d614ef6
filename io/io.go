package io

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/phil-mansfield/gravtree"
)

/*
The .gal format has no header. A file is a contiguous block of records, one
per particle:

    |-- x --||-- y --||-- mass --||-- vx --||-- vy --||-- brightness --|

Every field is a float64, so a record is 48 bytes and the particle count is
the file size divided by 48. Files are little endian, which is what the
original x86 tools wrote.
*/

var (
	// GalEndianness is the byte order of .gal files.
	GalEndianness binary.ByteOrder = binary.LittleEndian
)

// RecordSize is the size in bytes of a single particle record.
var RecordSize = int64(binary.Size(gravtree.Particle{}))

// ReadParticles reads the .gal file at path. If n is positive, the file must
// contain exactly n particles. If n is zero the count is taken from the file
// size.
func ReadParticles(path string, n int) ([]gravtree.Particle, error) {
	if n < 0 {
		return nil, ioError(gravtree.InvalidInput, "io.ReadParticles",
			"particle count must be non-negative, but is %d", n)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, gravtree.Wrap(gravtree.IOError, "io.ReadParticles", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, gravtree.Wrap(gravtree.IOError, "io.ReadParticles", err)
	}

	count, err := recordCount(path, info.Size())
	if err != nil {
		return nil, err
	}
	if n > 0 && count != int64(n) {
		return nil, ioError(gravtree.InvalidInput, "io.ReadParticles",
			"expected %d particles in %s, but its size (%d bytes) implies %d",
			n, path, info.Size(), count)
	}

	ps := make([]gravtree.Particle, count)
	if err := ReadParticlesFrom(bufio.NewReader(f), ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// ReadParticlesFrom fills ps with records read from r.
func ReadParticlesFrom(r io.Reader, ps []gravtree.Particle) error {
	if err := binary.Read(r, GalEndianness, ps); err != nil {
		kind := gravtree.IOError
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			kind = gravtree.InvalidInput
		}
		return gravtree.Wrap(kind, "io.ReadParticlesFrom", err)
	}
	return nil
}

// WriteParticles writes ps to a .gal file at path, replacing anything
// already there.
func WriteParticles(path string, ps []gravtree.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return gravtree.Wrap(gravtree.IOError, "io.WriteParticles", err)
	}

	w := bufio.NewWriter(f)
	if err := WriteParticlesTo(w, ps); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return gravtree.Wrap(gravtree.IOError, "io.WriteParticles", err)
	}
	if err := f.Close(); err != nil {
		return gravtree.Wrap(gravtree.IOError, "io.WriteParticles", err)
	}
	return nil
}

// WriteParticlesTo writes ps to w as .gal records.
func WriteParticlesTo(w io.Writer, ps []gravtree.Particle) error {
	if err := binary.Write(w, GalEndianness, ps); err != nil {
		return gravtree.Wrap(gravtree.IOError, "io.WriteParticlesTo", err)
	}
	return nil
}

// recordCount converts a file size into a particle count.
func recordCount(path string, size int64) (int64, error) {
	if size == 0 {
		return 0, ioError(gravtree.InvalidInput, "io.ReadParticles",
			"%s is empty", path)
	} else if size%RecordSize != 0 {
		return 0, ioError(gravtree.InvalidInput, "io.ReadParticles",
			"size of %s (%d bytes) isn't a multiple of the %d byte record size",
			path, size, RecordSize)
	}
	return size / RecordSize, nil
}

func ioError(
	kind gravtree.Kind, op, format string, args ...interface{},
) error {
	return gravtree.Wrap(kind, op, gravtree.Errorf(kind, format, args...))
}
