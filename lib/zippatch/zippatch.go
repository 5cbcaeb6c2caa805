// Package zippatch prepends and appends arbitrary byte sequences to an
// existing ZIP/JAR archive while keeping it structurally valid: every
// internal offset that a prepend shifts, and the comment-length field that
// an append shifts, gets patched in place (spec.md 4.9). cmd/zippad is its
// command-line front end.
package zippatch

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// ErrMalformedContainer is returned when a record tag isn't one of the four
// this package understands, or the archive ends mid-record.
var ErrMalformedContainer = errors.New("zippatch: malformed or unrecognized zip record")

const (
	tagFileRecord = 0x04034b50
	tagDataDescr  = 0x08074b50
	tagDirEntry   = 0x02014b50
	tagEndLocator = 0x06054b50
)

// Patch describes a prepend/append pair to apply to an archive.
type Patch struct {
	Prepend []byte
	Append  []byte
}

type offsetFixup struct {
	index int
	value uint32
}

type lengthFixup struct {
	index int
	value uint16
}

// Apply walks archive record by record, then returns Prepend + archive +
// Append with every local-file-header offset and end-of-central-directory
// comment length adjusted for the new prepend/append sizes.
func (p Patch) Apply(archive []byte) ([]byte, error) {
	r := bytes.NewReader(archive)
	var offsetFixups []offsetFixup
	var lengthFixups []lengthFixup

	for {
		var tagBuf [4]byte
		n, err := io.ReadFull(r, tagBuf[:])
		if n == 0 && err != nil {
			break
		}
		if err != nil {
			return nil, ErrMalformedContainer
		}

		switch binary.LittleEndian.Uint32(tagBuf[:]) {
		case tagFileRecord:
			if err := skipFileRecord(r); err != nil {
				return nil, err
			}
		case tagDataDescr:
			if err := skipN(r, 12); err != nil {
				return nil, err
			}
		case tagDirEntry:
			idx, off, err := readDirEntry(r)
			if err != nil {
				return nil, err
			}
			offsetFixups = append(offsetFixups, offsetFixup{idx, off})
		case tagEndLocator:
			idx, off, commentLen, err := readEndLocator(r)
			if err != nil {
				return nil, err
			}
			offsetFixups = append(offsetFixups, offsetFixup{idx, off})
			lengthFixups = append(lengthFixups, lengthFixup{idx + 4, commentLen})
		default:
			return nil, ErrMalformedContainer
		}
	}

	out := append([]byte(nil), archive...)
	for _, f := range offsetFixups {
		binary.LittleEndian.PutUint32(out[f.index:f.index+4], f.value+uint32(len(p.Prepend)))
	}
	for _, f := range lengthFixups {
		binary.LittleEndian.PutUint16(out[f.index:f.index+2], f.value+uint16(len(p.Append)))
	}

	result := make([]byte, 0, len(p.Prepend)+len(out)+len(p.Append))
	result = append(result, p.Prepend...)
	result = append(result, out...)
	result = append(result, p.Append...)
	return result, nil
}

func skipFileRecord(r *bytes.Reader) error {
	var fixed [14]byte // version, flags, method, time, date, crc32
	if err := readFull(r, fixed[:]); err != nil {
		return err
	}
	var compSizeBuf [4]byte
	if err := readFull(r, compSizeBuf[:]); err != nil {
		return err
	}
	compSize := binary.LittleEndian.Uint32(compSizeBuf[:])
	if err := skipN(r, 4); err != nil { // raw size
		return err
	}
	var sizesBuf [4]byte
	if err := readFull(r, sizesBuf[:]); err != nil {
		return err
	}
	nameSize := binary.LittleEndian.Uint16(sizesBuf[0:2])
	extraSize := binary.LittleEndian.Uint16(sizesBuf[2:4])
	if err := skipN(r, int(nameSize)+int(extraSize)); err != nil {
		return err
	}
	if binary.LittleEndian.Uint16(fixed[2:4])&0x8 != 0 && compSize == 0 {
		// The sizes are deferred to a data descriptor; resume at its tag.
		rest, _ := io.ReadAll(r)
		if i := bytes.Index(rest, []byte("PK\x07\x08")); i >= 0 {
			_, err := r.Seek(int64(i-len(rest)), io.SeekCurrent)
			return err
		}
		return ErrMalformedContainer
	}
	return skipN(r, int(compSize))
}

// readDirEntry reads a central directory entry, whose local-header-offset
// field sits after a fixed 24-byte span, a 2-byte filename length, and
// another fixed 12-byte span (extra length, comment length, disk number,
// internal attributes, external attributes).
func readDirEntry(r *bytes.Reader) (index int, offset uint32, err error) {
	if err = skipN(r, 24); err != nil {
		return
	}
	var nameBuf [2]byte
	if err = readFull(r, nameBuf[:]); err != nil {
		return
	}
	nameSize := binary.LittleEndian.Uint16(nameBuf[:])
	if err = skipN(r, 12); err != nil {
		return
	}
	index = tell(r)
	var offBuf [4]byte
	if err = readFull(r, offBuf[:]); err != nil {
		return
	}
	offset = binary.LittleEndian.Uint32(offBuf[:])
	err = skipN(r, int(nameSize))
	return
}

// readEndLocator reads the end-of-central-directory record, whose
// CD-offset and comment-length fields immediately follow a fixed 12-byte
// span (disk numbers, per-disk and total entry counts, CD size).
func readEndLocator(r *bytes.Reader) (index int, offset uint32, commentLen uint16, err error) {
	if err = skipN(r, 12); err != nil {
		return
	}
	index = tell(r)
	var buf [6]byte
	if err = readFull(r, buf[:]); err != nil {
		return
	}
	offset = binary.LittleEndian.Uint32(buf[0:4])
	commentLen = binary.LittleEndian.Uint16(buf[4:6])
	return
}

func tell(r *bytes.Reader) int {
	pos, _ := r.Seek(0, io.SeekCurrent)
	return int(pos)
}

func skipN(r *bytes.Reader, n int) error {
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
		return ErrMalformedContainer
	}
	return nil
}

func readFull(r *bytes.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return ErrMalformedContainer
	}
	return nil
}
