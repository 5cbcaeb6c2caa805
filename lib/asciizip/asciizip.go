// Package asciizip assembles the minimal single-entry ZIP/JAR container that
// wraps an asciiflate-encoded payload: a local file header, a matching
// central directory entry, and an end-of-central-directory record, laid out
// byte-for-byte per spec.md 6. spec.md 6 and 8 (scenario 6) define the
// padding search's acceptance check over exactly four little-endian 32-bit
// fields — CRC32, compressed size, uncompressed size, and the
// end-of-central-directory's CD-offset field — not the whole archive: the
// fixed structural bytes and the entry name are explicitly out of scope, so
// AllowedBytesReport only inspects those four fields.
package asciizip

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/c0ny1/ascii-jar/lib/asciiflate"
)

// localHeaderFields is the 10 bytes shared verbatim by the local file header
// and the central directory entry: version needed to extract (0x000a),
// general purpose flag (0), compression method (8, DEFLATE), last mod time
// and date (both 0). Every wrapped entry uses the same fixed values, so
// there's no reason to build this more than once.
var localHeaderFields = []byte{0x0a, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00}

// Entry is the single file this package wraps into an archive.
type Entry struct {
	Name       []byte
	Raw        []byte // uncompressed content, used only for its CRC32 and length
	Compressed []byte // the asciiflate-encoded bytes actually stored
}

// Archive is a fully serialized single-entry ZIP/JAR container.
type Archive struct {
	bytes []byte

	// The four fields spec.md 6 and 8 (scenario 6) require the padding
	// search to check, captured at construction time since two of them
	// (crc, compLen) appear twice in the serialized form and the CD-offset
	// field's position depends on the variable-length entry name.
	crc      uint32
	compLen  uint32
	rawLen   uint32
	cdOffset uint32
}

// Bytes returns the archive's serialized form.
func (a *Archive) Bytes() []byte { return a.bytes }

// Build assembles e into a single-entry archive. Every multi-byte integer
// field is little-endian, per the ZIP format.
//
// The central directory entry packs its name-length and extra-length fields
// (normally two separate uint16s) as a single little-endian uint32 of the
// name length, followed by 10 zero bytes covering comment-length,
// disk-number-start, internal attributes and external attributes. Since
// extra-length is always zero here, the two encodings are bit-identical;
// this wrapper intentionally matches that exact layout rather than the more
// conventional per-field spelling, since the caller needs the literal
// output bytes, not merely a valid ZIP.
func Build(e Entry) *Archive {
	crc := crc32.ChecksumIEEE(e.Raw)
	compLen := uint32(len(e.Compressed))
	rawLen := uint32(len(e.Raw))
	nameLen := uint32(len(e.Name))

	var out []byte

	// Local file header.
	out = append(out, 'P', 'K', 3, 4)
	out = append(out, localHeaderFields...)
	out = appendU32(out, crc)
	out = appendU32(out, compLen)
	out = appendU32(out, rawLen)
	out = appendU16(out, uint16(nameLen))
	out = append(out, 0, 0) // extra field length
	out = append(out, e.Name...)
	out = append(out, e.Compressed...)

	// Central directory entry.
	cdStart := len(out)
	out = append(out, 'P', 'K', 1, 2, 0, 0) // signature + version made by
	out = append(out, localHeaderFields...)
	out = appendU32(out, crc)
	out = appendU32(out, compLen)
	out = appendU32(out, rawLen)
	out = appendU32(out, nameLen) // name length; doubles as extra-length=0
	out = append(out, make([]byte, 10)...)
	out = appendU32(out, 0) // offset of local file header
	out = append(out, e.Name...)
	cdLen := len(out) - cdStart

	// End of central directory record.
	out = append(out, 'P', 'K', 5, 6)
	out = append(out, 0, 0, 0, 0, 0, 0)
	out = appendU16(out, 1)
	out = appendU32(out, uint32(cdLen))
	out = appendU32(out, uint32(cdStart))
	out = append(out, 0, 0) // comment length

	return &Archive{
		bytes:    out,
		crc:      crc,
		compLen:  compLen,
		rawLen:   rawLen,
		cdOffset: uint32(cdStart),
	}
}

func appendU32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

func appendU16(b []byte, v uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return append(b, buf[:]...)
}

// Report describes whether a's four checked fields (spec.md 6, 8) are all
// allowed, and which one failed first if not, so a padding search
// (cmd/asciijar) knows to retry rather than mistake a disallowed byte
// elsewhere in the archive (entry name, fixed structural bytes — both out
// of scope for this check) for a reason to keep padding.
type Report struct {
	OK          bool
	FailedField string // "crc32", "compressed_size", "uncompressed_size", or "cd_offset"; "" if OK
}

// AllowedBytesReport checks exactly the four little-endian 32-bit fields
// spec.md 6 and 8 (scenario 6) name: CRC32 of the uncompressed payload,
// compressed size, uncompressed size, and the end-of-central-directory
// record's CD-offset field. Every other byte of the archive — its fixed
// structural bytes and the entry name — is explicitly out of scope.
func AllowedBytesReport(a *Archive, allowed asciiflate.Alphabet) Report {
	fields := []struct {
		name  string
		value uint32
	}{
		{"crc32", a.crc},
		{"compressed_size", a.compLen},
		{"uncompressed_size", a.rawLen},
		{"cd_offset", a.cdOffset},
	}
	for _, f := range fields {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], f.value)
		if !allowed.ContainsBytes(buf[:]) {
			return Report{OK: false, FailedField: f.name}
		}
	}
	return Report{OK: true}
}
