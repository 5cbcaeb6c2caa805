package asciizip

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"io"
	"testing"

	"github.com/c0ny1/ascii-jar/lib/asciiflate"
)

func printableASCIIAlphabet() asciiflate.Alphabet {
	disallowed := map[byte]bool{'&': true, '<': true, '\'': true, '>': true, '"': true, '(': true, ')': true}
	var allowed []byte
	for c := 0; c < 128; c++ {
		if !disallowed[byte(c)] {
			allowed = append(allowed, byte(c))
		}
	}
	return asciiflate.NewAlphabet(allowed)
}

func TestBuildRoundTripsThroughArchiveZip(t *testing.T) {
	alphabet := printableASCIIAlphabet()
	raw := []byte("package contents for the wrapped entry")

	compressed, err := asciiflate.Encode(raw, alphabet)
	if err != nil {
		t.Fatalf("asciiflate.Encode: %v", err)
	}

	archive := Build(Entry{Name: []byte("entry.txt"), Raw: raw, Compressed: compressed})

	zr, err := zip.NewReader(bytes.NewReader(archive.Bytes()), int64(len(archive.Bytes())))
	if err != nil {
		t.Fatalf("archive/zip rejected the built archive: %v", err)
	}
	if len(zr.File) != 1 {
		t.Fatalf("got %d entries, want 1", len(zr.File))
	}
	f := zr.File[0]
	if f.Name != "entry.txt" {
		t.Fatalf("got entry name %q, want entry.txt", f.Name)
	}
	if f.Method != zip.Deflate {
		t.Fatalf("got compression method %d, want Deflate", f.Method)
	}

	rc, err := f.Open()
	if err != nil {
		t.Fatalf("opening entry: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading entry: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("extracted content mismatch: got %q, want %q", got, raw)
	}
}

func TestBuildCompressedPayloadDecodesWithStandardFlate(t *testing.T) {
	alphabet := printableASCIIAlphabet()
	raw := []byte("Hello")
	compressed, err := asciiflate.Encode(raw, alphabet)
	if err != nil {
		t.Fatalf("asciiflate.Encode: %v", err)
	}

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate round-trip: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("got %q, want %q", got, raw)
	}
}

func TestAllowedBytesReportDetectsOutOfAlphabetField(t *testing.T) {
	// A single-byte payload makes every length field serialize with a
	// leading zero byte (e.g. compressed size 1 -> 01 00 00 00), which is
	// never in a printable alphanumeric alphabet, so the report must flag
	// it even though the archive's structural bytes and entry name
	// (outside the four checked fields) are untouched.
	alphabet := asciiflate.NewAlphabet([]byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"))
	archive := Build(Entry{Name: []byte("e"), Raw: []byte{0x41}, Compressed: []byte{0x41}})

	report := AllowedBytesReport(archive, alphabet)
	if report.OK {
		t.Fatalf("expected report to flag a disallowed field")
	}
	if report.FailedField == "" {
		t.Fatalf("expected a non-empty FailedField")
	}
}

// TestAllowedBytesReportIgnoresOutOfScopeBytes confirms the check doesn't
// reject an archive whose entry name or fixed structural bytes contain a
// byte outside the alphabet, since spec.md 6 and 8 put those out of scope.
func TestAllowedBytesReportIgnoresOutOfScopeBytes(t *testing.T) {
	alphabet := printableASCIIAlphabet()
	// "J" is chosen so that the four checked fields (CRC32 0x440b4703,
	// sizes and CD offset all below 0x80) stay inside the alphabet.
	raw := []byte("J")
	compressed, err := asciiflate.Encode(raw, alphabet)
	if err != nil {
		t.Fatalf("asciiflate.Encode: %v", err)
	}
	// The entry name contains 0xFF, which is outside this 7-bit ASCII
	// alphabet; the entry name is never checked.
	archive := Build(Entry{Name: []byte{0xFF, 'n'}, Raw: raw, Compressed: compressed})

	report := AllowedBytesReport(archive, alphabet)
	if !report.OK {
		t.Fatalf("expected report to ignore out-of-scope bytes, got failed field %q", report.FailedField)
	}
}
