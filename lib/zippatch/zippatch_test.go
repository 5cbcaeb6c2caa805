package zippatch

import (
	"archive/zip"
	"bytes"
	"testing"
)

// buildTestArchive produces a minimal, standard single-entry ZIP via the
// standard library, as a stand-in for the hand-assembled archives this
// package actually patches (lib/asciizip's output).
func buildTestArchive(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create(name)
	if err != nil {
		t.Fatalf("zip.Create: %v", err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		t.Fatalf("writing entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	return buf.Bytes()
}

func TestApplyPrependKeepsArchiveValid(t *testing.T) {
	archive := buildTestArchive(t, "a.txt", "hello world")
	patch := Patch{Prepend: []byte("PADDING-PREFIX-")}

	patched, err := patch.Apply(archive)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.HasPrefix(patched, patch.Prepend) {
		t.Fatalf("output does not start with the prepend bytes")
	}

	zr, err := zip.NewReader(bytes.NewReader(patched), int64(len(patched)))
	if err != nil {
		t.Fatalf("archive/zip rejected the patched archive: %v", err)
	}
	if len(zr.File) != 1 {
		t.Fatalf("got %d entries, want 1", len(zr.File))
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("opening entry: %v", err)
	}
	defer rc.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(rc); err != nil {
		t.Fatalf("reading entry: %v", err)
	}
	if out.String() != "hello world" {
		t.Fatalf("got %q, want %q", out.String(), "hello world")
	}
}

func TestApplyAppendKeepsArchiveValid(t *testing.T) {
	archive := buildTestArchive(t, "b.txt", "some content")
	patch := Patch{Append: []byte("TRAILING-SUFFIX")}

	patched, err := patch.Apply(archive)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.HasSuffix(patched, patch.Append) {
		t.Fatalf("output does not end with the append bytes")
	}

	zr, err := zip.NewReader(bytes.NewReader(patched), int64(len(patched)))
	if err != nil {
		t.Fatalf("archive/zip rejected the patched archive: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "b.txt" {
		t.Fatalf("unexpected archive contents after append")
	}
}

func TestApplyBothPrependAndAppend(t *testing.T) {
	archive := buildTestArchive(t, "c.txt", "payload")
	patch := Patch{Prepend: []byte("PRE"), Append: []byte("POST")}

	patched, err := patch.Apply(archive)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(patched), int64(len(patched)))
	if err != nil {
		t.Fatalf("archive/zip rejected the patched archive: %v", err)
	}
	if len(zr.File) != 1 {
		t.Fatalf("got %d entries, want 1", len(zr.File))
	}
}

func TestApplyRejectsUnrecognizedTag(t *testing.T) {
	_, err := (Patch{}).Apply([]byte{0, 0, 0, 0})
	if err != ErrMalformedContainer {
		t.Fatalf("got %v, want ErrMalformedContainer", err)
	}
}
