// Command asciijar builds an ASCII-safe ZIP/JAR archive from an input file:
// it asciiflate-encodes the file's content under a caller-specified
// alphabet, wraps it with asciizip, and if the container's own framing
// bytes (length fields, CRC, offsets) land outside the alphabet, grows the
// payload with a padding suffix and retries (spec.md 8, scenario 6; the
// reference driver did this by varying a generated Java source file's
// padding field and recompiling — this tool generalizes that to any input
// file by padding its raw bytes directly).
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/c0ny1/ascii-jar/lib/asciiflate"
	"github.com/c0ny1/ascii-jar/lib/asciizip"
)

func main() {
	var (
		inPath      = flag.String("in", "", "input file to wrap")
		outPath     = flag.String("out", "", "output archive path")
		entryName   = flag.String("entry", "payload", "archive entry name")
		alphabet    = flag.String("alphabet", defaultAlphabet(), "allowed output bytes, as a literal string")
		paddingByte = flag.String("pad-byte", "A", "single byte appended as padding")
		maxPadding  = flag.Int("max-padding", 4096, "give up after this many padding bytes")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *inPath == "" || *outPath == "" {
		logger.Error("both -in and -out are required")
		os.Exit(2)
	}
	if len(*paddingByte) != 1 {
		logger.Error("-pad-byte must be exactly one byte")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		logger.Error("reading input", "error", err)
		os.Exit(1)
	}

	alpha := asciiflate.NewAlphabet([]byte(*alphabet))
	pad := (*paddingByte)[0]

	archive, padding, err := buildWithPadding(raw, []byte(*entryName), alpha, pad, *maxPadding, logger)
	if err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outPath, archive.Bytes(), 0o644); err != nil {
		logger.Error("writing output", "error", err)
		os.Exit(1)
	}
	logger.Info("wrote archive", "path", *outPath, "padding_bytes", padding)
}

// buildWithPadding is the retry loop of spec.md 8 scenario 6: append
// increasing amounts of pad to raw, re-encode, re-wrap, and stop at the
// first padding length whose CRC32, compressed size, uncompressed size,
// and CD-offset fields (asciizip.AllowedBytesReport — the archive's fixed
// structural bytes and entry name are out of scope) are all within alpha.
func buildWithPadding(raw []byte, name []byte, alpha asciiflate.Alphabet, pad byte, maxPadding int, logger *slog.Logger) (*asciizip.Archive, int, error) {
	for n := 0; n <= maxPadding; n++ {
		padded := raw
		if n > 0 {
			padded = append(append([]byte(nil), raw...), bytes.Repeat([]byte{pad}, n)...)
		}

		compressed, err := asciiflate.Encode(padded, alpha)
		if err != nil {
			return nil, 0, fmt.Errorf("asciiflate.Encode at padding %d: %w", n, err)
		}

		archive := asciizip.Build(asciizip.Entry{Name: name, Raw: padded, Compressed: compressed})
		report := asciizip.AllowedBytesReport(archive, alpha)
		if report.OK {
			return archive, n, nil
		}
		logger.Debug("padding attempt rejected", "padding_bytes", n, "failed_field", report.FailedField)
	}
	return nil, 0, fmt.Errorf("no padding length up to %d produced an all-allowed archive", maxPadding)
}

// defaultAlphabet mirrors the reference driver's allow-list: every 7-bit
// ASCII byte (0x00-0x7F, control bytes included) except a handful of
// shell/HTML-metacharacters.
func defaultAlphabet() string {
	disallowed := map[byte]bool{'&': true, '<': true, '\'': true, '>': true, '"': true, '(': true, ')': true}
	var b []byte
	for c := 0; c < 128; c++ {
		if !disallowed[byte(c)] {
			b = append(b, byte(c))
		}
	}
	return string(b)
}
