// Command zippad prepends and/or appends literal bytes to an existing
// ZIP/JAR archive, patching its internal offsets and comment-length field
// so it stays structurally valid (spec.md 4.9).
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/c0ny1/ascii-jar/lib/zippatch"
)

func main() {
	var (
		inPath  = flag.String("i", "", "input archive path")
		outPath = flag.String("o", "", "output archive path")
		prepend = flag.String("p", "", "bytes to prepend")
		appendS = flag.String("a", "", "bytes to append")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *inPath == "" || *outPath == "" {
		logger.Error("both -i and -o are required")
		os.Exit(2)
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		logger.Error("reading input", "error", err)
		os.Exit(1)
	}

	patch := zippatch.Patch{Prepend: []byte(*prepend), Append: []byte(*appendS)}
	patched, err := patch.Apply(data)
	if err != nil {
		logger.Error("patching archive", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outPath, patched, 0o644); err != nil {
		logger.Error("writing output", "error", err)
		os.Exit(1)
	}
	logger.Info("wrote patched archive", "path", *outPath, "prepend_bytes", len(*prepend), "append_bytes", len(*appendS))
}
