// Package asciiflate implements the constrained-alphabet DEFLATE encoder:
// given a payload and a caller-specified set of allowed output bytes, it
// produces a raw DEFLATE stream (RFC 1951, dynamic Huffman blocks only)
// every byte of which is a member of that alphabet.
//
// The stream is built as a sequence of blocks. Each data-carrying block uses
// one of two encoding strategies (spec.md 4.2, 4.3): type-1 assigns each
// distinct input byte an 8-bit Huffman codeword equal to an allowed byte
// written literal; type-2 assigns 8-bit codewords in 0x84-0xBF whose fixed
// leading "10" bits close one byte and whose low 6 bits, at a specific
// bit-cursor alignment, open an allowed byte. A third, content-free padding block (spec.md 4.6) is
// interleaved to hold that alignment in place across data blocks. Deciding
// which strategy to use, and how many input bytes each block should cover,
// is the planner's job (planner.go); synthesizing the Huffman code lengths
// and codeword assignments for a chosen span is the job of huffman1.go and
// huffman2.go; serializing the chosen plan to bits is emitter.go.
package asciiflate

// Encode compresses payload into a DEFLATE stream whose every byte is a
// member of allowed. It returns ErrAlphabetPrecondition if allowed can't
// even carry the fixed padding block, and ErrUnencodableInput if some
// portion of payload can't be encoded at any chunk length under allowed.
func Encode(payload []byte, allowed Alphabet) ([]byte, error) {
	if !allowed.checkHeaderPrecondition() {
		return nil, ErrAlphabetPrecondition
	}
	if len(payload) == 0 {
		return []byte{}, nil
	}

	var sink bitSink
	cache := newNegativeCache()

	data := payload
	previousBlockType := 2
	for len(data) > 0 {
		chunk, ok := planNextChunk(data, allowed, cache)
		if !ok {
			return nil, ErrUnencodableInput
		}

		rest := data[chunk.length:]
		last := len(rest) == 0

		if previousBlockType == 2 {
			writePaddingBlock(&sink)
		}

		switch chunk.blockType {
		case 1:
			writeChunk1(&sink, chunk.type1, data[:chunk.length], last)
		case 2:
			writeChunk2(&sink, chunk.type2, data[:chunk.length], last)
		}

		previousBlockType = chunk.blockType
		data = rest
	}

	return sink.bytes(), nil
}
