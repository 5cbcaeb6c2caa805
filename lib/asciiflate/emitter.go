package asciiflate

// This file writes the three block shapes spec.md 4.5 and 4.6 describe: the
// static padding block, and the two dynamic-Huffman chunk blocks (type-1 and
// type-2). All three share the same code-length-vector run-length encoding
// idiom — a handful of hard-coded 3-bit code-length-code assignments
// followed by runs of "repeat previous/repeat zero" Huffman 16/17/18
// codewords — so that idiom is factored into the two repeat helpers below.

// paddingCLLengths, type1CLLengths and type2CLLengths are the fixed 3-bit
// code-length assignments for the code-length alphabet (symbols in RFC 1951
// order 16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, ...)
// that each block shape's header hard-codes. They never vary with chunk
// content; only the runs that follow them do.
var (
	paddingCLLengths = []uint32{2, 5, 0, 4, 3, 0, 6, 4, 4, 4, 4, 6, 2}
	type1CLLengths   = []uint32{2, 4, 3, 4, 4, 5, 4, 4, 4, 0, 3, 5, 4}
	type2CLLengths   = []uint32{2, 5, 3, 4, 4, 5, 4, 4, 4, 0, 3, 5, 0, 5, 0, 4, 0}
)

var type1CodeValues = map[int]string{0: "1000", 6: "1001", 8: "1010"}
var type2CodeValues = map[int]string{0: "1000", 2: "1001", 6: "1010", 8: "1011"}

func writeCLLengths(s *bitSink, lengths []uint32) {
	for _, l := range lengths {
		s.writeBits(l, 3, false)
	}
}

// paddingRepeat emits n copies of the literal 4-bit code-length-code
// codeword into s, taking a byte-aligned "repeat 3-6x then repeat 4x" fast
// path (Huffman 16's codeword twice, bracketing the x-7 repeat count) once
// the cursor has returned to a byte boundary and at least 7 repeats remain.
func paddingRepeat(s *bitSink, code string, n int) {
	first := true
	for n > 0 {
		if n > 6 && !first && s.cursor()%8 == 0 {
			x := n
			if x > 10 {
				x = 10
			}
			s.writeLiteral("01") // Huffman 16
			s.writeBits(uint32(x-7), 2, false)
			s.writeLiteral("01") // Huffman 16
			s.writeBits(1, 2, false)
			n -= x
		} else {
			s.writeLiteral(code)
			n--
		}
		first = false
	}
}

// chunkRepeat is the same idiom as paddingRepeat, used by both chunk block
// shapes: its fast path groups repeats six at a time via Huffman 16's
// "repeat previous 6x" codeword, and triggers at cursor position 2 rather
// than 0 (the chunk headers, unlike the padding block, leave the cursor at
// bit 2 going into this field).
func chunkRepeat(s *bitSink, code string, n int) {
	first := true
	for n > 0 {
		if n > 6 && !first && s.cursor()%8 == 2 {
			x := n / 6
			for i := 0; i < x; i++ {
				s.writeLiteral("00") // Huffman 16
				s.writeBits(3, 2, false)
			}
			n -= x * 6
		} else {
			s.writeLiteral(code)
			n--
		}
		first = false
	}
}

// writePaddingBlock emits a static dynamic-Huffman block whose sole purpose
// is alignment: it leaves the stream's bit cursor at position 6 rather than
// 0, which is what lets the type-2 chunk encoder's tighter alignment
// property apply to the chunk immediately following (spec.md 4.6). Its
// content never depends on input data.
func writePaddingBlock(s *bitSink) {
	s.writeBits(0, 1, false) // not last block
	s.writeBits(2, 2, false) // dynamic Huffman
	s.writeBits(8, 5, false) // HLIT = 8
	s.writeBits(16, 5, false) // HDIST = 16
	s.writeBits(9, 4, false) // HCLEN = 9

	writeCLLengths(s, paddingCLLengths)

	paddingRepeat(s, "1010", 197)
	paddingRepeat(s, "1100", 261-197)
	paddingRepeat(s, "1010", 265-261)

	paddingRepeat(s, "1010", 17)

	s.writeLiteral("111011") // end of block
}

// paddingBlockBytes returns the fully serialized padding block. It's
// data-independent, so Encode can check once, at its entry (via
// Alphabet.checkHeaderPrecondition), that it fits the allowed alphabet rather than failing only after every chunk
// size the planner could try has been exhausted.
func paddingBlockBytes() []byte {
	var s bitSink
	writePaddingBlock(&s)
	return s.bytes()
}

// codeLengthRuns collapses lengths into (value, run-length) pairs, the same
// grouping _compress_chunk's run-length encoder performs before mapping
// each run onto a repeat codeword.
func codeLengthRuns(lengths []int) [][2]int {
	var runs [][2]int
	for _, l := range lengths {
		if len(runs) > 0 && runs[len(runs)-1][0] == l {
			runs[len(runs)-1][1]++
		} else {
			runs = append(runs, [2]int{l, 1})
		}
	}
	return runs
}

// writeChunk1 emits a type-1 dynamic-Huffman chunk block (spec.md 4.2, 4.5).
func writeChunk1(s *bitSink, plan type1Plan, chunk []byte, last bool) {
	var lastBit uint32
	if last {
		lastBit = 1
	}
	s.writeBits(lastBit, 1, false)
	s.writeBits(2, 2, false)
	s.writeBits(uint32(len(plan.lengths)-257), 5, false) // HLIT
	s.writeBits(25, 5, false)                            // HDIST = 25
	s.writeBits(9, 4, false)                             // HCLEN = 9

	writeCLLengths(s, type1CLLengths)

	for _, run := range codeLengthRuns(plan.lengths) {
		chunkRepeat(s, type1CodeValues[run[0]], run[1])
	}

	if s.cursor()%8 == 2 {
		s.writeLiteral("011") // Huffman 18
		s.writeBits(11, 7, false)
		s.writeLiteral("00") // Huffman 16
		s.writeBits(1, 2, false)
	} else {
		s.writeLiteral("1000") // Huffman 0
		s.writeLiteral("011")  // Huffman 18
		s.writeBits(10, 7, false)
		s.writeLiteral("00") // Huffman 16
		s.writeBits(1, 2, false)
	}

	for _, b := range chunk {
		s.writeBits(plan.codewords[b], 8, true)
	}
	s.writeBits(plan.eobValue, 6, true)
}

// writeChunk2 emits a type-2 dynamic-Huffman chunk block (spec.md 4.3, 4.5).
func writeChunk2(s *bitSink, plan type2Plan, chunk []byte, last bool) {
	var lastBit uint32
	if last {
		lastBit = 1
	}
	s.writeBits(lastBit, 1, false)
	s.writeBits(2, 2, false)
	s.writeBits(uint32(len(plan.lengths)-257), 5, false) // HLIT
	s.writeBits(5, 5, false)                             // HDIST = 5
	s.writeBits(13, 4, false)                            // HCLEN = 13

	writeCLLengths(s, type2CLLengths)

	for _, run := range codeLengthRuns(plan.lengths) {
		chunkRepeat(s, type2CodeValues[run[0]], run[1])
	}

	if s.cursor()%8 == 2 {
		s.writeLiteral("1000") // Huffman 0
		s.writeLiteral("1000") // Huffman 0
		s.writeLiteral("00")   // Huffman 16
		s.writeBits(1, 2, false)
	} else {
		s.writeLiteral("1001") // Huffman 2
		s.writeLiteral("00")   // Huffman 16
		s.writeBits(0, 2, false)
		s.writeLiteral("1000") // Huffman 0
		s.writeLiteral("1000") // Huffman 0
	}

	for _, b := range chunk {
		s.writeBits(plan.codewords[b], 8, true)
	}
	s.writeBits(plan.eobValue, 2, true)
}
