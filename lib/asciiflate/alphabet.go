package asciiflate

import (
	"sort"

	"github.com/c0ny1/ascii-jar/internal/bitstr"
)

// Alphabet is the caller-specified subset of ASCII that every output byte of
// Encode must belong to. It also carries the derived candidate-codeword sets
// that the two Huffman synthesizer variants search over, precomputed once so
// that repeated synthesis attempts over the same alphabet don't re-derive
// them per chunk.
type Alphabet struct {
	member [256]bool

	// type1Codewords holds, for each member of the alphabet, the bit-reversal
	// of that byte — the codeword that, written MSB-first (bitSink's
	// msbFirst convention), reproduces the original byte on the wire —
	// filtered to >= 0b00011100 (see RFC 1951 section 3.2.2's "reserve short
	// codewords for control structure" discipline, spec.md 4.2 step 1) and
	// sorted ascending.
	type1Codewords []byte

	// type2Codewords holds the members of the range [0x80, 0xC0) whose
	// low 6 bits, reversed and followed by the fixed "10" field written at
	// bit cursor 6, land in the alphabet (spec.md 4.3).
	type2Codewords []byte
}

// NewAlphabet builds an Alphabet from the given set of allowed byte values.
func NewAlphabet(allowed []byte) Alphabet {
	var a Alphabet
	for _, b := range allowed {
		a.member[b] = true
	}

	// Type-1 codewords are literal allowed bytes, but written MSB-first (see
	// bitSink.writeBits's msbFirst convention), so the candidate pool is the
	// bit-reversal of each allowed byte: choosing codeword rev8(b) makes the
	// emitted byte rev8(rev8(b)) == b.
	for _, b := range allowed {
		c := bitstr.Reverse8(b)
		if c >= type1FirstValidCode {
			a.type1Codewords = append(a.type1Codewords, c)
		}
	}

	for c := 0x80; c < 0xC0; c++ {
		if c < type2FirstValidCode {
			continue
		}
		low6 := byte(c) & 0x3F
		probe := 0x40 | bitstr.Reverse6(low6) // rev(c&0x3F) in the low 6 bits, "10" in bits 6-7
		if a.member[probe] {
			a.type2Codewords = append(a.type2Codewords, byte(c))
		}
	}

	sort.Slice(a.type1Codewords, func(i, j int) bool { return a.type1Codewords[i] < a.type1Codewords[j] })
	sort.Slice(a.type2Codewords, func(i, j int) bool { return a.type2Codewords[i] < a.type2Codewords[j] })
	return a
}

// Contains reports whether b is a member of the alphabet.
func (a Alphabet) Contains(b byte) bool { return a.member[b] }

// ContainsBytes reports whether every byte of p is a member of the alphabet.
func (a Alphabet) ContainsBytes(p []byte) bool {
	for _, b := range p {
		if !a.member[b] {
			return false
		}
	}
	return true
}

// lastByteOK reports whether codeword c, written as the final literal of a
// type-2 chunk and immediately followed by the 2-bit end-of-block marker
// "00", produces an allowed byte. c's low 6 bits, reversed, form the low 6
// bits of that byte; the end-of-block marker forms the high 2 bits.
func (a Alphabet) lastByteOK(c byte) bool {
	low6 := c & 0x3F
	b := bitstr.Reverse6(low6) // low 6 bits = rev(low6), bits 6-7 = "00"
	return a.member[b]
}

// checkHeaderPrecondition verifies that the padding block's fixed bit
// tables (spec.md 4.6 — entirely data-independent, hard-coded constants)
// serialize to bytes that are all members of the alphabet. Every non-empty
// Encode call emits exactly this padding block before its first chunk (see
// encode.go), so if its bytes don't fit the alphabet, no input could ever be
// encoded; this is the "AlphabetPreconditionViolated" check of spec.md 7,
// raised once at Encode's entry rather than after exhausting every chunk
// size the planner could try.
func (a Alphabet) checkHeaderPrecondition() bool {
	return a.ContainsBytes(paddingBlockBytes())
}
