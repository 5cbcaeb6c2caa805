package asciiflate

import "sort"

// type1Plan is the Huffman plan (spec.md 3, "Huffman plan") produced by the
// type-1 synthesizer: a code-length vector plus the codewords assigned to
// each distinct byte of the chunk and to the end-of-block symbol.
type type1Plan struct {
	lengths   []int         // index = symbol, value = code length in bits, 0 = unused
	codewords map[byte]uint32 // distinct chunk byte -> assigned 8-bit codeword
	eobValue  uint32          // end-of-block codeword value, always 6 bits
}

const type1FirstValidCode = 0x1C // 0b00011100

// synthesizeType1 builds a type1Plan for data, or reports ok=false if no
// codeword assignment exists (spec.md 4.2).
func synthesizeType1(data []byte, alphabet Alphabet) (type1Plan, bool) {
	valid := alphabet.type1Codewords
	if len(valid) == 0 {
		return type1Plan{}, false
	}

	distinct := distinctSortedBytes(data)

	symbols := make([]int, len(distinct)+1)
	symbols[0] = -1
	for i, b := range distinct {
		symbols[i+1] = int(b)
	}

	assigned := assignCanonicalCodes(symbols, []int{type1FirstValidCode - 1}, toInts(valid))
	if assigned == nil {
		return type1Plan{}, false
	}
	assigned = assigned[1:]

	lengths, codewords, ok := buildType1Lengths(distinct, assigned)
	if !ok {
		return type1Plan{}, false
	}

	return type1Plan{lengths: lengths, codewords: codewords, eobValue: 0b000011}, true
}

// buildType1Lengths walks symbols 0..286 assigning code lengths per
// spec.md 4.2 step 4: every byte in distinct gets length 8, with enough
// length-8 filler symbols inserted between them to consume the canonical-
// Huffman numeric gap between consecutive codewords, length 6 for the
// end-of-block symbol (256) with three length-6 fillers before it and three
// after it, and zero-length (unused) elsewhere.
func buildType1Lengths(distinct []byte, assigned []int) ([]int, map[byte]uint32, bool) {
	db := append([]byte(nil), distinct...)
	ac := append([]int(nil), assigned...)

	codewords := make(map[byte]uint32, len(distinct))
	for i, b := range distinct {
		codewords[b] = uint32(assigned[i])
	}

	neededSix := 3
	neededEight := 0
	if len(ac) > 0 {
		neededEight = ac[0] - type1FirstValidCode
	}

	var lengths []int
	for len(lengths) < 257 || neededSix > 0 || neededEight > 0 {
		pos := len(lengths)
		switch {
		case len(db) > 0 && pos == int(db[0]):
			if neededEight != 0 {
				return nil, nil, false
			}
			lengths = append(lengths, 8)
			thisCode := ac[0]
			ac = ac[1:]
			db = db[1:]
			if len(ac) > 0 {
				neededEight = ac[0] - thisCode - 1
			} else {
				neededEight = 228 - countInts(lengths, 8)
			}
		case pos == 256:
			if neededSix > 0 {
				return nil, nil, false
			}
			lengths = append(lengths, 6)
			neededSix = 3
		case neededEight > 0:
			lengths = append(lengths, 8)
			neededEight--
		case neededSix > 0:
			lengths = append(lengths, 6)
			neededSix--
		default:
			lengths = append(lengths, 0)
		}
	}

	c6 := countInts(lengths, 6)
	c8 := countInts(lengths, 8)
	if (64-c6)*4-c8 != 0 {
		return nil, nil, false
	}
	return lengths, codewords, true
}

// assignCanonicalCodes is the depth-first search of spec.md 4.2 step 2: it
// assigns to each symbol (after the first, which is a -1 sentinel already
// "assigned" codes[0]) a codeword from valid, in ascending symbol order,
// preferring larger codewords first, subject to the canonical-Huffman
// monotone-gap constraint codes[i+1]-codes[i] <= symbols[i+1]-symbols[i].
func assignCanonicalCodes(symbols []int, codes []int, valid []int) []int {
	if len(symbols) == len(codes) {
		return codes
	}
	prevCode := codes[len(codes)-1]
	prevSymbol := symbols[len(codes)-1]
	symbol := symbols[len(codes)]
	maxCode := prevCode + (symbol - prevSymbol)

	// valid is ascending; find the last index whose value is <= maxCode.
	last := sort.Search(len(valid), func(i int) bool { return valid[i] > maxCode }) - 1
	for i := last; i >= 0; i-- {
		chosen := valid[i]
		next := append([]int(nil), codes...)
		next = append(next, chosen)
		if assigned := assignCanonicalCodes(symbols, next, valid[i+1:]); assigned != nil {
			return assigned
		}
	}
	return nil
}

func distinctSortedBytes(data []byte) []byte {
	seen := map[byte]bool{}
	for _, b := range data {
		seen[b] = true
	}
	out := make([]byte, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func toInts(bs []byte) []int {
	out := make([]int, len(bs))
	for i, b := range bs {
		out[i] = int(b)
	}
	return out
}

func countInts(s []int, v int) int {
	n := 0
	for _, x := range s {
		if x == v {
			n++
		}
	}
	return n
}
