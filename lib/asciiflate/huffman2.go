package asciiflate

import "sort"

// type2Plan mirrors type1Plan but for the type-2 synthesizer: the
// end-of-block symbol gets a 2-bit codeword instead of 6, and every
// assigned byte codeword additionally satisfies the type-2 alignment
// constraints of spec.md 4.3.
type type2Plan struct {
	lengths   []int
	codewords map[byte]uint32
	eobValue  uint32 // always 0, length 2
}

const type2FirstValidCode = 0x84 // 0b10000100

// synthesizeType2 builds a type2Plan for data, or reports ok=false. Failed
// attempts are memoized in cache so the chunk planner's repeated shrink
// probing over the same data runs in bounded time (spec.md 4.3).
func synthesizeType2(data []byte, alphabet Alphabet, cache *negativeCache) (type2Plan, bool) {
	if cache.knownBad(data) {
		return type2Plan{}, false
	}

	plan, ok := synthesizeType2Uncached(data, alphabet)
	if !ok {
		cache.markBad(data)
	}
	return plan, ok
}

func synthesizeType2Uncached(data []byte, alphabet Alphabet) (type2Plan, bool) {
	valid := alphabet.type2Codewords
	if len(valid) == 0 {
		return type2Plan{}, false
	}

	distinct := distinctSortedBytes(data)
	last := data[len(data)-1]

	symbols := make([]int, len(distinct)+1)
	symbols[0] = -1
	for i, b := range distinct {
		symbols[i+1] = int(b)
	}

	assigned := assignCanonicalCodesType2(symbols, []int{type2FirstValidCode - 1}, toInts(valid), distinct, last, alphabet)
	if assigned == nil {
		return type2Plan{}, false
	}
	assigned = assigned[1:]

	lengths, codewords, ok := buildType2Lengths(distinct, assigned)
	if !ok {
		return type2Plan{}, false
	}

	return type2Plan{lengths: lengths, codewords: codewords, eobValue: 0}, true
}

// assignCanonicalCodesType2 is assignCanonicalCodes (huffman1.go) with two
// type-2-specific refinements (spec.md 4.3):
//   - the max reachable code additionally leaves room for the remaining
//     symbols still to be assigned (valid[-(remaining)]) so the search
//     never paints itself into a corner with too few candidates left, and
//   - the chunk's last byte may only take a codeword whose reversed low 6
//     bits, followed by the "00" end-of-block marker, land in the alphabet.
func assignCanonicalCodesType2(symbols []int, codes []int, valid []int, distinct []byte, lastByte byte, alphabet Alphabet) []int {
	if len(symbols) == len(codes) {
		return codes
	}
	prevCode := codes[len(codes)-1]
	prevSymbol := symbols[len(codes)-1]
	symbol := symbols[len(codes)]

	remaining := len(symbols) - len(codes)
	maxCode := prevCode + (symbol - prevSymbol)
	if remaining <= len(valid) {
		if v := valid[len(valid)-remaining]; v < maxCode {
			maxCode = v
		}
	}

	last := sort.Search(len(valid), func(i int) bool { return valid[i] > maxCode }) - 1

	isLastSymbol := byte(symbol) == lastByte
	for i := last; i >= 0; i-- {
		chosen := valid[i]
		if isLastSymbol && !alphabet.lastByteOK(byte(chosen)) {
			continue
		}
		next := append([]int(nil), codes...)
		next = append(next, chosen)
		if assigned := assignCanonicalCodesType2(symbols, next, valid[i+1:], distinct, lastByte, alphabet); assigned != nil {
			return assigned
		}
	}
	return nil
}

// buildType2Lengths is buildType1Lengths's type-2 counterpart (spec.md 4.3):
// symbol 256 gets length 2 (value 0), one extra length-2 filler follows it,
// one length-6 filler is required somewhere, and length-8 fillers close the
// canonical-Huffman gaps between assigned bytes exactly as in type-1.
func buildType2Lengths(distinct []byte, assigned []int) ([]int, map[byte]uint32, bool) {
	db := append([]byte(nil), distinct...)
	ac := append([]int(nil), assigned...)

	codewords := make(map[byte]uint32, len(distinct))
	for i, b := range distinct {
		codewords[b] = uint32(assigned[i])
	}

	neededTwo := 0
	neededSix := 1
	neededEight := 0
	if len(ac) > 0 {
		neededEight = ac[0] - type2FirstValidCode
	}

	var lengths []int
	for len(lengths) < 257 || neededTwo > 0 || neededSix > 0 || neededEight > 0 {
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
				neededEight = 256 - 64*2 - 4 - countInts(lengths, 8)
			}
		case pos == 256:
			lengths = append(lengths, 2)
			neededTwo = 1
		case neededEight > 0:
			lengths = append(lengths, 8)
			neededEight--
		case neededSix > 0:
			lengths = append(lengths, 6)
			neededSix--
		case neededTwo > 0:
			lengths = append(lengths, 2)
			neededTwo--
		default:
			lengths = append(lengths, 0)
		}
	}

	extraCodeLengths := 257 - len(lengths)
	if (extraCodeLengths >= 13 && extraCodeLengths <= 15) || extraCodeLengths > 28 {
		return nil, nil, false
	}

	sum := 0
	for _, l := range lengths {
		if l != 0 {
			sum += 1 << uint(8-l)
		}
	}
	if sum != 256 {
		return nil, nil, false
	}
	return lengths, codewords, true
}
