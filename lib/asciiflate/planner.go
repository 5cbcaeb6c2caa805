package asciiflate

// plannedChunk is the outcome of deciding how many bytes of the remaining
// input the next block should cover, and with which encoder (spec.md 4.4).
type plannedChunk struct {
	blockType int // 1 or 2
	length    int
	type1     type1Plan
	type2     type2Plan
}

// maxType2DistinctBytes and maxType2ByteValue bound how far the initial
// expansion phase below looks ahead
// before the shrink search even starts: more than 50 distinct bytes, or any
// byte at or above 216, can never synthesize under type-2 (spec.md 4.3), so
// there's no point including them in the candidate chunk at all.
const (
	maxType2DistinctBytes = 50
	maxType2ByteValue     = 216
)

// planNextChunk decides the next block's extent and encoder, trying the
// longest type-2-eligible span, shrinking it until type-2 synthesis
// succeeds (or bottoms out), then seeing whether type-1 can do at least as
// well starting from wherever that landed — growing greedily while it can.
// This mirrors the reference compressor's chunking loop exactly: type-2 is
// preferred for its tighter output, type-1 is the fallback/extension that
// wins when the data's byte alphabet is too wide for type-2 to handle at
// all, or when it can simply run longer.
func planNextChunk(data []byte, alphabet Alphabet, cache *negativeCache) (plannedChunk, bool) {
	cursor := 1
	distinct := map[byte]bool{data[0]: true}
	maxByte := data[0]
	for cursor < len(data) && len(distinct) <= maxType2DistinctBytes && maxByte < maxType2ByteValue {
		b := data[cursor]
		distinct[b] = true
		if b > maxByte {
			maxByte = b
		}
		cursor++
	}
	if cursor != len(data) {
		cursor--
	}

	var bestType2 type2Plan
	haveType2 := false
	for cursor > 0 {
		plan, ok := synthesizeType2(data[:cursor], alphabet, cache)
		if !ok {
			cursor--
			continue
		}
		bestType2 = plan
		haveType2 = true
		break
	}

	if cursor == 0 {
		cursor = 1
	}

	blockType := 2
	var bestType1 type1Plan
	haveType1 := false
	for cursor <= len(data) {
		plan, ok := synthesizeType1(data[:cursor], alphabet)
		if !ok {
			break
		}
		bestType1 = plan
		haveType1 = true
		blockType = 1
		cursor++
	}
	if blockType == 1 {
		cursor--
	}

	switch {
	case blockType == 1 && haveType1:
		return plannedChunk{blockType: 1, length: cursor, type1: bestType1}, true
	case haveType2:
		return plannedChunk{blockType: 2, length: cursor, type2: bestType2}, true
	default:
		return plannedChunk{}, false
	}
}
