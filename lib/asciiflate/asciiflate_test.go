package asciiflate

import (
	"bytes"
	"compress/flate"
	"io"
	"testing"
)

func printableASCIIAlphabet() Alphabet {
	disallowed := map[byte]bool{'&': true, '<': true, '\'': true, '>': true, '"': true, '(': true, ')': true}
	var allowed []byte
	for c := 0; c < 128; c++ {
		if !disallowed[byte(c)] {
			allowed = append(allowed, byte(c))
		}
	}
	return NewAlphabet(allowed)
}

func decode(t *testing.T, encoded []byte) []byte {
	t.Helper()
	r := flate.NewReader(bytes.NewReader(encoded))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate.NewReader round-trip failed: %v", err)
	}
	return out
}

func requireAllowed(t *testing.T, encoded []byte, alphabet Alphabet) {
	t.Helper()
	for i, b := range encoded {
		if !alphabet.Contains(b) {
			t.Fatalf("byte %d (0x%02x) at offset %d is not in the allowed alphabet", b, b, i)
		}
	}
}

func TestEncodeSingleByteRoundTrips(t *testing.T) {
	alphabet := printableASCIIAlphabet()
	payload := bytes.Repeat([]byte("A"), 1)

	encoded, err := Encode(payload, alphabet)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	requireAllowed(t, encoded, alphabet)
	if got := decode(t, encoded); !bytes.Equal(got, payload) {
		t.Fatalf("round-trip mismatch: got %q, want %q", got, payload)
	}
}

func TestEncodeShortPhraseRoundTrips(t *testing.T) {
	alphabet := printableASCIIAlphabet()
	payload := []byte("Hello")

	encoded, err := Encode(payload, alphabet)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	requireAllowed(t, encoded, alphabet)
	if got := decode(t, encoded); !bytes.Equal(got, payload) {
		t.Fatalf("round-trip mismatch: got %q, want %q", got, payload)
	}
}

// TestEncodeWideAlphabetChunk exercises the planner on a 512-byte payload
// of 40 distinct bytes, all below the type-2 byte ceiling (spec.md 8,
// scenario 3). Staying under the distinct-byte limit, the whole payload is
// planned as a single type-2 block.
func TestEncodeWideAlphabetChunk(t *testing.T) {
	alphabet := printableASCIIAlphabet()

	var payload []byte
	for i := 0; i < 512; i++ {
		payload = append(payload, byte(0x20+(i*7)%40))
	}

	encoded, err := Encode(payload, alphabet)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	requireAllowed(t, encoded, alphabet)
	if got := decode(t, encoded); !bytes.Equal(got, payload) {
		t.Fatalf("round-trip mismatch over %d bytes", len(payload))
	}
}

// TestEncodeHighByteFirstByte covers spec.md 8 scenario 4: a leading byte
// at or above the type-2 ceiling forces that prefix through type-1.
func TestEncodeHighByteFirstByte(t *testing.T) {
	alphabet := printableASCIIAlphabet()
	payload := append([]byte{0xD8}, []byte("rest of the payload")...)

	encoded, err := Encode(payload, alphabet)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	requireAllowed(t, encoded, alphabet)
	if got := decode(t, encoded); !bytes.Equal(got, payload) {
		t.Fatalf("round-trip mismatch: got %q, want %q", got, payload)
	}
}

func TestEncodeEmptyPayload(t *testing.T) {
	alphabet := printableASCIIAlphabet()
	encoded, err := Encode(nil, alphabet)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) != 0 {
		t.Fatalf("expected empty output for empty payload, got %d bytes", len(encoded))
	}
}

// TestEncodeSingletonAlphabetViolatesPrecondition is spec.md 8 scenario 5:
// an alphabet too small to carry the padding block's fixed bytes must be
// rejected up front, not after the planner has exhausted every chunk size.
func TestEncodeSingletonAlphabetViolatesPrecondition(t *testing.T) {
	alphabet := NewAlphabet([]byte{0x41})
	_, err := Encode([]byte("A"), alphabet)
	if err != ErrAlphabetPrecondition {
		t.Fatalf("got error %v, want ErrAlphabetPrecondition", err)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	alphabet := printableASCIIAlphabet()
	payload := []byte("the quick brown fox jumps over the lazy dog, 012345")

	first, err := Encode(payload, alphabet)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := Encode(payload, alphabet)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("Encode is not deterministic over identical input")
	}
}

func TestPaddingBlockBytesAreFixed(t *testing.T) {
	first := paddingBlockBytes()
	second := paddingBlockBytes()
	if !bytes.Equal(first, second) {
		t.Fatalf("paddingBlockBytes is not stable across calls")
	}
	if len(first) == 0 {
		t.Fatalf("paddingBlockBytes returned no bytes")
	}
}
