package asciiflate

import "errors"

var (
	// ErrAlphabetPrecondition is returned when the allowed alphabet does not
	// contain every byte of the fixed padding block, which every non-empty
	// Encode emits first, so no amount of chunk planning could produce
	// allowed-only output. The type-1 and type-2 chunk header tables are not
	// part of this check.
	ErrAlphabetPrecondition = errors.New("asciiflate: allowed alphabet violates header precondition")

	// ErrUnencodableInput is returned when even a length-1 chunk cannot be
	// Huffman-synthesized under the given alphabet.
	ErrUnencodableInput = errors.New("asciiflate: input cannot be encoded under the allowed alphabet")
)
