// Package umi implements a compact integer encoding of fixed-length UMI
// sequences.  Each base occupies two bits (A=00, C=01, G=10, T=11), packed in
// sequence order into a single unsigned integer, which matches the UMI
// representation used by molecule-level expression archives.
package umi

import "fmt"

// MaxLength is the longest sequence that fits in a uint64 code.
const MaxLength = 32

var (
	baseToCode = map[byte]uint64{
		'A': 0,
		'C': 1,
		'G': 2,
		'T': 3,
	}
	codeToBase = [4]byte{'A', 'C', 'G', 'T'}
)

// EncodingError is returned by Encode when a sequence contains a character
// outside the ACGT alphabet or exceeds MaxLength.
type EncodingError struct {
	Seq string
	Msg string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode umi %q: %s", e.Seq, e.Msg)
}

// DecodingError is returned by Decode when a code cannot represent any
// sequence of the declared length.
type DecodingError struct {
	Code   uint64
	Length int
	Msg    string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decode umi %#x (length %d): %s", e.Code, e.Length, e.Msg)
}

// Encode packs seq into its 2-bit integer code.  The first base of the
// sequence occupies the most significant bit pair of the result.
func Encode(seq string) (uint64, error) {
	if len(seq) == 0 || len(seq) > MaxLength {
		return 0, &EncodingError{Seq: seq, Msg: fmt.Sprintf("length must be in [1,%d]", MaxLength)}
	}
	var code uint64
	for i := 0; i < len(seq); i++ {
		c, ok := baseToCode[seq[i]]
		if !ok {
			return 0, &EncodingError{Seq: seq, Msg: fmt.Sprintf("invalid base %q at position %d", seq[i], i)}
		}
		code = code<<2 | c
	}
	return code, nil
}

// Decode is the inverse of Encode.  The code is zero-extended to 2*length
// bits, so Decode(Encode(s), len(s)) == s for every valid s.  It fails if the
// code needs more than 2*length bits.
func Decode(code uint64, length int) (string, error) {
	if length <= 0 || length > MaxLength {
		return "", &DecodingError{Code: code, Length: length, Msg: fmt.Sprintf("length must be in [1,%d]", MaxLength)}
	}
	if length < MaxLength && code>>(2*uint(length)) != 0 {
		return "", &DecodingError{Code: code, Length: length, Msg: "code does not fit in declared length"}
	}
	seq := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		seq[i] = codeToBase[code&3]
		code >>= 2
	}
	return string(seq), nil
}
