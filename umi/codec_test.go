package umi

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	code, err := Encode("AAACGTACGTAC")
	expect.NoError(t, err)
	seq, err := Decode(code, 12)
	expect.NoError(t, err)
	expect.EQ(t, seq, "AAACGTACGTAC")
}

func TestEncodeBaseValues(t *testing.T) {
	for _, test := range []struct {
		seq  string
		code uint64
	}{
		{"A", 0},
		{"C", 1},
		{"G", 2},
		{"T", 3},
		{"AA", 0},
		{"AT", 3},
		{"TA", 12},
		{"GATTACA", 0x23c4},
	} {
		code, err := Encode(test.seq)
		expect.NoError(t, err)
		expect.EQ(t, code, test.code, "seq %s", test.seq)
	}
}

func TestRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	const bases = "ACGT"
	for iter := 0; iter < 1000; iter++ {
		length := 1 + r.Intn(MaxLength)
		seq := make([]byte, length)
		for i := range seq {
			seq[i] = bases[r.Intn(4)]
		}
		code, err := Encode(string(seq))
		require.NoError(t, err)
		got, err := Decode(code, length)
		require.NoError(t, err)
		require.Equal(t, string(seq), got)
	}
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode("ACGN")
	require.Error(t, err)
	require.IsType(t, &EncodingError{}, err)
	_, err = Encode("")
	require.Error(t, err)
	_, err = Encode("acgt")
	require.Error(t, err, "lowercase bases are not valid")
}

func TestDecodeErrors(t *testing.T) {
	// 0x10 needs three bases worth of bits.
	_, err := Decode(0x10, 2)
	require.Error(t, err)
	require.IsType(t, &DecodingError{}, err)
	_, err = Decode(0, 0)
	require.Error(t, err)
	_, err = Decode(0, MaxLength+1)
	require.Error(t, err)

	// The same code decodes differently under different declared lengths.
	s2, err := Decode(3, 2)
	require.NoError(t, err)
	require.Equal(t, "AT", s2)
	s4, err := Decode(3, 4)
	require.NoError(t, err)
	require.Equal(t, "AAAT", s4)
}
