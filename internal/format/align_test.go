package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlign16(t *testing.T) {
	cases := map[int]int{0: 0, 1: 16, 15: 16, 16: 16, 17: 32, 0x1C + 12*3 + 18: 96}
	for in, want := range cases {
		require.Equal(t, want, Align16(in), "Align16(%d)", in)
		require.Equal(t, want, Align(in, DARCAlignment), "Align(%d, 16)", in)
	}
}

func TestAlign4(t *testing.T) {
	require.Equal(t, 0, Align4(0))
	require.Equal(t, 4, Align4(1))
	require.Equal(t, 4, Align4(4))
	require.Equal(t, 8, Align4(5))
}

func TestAlign_Odd(t *testing.T) {
	require.Equal(t, 6, Align(5, 3))
	require.Equal(t, 7, Align(7, 1))
	require.Equal(t, 7, Align(7, 0))
}
