package version

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ctrkit/pkg/memory"
)

func TestParse(t *testing.T) {
	v, err := Parse("1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, Version{Major: 1, Minor: 2, Patch: 3, Micro: 4}, v)
	require.Equal(t, "1.2.3.4", v.String())
	require.True(t, v.Is("1.2.3.4"))
	require.False(t, v.Is("1.2.3"))
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "1.0.0", "1.0.0.0.0", "a.b.c.d", "256.0.0.0", "1000.0.0.0", " 1.0.0.0"} {
		_, err := Parse(s)
		require.ErrorIs(t, err, ErrInvalidSpecifier, s)
	}
}

func TestBuildRead(t *testing.T) {
	v := MustParse("1.0.0.0")
	m, err := memory.New()
	require.NoError(t, err)

	require.NoError(t, v.Build(m))
	require.Equal(t, []byte{0, 0, 0, 1}, m.Bytes())
	require.Equal(t, Size, v.SizeOf())

	require.NoError(t, m.Seek(0))
	got, err := Read(m)
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestRead_Short(t *testing.T) {
	m, err := memory.FromBytes([]byte{1, 2})
	require.NoError(t, err)
	_, err = Read(m)
	require.ErrorIs(t, err, memory.ErrOutOfBounds)
}

func TestText(t *testing.T) {
	var v Version
	require.NoError(t, v.UnmarshalText([]byte("3.2.1.0")))
	b, err := v.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "3.2.1.0", string(b))
	require.Error(t, v.UnmarshalText([]byte("x")))
}
