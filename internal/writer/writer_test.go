package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	var w Writer = &FileWriter{Path: path}
	require.NoError(t, w.WriteAll([]byte("first")))
	require.NoError(t, w.WriteAll([]byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, DefaultPerm, info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileWriter_MissingDir(t *testing.T) {
	w := &FileWriter{Path: filepath.Join(t.TempDir(), "nope", "out.bin")}
	require.Error(t, w.WriteAll([]byte("x")))
}

func TestMemWriter(t *testing.T) {
	var w MemWriter
	src := []byte("abc")
	require.NoError(t, w.WriteAll(src))
	src[0] = 'x'
	require.Equal(t, "abc", string(w.Buf))
}
