package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ctrkit/pkg/blz"
	"github.com/joshuapare/ctrkit/pkg/darc"
	"github.com/joshuapare/ctrkit/pkg/memory"
)

var layoutFiles = map[string]string{
	"a/b.txt":        "hello",
	"a/deep/c.bclim": "texture",
	"d.bin":          "\x00\x01\x02",
}

func packLayout(t *testing.T, extra ...func()) string {
	t.Helper()
	resetFlags()
	src := t.TempDir()
	writeTree(t, src, layoutFiles)

	packOutput = filepath.Join(t.TempDir(), "layout.arc")
	for _, fn := range extra {
		fn()
	}
	_, err := captureOutput(t, func() error { return runPack([]string{src}) })
	require.NoError(t, err)
	return packOutput
}

func TestDarc_PackUnpack(t *testing.T) {
	arc := packLayout(t)

	data, err := os.ReadFile(arc)
	require.NoError(t, err)
	require.Equal(t, darc.Magic[:], data[:4])

	resetFlags()
	unpackOutput = t.TempDir()
	output, err := captureOutput(t, func() error { return runUnpack([]string{arc}) })
	require.NoError(t, err)
	require.Contains(t, output, "Extracted 3 file(s)")

	for name, body := range layoutFiles {
		got, err := os.ReadFile(filepath.Join(unpackOutput, filepath.FromSlash(name)))
		require.NoError(t, err, name)
		require.Equal(t, body, string(got), name)
	}
}

func TestDarc_PackDryRun(t *testing.T) {
	resetFlags()
	src := t.TempDir()
	writeTree(t, src, layoutFiles)
	packOutput = filepath.Join(t.TempDir(), "layout.arc")
	packDryRun = true

	output, err := captureOutput(t, func() error { return runPack([]string{src}) })
	require.NoError(t, err)
	require.Contains(t, output, "Would pack 3 file(s)")

	_, err = os.Stat(packOutput)
	require.True(t, os.IsNotExist(err), "dry run must not write the archive")
}

func TestDarc_PackOptions(t *testing.T) {
	arc := packLayout(t, func() {
		packEndianness = "be"
		packPadding = 0
	})

	data, err := os.ReadFile(arc)
	require.NoError(t, err)
	a, err := darc.Parse(data)
	require.NoError(t, err)
	require.Equal(t, memory.BE, a.Endianness)
}

func TestDarc_PackConfigDefaults(t *testing.T) {
	arc := packLayout(t, func() { cfg.Darc.Endianness = memory.BE })

	data, err := os.ReadFile(arc)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFE, 0xFF}, data[4:6])
}

func TestDarc_PackBadEndianness(t *testing.T) {
	resetFlags()
	packOutput = filepath.Join(t.TempDir(), "x.arc")
	packEndianness = "middle"
	err := runPack([]string{t.TempDir()})
	require.ErrorIs(t, err, memory.ErrInvalidArgument)
}

func TestDarc_CompressedRoundTrip(t *testing.T) {
	arc := packLayout(t, func() { packCompress = true })

	data, err := os.ReadFile(arc)
	require.NoError(t, err)
	require.True(t, blz.IsCompressed(data))

	resetFlags()
	unpackOutput = t.TempDir()
	_, err = captureOutput(t, func() error { return runUnpack([]string{arc}) })
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(unpackOutput, "a", "deep", "c.bclim"))
	require.NoError(t, err)
	require.Equal(t, "texture", string(got))
}

func TestDarc_ListText(t *testing.T) {
	arc := packLayout(t)

	resetFlags()
	output, err := captureOutput(t, func() error { return runList([]string{arc}) })
	require.NoError(t, err)
	require.Contains(t, output, "DARC 1.0.0.0 (LE)")
	require.Contains(t, output, "Files: 3, Directories: 2")
	require.Contains(t, output, "> (root)/ (2 items)")
	require.Contains(t, output, "      - c.bclim (7 bytes)")
	require.Contains(t, output, "  - d.bin (3 bytes)")
}

func TestDarc_ListJSON(t *testing.T) {
	arc := packLayout(t)

	resetFlags()
	jsonOut = true
	listDigest = true
	output, err := captureOutput(t, func() error { return runList([]string{arc}) })
	require.NoError(t, err)

	var m struct {
		Files int `json:"files"`
		Root  struct {
			Children []struct {
				Name   string `json:"name"`
				Digest string `json:"blake3"`
			} `json:"children"`
		} `json:"root"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &m))
	require.Equal(t, 3, m.Files)
	require.Len(t, m.Root.Children, 2)
	require.Equal(t, "d.bin", m.Root.Children[1].Name)
	require.Len(t, m.Root.Children[1].Digest, 64)
}

func TestDarc_ListBadFormat(t *testing.T) {
	arc := packLayout(t)

	resetFlags()
	listFormat = "toml"
	_, err := captureOutput(t, func() error { return runList([]string{arc}) })
	require.Error(t, err)
}

func TestDarc_UnpackNotArchive(t *testing.T) {
	resetFlags()
	path := filepath.Join(t.TempDir(), "junk.arc")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an archive"), 0o644))

	unpackOutput = t.TempDir()
	err := runUnpack([]string{path})
	require.ErrorIs(t, err, darc.ErrNotDARC)
}
