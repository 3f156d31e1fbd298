package main

import (
	"bytes"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/stitch/bitmap"
	"github.com/bodgit/stitch/manifest"
	"github.com/bodgit/stitch/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	b := new(bytes.Buffer)
	require.NoError(t, bitmap.Encode(b, image.NewNRGBA(image.Rect(0, 0, 3, 2))))
	good := filepath.Join(dir, "good.bmp")
	require.NoError(t, os.WriteFile(good, b.Bytes(), 0644))
	assert.NoError(t, inspect(good))

	bad := filepath.Join(dir, "bad.bmp")
	require.NoError(t, os.WriteFile(bad, []byte("XX"), 0644))
	assert.True(t, errors.Is(inspect(bad), bitmap.BadMagic))

	assert.True(t, errors.Is(inspect(filepath.Join(dir, "missing.bmp")), os.ErrNotExist))
}

func writeStub(t *testing.T, dir, name string, withImage bool, meta string) string {
	t.Helper()
	stub := filepath.Join(dir, name)
	if withImage {
		b := new(bytes.Buffer)
		require.NoError(t, bitmap.Encode(b, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
		require.NoError(t, os.WriteFile(stub+metadata.ImageExtension, b.Bytes(), 0644))
	}
	require.NoError(t, os.WriteFile(stub+metadata.Extension, []byte(meta), 0644))
	return stub
}

func runApp(args ...string) error {
	app := newApp()
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app.Run(append([]string{"stitch"}, args...))
}

func TestPack(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	db := filepath.Join(t.TempDir(), "atlas.db")

	good := writeStub(t, src, "good", true, "a 0 0 8 8\nb 0 0 4 4\n")
	broken := writeStub(t, src, "broken", false, "c 0 0 2 2")

	require.NoError(t, runApp("pack", "--out", out, "--prefix", "sheet", "--size", "32", "--db", db, "--best-effort", good, broken))

	_, err := os.Stat(filepath.Join(out, "sheet0.bmp"))
	assert.NoError(t, err)

	f, err := os.Open(filepath.Join(out, "sheet.json"))
	require.NoError(t, err)
	defer f.Close()
	m, err := manifest.Decode(f)
	require.NoError(t, err)
	assert.Len(t, m.Sheets, 1)
	assert.Equal(t, 2, m.Length())
	assert.Contains(t, m.Sprites, "good")
	assert.NotContains(t, m.Sprites, "broken")

	mdb, err := manifest.NewDB(db)
	require.NoError(t, err)
	defer mdb.Close()
	n, err := mdb.Length()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPackErrors(t *testing.T) {
	src := t.TempDir()
	good := writeStub(t, src, "good", true, "a 0 0 8 8")
	broken := writeStub(t, src, "broken", false, "c 0 0 2 2")

	tests := map[string][]string{
		"size":          {"--size", "0", good},
		"format":        {"--format", "flat", good},
		"missing image": {good, broken},
	}

	for name, table := range tests {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out")

			err := runApp(append([]string{"pack", "--out", out}, table...)...)
			var ec cli.ExitCoder
			require.True(t, errors.As(err, &ec))
			assert.Equal(t, 1, ec.ExitCode())

			_, err = os.Stat(out)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestPackDetailed(t *testing.T) {
	out := t.TempDir()
	stub := writeStub(t, t.TempDir(), "good", true, "a 0 0 8 8")

	require.NoError(t, runApp("pack", "--out", out, "--size", "16", "--format", "detailed", stub))

	b, err := os.ReadFile(filepath.Join(out, "atlas.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"hash"`)
	assert.NotContains(t, string(b), manifest.NumSheetsKey)
}
