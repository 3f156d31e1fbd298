package manifest

import (
	"bytes"
	"image"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/stitch/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *metadata.Catalog {
	c := metadata.NewCatalog()
	require.NoError(t, c.Add(&metadata.Entry{Stub: filepath.Join("art", "hero"), Sprites: []*metadata.Sprite{
		{Name: "idle", Src: image.Rect(0, 0, 16, 32), Dest: metadata.Placement{Sheet: 0, X: 4, Y: 8}},
		{Name: "walk", Src: image.Rect(16, 0, 32, 32), Dest: metadata.Placement{Sheet: 1}},
	}}))
	require.NoError(t, c.Add(&metadata.Entry{Stub: filepath.Join("art", "enemy"), Sprites: []*metadata.Sprite{
		{Name: "idle", Src: image.Rect(2, 2, 10, 6), Dest: metadata.Placement{Sheet: 1, X: 16}},
	}}))
	return c
}

var testSheets = []Sheet{
	{Index: 0, File: "atlas0.bmp", Width: 64, Height: 64, Size: 16524, Hash: "0123456789abcdef"},
	{Index: 1, File: "atlas1.bmp", Width: 64, Height: 64, Size: 16524, Hash: "fedcba9876543210"},
}

func TestNew(t *testing.T) {
	m := New(testCatalog(t), testSheets, nil)

	assert.Equal(t, 3, m.Length())
	assert.Len(t, m.Sprites, 2)

	s, ok := m.Sprite("hero", "idle")
	require.True(t, ok)
	assert.Equal(t, Sprite{Sheet: 0, X: 4, Y: 8, W: 16, H: 32}, s)

	s, ok = m.Sprite("enemy", "idle")
	require.True(t, ok)
	assert.Equal(t, Sprite{Sheet: 1, X: 16, Y: 0, W: 8, H: 4}, s)

	_, ok = m.Sprite("enemy", "walk")
	assert.False(t, ok)

	m = New(testCatalog(t), testSheets, map[string]struct{}{filepath.Join("art", "hero"): {}})
	assert.Equal(t, 1, m.Length())
	assert.NotContains(t, m.Sprites, "hero")
}

func TestEncodeNamespaced(t *testing.T) {
	m := New(testCatalog(t), testSheets, nil)

	b := new(bytes.Buffer)
	require.NoError(t, m.Encode(b, Namespaced))

	assert.JSONEq(t, `{
		"_numSheets": 2,
		"enemy": {
			"idle": {"sheet": 1, "x": 16, "y": 0, "w": 8, "h": 4}
		},
		"hero": {
			"idle": {"sheet": 0, "x": 4, "y": 8, "w": 16, "h": 32},
			"walk": {"sheet": 1, "x": 0, "y": 0, "w": 16, "h": 32}
		}
	}`, b.String())

	// Map keys are sorted so the output is stable
	again := new(bytes.Buffer)
	require.NoError(t, New(testCatalog(t), testSheets, nil).Encode(again, Namespaced))
	assert.Equal(t, b.String(), again.String())

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, []Sheet{{Index: 0}, {Index: 1}}, got.Sheets)
	assert.Equal(t, m.Sprites, got.Sprites)
}

func TestEncodeDetailed(t *testing.T) {
	m := New(testCatalog(t), testSheets, nil)

	b := new(bytes.Buffer)
	require.NoError(t, m.Encode(b, Detailed))
	assert.NotContains(t, b.String(), NumSheetsKey)
	assert.Contains(t, b.String(), `"hash": "fedcba9876543210"`)

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"not json":       `[`,
		"bad count":      `{"_numSheets": "two"}`,
		"negative count": `{"_numSheets": -1}`,
		"bad namespace":  `{"_numSheets": 1, "hero": 3}`,
	}

	for name, table := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(table))
			assert.Error(t, err)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("namespaced")
	require.NoError(t, err)
	assert.Equal(t, Namespaced, f)

	f, err = ParseFormat("detailed")
	require.NoError(t, err)
	assert.Equal(t, Detailed, f)

	_, err = ParseFormat("flat")
	assert.Error(t, err)
}

func TestDB(t *testing.T) {
	file := filepath.Join(t.TempDir(), "atlas.db")

	db, err := NewDB(file)
	require.NoError(t, err)
	defer db.Close()

	m := New(testCatalog(t), testSheets, nil)
	require.NoError(t, db.Write(m))

	n, err := db.Length()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	s, sheet, err := db.FindSprite("hero", "walk")
	require.NoError(t, err)
	assert.Equal(t, &Sprite{Sheet: 1, X: 0, Y: 0, W: 16, H: 32}, s)
	assert.Equal(t, "atlas1.bmp", sheet)

	// The same name in another namespace is a different sprite
	s, sheet, err = db.FindSprite("enemy", "idle")
	require.NoError(t, err)
	assert.Equal(t, &Sprite{Sheet: 1, X: 16, Y: 0, W: 8, H: 4}, s)
	assert.Equal(t, "atlas1.bmp", sheet)

	s, _, err = db.FindSprite("enemy", "walk")
	require.NoError(t, err)
	assert.Nil(t, s)

	// Writing again replaces the previous contents
	require.NoError(t, db.Write(New(testCatalog(t), testSheets, map[string]struct{}{filepath.Join("art", "hero"): {}})))
	n, err = db.Length()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
