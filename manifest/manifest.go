/*
Package manifest describes where every sprite ended up once a set of atlas
sheets has been written. A manifest can be written as JSON or stored in an
SQLite database.

Sprites are grouped by namespace, the file stem of the source they were cut
from. The default JSON layout is the one read by the sprite sheet loader at
runtime:

	{
	  "_numSheets": 2,
	  "hero": {
	    "idle": {"sheet": 0, "x": 0, "y": 0, "w": 16, "h": 32}
	  }
	}
*/
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/stitch/metadata"
)

// NumSheetsKey holds the sheet count in the namespaced layout.
const NumSheetsKey = metadata.ReservedNamespace

// Format selects the JSON layout written by Encode.
type Format int

const (
	// Namespaced writes the sheet count and one object per namespace
	Namespaced Format = iota
	// Detailed also records the file, size and hash of every sheet
	Detailed
)

var formatNames = map[string]Format{
	"namespaced": Namespaced,
	"detailed":   Detailed,
}

// ParseFormat returns the Format with the given name.
func ParseFormat(name string) (Format, error) {
	if f, ok := formatNames[name]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("manifest: unknown format %q", name)
}

var errBadSheetCount = errors.New("manifest: bad sheet count")

// Sheet describes one written atlas sheet.
type Sheet struct {
	Index  int    `json:"index"`
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"`
}

// Sprite is the final location of a sprite.
type Sprite struct {
	Sheet int `json:"sheet"`
	X     int `json:"x"`
	Y     int `json:"y"`
	W     int `json:"w"`
	H     int `json:"h"`
}

// Manifest maps namespaces and sprite names to their location.
type Manifest struct {
	Sheets  []Sheet                      `json:"sheets"`
	Sprites map[string]map[string]Sprite `json:"sprites"`
}

// New builds a manifest from the entries of a packed catalog. Entries whose
// stub is listed in skip are left out.
func New(c *metadata.Catalog, sheets []Sheet, skip map[string]struct{}) *Manifest {
	m := &Manifest{
		Sheets:  sheets,
		Sprites: make(map[string]map[string]Sprite, len(c.Entries)),
	}
	for _, e := range c.Entries {
		if _, ok := skip[e.Stub]; ok {
			continue
		}
		sprites := make(map[string]Sprite, len(e.Sprites))
		for _, s := range e.Sprites {
			size := s.Size()
			sprites[s.Name] = Sprite{
				Sheet: s.Dest.Sheet,
				X:     s.Dest.X,
				Y:     s.Dest.Y,
				W:     size.X,
				H:     size.Y,
			}
		}
		m.Sprites[e.Namespace()] = sprites
	}
	return m
}

// Sprite looks up the named sprite within namespace.
func (m *Manifest) Sprite(namespace, name string) (Sprite, bool) {
	s, ok := m.Sprites[namespace][name]
	return s, ok
}

// Length returns the number of sprites in the manifest.
func (m *Manifest) Length() int {
	n := 0
	for _, sprites := range m.Sprites {
		n += len(sprites)
	}
	return n
}

// Encode writes the manifest to w as indented JSON in the given layout. Keys
// are always sorted.
func (m *Manifest) Encode(w io.Writer, f Format) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")

	if f == Detailed {
		return e.Encode(m)
	}

	doc := make(map[string]interface{}, len(m.Sprites)+1)
	for ns, sprites := range m.Sprites {
		doc[ns] = sprites
	}
	doc[NumSheetsKey] = len(m.Sheets)

	return e.Encode(doc)
}

// Decode reads a manifest written by Encode in either layout. Sheets read
// from the namespaced layout only carry their index.
func Decode(r io.Reader) (*Manifest, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	raw, ok := doc[NumSheetsKey]
	if !ok {
		m := new(Manifest)
		if err := json.Unmarshal(member(doc, "sheets"), &m.Sheets); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(member(doc, "sprites"), &m.Sprites); err != nil {
			return nil, err
		}
		return m, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errBadSheetCount
	}

	m := &Manifest{
		Sheets:  make([]Sheet, n),
		Sprites: make(map[string]map[string]Sprite, len(doc)-1),
	}
	for i := range m.Sheets {
		m.Sheets[i].Index = i
	}
	for ns, raw := range doc {
		if ns == NumSheetsKey {
			continue
		}
		var sprites map[string]Sprite
		if err := json.Unmarshal(raw, &sprites); err != nil {
			return nil, fmt.Errorf("manifest: namespace %q: %w", ns, err)
		}
		m.Sprites[ns] = sprites
	}
	return m, nil
}

// member returns the named member of doc, or JSON null if it is missing.
func member(doc map[string]json.RawMessage, key string) json.RawMessage {
	if raw, ok := doc[key]; ok {
		return raw
	}
	return json.RawMessage("null")
}
