/*
Package metadata implements the sprite catalog: the sprites cut from each
source image, where they are cropped from and where they are placed once
packed.

Each source image has a companion text file listing its sprites as
whitespace-separated records of the form

	name x y w h

where x and y are the top-left corner of the crop rectangle within the image.
*/
package metadata

import (
	"fmt"
	"image"
	"path/filepath"
)

const (
	// Extension is appended to a stub to find its sprite records
	Extension = ".meta"
	// ImageExtension is appended to a stub to find its source image
	ImageExtension = ".bmp"
)

// Placement is the location of a sprite once packed.
type Placement struct {
	Sheet int
	X, Y  int
}

// Rect returns the rectangle covered on the sheet by a sprite of the given
// size.
func (p Placement) Rect(size image.Point) image.Rectangle {
	return image.Rectangle{Min: image.Pt(p.X, p.Y), Max: image.Pt(p.X+size.X, p.Y+size.Y)}
}

// Sprite is a named crop of a source image.
type Sprite struct {
	Name string
	Src  image.Rectangle
	Dest Placement
}

// Size returns the width and height of the sprite.
func (s *Sprite) Size() image.Point {
	return s.Src.Size()
}

// Entry is the set of sprites cut from one source image.
type Entry struct {
	Stub    string
	Sprites []*Sprite
}

// Image returns the filename of the source image.
func (e *Entry) Image() string {
	return e.Stub + ImageExtension
}

// Namespace returns the file stem of the stub. Sprite names only need to be
// unique within a namespace.
func (e *Entry) Namespace() string {
	return filepath.Base(e.Stub)
}

// ReservedNamespace is never accepted as a namespace, the manifest uses it for
// the sheet count.
const ReservedNamespace = "_numSheets"

// A DuplicateError is returned when a sprite name is used more than once
// within a namespace, or when two stubs share a namespace. Name is empty in
// the latter case, and Other is also empty if the namespace is reserved.
type DuplicateError struct {
	Namespace   string
	Name        string
	Stub, Other string
}

func (e *DuplicateError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("metadata: sprite %q defined more than once in %s", e.Name, e.Stub)
	case e.Other == "":
		return fmt.Sprintf("metadata: namespace %q of %s is reserved", e.Namespace, e.Stub)
	}
	return fmt.Sprintf("metadata: namespace %q of %s already used by %s", e.Namespace, e.Stub, e.Other)
}

// Catalog holds every entry for a run, in the order they were added.
type Catalog struct {
	Entries    []*Entry
	namespaces map[string]string
	length     int
}

// NewCatalog returns an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		namespaces: make(map[string]string),
	}
}

// Add appends an entry, rejecting it if its namespace is already in use or it
// names a sprite twice.
func (c *Catalog) Add(e *Entry) error {
	ns := e.Namespace()
	if ns == ReservedNamespace {
		return &DuplicateError{Namespace: ns, Stub: e.Stub}
	}
	if other, ok := c.namespaces[ns]; ok {
		return &DuplicateError{Namespace: ns, Stub: e.Stub, Other: other}
	}

	names := make(map[string]struct{}, len(e.Sprites))
	for _, s := range e.Sprites {
		if _, ok := names[s.Name]; ok {
			return &DuplicateError{Namespace: ns, Name: s.Name, Stub: e.Stub, Other: e.Stub}
		}
		names[s.Name] = struct{}{}
	}

	c.namespaces[ns] = e.Stub
	c.Entries = append(c.Entries, e)
	c.length += len(e.Sprites)
	return nil
}

// Length returns the number of sprites in the catalog
func (c *Catalog) Length() int {
	return c.length
}

// Sprites returns every sprite in catalog order.
func (c *Catalog) Sprites() []*Sprite {
	sprites := make([]*Sprite, 0, c.length)
	for _, e := range c.Entries {
		sprites = append(sprites, e.Sprites...)
	}
	return sprites
}
