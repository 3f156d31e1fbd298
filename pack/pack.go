/*
Package pack assigns sprites a position on one of several equally sized atlas
sheets.

Sprites are placed greedily on shelves: rows filled left to right whose height
is set by the first, tallest, sprite placed on them. The result is not optimal
but it is deterministic; the same sprites in the same order always produce the
same layout.
*/
package pack

import (
	"fmt"
	"image"
	"sort"

	"github.com/bodgit/stitch/metadata"
)

// Reason describes why a sprite could not be placed.
type Reason int

const (
	// TooWide means the sprite is wider than a sheet
	TooWide Reason = iota + 1
	// TooTall means the sprite is taller than a sheet
	TooTall
)

func (r Reason) String() string {
	switch r {
	case TooWide:
		return "too wide"
	case TooTall:
		return "too tall"
	}
	return "unknown"
}

// An Error is returned when no layout exists for a sprite.
type Error struct {
	Reason Reason
	Sprite string
	Size   image.Point
}

func (e *Error) Error() string {
	return fmt.Sprintf("pack: sprite %q (%dx%d) is %s", e.Sprite, e.Size.X, e.Size.Y, e.Reason)
}

// Packer places sprites on sheets of a fixed size.
type Packer struct {
	size image.Point
}

// New returns a Packer for sheets of the given size.
func New(width, height int) *Packer {
	return &Packer{
		size: image.Pt(width, height),
	}
}

// byHeight orders sprites tallest first, then widest. Ties keep catalog order
// as it is only ever used with a stable sort.
type byHeight []*metadata.Sprite

func (b byHeight) Len() int      { return len(b) }
func (b byHeight) Swap(i, j int) { b[i], b[j] = b[j], b[i] }
func (b byHeight) Less(i, j int) bool {
	si, sj := b[i].Size(), b[j].Size()
	if si.Y != sj.Y {
		return si.Y > sj.Y
	}
	return si.X > sj.X
}

type cursor struct {
	sheet  int
	x, y   int
	height int // of the open shelf, zero if none
}

// Pack sets the destination of every sprite and returns the number of sheets
// used. The order of sprites is not modified. On error no placements are
// changed.
func (p *Packer) Pack(sprites []*metadata.Sprite) (int, error) {
	sorted := make([]*metadata.Sprite, len(sprites))
	copy(sorted, sprites)
	sort.Stable(byHeight(sorted))

	placements := make([]metadata.Placement, len(sorted))

	var c cursor
	for i, s := range sorted {
		size := s.Size()
		switch {
		case size.X > p.size.X:
			return 0, &Error{Reason: TooWide, Sprite: s.Name, Size: size}
		case size.Y > p.size.Y:
			return 0, &Error{Reason: TooTall, Sprite: s.Name, Size: size}
		}

		// Close the shelf if there is no room left on it
		if c.x+size.X > p.size.X {
			c.y += c.height
			c.x, c.height = 0, 0
		}

		// Open a new shelf, on a new sheet if it would overflow this one
		if c.height == 0 {
			if c.y > 0 && c.y+size.Y > p.size.Y {
				c.sheet++
				c.x, c.y = 0, 0
			}
			c.height = size.Y
		}

		placements[i] = metadata.Placement{Sheet: c.sheet, X: c.x, Y: c.y}
		c.x += size.X
	}

	for i, s := range sorted {
		s.Dest = placements[i]
	}

	if len(sorted) == 0 {
		return 0, nil
	}
	return c.sheet + 1, nil
}
