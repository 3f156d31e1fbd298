package metadata

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
)

const fieldsPerRecord = 5

// A SyntaxError reports a malformed sprite record.
type SyntaxError struct {
	Stub   string
	Record int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("metadata: %s%s record %d: %s", e.Stub, Extension, e.Record, e.Msg)
}

// Parse reads the sprite records for stub from r.
func Parse(stub string, r io.Reader) (*Entry, error) {
	e := &Entry{Stub: stub}

	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)

	var fields []string
	for s.Scan() {
		fields = append(fields, s.Text())
		if len(fields) < fieldsPerRecord {
			continue
		}

		sprite, err := parseRecord(fields)
		if err != nil {
			return nil, &SyntaxError{Stub: stub, Record: len(e.Sprites), Msg: err.Error()}
		}
		e.Sprites = append(e.Sprites, sprite)
		fields = fields[:0]
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		return nil, &SyntaxError{Stub: stub, Record: len(e.Sprites), Msg: "incomplete record"}
	}

	return e, nil
}

func parseRecord(fields []string) (*Sprite, error) {
	var v [fieldsPerRecord - 1]int
	for i, f := range fields[1:] {
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", f)
		}
		v[i] = int(n)
	}
	if v[2] == 0 || v[3] == 0 {
		return nil, fmt.Errorf("sprite %q has no area", fields[0])
	}
	return &Sprite{
		Name: fields[0],
		Src:  image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]),
	}, nil
}

// Load reads the sprite records for stub from the file stub + Extension.
func Load(stub string) (*Entry, error) {
	f, err := os.Open(stub + Extension)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(stub, f)
}
