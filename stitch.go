/*
Package stitch is a library for packing sprites cut from many source bitmaps
onto a small number of fixed-size atlas sheets.

Each source is named by a stub; the sprites are listed in stub.meta and the
pixels are read from stub.bmp. The sheets are written as bitmaps alongside a
JSON manifest recording where each sprite was placed.
*/
package stitch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bodgit/stitch/atlas"
	"github.com/bodgit/stitch/manifest"
	"github.com/bodgit/stitch/metadata"
	"github.com/bodgit/stitch/pack"
	"go.uber.org/zap"
)

const (
	defaultJobs      = 4
	defaultPrefix    = "atlas"
	defaultMaxSheets = 64
)

// Stitcher builds atlas sheets.
type Stitcher struct {
	logger *zap.Logger

	width, height int
	jobs          int
	prefix        string
	maxSheets     int
	bestEffort    bool
	db            string
	preview       int
	format        manifest.Format
}

// Option configures a Stitcher.
type Option func(*Stitcher)

// WithSize sets the width and height of every sheet.
func WithSize(size int) Option {
	return func(s *Stitcher) {
		s.width, s.height = size, size
	}
}

// WithJobs sets how many sources are decoded, and sheets encoded, at once.
func WithJobs(n int) Option {
	return func(s *Stitcher) {
		if n > 0 {
			s.jobs = n
		}
	}
}

// WithPrefix sets the prefix of every file written.
func WithPrefix(prefix string) Option {
	return func(s *Stitcher) {
		s.prefix = prefix
	}
}

// WithMaxSheets limits how many sheets may be allocated.
func WithMaxSheets(n int) Option {
	return func(s *Stitcher) {
		s.maxSheets = n
	}
}

// WithBestEffort controls what happens when a source cannot be decoded or
// composited. By default the run fails; with best effort the failure is logged
// and the sprites of that source are left out of the manifest.
func WithBestEffort(enable bool) Option {
	return func(s *Stitcher) {
		s.bestEffort = enable
	}
}

// WithDB also stores the manifest in the SQLite database file.
func WithDB(file string) Option {
	return func(s *Stitcher) {
		s.db = file
	}
}

// WithPreview also writes a PNG preview of each sheet at most size pixels
// across.
func WithPreview(size int) Option {
	return func(s *Stitcher) {
		s.preview = size
	}
}

// WithFormat sets the layout of the JSON manifest. The default is
// manifest.Namespaced.
func WithFormat(f manifest.Format) Option {
	return func(s *Stitcher) {
		s.format = f
	}
}

// New returns a Stitcher logging to logger.
func New(logger *zap.Logger, options ...Option) *Stitcher {
	s := &Stitcher{
		logger:    logger,
		width:     atlas.Size,
		height:    atlas.Size,
		jobs:      defaultJobs,
		prefix:    defaultPrefix,
		maxSheets: defaultMaxSheets,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

func (s *Stitcher) load(stubs []string) (*metadata.Catalog, error) {
	c := metadata.NewCatalog()
	for _, stub := range stubs {
		e, err := metadata.Load(stub)
		if err != nil {
			var se *metadata.SyntaxError
			if errors.As(err, &se) {
				return nil, err
			}
			return nil, &IOError{Stub: stub, Path: stub + metadata.Extension, Err: err}
		}
		if err := c.Add(e); err != nil {
			return nil, err
		}
		s.logger.Debug("loaded sprites", zap.String("stub", stub), zap.Int("sprites", len(e.Sprites)))
	}
	return c, nil
}

// Stitch loads the sprites of every stub, packs them, and writes the sheets and
// manifest to dir. Sprites are grouped in the manifest by the file stem of
// their stub, so names need only be unique per stub but two stubs may not
// share a stem. Nothing is written unless every source was composited, or
// best effort is enabled.
func (s *Stitcher) Stitch(stubs []string, dir string) (*manifest.Manifest, error) {
	c, err := s.load(stubs)
	if err != nil {
		return nil, err
	}

	n, err := pack.New(s.width, s.height).Pack(c.Sprites())
	if err != nil {
		return nil, err
	}
	if n > s.maxSheets {
		return nil, &ResourceError{Sheets: n, Limit: s.maxSheets}
	}
	s.logger.Info("packed sprites", zap.Int("sprites", c.Length()), zap.Int("sheets", n))

	sheets := atlas.NewSheets(n, s.width, s.height)

	failed, err := s.composite(c, sheets)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &IOError{Path: dir, Err: err}
	}

	infos, err := s.writeSheets(sheets, dir)
	if err != nil {
		return nil, err
	}

	m := manifest.New(c, infos, failed)
	if err := s.writeManifest(m, dir); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Stitcher) sheetFile(index int, ext string) string {
	return fmt.Sprintf("%s%d%s", s.prefix, index, ext)
}

func (s *Stitcher) writeManifest(m *manifest.Manifest, dir string) error {
	file := filepath.Join(dir, s.prefix+".json")
	f, err := os.Create(file)
	if err != nil {
		return &IOError{Path: file, Err: err}
	}
	defer f.Close()

	if err := m.Encode(f, s.format); err != nil {
		return &IOError{Path: file, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Path: file, Err: err}
	}

	if s.db != "" {
		db, err := manifest.NewDB(s.db)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Write(m); err != nil {
			return err
		}
		s.logger.Debug("stored manifest", zap.String("db", s.db))
	}

	return nil
}
