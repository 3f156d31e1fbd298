package stitch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bodgit/stitch/atlas"
	"github.com/bodgit/stitch/bitmap"
	"github.com/bodgit/stitch/manifest"
	"github.com/bodgit/stitch/metadata"
	"github.com/bodgit/stitch/preview"
	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
	"go.uber.org/zap"
)

type failures struct {
	sync.Mutex
	stubs map[string]struct{}
}

func (f *failures) add(stub string) {
	f.Lock()
	defer f.Unlock()
	f.stubs[stub] = struct{}{}
}

func (s *Stitcher) findSources(ctx context.Context, entries []*metadata.Entry) <-chan *metadata.Entry {
	out := make(chan *metadata.Entry)
	go func() {
		defer close(out)
		for _, e := range entries {
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (s *Stitcher) compositeSource(e *metadata.Entry, sheets []*atlas.Sheet) error {
	if len(e.Sprites) == 0 {
		return nil
	}

	b, err := os.ReadFile(e.Image())
	if err != nil {
		return &IOError{Stub: e.Stub, Path: e.Image(), Err: err}
	}

	m, err := bitmap.Decode(b)
	if err != nil {
		return &SourceError{Stub: e.Stub, Err: err}
	}

	// Sprites of different sources never share a sheet region so the
	// sheets can be written to without locking
	if err := atlas.Composite(m, e.Sprites, sheets); err != nil {
		return &SourceError{Stub: e.Stub, Err: err}
	}

	s.logger.Debug("composited source",
		zap.String("stub", e.Stub),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.Int("depth", m.BitsPerPixel),
		zap.Bool("top_down", m.TopDown))

	return nil
}

func (s *Stitcher) sourceWorker(ctx context.Context, in <-chan *metadata.Entry, sheets []*atlas.Sheet, failed *failures) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for e := range in {
			if err := s.compositeSource(e, sheets); err != nil {
				if !s.bestEffort {
					errc <- err
					return
				}
				s.logger.Warn("skipping source", zap.String("stub", e.Stub), zap.Error(err))
				failed.add(e.Stub)
			}
		}
	}()
	return errc
}

// composite decodes every source and copies its sprites onto the sheets. It
// returns the stubs of any sources skipped under best effort.
func (s *Stitcher) composite(c *metadata.Catalog, sheets []*atlas.Sheet) (map[string]struct{}, error) {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	failed := &failures{stubs: make(map[string]struct{})}

	var errcList []<-chan error

	entries := s.findSources(ctx, c.Entries)
	for i := 0; i < s.jobs; i++ {
		errcList = append(errcList, s.sourceWorker(ctx, entries, sheets, failed))
	}

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	return failed.stubs, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (s *Stitcher) writeSheet(sheet *atlas.Sheet, dir string) (manifest.Sheet, error) {
	info := manifest.Sheet{
		Index:  sheet.Index,
		File:   s.sheetFile(sheet.Index, metadata.ImageExtension),
		Width:  sheet.Image.Bounds().Dx(),
		Height: sheet.Image.Bounds().Dy(),
	}

	file := filepath.Join(dir, info.File)
	f, err := os.Create(file)
	if err != nil {
		return info, &IOError{Path: file, Err: err}
	}
	defer f.Close()

	h := xxhash.New()
	cw := &countingWriter{w: io.MultiWriter(f, h)}
	if err := bitmap.Encode(cw, sheet.Image); err != nil {
		return info, &IOError{Path: file, Err: err}
	}
	if err := f.Close(); err != nil {
		return info, &IOError{Path: file, Err: err}
	}
	info.Size = cw.n
	info.Hash = fmt.Sprintf("%016x", h.Sum64())

	s.logger.Info("wrote sheet", zap.String("file", file), zap.String("size", humanize.Bytes(uint64(info.Size))))

	if s.preview > 0 {
		file := filepath.Join(dir, s.sheetFile(sheet.Index, ".png"))
		p, err := os.Create(file)
		if err != nil {
			return info, &IOError{Path: file, Err: err}
		}
		defer p.Close()

		if err := preview.Encode(p, sheet.Image, s.preview); err != nil {
			return info, &IOError{Path: file, Err: err}
		}
		if err := p.Close(); err != nil {
			return info, &IOError{Path: file, Err: err}
		}
	}

	return info, nil
}

func (s *Stitcher) writeSheets(sheets []*atlas.Sheet, dir string) ([]manifest.Sheet, error) {
	infos := make([]manifest.Sheet, len(sheets))

	var mu sync.Mutex
	var first error

	swg := sizedwaitgroup.New(s.jobs)
	for i, sheet := range sheets {
		swg.Add()
		go func(i int, sheet *atlas.Sheet) {
			defer swg.Done()
			info, err := s.writeSheet(sheet, dir)
			if err != nil {
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
				return
			}
			infos[i] = info
		}(i, sheet)
	}
	swg.Wait()

	if first != nil {
		return nil, first
	}
	return infos, nil
}
