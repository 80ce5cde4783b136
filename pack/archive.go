package pack

import (
	"archive/tar"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/ieee0824/primock-go/corpus"
	"github.com/ieee0824/primock-go/split"
)

// ManifestHeader is the first line of every split manifest.
const ManifestHeader = "file_name,transcription"

// DataDir is the output subdirectory that holds archives and manifests.
const DataDir = "data"

// Entries carry a fixed time so reruns produce identical archives.
var archiveModTime = time.Unix(0, 0)

// SplitReport counts what happened to one split.
type SplitReport struct {
	Intervals int // intervals assigned to the split
	Clips     int // clips written to archive and manifest
	Skipped   int // intervals that produced no clip
}

// Report is the outcome of Package, keyed by split name.
type Report struct {
	Splits map[string]SplitReport
}

// Packager writes <OutDir>/data/<split>.tar.gz and <split>.csv.
type Packager struct {
	Dataset    *corpus.DataSet
	OutDir     string
	SampleRate int // clip rate; see Segmenter
	Parallel   bool
	Logger     *slog.Logger
}

func (p *Packager) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// Package removes any previous <OutDir>/data and writes one archive and one
// manifest per split. With Parallel set the splits are written concurrently
// and the first failure cancels the rest.
func (p *Packager) Package(ctx context.Context, a split.Assignment[corpus.Interval]) (Report, error) {
	dataDir := filepath.Join(p.OutDir, DataDir)
	if err := os.RemoveAll(dataDir); err != nil {
		return Report{}, fmt.Errorf("pack: clear %s: %w", dataDir, err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("pack: create %s: %w", dataDir, err)
	}

	report := Report{Splits: make(map[string]SplitReport, len(split.Names))}

	if !p.Parallel {
		err := a.Each(func(name string, ivs []corpus.Interval) error {
			r, err := p.packageSplit(ctx, dataDir, name, ivs)
			report.Splits[name] = r
			return err
		})
		return report, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	a.Each(func(name string, ivs []corpus.Interval) error {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := p.packageSplit(ctx, dataDir, name, ivs)
			mu.Lock()
			defer mu.Unlock()
			report.Splits[name] = r
			if err != nil && firstErr == nil {
				firstErr = err
				cancel()
			}
		}()
		return nil
	})
	wg.Wait()
	return report, firstErr
}

func (p *Packager) packageSplit(ctx context.Context, dataDir, name string, ivs []corpus.Interval) (SplitReport, error) {
	log := p.logger().With("split", name)
	r := SplitReport{Intervals: len(ivs)}

	scratch, err := os.MkdirTemp("", "primock-"+name+"-")
	if err != nil {
		return r, fmt.Errorf("pack: %s: scratch dir: %w", name, err)
	}
	defer os.RemoveAll(scratch)

	w, err := newSplitWriter(dataDir, name)
	if err != nil {
		return r, err
	}

	seg := &Segmenter{Dataset: p.Dataset, Dir: scratch, SampleRate: p.SampleRate, Logger: log}
	for _, iv := range ivs {
		if err := ctx.Err(); err != nil {
			w.Close()
			return r, err
		}
		clip, err := seg.Segment(iv)
		if err != nil {
			w.Close()
			return r, err
		}
		if clip.IsZero() {
			r.Skipped++
			continue
		}
		if err := w.add(clip); err != nil {
			w.Close()
			return r, fmt.Errorf("pack: %s: %w", name, err)
		}
		os.Remove(clip.Path)
		r.Clips++
	}
	if err := w.Close(); err != nil {
		return r, fmt.Errorf("pack: %s: %w", name, err)
	}

	log.Info("split packaged", "intervals", r.Intervals, "clips", r.Clips, "skipped", r.Skipped)
	return r, nil
}

// splitWriter owns the archive and manifest of one split.
type splitWriter struct {
	archive  *os.File
	gz       *gzip.Writer
	tw       *tar.Writer
	manifest *os.File
	mw       *bufio.Writer
}

func newSplitWriter(dataDir, name string) (*splitWriter, error) {
	archive, err := os.Create(filepath.Join(dataDir, name+".tar.gz"))
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	manifest, err := os.Create(filepath.Join(dataDir, name+".csv"))
	if err != nil {
		archive.Close()
		return nil, fmt.Errorf("pack: %w", err)
	}
	gz := gzip.NewWriter(archive)
	w := &splitWriter{
		archive:  archive,
		gz:       gz,
		tw:       tar.NewWriter(gz),
		manifest: manifest,
		mw:       bufio.NewWriter(manifest),
	}
	if _, err := w.mw.WriteString(ManifestHeader + "\n"); err != nil {
		w.Close()
		return nil, fmt.Errorf("pack: %w", err)
	}
	return w, nil
}

// add appends the clip file to the archive and its row to the manifest.
// Rows are written verbatim; normalized text never holds a comma or quote.
func (w *splitWriter) add(c Clip) error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     c.Name,
		Mode:     0o644,
		Size:     fi.Size(),
		ModTime:  archiveModTime,
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("archive %s: %w", c.Name, err)
	}
	if _, err := io.Copy(w.tw, f); err != nil {
		return fmt.Errorf("archive %s: %w", c.Name, err)
	}

	if _, err := fmt.Fprintf(w.mw, "%s,%s\n", c.Name, c.Text); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	return nil
}

// Close finalizes both files. Every close runs; failures are joined.
func (w *splitWriter) Close() error {
	return errors.Join(
		w.tw.Close(),
		w.gz.Close(),
		w.archive.Close(),
		w.mw.Flush(),
		w.manifest.Close(),
	)
}
