package corpus

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/ieee0824/primock-go/audio"
	"github.com/ieee0824/primock-go/textgrid"
)

// DefaultExt is the annotation file extension scanned by Load.
const DefaultExt = "TextGrid"

// Options configures Load.
type Options struct {
	Ext        string // annotation extension without dot; DefaultExt if empty
	SampleRate int    // waveform rate; audio.DefaultSampleRate if zero

	// SkipInvalid logs and skips transcripts with a bad file name or a
	// malformed annotation instead of failing the whole load.
	SkipInvalid bool

	Logger *slog.Logger
}

func (o Options) ext() string {
	if o.Ext == "" {
		return DefaultExt
	}
	return o.Ext
}

func (o Options) sampleRate() int {
	if o.SampleRate <= 0 {
		return audio.DefaultSampleRate
	}
	return o.SampleRate
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// DataSet is the whole corpus: every transcript found under Root.
type DataSet struct {
	Root        string
	Transcripts []*Transcript
}

// Load scans root/transcripts/*.<ext> (non-recursive, sorted by name) and
// builds one Transcript per file. A corpus without annotation files is
// empty, not an error.
func Load(root string, opts Options) (*DataSet, error) {
	log := opts.logger()
	pattern := filepath.Join(root, "transcripts", "*."+opts.ext())
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("corpus: glob %s: %w", pattern, err)
	}
	sort.Strings(paths)

	ds := &DataSet{Root: root, Transcripts: make([]*Transcript, 0, len(paths))}
	for _, p := range paths {
		t, err := LoadTranscript(p, len(ds.Transcripts))
		if err != nil {
			if opts.SkipInvalid && isInvalidInput(err) {
				log.Warn("skipping transcript", "path", p, "error", err)
				continue
			}
			return nil, fmt.Errorf("corpus: load %s: %w", p, err)
		}
		t.SampleRate = opts.sampleRate()
		if !t.HasAudio() {
			log.Debug("transcript has no audio", "path", p)
		}
		ds.Transcripts = append(ds.Transcripts, t)
	}

	log.Info("corpus loaded", "root", root, "transcripts", len(ds.Transcripts))
	return ds, nil
}

func isInvalidInput(err error) bool {
	var ne *NamingError
	var pe *textgrid.ParseError
	return errors.As(err, &ne) || errors.As(err, &pe)
}

// Intervals flattens all intervals in transcript order, then ordinal order.
func (d *DataSet) Intervals() []Interval {
	n := 0
	for _, t := range d.Transcripts {
		n += len(t.Intervals)
	}
	out := make([]Interval, 0, n)
	for _, t := range d.Transcripts {
		out = append(out, t.Intervals...)
	}
	return out
}

// Transcript resolves the owner of iv.
func (d *DataSet) Transcript(iv Interval) *Transcript {
	if iv.Transcript < 0 || iv.Transcript >= len(d.Transcripts) {
		return nil
	}
	return d.Transcripts[iv.Transcript]
}

// IntervalSID returns the id of iv, or "" if its transcript is unknown.
func (d *DataSet) IntervalSID(iv Interval) string {
	t := d.Transcript(iv)
	if t == nil {
		return ""
	}
	return t.IntervalSID(iv)
}
