// Package pack cuts per-utterance clips out of the corpus recordings and
// packages each split as a gzip tar archive plus a CSV manifest.
package pack

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ieee0824/primock-go/audio"
	"github.com/ieee0824/primock-go/corpus"
)

// Clip is one written utterance file. The zero Clip means no clip was
// produced for the interval.
type Clip struct {
	Path string // written WAV file
	Name string // base name, also the archive member and manifest key
	Text string
}

// IsZero reports whether no clip was produced.
func (c Clip) IsZero() bool { return c.Path == "" }

// Segmenter writes interval clips into Dir.
type Segmenter struct {
	Dataset    *corpus.DataSet
	Dir        string
	SampleRate int // clip rate; the transcript's decode rate if zero
	Logger     *slog.Logger
}

func (s *Segmenter) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Segment writes Dir/<stem>_<n>.wav holding the samples of iv and returns
// the clip. It returns the zero Clip without error when the transcript has
// no recording, the text is empty, or the interval lies outside the
// recording.
func (s *Segmenter) Segment(iv corpus.Interval) (Clip, error) {
	t := s.Dataset.Transcript(iv)
	if t == nil {
		return Clip{}, fmt.Errorf("pack: interval refers to unknown transcript %d", iv.Transcript)
	}
	if !t.HasAudio() || iv.Text == "" {
		return Clip{}, nil
	}

	samples, err := t.Waveform()
	if err != nil {
		if errors.Is(err, corpus.ErrNoAudio) {
			return Clip{}, nil
		}
		return Clip{}, fmt.Errorf("pack: %s: %w", t.Stem, err)
	}

	rate := t.SampleRate
	seg := audio.Slice(samples, iv.Start, iv.End, rate)
	if len(seg) == 0 {
		s.logger().Warn("interval outside recording",
			"sid", t.IntervalSID(iv),
			"start", iv.Start, "end", iv.End,
			"duration", float64(len(samples))/float64(rate))
		return Clip{}, nil
	}
	if s.SampleRate > 0 && s.SampleRate != rate {
		if seg, err = audio.Resample(seg, rate, s.SampleRate); err != nil {
			return Clip{}, fmt.Errorf("pack: %s: %w", t.Stem, err)
		}
		rate = s.SampleRate
	}

	name := t.ClipName(iv)
	path := filepath.Join(s.Dir, name)
	if err := audio.WriteWAVFile(path, seg, rate); err != nil {
		return Clip{}, fmt.Errorf("pack: write clip %s: %w", name, err)
	}
	return Clip{Path: path, Name: name, Text: iv.Text}, nil
}
