// Package corpus builds the Primock57-style corpus from TextGrid transcripts
// and their recordings.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ieee0824/primock-go/audio"
	"github.com/ieee0824/primock-go/textgrid"
)

// ErrNoAudio is returned by Waveform when the transcript has no recording.
var ErrNoAudio = errors.New("corpus: transcript has no audio")

// Transcript is one annotation file's consultation session.
type Transcript struct {
	Path      string // annotation file
	Stem      string // file name without extension
	Session
	AudioPath string // empty when the recording is missing
	Intervals []Interval

	// SampleRate is the rate Waveform decodes to. It must be set before the
	// first Waveform call.
	SampleRate int

	wave func() ([]float64, error)
}

// Interval is one admitted utterance of a transcript.
type Interval struct {
	Transcript int     // index of the owning transcript in its DataSet
	N          int     // 1-based ordinal among admitted intervals
	Start      float64 // seconds
	End        float64 // seconds
	Text       string  // normalized
}

// LoadTranscript reads the annotation file at path. ref is the index the
// transcript will have in its DataSet and is stored in every Interval.
func LoadTranscript(path string, ref int) (*Transcript, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	sess, err := DecodeStem(stem)
	if err != nil {
		return nil, err
	}

	g, err := textgrid.ParseFile(path)
	if err != nil {
		return nil, err
	}
	tier, err := g.FirstIntervalTier()
	if err != nil {
		var pe *textgrid.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}

	t := newTranscript(path, stem, sess, AudioPathFor(path))
	t.Intervals = intervalsFromTier(ref, tier)
	return t, nil
}

func newTranscript(path, stem string, sess Session, audioPath string) *Transcript {
	t := &Transcript{
		Path:       path,
		Stem:       stem,
		Session:    sess,
		AudioPath:  audioPath,
		SampleRate: audio.DefaultSampleRate,
	}
	t.wave = sync.OnceValues(func() ([]float64, error) {
		if t.AudioPath == "" {
			return nil, ErrNoAudio
		}
		return audio.LoadMono(t.AudioPath, t.SampleRate)
	})
	return t
}

// AudioPathFor returns the recording that belongs to an annotation file:
// <corpus>/audio/<stem>.wav next to <corpus>/transcripts. It returns ""
// when that file does not exist.
func AudioPathFor(annotation string) string {
	base := filepath.Base(annotation)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	p := filepath.Join(filepath.Dir(filepath.Dir(annotation)), "audio", stem+".wav")
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		return ""
	}
	return p
}

// SID identifies the session as "day:consultation:doctor" with doctor 0 or 1.
func (t *Transcript) SID() string {
	doc := 0
	if t.Doctor {
		doc = 1
	}
	return fmt.Sprintf("%d:%d:%d", t.Day, t.Consultation, doc)
}

// IntervalSID identifies iv as "<transcript sid>:<start>:<end>".
func (t *Transcript) IntervalSID(iv Interval) string {
	return t.SID() + ":" + formatSeconds(iv.Start) + ":" + formatSeconds(iv.End)
}

// HasAudio reports whether the recording was found.
func (t *Transcript) HasAudio() bool { return t.AudioPath != "" }

// Waveform returns the recording as mono samples at SampleRate. The file is
// decoded on the first call only; later and concurrent calls share the result.
func (t *Transcript) Waveform() ([]float64, error) {
	return t.wave()
}

// ClipName is the file name of an interval's clip: "<stem>_<n>.wav".
func (t *Transcript) ClipName(iv Interval) string {
	return fmt.Sprintf("%s_%d.wav", t.Stem, iv.N)
}

func (t *Transcript) String() string {
	return fmt.Sprintf("Transcript(day=%d, n=%d, doc=%t)", t.Day, t.Consultation, t.Doctor)
}
