package corpus

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

const indexVersion = 1

type indexFile struct {
	Version     int               `msgpack:"version"`
	Root        string            `msgpack:"root"`
	Transcripts []indexTranscript `msgpack:"transcripts"`
}

type indexTranscript struct {
	Path         string          `msgpack:"path"`
	Stem         string          `msgpack:"stem"`
	Day          int             `msgpack:"day"`
	Consultation int             `msgpack:"consultation"`
	Role         string          `msgpack:"role"`
	Doctor       bool            `msgpack:"doctor"`
	AudioPath    string          `msgpack:"audio_path,omitempty"`
	Intervals    []indexInterval `msgpack:"intervals"`
}

type indexInterval struct {
	N     int     `msgpack:"n"`
	Start float64 `msgpack:"start"`
	End   float64 `msgpack:"end"`
	Text  string  `msgpack:"text"`
}

// WriteIndex stores the parsed corpus (metadata and intervals, no audio) so
// later runs can skip TextGrid parsing.
func WriteIndex(w io.Writer, d *DataSet) error {
	idx := indexFile{
		Version:     indexVersion,
		Root:        d.Root,
		Transcripts: make([]indexTranscript, 0, len(d.Transcripts)),
	}
	for _, t := range d.Transcripts {
		it := indexTranscript{
			Path:         t.Path,
			Stem:         t.Stem,
			Day:          t.Day,
			Consultation: t.Consultation,
			Role:         t.Role,
			Doctor:       t.Doctor,
			AudioPath:    t.AudioPath,
			Intervals:    make([]indexInterval, 0, len(t.Intervals)),
		}
		for _, iv := range t.Intervals {
			it.Intervals = append(it.Intervals, indexInterval{N: iv.N, Start: iv.Start, End: iv.End, Text: iv.Text})
		}
		idx.Transcripts = append(idx.Transcripts, it)
	}
	if err := msgpack.NewEncoder(w).Encode(&idx); err != nil {
		return fmt.Errorf("corpus: write index: %w", err)
	}
	return nil
}

// ReadIndex restores a DataSet written by WriteIndex. Recordings are decoded
// lazily as for a scanned corpus; a recording that has disappeared since the
// index was written is treated as missing.
func ReadIndex(r io.Reader, sampleRate int) (*DataSet, error) {
	var idx indexFile
	if err := msgpack.NewDecoder(r).Decode(&idx); err != nil {
		return nil, fmt.Errorf("corpus: read index: %w", err)
	}
	if idx.Version != indexVersion {
		return nil, fmt.Errorf("corpus: unsupported index version %d", idx.Version)
	}

	opts := Options{SampleRate: sampleRate}
	d := &DataSet{Root: idx.Root, Transcripts: make([]*Transcript, 0, len(idx.Transcripts))}
	for ref, it := range idx.Transcripts {
		audioPath := it.AudioPath
		if audioPath != "" {
			if _, err := os.Stat(audioPath); err != nil {
				audioPath = ""
			}
		}
		t := newTranscript(it.Path, it.Stem, Session{
			Day:          it.Day,
			Consultation: it.Consultation,
			Role:         it.Role,
			Doctor:       it.Doctor,
		}, audioPath)
		t.SampleRate = opts.sampleRate()
		t.Intervals = make([]Interval, 0, len(it.Intervals))
		for _, iv := range it.Intervals {
			t.Intervals = append(t.Intervals, Interval{
				Transcript: ref,
				N:          iv.N,
				Start:      iv.Start,
				End:        iv.End,
				Text:       iv.Text,
			})
		}
		d.Transcripts = append(d.Transcripts, t)
	}
	return d, nil
}

// WriteIndexFile writes the index to path.
func WriteIndexFile(path string, d *DataSet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteIndex(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadIndexFile reads an index written by WriteIndexFile.
func ReadIndexFile(path string, sampleRate int) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadIndex(f, sampleRate)
}
