// Package dataset reads packaged splits back as training records: it joins
// the members of <split>.tar.gz with the rows of <split>.csv.
package dataset

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Header is the required first line of a manifest.
const Header = "file_name,transcription"

// SampleRate is the rate of every packaged clip.
const SampleRate = 16000

// Manifest maps clip file names to transcriptions.
type Manifest map[string]string

// Member is one regular file of a split archive.
type Member struct {
	Name string
	Data []byte
}

// Record is one training example.
type Record struct {
	ID            int
	Path          string
	Audio         []byte // WAV file contents
	Transcription string
}

// ReadManifest parses a manifest. Rows are split on the first comma.
func ReadManifest(r io.Reader) (Manifest, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("dataset: manifest: %w", err)
		}
		return nil, errors.New("dataset: manifest: missing header")
	}
	if h := strings.TrimSuffix(sc.Text(), "\r"); h != Header {
		return nil, fmt.Errorf("dataset: manifest: unexpected header %q", h)
	}

	m := make(Manifest)
	line := 1
	for sc.Scan() {
		line++
		row := strings.TrimSuffix(sc.Text(), "\r")
		if row == "" {
			continue
		}
		name, text, ok := strings.Cut(row, ",")
		if !ok {
			return nil, fmt.Errorf("dataset: manifest line %d: missing comma", line)
		}
		m[name] = text
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dataset: manifest: %w", err)
	}
	return m, nil
}

// ReadManifestFile reads the manifest at path.
func ReadManifestFile(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadManifest(f)
}

// IterArchive yields the regular files of a gzip-compressed tar stream in
// archive order. Iteration stops after the first error.
func IterArchive(r io.Reader) iter.Seq2[Member, error] {
	return func(yield func(Member, error) bool) {
		gz, err := gzip.NewReader(r)
		if err != nil {
			yield(Member{}, fmt.Errorf("dataset: archive: %w", err))
			return
		}
		defer gz.Close()

		tr := tar.NewReader(gz)
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Member{}, fmt.Errorf("dataset: archive: %w", err))
				return
			}
			if hdr.Typeflag != tar.TypeReg {
				continue
			}
			data, err := io.ReadAll(tr)
			if err != nil {
				yield(Member{}, fmt.Errorf("dataset: archive %s: %w", hdr.Name, err))
				return
			}
			if !yield(Member{Name: hdr.Name, Data: data}, nil) {
				return
			}
		}
	}
}

// Generate joins archive members with the manifest. Members without a
// manifest row are skipped; IDs count matched members from 0.
func Generate(m Manifest, members iter.Seq2[Member, error]) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		id := 0
		for mem, err := range members {
			if err != nil {
				yield(Record{}, err)
				return
			}
			text, ok := m[mem.Name]
			if !ok {
				continue
			}
			rec := Record{ID: id, Path: mem.Name, Audio: mem.Data, Transcription: text}
			if !yield(rec, nil) {
				return
			}
			id++
		}
	}
}

// LoadSplit reads every record of a split from dataDir/<split>.csv and
// dataDir/<split>.tar.gz.
func LoadSplit(dataDir, split string) ([]Record, error) {
	m, err := ReadManifestFile(filepath.Join(dataDir, split+".csv"))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dataDir, split+".tar.gz"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Record
	for rec, err := range Generate(m, IterArchive(f)) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
