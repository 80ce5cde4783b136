package pack

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ieee0824/primock-go/corpus"
	"github.com/ieee0824/primock-go/split"
)

// SentencesDir is the default subdirectory for sentence exports.
const SentencesDir = "outputs"

// WriteSentences writes two files per split into dir: <split> with
// "sid\ttext" lines and <split>.s with "<s> text </s>" lines for language
// model tooling.
func WriteSentences(dir string, ds *corpus.DataSet, a split.Assignment[corpus.Interval]) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	return a.Each(func(name string, ivs []corpus.Interval) error {
		err := writeLines(filepath.Join(dir, name), ivs, func(w *bufio.Writer, iv corpus.Interval) error {
			_, err := fmt.Fprintf(w, "%s\t%s\n", ds.IntervalSID(iv), iv.Text)
			return err
		})
		if err != nil {
			return err
		}
		return writeLines(filepath.Join(dir, name+".s"), ivs, func(w *bufio.Writer, iv corpus.Interval) error {
			_, err := fmt.Fprintf(w, "<s> %s </s>\n", iv.Text)
			return err
		})
	})
}

func writeLines(path string, ivs []corpus.Interval, line func(*bufio.Writer, corpus.Interval) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, iv := range ivs {
		if err := line(w, iv); err != nil {
			f.Close()
			return fmt.Errorf("pack: write %s: %w", path, err)
		}
	}
	if err := errors.Join(w.Flush(), f.Close()); err != nil {
		return fmt.Errorf("pack: write %s: %w", path, err)
	}
	return nil
}
