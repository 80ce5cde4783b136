// Package corpustest writes small on-disk corpora for tests.
package corpustest

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ieee0824/primock-go/audio"
)

// Span is one interval of a generated TextGrid.
type Span struct {
	Start, End float64
	Text       string
}

// TextGrid renders spans as a single-tier TextGrid in Praat's long layout.
func TextGrid(spans ...Span) string {
	xmax := 0.0
	if len(spans) > 0 {
		xmax = spans[len(spans)-1].End
	}
	var b strings.Builder
	fmt.Fprintf(&b, "File type = \"ooTextFile\"\nObject class = \"TextGrid\"\n\n")
	fmt.Fprintf(&b, "xmin = 0\nxmax = %s\ntiers? <exists>\nsize = 1\nitem []:\n", num(xmax))
	fmt.Fprintf(&b, "    item [1]:\n        class = \"IntervalTier\"\n        name = \"utterances\"\n")
	fmt.Fprintf(&b, "        xmin = 0\n        xmax = %s\n        intervals: size = %d\n", num(xmax), len(spans))
	for i, s := range spans {
		fmt.Fprintf(&b, "        intervals [%d]:\n", i+1)
		fmt.Fprintf(&b, "            xmin = %s\n            xmax = %s\n", num(s.Start), num(s.End))
		fmt.Fprintf(&b, "            text = \"%s\"\n", strings.ReplaceAll(s.Text, `"`, `""`))
	}
	return b.String()
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// WriteTranscript writes root/transcripts/<stem>.TextGrid.
func WriteTranscript(t testing.TB, root, stem string, spans ...Span) string {
	t.Helper()
	dir := filepath.Join(root, "transcripts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, stem+".TextGrid")
	if err := os.WriteFile(p, []byte(TextGrid(spans...)), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// WriteAudio writes root/audio/<stem>.wav holding seconds of a 16 kHz tone.
func WriteAudio(t testing.TB, root, stem string, seconds float64) string {
	t.Helper()
	dir := filepath.Join(root, "audio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, stem+".wav")
	if err := audio.WriteWAVFile(p, Tone(seconds, audio.DefaultSampleRate), audio.DefaultSampleRate); err != nil {
		t.Fatal(err)
	}
	return p
}

// Tone returns a 440 Hz sine quantized to 16-bit steps, so it survives a
// WAV round trip unchanged.
func Tone(seconds float64, rate int) []float64 {
	n := int(seconds * float64(rate))
	s := make([]float64, n)
	for i := range s {
		v := math.Round(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		s[i] = v / 32768.0
	}
	return s
}
