package corpus

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ieee0824/primock-go/internal/corpustest"
)

func writeTwoTranscripts(t *testing.T, root string) {
	t.Helper()
	// Written out of name order; Load sorts by name.
	corpustest.WriteTranscript(t, root, "day2_consultation1_patient",
		corpustest.Span{Start: 0, End: 1, Text: "Third"},
	)
	corpustest.WriteTranscript(t, root, "day1_consultation1_doctor",
		corpustest.Span{Start: 0, End: 1, Text: "First"},
		corpustest.Span{Start: 1, End: 2, Text: "..."},
		corpustest.Span{Start: 2, End: 3, Text: "Second"},
	)
	corpustest.WriteAudio(t, root, "day1_consultation1_doctor", 3)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeTwoTranscripts(t, root)

	ds, err := Load(root, Options{})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(ds.Transcripts) != 2 {
		t.Fatalf("transcripts = %d, want 2", len(ds.Transcripts))
	}
	if ds.Transcripts[0].Stem != "day1_consultation1_doctor" {
		t.Errorf("first transcript = %s, want day1_consultation1_doctor", ds.Transcripts[0].Stem)
	}

	ivs := ds.Intervals()
	var texts []string
	for _, iv := range ivs {
		texts = append(texts, iv.Text)
	}
	if diff := cmp.Diff([]string{"first", "second", "third"}, texts); diff != "" {
		t.Errorf("flattened order mismatch (-want +got):\n%s", diff)
	}

	if got := ds.Transcript(ivs[2]); got != ds.Transcripts[1] {
		t.Errorf("Transcript(ivs[2]) = %v, want %v", got, ds.Transcripts[1])
	}
	if got := ds.IntervalSID(ivs[2]); got != "2:1:0:0.0:1.0" {
		t.Errorf("IntervalSID = %q", got)
	}
	if got := ds.IntervalSID(Interval{Transcript: 9}); got != "" {
		t.Errorf("IntervalSID(unknown) = %q, want empty", got)
	}
}

func TestLoad_Empty(t *testing.T) {
	root := t.TempDir()
	ds, err := Load(root, Options{})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(ds.Transcripts) != 0 || len(ds.Intervals()) != 0 {
		t.Errorf("expected empty dataset, got %d transcripts", len(ds.Transcripts))
	}
}

func TestLoad_IndependentInstances(t *testing.T) {
	a := t.TempDir()
	writeTwoTranscripts(t, a)
	b := t.TempDir()

	dsA, err := Load(a, Options{})
	if err != nil {
		t.Fatal(err)
	}
	dsB, err := Load(b, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(dsA.Transcripts) != 2 || len(dsB.Transcripts) != 0 {
		t.Errorf("transcripts = %d / %d, want 2 / 0", len(dsA.Transcripts), len(dsB.Transcripts))
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	root := t.TempDir()
	writeTwoTranscripts(t, root)
	corpustest.WriteTranscript(t, root, "bogus_name", corpustest.Span{Start: 0, End: 1, Text: "x"})

	_, err := Load(root, Options{})
	var ne *NamingError
	if !errors.As(err, &ne) {
		t.Fatalf("Load error = %v, want *NamingError", err)
	}

	ds, err := Load(root, Options{SkipInvalid: true})
	if err != nil {
		t.Fatalf("Load(SkipInvalid) error: %v", err)
	}
	if len(ds.Transcripts) != 2 {
		t.Errorf("transcripts = %d, want 2", len(ds.Transcripts))
	}
	for i, tr := range ds.Transcripts {
		for _, iv := range tr.Intervals {
			if iv.Transcript != i {
				t.Errorf("%s: interval ref = %d, want %d", tr.Stem, iv.Transcript, i)
			}
		}
	}
}

func TestLoad_CustomExt(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "transcripts")
	os.MkdirAll(dir, 0o755)
	os.WriteFile(filepath.Join(dir, "day1_consultation1_doctor.tg"),
		[]byte(corpustest.TextGrid(corpustest.Span{Start: 0, End: 1, Text: "x"})), 0o644)

	ds, err := Load(root, Options{Ext: "tg"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Transcripts) != 1 {
		t.Errorf("transcripts = %d, want 1", len(ds.Transcripts))
	}
}

func TestIndex_RoundTrip(t *testing.T) {
	root := t.TempDir()
	writeTwoTranscripts(t, root)
	ds, err := Load(root, Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteIndex(&buf, ds); err != nil {
		t.Fatalf("WriteIndex error: %v", err)
	}
	got, err := ReadIndex(&buf, 0)
	if err != nil {
		t.Fatalf("ReadIndex error: %v", err)
	}

	opts := cmp.Options{
		cmpopts.IgnoreUnexported(Transcript{}),
	}
	if diff := cmp.Diff(ds, got, opts); diff != "" {
		t.Errorf("restored dataset mismatch (-want +got):\n%s", diff)
	}

	w, err := got.Transcripts[0].Waveform()
	if err != nil {
		t.Fatalf("Waveform after restore: %v", err)
	}
	if len(w) != 48000 {
		t.Errorf("len = %d, want 48000", len(w))
	}
}

func TestIndex_MissingAudioOnRestore(t *testing.T) {
	root := t.TempDir()
	writeTwoTranscripts(t, root)
	ds, err := Load(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "corpus.msgpack")
	if err := WriteIndexFile(path, ds); err != nil {
		t.Fatal(err)
	}
	os.Remove(ds.Transcripts[0].AudioPath)

	got, err := ReadIndexFile(path, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if got.Transcripts[0].HasAudio() {
		t.Error("expected restored transcript without audio")
	}
}
