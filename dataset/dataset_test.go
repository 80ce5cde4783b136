package dataset

import (
	"archive/tar"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
)

func buildArchive(t *testing.T, members ...Member) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	// A directory entry is not a member.
	if err := tw.WriteHeader(&tar.Header{Typeflag: tar.TypeDir, Name: "sub/", Mode: 0o755}); err != nil {
		t.Fatal(err)
	}
	for _, m := range members {
		hdr := &tar.Header{Typeflag: tar.TypeReg, Name: m.Name, Mode: 0o644, Size: int64(len(m.Data))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write(m.Data); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadManifest(t *testing.T) {
	src := "file_name,transcription\n" +
		"a_1.wav,hello there\n" +
		"a_2.wav,odd,but kept\n" +
		"\n" +
		"b_1.wav,\n"
	m, err := ReadManifest(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadManifest error: %v", err)
	}
	want := Manifest{
		"a_1.wav": "hello there",
		"a_2.wav": "odd,but kept",
		"b_1.wav": "",
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestReadManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"bad header", "path,text\na.wav,x\n"},
		{"no comma", "file_name,transcription\nbroken\n"},
	}
	for _, tt := range tests {
		if _, err := ReadManifest(strings.NewReader(tt.src)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestIterArchive(t *testing.T) {
	data := buildArchive(t,
		Member{Name: "x_1.wav", Data: []byte("one")},
		Member{Name: "x_2.wav", Data: []byte("two")},
	)
	var got []Member
	for m, err := range IterArchive(bytes.NewReader(data)) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, m)
	}
	want := []Member{{"x_1.wav", []byte("one")}, {"x_2.wav", []byte("two")}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
}

func TestIterArchive_NotGzip(t *testing.T) {
	n := 0
	for _, err := range IterArchive(strings.NewReader("plain text")) {
		n++
		if err == nil {
			t.Error("expected error for non-gzip input")
		}
	}
	if n != 1 {
		t.Errorf("yielded %d times, want 1", n)
	}
}

func TestGenerate(t *testing.T) {
	data := buildArchive(t,
		Member{Name: "a_1.wav", Data: []byte("A1")},
		Member{Name: "stray.wav", Data: []byte("S")},
		Member{Name: "a_2.wav", Data: []byte("A2")},
	)
	m := Manifest{"a_1.wav": "first", "a_2.wav": "second", "missing.wav": "never"}

	var got []Record
	for rec, err := range Generate(m, IterArchive(bytes.NewReader(data))) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, rec)
	}
	want := []Record{
		{ID: 0, Path: "a_1.wav", Audio: []byte("A1"), Transcription: "first"},
		{ID: 1, Path: "a_2.wav", Audio: []byte("A2"), Transcription: "second"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_StopEarly(t *testing.T) {
	data := buildArchive(t,
		Member{Name: "a.wav", Data: []byte("a")},
		Member{Name: "b.wav", Data: []byte("b")},
	)
	m := Manifest{"a.wav": "a", "b.wav": "b"}
	n := 0
	for range Generate(m, IterArchive(bytes.NewReader(data))) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
}

func TestLoadSplit(t *testing.T) {
	dir := t.TempDir()
	data := buildArchive(t, Member{Name: "c_1.wav", Data: []byte("RIFF")})
	if err := os.WriteFile(filepath.Join(dir, "eval.tar.gz"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "eval.csv"), []byte(Header+"\nc_1.wav,yes\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	recs, err := LoadSplit(dir, "eval")
	if err != nil {
		t.Fatalf("LoadSplit error: %v", err)
	}
	if len(recs) != 1 || recs[0].Transcription != "yes" || string(recs[0].Audio) != "RIFF" {
		t.Errorf("records = %+v", recs)
	}

	if _, err := LoadSplit(dir, "train"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadSplit(train) error = %v, want os.ErrNotExist", err)
	}
}
