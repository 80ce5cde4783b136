package textgrid

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/unicode"
)

const longGrid = `File type = "ooTextFile"
Object class = "TextGrid"

xmin = 0
xmax = 4.5
tiers? <exists>
size = 2
item []:
    item [1]:
        class = "IntervalTier"
        name = "Doctor"
        xmin = 0
        xmax = 4.5
        intervals: size = 3
        intervals [1]:
            xmin = 0
            xmax = 1.25
            text = "Hello, how are ""you"" [today]?"
        intervals [2]:
            xmin = 1.25
            xmax = 2
            text = ""
        intervals [3]:
            xmin = 2
            xmax = 4.5
            text = "<INAUDIBLE_SPEECH/>
second line"
    item [2]:
        class = "TextTier"
        name = "events"
        xmin = 0
        xmax = 4.5
        points: size = 1
        points [1]:
            number = 3.5
            mark = "cough"
`

const shortGrid = `File type = "ooTextFile"
Object class = "TextGrid"

0
4.5
<exists>
2
"TextTier"
"events"
0
4.5
1
3.5
"cough"
"IntervalTier"
"Doctor"
0
4.5
2
0
1.25
"Hello"
1.25
4.5
"bye"
`

func TestParse_LongLayout(t *testing.T) {
	g, err := Parse(strings.NewReader(longGrid))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if g.XMin != 0 || g.XMax != 4.5 {
		t.Errorf("bounds = [%v, %v], want [0, 4.5]", g.XMin, g.XMax)
	}
	if len(g.Tiers) != 2 {
		t.Fatalf("tiers = %d, want 2", len(g.Tiers))
	}

	it, err := g.FirstIntervalTier()
	if err != nil {
		t.Fatalf("FirstIntervalTier error: %v", err)
	}
	want := []Interval{
		{0, 1.25, `Hello, how are "you" [today]?`},
		{1.25, 2, ""},
		{2, 4.5, "<INAUDIBLE_SPEECH/>\nsecond line"},
	}
	if diff := cmp.Diff(want, it.Intervals); diff != "" {
		t.Errorf("intervals mismatch (-want +got):\n%s", diff)
	}
	if it.Name != "Doctor" {
		t.Errorf("tier name = %q, want Doctor", it.Name)
	}

	pt, ok := g.Tiers[1].(*PointTier)
	if !ok {
		t.Fatalf("tier 2 is %T, want *PointTier", g.Tiers[1])
	}
	if len(pt.Points) != 1 || pt.Points[0].Mark != "cough" || pt.Points[0].Time != 3.5 {
		t.Errorf("points = %+v", pt.Points)
	}
}

func TestParse_ShortLayout(t *testing.T) {
	g, err := Parse(strings.NewReader(shortGrid))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	// The point tier comes first; the first interval tier is the second tier.
	it, err := g.FirstIntervalTier()
	if err != nil {
		t.Fatalf("FirstIntervalTier error: %v", err)
	}
	want := []Interval{{0, 1.25, "Hello"}, {1.25, 4.5, "bye"}}
	if diff := cmp.Diff(want, it.Intervals); diff != "" {
		t.Errorf("intervals mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_UTF16(t *testing.T) {
	for _, endian := range []unicode.Endianness{unicode.LittleEndian, unicode.BigEndian} {
		enc := unicode.UTF16(endian, unicode.UseBOM).NewEncoder()
		data, err := enc.String(shortGrid)
		if err != nil {
			t.Fatal(err)
		}
		g, err := Parse(strings.NewReader(data))
		if err != nil {
			t.Fatalf("Parse(utf16 %v) error: %v", endian, err)
		}
		it, err := g.FirstIntervalTier()
		if err != nil {
			t.Fatal(err)
		}
		if len(it.Intervals) != 2 || it.Intervals[0].Text != "Hello" {
			t.Errorf("utf16 %v: intervals = %+v", endian, it.Intervals)
		}
	}
}

func TestParse_UTF8BOM(t *testing.T) {
	g, err := Parse(strings.NewReader("\ufeff" + shortGrid))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(g.Tiers) != 2 {
		t.Errorf("tiers = %d, want 2", len(g.Tiers))
	}
}

func TestParse_Errors(t *testing.T) {
	header := "File type = \"ooTextFile\"\nObject class = \"TextGrid\"\n"
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not textgrid", "hello world"},
		{"wrong class", "File type = \"ooTextFile\"\nObject class = \"Sound\"\n0\n1\n"},
		{"absent tiers", header + "0\n1\n<absent>\n"},
		{"zero tiers", header + "0\n1\n<exists>\n0\n"},
		{"truncated", header + "0\n1\n<exists>\n1\n\"IntervalTier\"\n\"a\"\n0\n1\n2\n0\n0.5\n\"x\"\n"},
		{"unterminated string", header + "0\n1\n<exists>\n1\n\"IntervalTier\n"},
		{"unknown class", header + "0\n1\n<exists>\n1\n\"Bogus\"\n\"a\"\n0\n1\n0\n"},
		{"reversed interval", header + "0\n1\n<exists>\n1\n\"IntervalTier\"\n\"a\"\n0\n1\n1\n0.5\n0.5\n\"x\"\n"},
	}

	for _, tt := range tests {
		_, err := Parse(strings.NewReader(tt.input))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: error %v is not a *ParseError", tt.name, err)
		}
	}
}

func TestFirstIntervalTier_NoneFound(t *testing.T) {
	g := &TextGrid{Tiers: []Tier{&PointTier{Name: "p"}}}
	if _, err := g.FirstIntervalTier(); err == nil {
		t.Fatal("expected error for grid without interval tier")
	}
}

func TestParseFile_SetsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.TextGrid")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ParseFile(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("Path = %q, want %q", pe.Path, path)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("message %q does not name the file", err.Error())
	}
}
