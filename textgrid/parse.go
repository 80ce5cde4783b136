package textgrid

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseFile reads and parses the TextGrid file at path.
func ParseFile(path string) (*TextGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	return g, nil
}

// Parse reads a TextGrid in either text layout from r.
// UTF-16 input must start with a byte order mark; anything else is read as UTF-8.
func Parse(r io.Reader) (*TextGrid, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("textgrid: read: %w", err)
	}

	toks, err := lex(string(data))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.textGrid()
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) errorf(format string, args ...any) error {
	line := 0
	switch {
	case p.pos < len(p.toks):
		line = p.toks[p.pos].line
	case len(p.toks) > 0:
		line = p.toks[len(p.toks)-1].line
	}
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) next(kind tokenKind, what string) (token, error) {
	if p.pos >= len(p.toks) {
		return token{}, p.errorf("unexpected end of file, want %s", what)
	}
	t := p.toks[p.pos]
	if t.kind != kind {
		return token{}, p.errorf("want %s, got %q", what, t.text)
	}
	p.pos++
	return t, nil
}

func (p *parser) str(what string) (string, error) {
	t, err := p.next(tokString, what)
	return t.text, err
}

func (p *parser) num(what string) (float64, error) {
	t, err := p.next(tokNumber, what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		p.pos--
		return 0, p.errorf("bad number %q for %s", t.text, what)
	}
	return v, nil
}

func (p *parser) count(what string) (int, error) {
	t, err := p.next(tokNumber, what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t.text)
	if err != nil || n < 0 {
		p.pos--
		return 0, p.errorf("bad count %q for %s", t.text, what)
	}
	return n, nil
}

func (p *parser) textGrid() (*TextGrid, error) {
	fileType, err := p.str("file type")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(fileType, "ooTextFile") {
		return nil, p.errorf("unsupported file type %q", fileType)
	}
	class, err := p.str("object class")
	if err != nil {
		return nil, err
	}
	if class != "TextGrid" {
		return nil, p.errorf("unsupported object class %q", class)
	}

	g := &TextGrid{}
	if g.XMin, err = p.num("xmin"); err != nil {
		return nil, err
	}
	if g.XMax, err = p.num("xmax"); err != nil {
		return nil, err
	}

	flag, err := p.next(tokFlag, "tiers flag")
	if err != nil {
		return nil, err
	}
	if flag.text != "<exists>" {
		return nil, &ParseError{Line: flag.line, Msg: "no tiers"}
	}
	n, err := p.count("tier count")
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, p.errorf("no tiers")
	}

	for i := 0; i < n; i++ {
		t, err := p.tier()
		if err != nil {
			return nil, err
		}
		g.Tiers = append(g.Tiers, t)
	}
	return g, nil
}

func (p *parser) tier() (Tier, error) {
	class, err := p.str("tier class")
	if err != nil {
		return nil, err
	}
	name, err := p.str("tier name")
	if err != nil {
		return nil, err
	}
	xmin, err := p.num("tier xmin")
	if err != nil {
		return nil, err
	}
	xmax, err := p.num("tier xmax")
	if err != nil {
		return nil, err
	}
	n, err := p.count("item count")
	if err != nil {
		return nil, err
	}

	switch class {
	case "IntervalTier":
		t := &IntervalTier{Name: name, XMin: xmin, XMax: xmax, Intervals: make([]Interval, 0, n)}
		for i := 0; i < n; i++ {
			var iv Interval
			if iv.XMin, err = p.num("interval xmin"); err != nil {
				return nil, err
			}
			if iv.XMax, err = p.num("interval xmax"); err != nil {
				return nil, err
			}
			if iv.XMax <= iv.XMin {
				p.pos--
				return nil, p.errorf("tier %q interval %d: xmax %v <= xmin %v", name, i+1, iv.XMax, iv.XMin)
			}
			if iv.Text, err = p.str("interval text"); err != nil {
				return nil, err
			}
			t.Intervals = append(t.Intervals, iv)
		}
		return t, nil

	case "TextTier":
		t := &PointTier{Name: name, XMin: xmin, XMax: xmax, Points: make([]Point, 0, n)}
		for i := 0; i < n; i++ {
			var pt Point
			if pt.Time, err = p.num("point time"); err != nil {
				return nil, err
			}
			if pt.Mark, err = p.str("point mark"); err != nil {
				return nil, err
			}
			t.Points = append(t.Points, pt)
		}
		return t, nil

	default:
		return nil, p.errorf("unknown tier class %q", class)
	}
}
