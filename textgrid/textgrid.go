// Package textgrid reads Praat TextGrid annotation files.
//
// Both text layouts written by Praat are supported: the long layout with
// "key = value" lines and the short layout that carries values only. Files
// may be UTF-8 or UTF-16 with a byte order mark.
package textgrid

import "fmt"

// TextGrid is a parsed annotation file.
type TextGrid struct {
	XMin  float64
	XMax  float64
	Tiers []Tier
}

// Tier is either an *IntervalTier or a *PointTier.
type Tier interface {
	TierName() string
	tier()
}

// Interval is one labeled time span of an interval tier.
type Interval struct {
	XMin float64
	XMax float64
	Text string
}

// IntervalTier is a tier of contiguous labeled time spans.
type IntervalTier struct {
	Name      string
	XMin      float64
	XMax      float64
	Intervals []Interval
}

// Point is one labeled instant of a point tier.
type Point struct {
	Time float64
	Mark string
}

// PointTier is a tier of labeled instants ("TextTier" in Praat).
type PointTier struct {
	Name   string
	XMin   float64
	XMax   float64
	Points []Point
}

// TierName returns the tier's name.
func (t *IntervalTier) TierName() string { return t.Name }

// TierName returns the tier's name.
func (t *PointTier) TierName() string { return t.Name }

func (*IntervalTier) tier() {}
func (*PointTier) tier()    {}

// FirstIntervalTier returns the first interval tier in file order.
func (g *TextGrid) FirstIntervalTier() (*IntervalTier, error) {
	if len(g.Tiers) == 0 {
		return nil, &ParseError{Msg: "no tiers"}
	}
	for _, t := range g.Tiers {
		if it, ok := t.(*IntervalTier); ok {
			return it, nil
		}
	}
	return nil, &ParseError{Msg: "no interval tier"}
}

// ParseError reports a malformed or unusable annotation file.
type ParseError struct {
	Path string
	Line int // 0 when the error is not tied to a line
	Msg  string
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("textgrid: %s:%d: %s", e.Path, e.Line, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("textgrid: %s: %s", e.Path, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("textgrid: line %d: %s", e.Line, e.Msg)
	default:
		return "textgrid: " + e.Msg
	}
}
