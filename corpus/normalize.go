package corpus

import (
	"regexp"
	"strings"

	"github.com/ieee0824/primock-go/textgrid"
)

// tagRe matches inline markup such as <tag>, </tag> and <tag/>.
var tagRe = regexp.MustCompile(`</?[^<>]*/?>`)

// Normalize lowercases label, removes markup tags and drops every rune that
// is not a letter a-z or a space. Spaces are kept as they are, so removing a
// tag between two words leaves both of its neighbouring spaces.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(label string) string {
	s := strings.ToLower(label)
	s = tagRe.ReplaceAllString(s, "")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r == ' ' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Admit reports whether an utterance with the given raw label is kept:
// its normalized text must contain at least one letter.
func Admit(label string) bool {
	return strings.IndexFunc(Normalize(label), func(r rune) bool { return r != ' ' }) >= 0
}

// NewInterval builds the n-th (1-based) interval of the transcript
// referenced by ref from a raw tier interval.
func NewInterval(ref, n int, raw textgrid.Interval) Interval {
	return Interval{
		Transcript: ref,
		N:          n,
		Start:      raw.XMin,
		End:        raw.XMax,
		Text:       Normalize(raw.Text),
	}
}

// intervalsFromTier keeps the admitted intervals of tier, numbered densely from 1.
func intervalsFromTier(ref int, tier *textgrid.IntervalTier) []Interval {
	out := make([]Interval, 0, len(tier.Intervals))
	for _, raw := range tier.Intervals {
		if !Admit(raw.Text) {
			continue
		}
		out = append(out, NewInterval(ref, len(out)+1, raw))
	}
	return out
}
