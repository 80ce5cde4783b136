package textgrid

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokString tokenKind = iota
	tokNumber
	tokFlag // <exists> or <absent>
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lex splits TextGrid text into the value tokens shared by the long and
// short layouts. Keys, '=', ':' and bracketed indices such as "item [1]:"
// carry no information and are dropped.
func lex(src string) ([]token, error) {
	var toks []token
	line := 1
	rs := []rune(src)

	for i := 0; i < len(rs); {
		c := rs[i]
		switch {
		case c == '\n':
			line++
			i++

		case c == '"':
			start := line
			var sb strings.Builder
			i++
			closed := false
			for i < len(rs) {
				if rs[i] == '"' {
					if i+1 < len(rs) && rs[i+1] == '"' {
						sb.WriteRune('"')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				if rs[i] == '\n' {
					line++
				}
				sb.WriteRune(rs[i])
				i++
			}
			if !closed {
				return nil, &ParseError{Line: start, Msg: "unterminated string"}
			}
			toks = append(toks, token{kind: tokString, text: sb.String(), line: start})

		case c == '[':
			for i < len(rs) && rs[i] != ']' {
				if rs[i] == '\n' {
					line++
				}
				i++
			}
			i++

		case c == '!':
			// Comment to end of line (short layout).
			for i < len(rs) && rs[i] != '\n' {
				i++
			}

		case c == '<':
			j := i
			for j < len(rs) && rs[j] != '>' && rs[j] != '\n' {
				j++
			}
			if j >= len(rs) || rs[j] != '>' {
				return nil, &ParseError{Line: line, Msg: "unterminated flag"}
			}
			toks = append(toks, token{kind: tokFlag, text: string(rs[i : j+1]), line: line})
			i = j + 1

		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(rs) && isNumberRune(rs[j]) {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: string(rs[i:j]), line: line})
			i = j

		case unicode.IsLetter(c) || c == '_':
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}

		default:
			i++
		}
	}
	return toks, nil
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == 'e' || r == 'E' || r == '-' || r == '+'
}
