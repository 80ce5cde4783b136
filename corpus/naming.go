package corpus

import (
	"fmt"
	"regexp"
	"strconv"
)

// stemRe decodes annotation file stems such as "day1_consultation02_doctor".
var stemRe = regexp.MustCompile(`^day(\d+)_consultation(\d+)_(\w+)`)

// Session is the metadata encoded in an annotation file name.
type Session struct {
	Day          int
	Consultation int
	Role         string
	Doctor       bool
}

// NamingError reports a file stem that does not follow
// day<D>_consultation<C>_<role>.
type NamingError struct {
	Stem string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("corpus: %q does not match day<D>_consultation<C>_<role>", e.Stem)
}

// DecodeStem parses the session metadata out of a file stem.
// Only the role "doctor" sets Doctor; every other role is a non-doctor.
func DecodeStem(stem string) (Session, error) {
	m := stemRe.FindStringSubmatch(stem)
	if m == nil {
		return Session{}, &NamingError{Stem: stem}
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day <= 0 {
		return Session{}, &NamingError{Stem: stem}
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return Session{}, &NamingError{Stem: stem}
	}
	return Session{
		Day:          day,
		Consultation: n,
		Role:         m[3],
		Doctor:       m[3] == "doctor",
	}, nil
}
