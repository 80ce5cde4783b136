package corpus

import (
	"math"
	"strconv"
	"strings"
)

// formatSeconds prints t the way Python's repr prints a float so that
// interval ids agree with the ones produced by the Python tooling:
// 0.0, 1.25, 12.0, 5e-05, 1e+16.
func formatSeconds(t float64) string {
	switch {
	case math.IsNaN(t):
		return "nan"
	case math.IsInf(t, 1):
		return "inf"
	case math.IsInf(t, -1):
		return "-inf"
	}
	if a := math.Abs(t); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(t, 'e', -1, 64)
	}
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
