// Package natsort orders strings the way people read them: case-insensitively,
// with runs of digits compared by numeric value ("item2" < "item10").
package natsort

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// Compare returns -1, 0 or +1 comparing a and b in case-insensitive natural order.
func Compare(a, b string) int {
	a = fold.String(strings.TrimLeftFunc(a, unicode.IsSpace))
	b = fold.String(strings.TrimLeftFunc(b, unicode.IsSpace))

	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)

		if isDigit(ra) && isDigit(rb) {
			da, restA := digitRun(a)
			db, restB := digitRun(b)
			if c := compareDigits(da, db); c != 0 {
				return c
			}
			a, b = restA, restB
			continue
		}

		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		// Invalid bytes all decode to RuneError; order them bytewise.
		if c := strings.Compare(a[:na], b[:nb]); c != 0 {
			return c
		}
		a = a[na:]
		b = b[nb:]
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Strings sorts s in place.
func Strings(s []string) {
	sort.SliceStable(s, func(i, j int) bool { return Less(s[i], s[j]) })
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func digitRun(s string) (run, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// compareDigits compares two digit runs by value. Equal values with
// different zero padding sort the shorter run first.
func compareDigits(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
