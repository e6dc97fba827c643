package oligo

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrEmptySequence is returned by Validate for sequences without any bases.
var ErrEmptySequence = errors.New("empty sequence")

// IUPAC DNA codes accepted by Validate.
var iupac = map[rune]struct{}{
	'A': {}, 'C': {}, 'G': {}, 'T': {},
	'R': {}, 'Y': {}, 'S': {}, 'W': {},
	'K': {}, 'M': {}, 'B': {}, 'D': {},
	'H': {}, 'V': {}, 'N': {},
}

// Normalize removes whitespace and quotes and uppercases the remaining letters.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		out = append(out, unicode.ToUpper(r))
	}

	return string(out)
}

// Validate returns the normalized sequence, or an error when it is empty or
// holds a character that is not an IUPAC DNA code.
func Validate(raw string) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return "", ErrEmptySequence
	}
	for i, r := range []rune(s) {
		if _, ok := iupac[r]; !ok {
			return "", fmt.Errorf(
				"invalid base %q at %d; allowed: A C G T R Y S W K M B D H V N",
				r,
				i+1,
			)
		}
	}

	return s, nil
}
