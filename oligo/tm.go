// Package oligo holds sequence helpers for primer oligonucleotides: the Wallace
// rule melting temperature and IUPAC normalization/validation.
package oligo

import "strings"

// Tm estimates the melting temperature of a short oligonucleotide in °C using
// the Wallace rule: 2 per A/T base plus 4 per G/C base. The sequence is
// uppercased first; any other character contributes nothing.
func Tm(sequence string) float64 {
	var at, gc int
	for _, r := range strings.ToUpper(sequence) {
		switch r {
		case 'A', 'T':
			at++
		case 'G', 'C':
			gc++
		}
	}

	return float64(2*at + 4*gc)
}
