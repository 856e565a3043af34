package subclone

import (
	"strings"
)

// complements maps each IUPAC base to its complement
var complements = map[byte]byte{
	'A': 'T',
	'T': 'A',
	'G': 'C',
	'C': 'G',
	'M': 'K',
	'K': 'M',
	'R': 'Y',
	'Y': 'R',
	'W': 'W',
	'S': 'S',
	'H': 'D',
	'D': 'H',
	'V': 'B',
	'B': 'V',
	'N': 'N',
	'X': 'X',
}

// revComp returns the reverse complement of a sequence. Unknown
// characters are kept as they are.
func revComp(seq string) string {
	seq = strings.ToUpper(seq)

	revCompBytes := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c, ok := complements[seq[i]]
		if !ok {
			c = seq[i]
		}
		revCompBytes[len(seq)-i-1] = c
	}

	return string(revCompBytes)
}

// circularSlice returns length bases of a circular sequence starting at start.
// start may be negative or past the end of the sequence.
func circularSlice(seq string, start, length int) string {
	n := len(seq)
	if n == 0 || length <= 0 {
		return ""
	}

	start = mod(start, n)
	if start+length <= n {
		return seq[start : start+length]
	}

	var sb strings.Builder
	sb.Grow(length)
	for sb.Len() < length {
		take := min(n-start, length-sb.Len())
		sb.WriteString(seq[start : start+take])
		start = 0
	}
	return sb.String()
}

// mod is a modulo that stays positive for negative numerators
func mod(a, n int) int {
	return ((a % n) + n) % n
}
