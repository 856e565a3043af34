package subclone

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
)

// Strand is the strand left single-stranded by an enzyme's cut
type Strand int

const (
	// FivePrime enzymes cut the top strand before the bottom strand,
	// leaving a 5' overhang (eg EcoRI G^AATT_C). Blunt cutters are FivePrime
	// with a zero length overhang
	FivePrime Strand = iota

	// ThreePrime enzymes cut the bottom strand first, leaving a 3' overhang (eg PstI C_TGCA^G)
	ThreePrime
)

// String returns "5'" or "3'"
func (s Strand) String() string {
	if s == ThreePrime {
		return "3'"
	}
	return "5'"
}

// Enzyme is a restriction enzyme: a recognition site and the offsets of
// the cuts it makes relative to that site
type Enzyme struct {
	// Name of the enzyme, eg "BsaI"
	Name string

	// Recog is the recognition site, including any N padding up to the cuts
	Recog string

	// Cut is the index of the top strand cut from the start of Recog
	Cut int

	// HangLen is the length of the overhang left by the cut
	HangLen int

	// Overhang is the strand of the overhang
	Overhang Strand
}

// iupac maps IUPAC nucleotide codes to the bases they match
var iupac = map[byte]string{
	'A': "A",
	'C': "C",
	'G': "G",
	'T': "T",
	'M': "AC",
	'R': "AG",
	'W': "AT",
	'Y': "CT",
	'S': "CG",
	'K': "GT",
	'H': "ACT",
	'D': "AGT",
	'V': "ACG",
	'B': "CGT",
	'N': "ACGT",
	'X': "ACGT",
}

// ParseEnzyme parses a recognition sequence with its cut sites marked into an Enzyme.
// The top strand cut is marked with "^" and the bottom strand cut with "_",
// so BsaI is "GGTCTCN^NNNN_" and PstI is "C_TGCA^G"
func ParseEnzyme(name, recogSeq string) (Enzyme, error) {
	recogSeq = strings.ToUpper(strings.TrimSpace(recogSeq))
	if strings.Count(recogSeq, "^") != 1 || strings.Count(recogSeq, "_") != 1 {
		return Enzyme{}, fmt.Errorf("%w: %s needs exactly one '^' and one '_': %q", ErrInvalidEnzyme, name, recogSeq)
	}

	cutIndex := strings.Index(recogSeq, "^")
	hangIndex := strings.Index(recogSeq, "_")

	if cutIndex < hangIndex {
		hangIndex--
	} else {
		cutIndex--
	}

	recogSeq = strings.Replace(recogSeq, "^", "", -1)
	recogSeq = strings.Replace(recogSeq, "_", "", -1)
	if recogSeq == "" {
		return Enzyme{}, fmt.Errorf("%w: %s has an empty recognition site", ErrInvalidEnzyme, name)
	}
	for i := 0; i < len(recogSeq); i++ {
		if _, ok := iupac[recogSeq[i]]; !ok {
			return Enzyme{}, fmt.Errorf("%w: %s has non-IUPAC base %q", ErrInvalidEnzyme, name, recogSeq[i])
		}
	}

	enz := Enzyme{
		Name:     name,
		Recog:    recogSeq,
		Cut:      cutIndex,
		HangLen:  hangIndex - cutIndex,
		Overhang: FivePrime,
	}
	if hangIndex < cutIndex {
		enz.HangLen = cutIndex - hangIndex
		enz.Overhang = ThreePrime
	}
	return enz, nil
}

// bottomCut is the index of the bottom strand cut from the start of Recog
func (e Enzyme) bottomCut() int {
	if e.Overhang == ThreePrime {
		return e.Cut - e.HangLen
	}
	return e.Cut + e.HangLen
}

// String returns the enzyme's recognition site with its cuts marked
func (e Enzyme) String() string {
	bottom := e.bottomCut()

	var sb strings.Builder
	for i := 0; i <= len(e.Recog); i++ {
		if i == e.Cut {
			sb.WriteByte('^')
		}
		if i == bottom {
			sb.WriteByte('_')
		}
		if i < len(e.Recog) {
			sb.WriteByte(e.Recog[i])
		}
	}
	return sb.String()
}

// overhangStarts returns the start index of the overhang region of every
// cut the enzyme makes in a circular sequence. Sites are searched on both strands
func (e Enzyme) overhangStarts(seq string) []int {
	n := len(seq)
	s := len(e.Recog)
	if n == 0 || s == 0 {
		return nil
	}

	// with the sequence extended, sites spanning the zero-index are found
	extended := circularSlice(seq, 0, n+s-1)
	recogRC := revComp(e.Recog)
	first := min(e.Cut, e.bottomCut())
	last := max(e.Cut, e.bottomCut())

	var starts []int
	for p := 0; p < n; p++ {
		window := extended[p : p+s]
		if matches(e.Recog, window) {
			starts = append(starts, mod(p+first, n))
		}
		if matches(recogRC, window) {
			// the enzyme reads the bottom strand, so its cuts are mirrored
			starts = append(starts, mod(p+s-last, n))
		}
	}
	return starts
}

// matches returns whether a stretch of sequence matches a recognition site
func matches(recog, seq string) bool {
	for i := 0; i < len(recog); i++ {
		if !strings.ContainsRune(iupac[recog[i]], rune(seq[i])) {
			return false
		}
	}
	return true
}

//go:embed enzymes.tsv
var enzymesTSV string

// enzymeDB is the built-in table of enzymes by name
var enzymeDB = func() map[string]Enzyme {
	db := make(map[string]Enzyme)
	for _, line := range strings.Split(enzymesTSV, "\n") {
		columns := strings.Split(strings.TrimSpace(line), "\t")
		if len(columns) != 2 {
			continue
		}

		enz, err := ParseEnzyme(columns[0], columns[1])
		if err != nil {
			panic(err)
		}
		db[columns[0]] = enz
	}
	return db
}()

// Enzymes returns every built-in enzyme sorted by name
func Enzymes() []Enzyme {
	enzymes := make([]Enzyme, 0, len(enzymeDB))
	for _, enz := range enzymeDB {
		enzymes = append(enzymes, enz)
	}
	sort.Slice(enzymes, func(i, j int) bool {
		return enzymes[i].Name < enzymes[j].Name
	})
	return enzymes
}

// EnzymeByName returns the built-in enzyme with the name passed, ignoring case
func EnzymeByName(name string) (Enzyme, error) {
	if enz, ok := enzymeDB[name]; ok {
		return enz, nil
	}
	for dbName, enz := range enzymeDB {
		if strings.EqualFold(dbName, name) {
			return enz, nil
		}
	}
	return Enzyme{}, fmt.Errorf("%w: %s", ErrUnknownEnzyme, name)
}

// EnzymesByName returns the built-in enzymes with the names passed, in order
func EnzymesByName(names ...string) ([]Enzyme, error) {
	enzymes := make([]Enzyme, 0, len(names))
	for _, name := range names {
		enz, err := EnzymeByName(name)
		if err != nil {
			return nil, err
		}
		enzymes = append(enzymes, enz)
	}
	return enzymes, nil
}

// FindEnzymes returns the enzymes with names similar to the one requested.
// An exact match is returned alone. Otherwise enzymes whose names contain the
// name are returned if there are at least three of them, and those within a
// small edit distance otherwise
func FindEnzymes(name string) []Enzyme {
	if enz, ok := enzymeDB[name]; ok {
		return []Enzyme{enz}
	}

	ldCutoff := 2
	var containing, lowDistance []Enzyme
	for _, enz := range Enzymes() {
		if strings.Contains(strings.ToLower(enz.Name), strings.ToLower(name)) {
			containing = append(containing, enz)
		} else if len(enz.Name) > ldCutoff && ld(name, enz.Name, true) <= ldCutoff {
			lowDistance = append(lowDistance, enz)
		}
	}

	if len(containing) < 3 {
		return append(lowDistance, containing...)
	}
	return containing
}

// ld computes the Levenshtein distance between two strings
func ld(s, t string, ignoreCase bool) int {
	if ignoreCase {
		s = strings.ToUpper(s)
		t = strings.ToUpper(t)
	}
	d := make([][]int, len(s)+1)
	for i := range d {
		d[i] = make([]int, len(t)+1)
	}
	for i := range d {
		d[i][0] = i
	}
	for j := range d[0] {
		d[0][j] = j
	}
	for j := 1; j <= len(t); j++ {
		for i := 1; i <= len(s); i++ {
			if s[i-1] == t[j-1] {
				d[i][j] = d[i-1][j-1]
			} else {
				d[i][j] = min(d[i-1][j], d[i][j-1], d[i-1][j-1]) + 1
			}
		}
	}
	return d[len(s)][len(t)]
}
