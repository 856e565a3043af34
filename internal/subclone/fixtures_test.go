package subclone

import (
	"strings"
)

// overhangs of a three record Golden Gate assembly: backbone -> part0 -> part1 -> backbone
const (
	oh0 = "AACG"
	oh1 = "ACAG"
	oh2 = "ATCC"

	body0    = "ATGCATGCATGCATGCATGC"
	body1    = "GTACGTACGTACGTACGTAC"
	bbBody   = "TTGACAATTAATCATCGGCATAGTATATCGG"
	stuffer  = "TTTTTTTTTT"
	dropout  = "CCCCCCCCCC"
	bsaIFwd  = "GGTCTCA" // BsaI site and its 1bp spacer
	bsaIRev  = "AGAGACC"
	kanRName = "KanR"
)

// goldenGatePart is a part flanked by BsaI sites that cut out left+body
func goldenGatePart(id, left, body, right string) *Record {
	seq := stuffer + bsaIFwd + left + body + right + bsaIRev + stuffer
	start := len(stuffer + bsaIFwd + left)
	return &Record{
		ID:  id,
		Seq: seq,
		Features: []Feature{
			{Type: "CDS", Start: start, End: start + len(body), Qualifiers: map[string][]string{"label": {id + "-cds"}}},
		},
		Circular: true,
	}
}

// goldenGateBackbone keeps oh2+bbBody and drops out the BsaI sites
func goldenGateBackbone() *Record {
	return &Record{
		ID:  "backbone",
		Seq: oh2 + bbBody + oh0 + bsaIRev + dropout + bsaIFwd,
		Features: []Feature{
			{Type: "CDS", Start: len(oh2), End: len(oh2) + len(bbBody), Qualifiers: map[string][]string{"label": {kanRName}}},
		},
		Circular: true,
	}
}

// goldenGateBin returns a backbone and two parts that ligate into one plasmid
func goldenGateBin() []*Record {
	return []*Record{
		goldenGateBackbone(),
		goldenGatePart("part0", oh0, body0, oh1),
		goldenGatePart("part1", oh1, body1, oh2),
	}
}

// goldenGatePlasmid is the plasmid expected from goldenGateBin, starting with the backbone
func goldenGatePlasmid() string {
	return oh2 + bbBody + oh0 + body0 + oh1 + body1
}

// bsaI is the built-in BsaI enzyme
func bsaI() []Enzyme {
	enzymes, err := EnzymesByName("BsaI")
	if err != nil {
		panic(err)
	}
	return enzymes
}

// isRotation returns whether a is a rotation of b on either strand
func isRotation(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return strings.Contains(b+b, a) || strings.Contains(revComp(b+b), a)
}
