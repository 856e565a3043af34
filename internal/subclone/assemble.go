package subclone

import (
	"strings"
)

// recordOrder maps each record's key to its first index in a bin
func recordOrder(records []*Record) map[string]int {
	order := make(map[string]int, len(records))
	for i, r := range records {
		if _, ok := order[r.key()]; !ok {
			order[r.key()] = i
		}
	}
	return order
}

// rotation returns the index of the fragment that should come first in a
// plasmid: the first fragment from the earliest record of the bin
func rotation(fragments []*Fragment, order map[string]int) int {
	first := 0
	for i, f := range fragments {
		if order[f.source] < order[fragments[first].source] {
			first = i
		}
	}
	return first
}

// assemble joins fragments, in cycle order, into a circular plasmid. The
// fragments are rotated to start with the earliest record of the bin and
// returned in that order along with the key of the fragment set
func assemble(fragments []*Fragment, order map[string]int) (plasmid *Record, rotated []*Fragment, key string) {
	first := rotation(fragments, order)
	rotated = make([]*Fragment, len(fragments))
	for i := range fragments {
		rotated[i] = fragments[(first+i)%len(fragments)]
	}

	var (
		seq      strings.Builder
		ids      []string
		features []Feature
	)
	for _, f := range rotated {
		offset := seq.Len()
		seq.WriteString(strings.ToUpper(f.Seq))

		if f.ID != "" {
			ids = append(ids, f.ID)
		}
		for _, feature := range f.Features {
			feature.Start += offset
			feature.End += offset
			features = append(features, feature)
		}
	}

	plasmid = &Record{
		ID:       strings.Join(ids, "+"),
		Seq:      seq.String(),
		Features: features,
		Circular: true,
	}
	return plasmid, rotated, fragmentsKey(rotated)
}

// joinSeqs concatenates the sequences of fragments
func joinSeqs(fragments []*Fragment) string {
	var sb strings.Builder
	for _, f := range fragments {
		sb.WriteString(f.Seq)
	}
	return sb.String()
}
