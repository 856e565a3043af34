package subclone

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Feature is an annotated region of a Record
type Feature struct {
	// Type of the feature, eg "CDS" or "promoter"
	Type string `json:"type"`

	// Start of the feature, 0-based and inclusive
	Start int `json:"start"`

	// End of the feature, 0-based and exclusive. Past the end of a circular
	// sequence if the feature spans its zero-index
	End int `json:"end"`

	// Qualifiers, eg {"label": ["KanR"]}
	Qualifiers map[string][]string `json:"qualifiers,omitempty"`
}

// Record is a single sequence of DNA along with its annotations.
//
// Records must not be mutated after they've been digested once: the digestion
// cache assumes that a Record's ID (or sequence, if it has no ID) identifies
// its contents for the lifetime of the cache.
type Record struct {
	// ID is the record's identifier. Empty if unknown
	ID string `json:"id"`

	// Seq is the record's sequence
	Seq string `json:"seq"`

	// Features annotated on the record
	Features []Feature `json:"features,omitempty"`

	// Circular is true if the record is a circular sequence, eg a plasmid
	Circular bool `json:"circular"`
}

// key returns the record's ID if it has one, and a hash of its sequence otherwise
func (r *Record) key() string {
	if r.ID != "" {
		return r.ID
	}
	return "seq:" + seqHash(r.Seq)
}

// Fragment is a linear piece of a Record between two adjacent cut sites,
// with the overhangs exposed at either end.
type Fragment struct {
	// ID of the Record the fragment was cut from. Empty if unknown
	ID string `json:"id"`

	// Seq of the fragment. With a 5' overhang enzyme it starts with its left
	// overhang, and with a 3' overhang enzyme it ends with its right overhang
	Seq string `json:"seq"`

	// Left overhang, eg "^GGAG" (5' overhang) or "GGAG^" (3' overhang)
	Left string `json:"left"`

	// Right overhang
	Right string `json:"right"`

	// Reverse is true if the fragment is from the reverse complement strand of its Record
	Reverse bool `json:"reverse"`

	// Features of the source Record contained in the fragment, in fragment coordinates
	Features []Feature `json:"features,omitempty"`

	// source is the cache key of the Record the fragment was cut from
	source string
}

// ContentID is an identifier for the fragment based on its source and sequence
func (f *Fragment) ContentID() string {
	return f.source + "/" + seqHash(f.Seq)
}

// hasFeature returns whether any of the fragment's features have a type
// or qualifier value containing one of the keywords. Case-insensitive.
func (f *Fragment) hasFeature(keywords []string) bool {
	for _, feature := range f.Features {
		values := []string{feature.Type}
		for _, qualifier := range feature.Qualifiers {
			values = append(values, qualifier...)
		}

		for _, v := range values {
			v = strings.ToLower(v)
			for _, keyword := range keywords {
				if strings.Contains(v, strings.ToLower(keyword)) {
					return true
				}
			}
		}
	}
	return false
}

// fragmentsKey is an order-independent identifier for a set of fragments
func fragmentsKey(fragments []*Fragment) string {
	ids := make([]string, len(fragments))
	for i, f := range fragments {
		ids[i] = f.ContentID()
	}
	sort.Strings(ids)
	return strings.Join(ids, "")
}

// seqHash is a short content hash of a sequence
func seqHash(seq string) string {
	return strconv.FormatUint(xxhash.Sum64String(strings.ToUpper(seq)), 16)
}

// featuresIn returns the features of a circular sequence of length n that
// fall entirely within [start, start+length), shifted into the coordinates
// of that window. Features of the reverse strand are mirrored.
func featuresIn(features []Feature, n, start, length int, reverse bool) []Feature {
	var contained []Feature
	for _, f := range features {
		if f.End <= f.Start {
			continue
		}

		for _, shift := range []int{0, n} {
			s := f.Start + shift - start
			e := f.End + shift - start
			if s < 0 || e > length {
				continue
			}

			if reverse {
				s, e = length-e, length-s
			}
			contained = append(contained, Feature{
				Type:       f.Type,
				Start:      s,
				End:        e,
				Qualifiers: f.Qualifiers,
			})
			break
		}
	}
	return contained
}
