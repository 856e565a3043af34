// Package seqio reads records from FASTA and GenBank files and writes the
// plasmids of assemblies back out.
package seqio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Imperial-iGEM/synbio/internal/subclone"
)

var (
	// ErrUnknownFormat is returned for files that are neither FASTA nor GenBank
	ErrUnknownFormat = errors.New("unrecognized file type")

	// ErrNoRecords is returned for files without any records
	ErrNoRecords = errors.New("no records")
)

var (
	nonBases    = regexp.MustCompile(`[^A-Za-z]`)
	locusRegex  = regexp.MustCompile(`LOCUS[ \t]+([^ \t\r\n]+)`)
	rangeRegex  = regexp.MustCompile(`(\d+)\.\.>?(\d+)`)
	pointRegex  = regexp.MustCompile(`\d+`)
	featureLine = regexp.MustCompile(`^ {5}(\S+)\s+(\S+)`)
	qualLine    = regexp.MustCompile(`^\s+/([^=\s]+)(?:=(.*))?$`)
)

// Read parses a FASTA or GenBank file (by its path on local FS) to a slice of Records.
func Read(path string) (records []*subclone.Record, err error) {
	if !filepath.IsAbs(path) {
		path, err = filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create path to input file: %w", err)
		}
	}

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file := string(dat)

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".fa"),
		strings.HasSuffix(lower, ".fasta"),
		strings.HasPrefix(file, ">"):
		return ReadFasta(path, file)
	case strings.HasSuffix(lower, ".gb"),
		strings.HasSuffix(lower, ".gbk"),
		strings.HasSuffix(lower, ".genbank"),
		strings.HasPrefix(file, "LOCUS"):
		return ReadGenbank(path, file)
	}

	return nil, fmt.Errorf("failed to parse %s: %w", path, ErrUnknownFormat)
}

// ReadAll reads the records of each file, keeping each file's records together
func ReadAll(paths []string) (files [][]*subclone.Record, err error) {
	for _, path := range paths {
		records, err := Read(path)
		if err != nil {
			return nil, err
		}
		files = append(files, records)
	}
	return files, nil
}

// ReadFasta parses the multifasta contents of a file to records. Records
// whose header mentions "circular" are circular.
func ReadFasta(path, contents string) (records []*subclone.Record, err error) {
	lines := strings.Split(contents, "\n")

	var headerIndices []int
	for i, line := range lines {
		if strings.HasPrefix(line, ">") {
			headerIndices = append(headerIndices, i)
		}
	}

	// accumulate the sequences from between the headers
	for i, headerIndex := range headerIndices {
		nextLine := len(lines)
		if i < len(headerIndices)-1 {
			nextLine = headerIndices[i+1]
		}

		header := strings.TrimSpace(lines[headerIndex][1:])
		id := header
		if fields := strings.Fields(header); len(fields) > 0 {
			id = fields[0]
		}

		seq := strings.Join(lines[headerIndex+1:nextLine], "")
		records = append(records, &subclone.Record{
			ID:       id,
			Seq:      strings.ToUpper(nonBases.ReplaceAllString(seq, "")),
			Circular: strings.Contains(strings.ToLower(header), "circular"),
		})
	}

	// opened and parsed file but found nothing
	if len(records) < 1 {
		return nil, fmt.Errorf("failed to parse records from %s: %w", path, ErrNoRecords)
	}
	return records, nil
}

// ReadGenbank parses the contents of a GenBank file to records, one per
// LOCUS, along with their features.
func ReadGenbank(path, contents string) (records []*subclone.Record, err error) {
	for _, entry := range strings.Split(contents, "\n//") {
		if strings.TrimSpace(entry) == "" {
			continue
		}

		r, err := readGenbankEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		records = append(records, r)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("failed to parse records from %s: %w", path, ErrNoRecords)
	}
	return records, nil
}

func readGenbankEntry(entry string) (*subclone.Record, error) {
	genbankSplit := strings.Split(entry, "ORIGIN")
	if len(genbankSplit) != 2 {
		return nil, errors.New("improperly formatted genbank file")
	}

	header := genbankSplit[0]
	locus := locusRegex.FindStringSubmatch(header)
	if locus == nil {
		return nil, errors.New("failed to parse locus")
	}

	locusLine, _, _ := strings.Cut(header[strings.Index(header, "LOCUS"):], "\n")
	r := &subclone.Record{
		ID:       locus[1],
		Seq:      strings.ToUpper(nonBases.ReplaceAllString(genbankSplit[1], "")),
		Circular: strings.Contains(strings.ToLower(locusLine), "circular"),
	}

	if _, features, ok := strings.Cut(header, "\nFEATURES"); ok {
		feats, err := readFeatures(features, len(r.Seq))
		if err != nil {
			return nil, err
		}
		r.Features = feats
	}
	return r, nil
}

// readFeatures parses the feature table of a GenBank entry. The first line is
// the rest of the FEATURES header
func readFeatures(table string, seqLength int) (features []subclone.Feature, err error) {
	lines := strings.Split(table, "\n")

	var (
		current  *subclone.Feature
		location string
		lastKey  string
	)
	finish := func() error {
		if current == nil {
			return nil
		}
		start, end, err := parseLocation(location, seqLength)
		if err != nil {
			return err
		}
		current.Start, current.End = start, end
		features = append(features, *current)
		current = nil
		return nil
	}

	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := featureLine.FindStringSubmatch(line); m != nil {
			if err := finish(); err != nil {
				return nil, err
			}
			current = &subclone.Feature{Type: m[1], Qualifiers: make(map[string][]string)}
			location = m[2]
			lastKey = ""
			continue
		}

		// the header section after the feature table, eg BASE COUNT
		if !strings.HasPrefix(line, " ") {
			break
		}
		if current == nil {
			continue
		}

		if m := qualLine.FindStringSubmatch(line); m != nil {
			lastKey = m[1]
			current.Qualifiers[lastKey] = append(current.Qualifiers[lastKey], strings.Trim(m[2], `"`))
			continue
		}

		// continuation of a location or of a multi-line qualifier value
		text := strings.TrimSpace(line)
		if lastKey == "" {
			location += text
			continue
		}
		values := current.Qualifiers[lastKey]
		sep := " "
		if lastKey == "translation" {
			sep = ""
		}
		values[len(values)-1] = strings.TrimSpace(values[len(values)-1] + sep + strings.Trim(text, `"`))
	}

	if err := finish(); err != nil {
		return nil, err
	}
	return features, nil
}

// parseLocation returns the 0-based, end exclusive, span of a GenBank location.
// Joins are collapsed to their outermost bounds and a join across the
// zero-index of a circular sequence ends past the sequence's length
func parseLocation(location string, seqLength int) (start, end int, err error) {
	ranges := rangeRegex.FindAllStringSubmatch(location, -1)
	if len(ranges) > 0 {
		if start, err = strconv.Atoi(ranges[0][1]); err != nil {
			return 0, 0, err
		}
		if end, err = strconv.Atoi(ranges[len(ranges)-1][2]); err != nil {
			return 0, 0, err
		}
	} else {
		point := pointRegex.FindString(location)
		if point == "" {
			return 0, 0, fmt.Errorf("failed to parse feature location %q", location)
		}
		if start, err = strconv.Atoi(point); err != nil {
			return 0, 0, err
		}
		end = start
	}

	start-- // make 0-indexed
	if end <= start {
		end += seqLength
	}
	return start, end, nil
}
