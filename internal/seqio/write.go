package seqio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Imperial-iGEM/synbio/internal/subclone"
)

// Solution is a single assembly in the output
type Solution struct {
	// Count is the number of fragments in this assembly
	Count int `json:"count"`

	// Plasmids that form from the fragments
	Plasmids []*subclone.Record `json:"plasmids"`

	// Fragments used to build the plasmids
	Fragments []*subclone.Fragment `json:"fragments"`
}

// Output is the result of a run, written as JSON
type Output struct {
	// RunID identifies the run in logs and output
	RunID string `json:"runId"`

	// Time, ex:
	// "2018/01/01 20:41:00"
	Time string `json:"time"`

	// Execution is the number of seconds it took to execute the command
	Execution float64 `json:"execution"`

	// Enzymes used to digest the records, in their cut notation
	Enzymes []string `json:"enzymes"`

	// Bins is the number of bins subcloned
	Bins int `json:"bins"`

	// Errors from bins that failed
	Errors []string `json:"errors,omitempty"`

	// Solutions are the assemblies, in the order they were found
	Solutions []Solution `json:"solutions"`
}

// NewOutput creates the Output of a run that started at start
func NewOutput(runID string, start time.Time, enzymes []subclone.Enzyme, bins int, assemblies []subclone.Assembly, err error) Output {
	out := Output{
		RunID:     runID,
		Time:      start.Format("2006/01/02 15:04:05"),
		Execution: time.Since(start).Seconds(),
		Bins:      bins,
		Solutions: []Solution{},
	}
	for _, enz := range enzymes {
		out.Enzymes = append(out.Enzymes, enz.Name+" "+enz.String())
	}
	if err != nil {
		out.Errors = strings.Split(err.Error(), "\n")
	}
	for _, a := range assemblies {
		out.Solutions = append(out.Solutions, Solution{
			Count:     len(a.Fragments),
			Plasmids:  a.Plasmids,
			Fragments: a.Fragments,
		})
	}
	return out
}

// WriteJSON writes the output of a run to filename
func WriteJSON(filename string, out Output) (output []byte, err error) {
	output, err = json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize output: %w", err)
	}

	if err = os.WriteFile(filename, output, 0o644); err != nil {
		return output, fmt.Errorf("failed to write the output: %w", err)
	}
	return output, nil
}

// Write writes the plasmids of each assembly to filename, as GenBank if it
// has a GenBank extension and as FASTA otherwise
func Write(filename string, assemblies []subclone.Assembly) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".gb") || strings.HasSuffix(lower, ".gbk") || strings.HasSuffix(lower, ".genbank") {
		err = WriteGenbank(f, plasmids(assemblies), time.Now())
	} else {
		err = WriteFasta(f, plasmids(assemblies))
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to write the output: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func plasmids(assemblies []subclone.Assembly) (records []*subclone.Record) {
	for _, a := range assemblies {
		records = append(records, a.Plasmids...)
	}
	return records
}

// WriteFasta writes records as multi-FASTA with 80 bases per line
func WriteFasta(w io.Writer, records []*subclone.Record) error {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(">" + r.ID)
		if r.Circular {
			sb.WriteString(" circular")
		}
		sb.WriteString("\n")
		for i := 0; i < len(r.Seq); i += 80 {
			sb.WriteString(r.Seq[i:min(i+80, len(r.Seq))] + "\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteGenbank writes records, and their features, as a multi-record GenBank file
func WriteGenbank(w io.Writer, records []*subclone.Record, date time.Time) error {
	var gb strings.Builder
	for _, r := range records {
		seq := strings.ToLower(r.Seq)
		topology := "linear"
		if r.Circular {
			topology = "circular"
		}

		// header row
		h1 := fmt.Sprintf("LOCUS       %s", r.ID)
		h2 := fmt.Sprintf("%d bp DNA      %s      %s\n", len(seq), topology, strings.ToUpper(date.Format("02-Jan-2006")))
		gb.WriteString(h1 + strings.Repeat(" ", max(1, 81-len(h1+h2))) + h2)

		// feature rows
		gb.WriteString("DEFINITION  .\nACCESSION   .\nFEATURES             Location/Qualifiers\n")
		for _, f := range r.Features {
			gb.WriteString(fmt.Sprintf("     %-15s %s\n", f.Type, location(f, len(seq))))

			keys := make([]string, 0, len(f.Qualifiers))
			for k := range f.Qualifiers {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				for _, v := range f.Qualifiers[k] {
					gb.WriteString(fmt.Sprintf("                     /%s=\"%s\"\n", k, v))
				}
			}
		}

		// origin row
		gb.WriteString("ORIGIN\n")
		for i := 0; i < len(seq); i += 60 {
			n := strconv.Itoa(i + 1)
			gb.WriteString(strings.Repeat(" ", max(0, 9-len(n))) + n)
			for s := i; s < i+60 && s < len(seq); s += 10 {
				gb.WriteString(" " + seq[s:min(s+10, len(seq))])
			}
			gb.WriteString("\n")
		}
		gb.WriteString("//\n")
	}

	_, err := io.WriteString(w, gb.String())
	return err
}

// location is the 1-based GenBank location of a feature, joined across the
// zero-index if it wraps
func location(f subclone.Feature, seqLength int) string {
	if f.End > seqLength {
		return fmt.Sprintf("join(%d..%d,1..%d)", f.Start+1, seqLength, f.End-seqLength)
	}
	return fmt.Sprintf("%d..%d", f.Start+1, f.End)
}
