package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Imperial-iGEM/synbio/internal/seqio"
	"github.com/Imperial-iGEM/synbio/internal/subclone"
)

// digestCmd is for listing the fragments of records after a digest
var digestCmd = &cobra.Command{
	Use:                        "digest [files...]",
	Short:                      "List the fragments and overhangs of records digested with enzymes",
	SuggestionsMinimumDistance: 2,
	Long: `Digest each record with the enzymes and list the fragments of both strands.

	<Record>  <Strand>  <Left overhang>  <Right overhang>  <Length>`,
	Example: "  synbio digest --in part.gb --enzymes BsaI",
	RunE:    digestExec,
}

func digestExec(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	in, _ := cmd.Flags().GetStringSlice("in")
	paths, err := seqio.Expand(append(in, args...))
	if err != nil {
		return err
	}
	files, err := seqio.ReadAll(paths)
	if err != nil {
		return err
	}

	names, _ := cmd.Flags().GetStringSlice("enzymes")
	enzymes, err := subclone.EnzymesByName(names...)
	if err != nil {
		return err
	}

	// from https://golang.org/pkg/text/tabwriter/
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', tabwriter.TabIndent)
	cache := subclone.NewDigestCache()
	for _, records := range files {
		for _, r := range records {
			fragments := subclone.Digest(r, enzymes, cache)
			if len(fragments) == 0 {
				logger.Warn("no cut sites", "record", r.ID)
				continue
			}

			for _, f := range fragments {
				strand := "+"
				if f.Reverse {
					strand = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.ID, strand, f.Left, f.Right, len(f.Seq))
			}
		}
	}
	return w.Flush()
}

// set flags
func init() {
	digestCmd.Flags().StringSliceP("in", "i", nil, inHelp)
	digestCmd.Flags().StringSliceP("enzymes", "e", []string{"BsaI"}, "enzymes to digest the records with")

	RootCmd.AddCommand(digestCmd)
}
