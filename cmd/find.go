package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Imperial-iGEM/synbio/internal/subclone"
)

// findCmd is for finding enzymes by their name.
var findCmd = &cobra.Command{
	Use:                        "find",
	Short:                      "Find enzymes",
	SuggestionsMinimumDistance: 2,
	Long: `Find enzymes by name.
If there is no exact match, similar entries are returned`,
	Aliases: []string{"ls", "list"},
}

// enzymeFindCmd is for listing out all the available enzymes usable for digesting
// records. Useful for if the user doesn't know which enzymes are available.
var enzymeFindCmd = &cobra.Command{
	Use:                        "enzyme [name]",
	Short:                      "Find enzymes available for digesting records",
	RunE:                       enzymeFindExec,
	SuggestionsMinimumDistance: 2,
	Example:                    "  synbio find enzyme BsaI",
	Long: `List out all the enzymes with the same or a similar name as the argument.
Each is written with its cut sites: '^' is the cut on the top strand and '_' the
cut on the bottom strand.

'synbio find enzyme' without any arguments logs all enzymes available.`,
	Aliases: []string{"enzymes"},
}

// enzymeFindExec writes enzymes that are similar in name to the enzyme name requested.
func enzymeFindExec(cmd *cobra.Command, args []string) error {
	// from https://golang.org/pkg/text/tabwriter/
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', tabwriter.TabIndent)

	enzymes := subclone.Enzymes()
	if len(args) > 0 {
		enzymes = subclone.FindEnzymes(args[0])
		if len(enzymes) == 0 {
			return fmt.Errorf("failed to find any enzymes for %s", args[0])
		}
	}

	for _, enz := range enzymes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", enz.Name, enz.String(), enz.Overhang)
	}
	return w.Flush()
}

// set flags
func init() {
	findCmd.AddCommand(enzymeFindCmd)

	RootCmd.AddCommand(findCmd)
}
