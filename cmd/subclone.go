package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Imperial-iGEM/synbio/internal/design"
	"github.com/Imperial-iGEM/synbio/internal/seqio"
	"github.com/Imperial-iGEM/synbio/internal/subclone"
)

var (
	inHelp = `input FASTA or GenBank files. Globs are expanded, eg 'parts/**.gb'.
Files can also be passed as arguments.`

	binsHelp = `treat each input file as a bin of alternative records. One record is
picked from each bin for every combination of bins.`

	includeHelp = `keywords for including assemblies. An assembly is kept if it has a
fragment with a feature whose type or qualifiers contain a keyword.`
)

// subcloneCmd is for finding the plasmids that form from digesting and ligating records
var subcloneCmd = &cobra.Command{
	Use:                        "subclone [files...]",
	Short:                      "Find plasmids that form from a digestion and ligation of records",
	SuggestionsMinimumDistance: 3,
	Long: `Digest each record with restriction enzymes and find the plasmids that could
form when the fragments are ligated together.

Every fragment is an edge between the overhangs at its ends, and every cycle of
overhangs is a plasmid. Plasmids that just re-form one of the inputs are skipped.`,
	Example: "  synbio subclone --in backbone.gb,parts.fa --enzymes BsaI --include KanR",
	PreRunE: bindSubcloneFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		return subcloneExec(cmd, args, false)
	},
}

// goldenGateCmd is subclone with the Golden Gate enzymes
var goldenGateCmd = &cobra.Command{
	Use:                        "goldengate [files...]",
	Short:                      "Find plasmids that form from a Golden Gate assembly with BsaI and BpiI",
	SuggestionsMinimumDistance: 3,
	Long: `Digest each record with BsaI and BpiI and find the plasmids that could form
when the fragments are ligated together. See 'synbio subclone --help'.`,
	Example: "  synbio goldengate --bins parts/*.gb backbones.gb --include KanR --out plasmids.gb",
	Aliases: []string{"gg"},
	PreRunE: bindSubcloneFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		return subcloneExec(cmd, args, true)
	},
}

// bindSubcloneFlags binds the settings of a subclone command's flags to viper.
// Bound at run time since more than one command has the same flags
func bindSubcloneFlags(cmd *cobra.Command, _ []string) error {
	for key, flag := range map[string]string{
		"subclone.enzymes":          "enzymes",
		"subclone.include":          "include",
		"subclone.min-count":        "min-count",
		"subclone.max-cycles":       "max-cycles",
		"subclone.max-combinations": "max-combinations",
		"subclone.workers":          "workers",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// subcloneExec reads the input records, subclones them, and writes the assemblies
func subcloneExec(cmd *cobra.Command, args []string, goldenGate bool) error {
	start := time.Now()
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	l := logger.With("run", runID)

	in, _ := cmd.Flags().GetStringSlice("in")
	paths, err := seqio.Expand(append(in, args...))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files, see '%s --help'", cmd.CommandPath())
	}
	files, err := seqio.ReadAll(paths)
	if err != nil {
		return err
	}

	var enzymes []subclone.Enzyme
	if goldenGate {
		enzymes, err = subclone.EnzymesByName("BsaI", "BpiI")
	} else {
		enzymes, err = subclone.EnzymesByName(conf.Subclone.Enzymes...)
	}
	if err != nil {
		return err
	}

	bins, _ := cmd.Flags().GetBool("bins")
	d := newDesign(files, bins)
	binCount := 0
	for range d.Bins() {
		binCount++
	}

	reg := prometheus.NewRegistry()
	metrics := subclone.NewMetrics(reg)
	opts := []subclone.Option{
		subclone.WithInclude(conf.Subclone.Include...),
		subclone.WithMinCount(conf.Subclone.MinCount),
		subclone.WithMaxCycles(conf.Subclone.MaxCycles),
		subclone.WithMaxCombinations(conf.Subclone.MaxCombinations),
		subclone.WithWorkers(conf.Subclone.Workers),
		subclone.WithLogger(l),
		subclone.WithMetrics(metrics),
	}

	l.Info("subcloning", "files", len(paths), "bins", binCount, "enzymes", len(enzymes))
	assemblies, runErr := subclone.SubcloneMany(cmd.Context(), d, enzymes, opts...)
	if runErr != nil && assemblies == nil && !isBinError(runErr) {
		return runErr
	}
	l.Info("subcloned", "assemblies", len(assemblies), "seconds", time.Since(start).Seconds())

	if err := writeAssemblies(cmd, assemblies); err != nil {
		return err
	}
	if jsonPath, _ := cmd.Flags().GetString("json"); jsonPath != "" {
		out := seqio.NewOutput(runID, start, enzymes, binCount, assemblies, runErr)
		if _, err := seqio.WriteJSON(jsonPath, out); err != nil {
			return err
		}
	}
	if metricsPath, _ := cmd.Flags().GetString("metrics"); metricsPath != "" {
		if err := prometheus.WriteToTextfile(metricsPath, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	// the assemblies of the other bins are still written
	return runErr
}

// newDesign makes one bin of every record, or the combinations of each file's records
func newDesign(files [][]*subclone.Record, bins bool) subclone.Design {
	if bins {
		return &design.CombinatorialBins[*subclone.Record]{Sets: files}
	}

	var records []*subclone.Record
	for _, file := range files {
		records = append(records, file...)
	}
	return design.Combinatorial[*subclone.Record]{Records: records}
}

// isBinError returns whether err is from bins that failed, rather than the whole run
func isBinError(err error) bool {
	var binErr *subclone.BinError
	return errors.As(err, &binErr)
}

// writeAssemblies writes the plasmids to the output file, or as FASTA to stdout
func writeAssemblies(cmd *cobra.Command, assemblies []subclone.Assembly) error {
	out, _ := cmd.Flags().GetString("out")
	if out != "" {
		return seqio.Write(out, assemblies)
	}

	var plasmids []*subclone.Record
	for _, a := range assemblies {
		plasmids = append(plasmids, a.Plasmids...)
	}
	return seqio.WriteFasta(cmd.OutOrStdout(), plasmids)
}

// set flags
func init() {
	for _, c := range []*cobra.Command{subcloneCmd, goldenGateCmd} {
		c.Flags().StringSliceP("in", "i", nil, inHelp)
		c.Flags().StringP("out", "o", "", "output FASTA or GenBank file for the plasmids (stdout by default)")
		c.Flags().StringP("json", "j", "", "output JSON file with the plasmids and their fragments")
		c.Flags().BoolP("bins", "b", false, binsHelp)
		c.Flags().StringSliceP("include", "x", nil, includeHelp)
		c.Flags().IntP("min-count", "m", 0, "minimum number of fragments in an assembly")
		c.Flags().Int("max-cycles", 0, "fail a bin with more overhang cycles than this (0 is unbounded)")
		c.Flags().Int("max-combinations", 0, "fail a bin after checking more fragment combinations than this (0 is unbounded)")
		c.Flags().IntP("workers", "w", 1, "number of bins to subclone at once")
		c.Flags().String("metrics", "", "file to write Prometheus metrics of the run to")
		RootCmd.AddCommand(c)
	}

	subcloneCmd.Flags().StringSliceP("enzymes", "e", nil, "enzymes to digest the records with, eg BsaI,BpiI. 'synbio find enzyme' lists them")
}
