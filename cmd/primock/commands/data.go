package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ieee0824/primock-go/pack"
	"github.com/ieee0824/primock-go/split"
)

var noParallel bool

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Split the corpus and write archives and manifests",
	Long: `Split the corpus and write <out>/data/<split>.tar.gz and <split>.csv
for train, test and eval. Any existing <out>/data is removed first.`,
	Args: cobra.NoArgs,
	RunE: runData,
}

func init() {
	dataCmd.Flags().BoolVar(&noParallel, "no-parallel", false, "package splits one after another")
}

func runData(cmd *cobra.Command, _ []string) error {
	ds, a, err := splitDataSet()
	if err != nil {
		return err
	}
	p := &pack.Packager{
		Dataset:    ds,
		OutDir:     globalConfig.Output.Dir,
		SampleRate: globalConfig.Audio.SampleRate,
		Parallel:   globalConfig.Output.Parallel && !noParallel,
		Logger:     logger(),
	}
	report, err := p.Package(cmd.Context(), a)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range split.Names {
		r := report.Splits[name]
		fmt.Fprintf(out, "%-5s  %6d intervals  %6d clips  %6d skipped\n", name, r.Intervals, r.Clips, r.Skipped)
	}
	fmt.Fprintf(out, "written to %s\n", dataDir())
	return nil
}
