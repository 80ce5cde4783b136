package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ieee0824/primock-go/dataset"
	"github.com/ieee0824/primock-go/split"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Read the packaged splits back and print a sample",
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, _ []string) error {
	dir := dataDir()
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return fmt.Errorf("data directory %q is not a directory", dir)
	}

	out := cmd.OutOrStdout()
	var train []dataset.Record
	for _, name := range split.Names {
		recs, err := dataset.LoadSplit(dir, name)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		fmt.Fprintf(out, "%-5s  %6d records\n", name, len(recs))
		if name == split.Train {
			train = recs
		}
	}

	if len(train) > 2 {
		r := train[2]
		fmt.Fprintf(out, "train[2]: id=%d path=%s audio=%d bytes transcription=%q\n",
			r.ID, r.Path, len(r.Audio), r.Transcription)
	}
	return nil
}
