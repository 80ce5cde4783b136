package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ieee0824/primock-go/corpus"
)

var indexOut string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Snapshot the parsed corpus to a msgpack index",
	Long: `Parse every transcript once and store transcripts and intervals (no audio)
in a msgpack file. Later runs can pass --index to skip TextGrid parsing.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexOut, "output", "o", "", "index file (default <out>/corpus.msgpack)")
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataSet()
	if err != nil {
		return err
	}
	path := indexOut
	if path == "" {
		path = filepath.Join(globalConfig.Output.Dir, "corpus.msgpack")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := corpus.WriteIndexFile(path, ds); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d transcripts, %d intervals to %s\n",
		len(ds.Transcripts), len(ds.Intervals()), path)
	return nil
}
