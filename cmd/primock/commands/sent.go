package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ieee0824/primock-go/pack"
)

var sentDir string

var sentCmd = &cobra.Command{
	Use:   "sent",
	Short: "Export split sentences for language model tooling",
	Long: `Write <dir>/<split> with "sid<TAB>text" lines and <dir>/<split>.s with
"<s> text </s>" lines. The directory defaults to <out>/outputs.`,
	Args: cobra.NoArgs,
	RunE: runSent,
}

func init() {
	sentCmd.Flags().StringVar(&sentDir, "dir", "", "output directory (default <out>/outputs)")
}

func runSent(cmd *cobra.Command, _ []string) error {
	ds, a, err := splitDataSet()
	if err != nil {
		return err
	}
	dir := sentDir
	if dir == "" {
		dir = filepath.Join(globalConfig.Output.Dir, pack.SentencesDir)
	}
	if err := pack.WriteSentences(dir, ds, a); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sentences written to %s\n", dir)
	return nil
}
