package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ieee0824/primock-go/corpus"
	"github.com/ieee0824/primock-go/internal/config"
	"github.com/ieee0824/primock-go/split"
)

var (
	// Global flags
	cfgFile   string
	rootDir   string
	outDir    string
	seed      uint64
	indexFile string
	verbose   bool

	globalConfig *config.Config
	runLogger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "primock",
	Short: "Primock57 ASR corpus preparation",
	Long: `primock prepares the Primock57 mock consultation corpus for speech
recognition training.

It reads Praat TextGrid transcripts from <root>/transcripts and recordings
from <root>/audio, shuffles the admitted utterances into train, test and
eval splits, and writes each split as <out>/data/<split>.tar.gz with a
<out>/data/<split>.csv manifest.

Examples:
  # Package the corpus with the default seed
  primock data --root ./primock57

  # Export LM sentences into ./outputs
  primock sent --root ./primock57

  # Read the packaged data back
  primock test`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (YAML)")
	pf.StringVar(&rootDir, "root", "", "corpus root holding transcripts/ and audio/")
	pf.StringVar(&outDir, "out", "", "output directory")
	pf.Uint64Var(&seed, "seed", 0, "shuffle seed")
	pf.StringVar(&indexFile, "index", "", "load the corpus from a msgpack index instead of scanning")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(sentCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(publishCmd)
}

func initLogging() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
	runLogger = slog.Default().With("run", uuid.New().String())
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Corpus.Root = rootDir
	}
	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("seed") {
		cfg.Split.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	globalConfig = cfg
	return nil
}

func logger() *slog.Logger {
	if runLogger == nil {
		return slog.Default()
	}
	return runLogger
}

func dataDir() string {
	return filepath.Join(globalConfig.Output.Dir, "data")
}

// loadDataSet scans the corpus, or restores it from --index.
func loadDataSet() (*corpus.DataSet, error) {
	if indexFile != "" {
		ds, err := corpus.ReadIndexFile(indexFile, globalConfig.Audio.SampleRate)
		if err != nil {
			return nil, err
		}
		logger().Info("corpus restored from index", "index", indexFile, "transcripts", len(ds.Transcripts))
		return ds, nil
	}
	opts := globalConfig.CorpusOptions()
	opts.Logger = logger()
	return corpus.Load(globalConfig.Corpus.Root, opts)
}

// splitDataSet loads the corpus and partitions its intervals.
func splitDataSet() (*corpus.DataSet, split.Assignment[corpus.Interval], error) {
	ds, err := loadDataSet()
	if err != nil {
		return nil, split.Assignment[corpus.Interval]{}, err
	}
	ivs := ds.Intervals()
	a := split.Split(ivs, globalConfig.SplitConfig())
	logger().Info("corpus split",
		"seed", globalConfig.Split.Seed,
		"n_total", len(ivs),
		"n_train", len(a.Train),
		"n_test", len(a.Test),
		"n_eval", len(a.Eval))
	return ds, a, nil
}
