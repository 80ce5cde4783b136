// Package config loads the primock YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ieee0824/primock-go/audio"
	"github.com/ieee0824/primock-go/corpus"
	"github.com/ieee0824/primock-go/split"
)

// Config is the whole configuration file.
type Config struct {
	Corpus  Corpus  `yaml:"corpus"`
	Split   Split   `yaml:"split"`
	Audio   Audio   `yaml:"audio"`
	Output  Output  `yaml:"output"`
	Publish Publish `yaml:"publish"`
}

// Corpus locates the input corpus.
type Corpus struct {
	Root        string `yaml:"root"`
	Ext         string `yaml:"ext"`
	SkipInvalid bool   `yaml:"skip_invalid"`
}

// Split holds the partition parameters.
type Split struct {
	Seed      uint64  `yaml:"seed"`
	TestRatio float64 `yaml:"test_ratio"`
	EvalRatio float64 `yaml:"eval_ratio"`
}

// Audio holds the clip format.
type Audio struct {
	SampleRate int `yaml:"sample_rate"`
}

// Output controls where and how packaged data is written.
type Output struct {
	Dir      string `yaml:"dir"`
	Parallel bool   `yaml:"parallel"`
}

// Publish selects the store used by the publish command.
type Publish struct {
	Backend  string `yaml:"backend"` // "s3" or "local"
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Dir      string `yaml:"dir"` // local backend root
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Corpus: Corpus{Root: "./primock57", Ext: corpus.DefaultExt},
		Split: Split{
			TestRatio: split.DefaultTestRatio,
			EvalRatio: split.DefaultEvalRatio,
		},
		Audio:   Audio{SampleRate: audio.DefaultSampleRate},
		Output:  Output{Dir: ".", Parallel: true},
		Publish: Publish{Backend: "s3", Region: "us-east-1"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := c.SplitConfig().Validate(); err != nil {
		return err
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	switch c.Publish.Backend {
	case "s3", "local":
	default:
		return fmt.Errorf("publish.backend must be s3 or local, got %q", c.Publish.Backend)
	}
	if c.Corpus.Root == "" {
		return errors.New("corpus.root is empty")
	}
	return nil
}

// SplitConfig converts the split section.
func (c *Config) SplitConfig() split.Config {
	return split.Config{Seed: c.Split.Seed, TestRatio: c.Split.TestRatio, EvalRatio: c.Split.EvalRatio}
}

// CorpusOptions converts the corpus section.
func (c *Config) CorpusOptions() corpus.Options {
	return corpus.Options{Ext: c.Corpus.Ext, SampleRate: c.Audio.SampleRate, SkipInvalid: c.Corpus.SkipInvalid}
}
