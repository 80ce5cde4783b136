// Package split partitions a corpus into train, test and eval sets with a
// seeded shuffle that matches Python's random.shuffle for the same seed.
package split

import (
	"errors"
	"fmt"
)

// Split names in processing order.
const (
	Train = "train"
	Test  = "test"
	Eval  = "eval"
)

// Names lists the splits in the order they are produced and processed.
var Names = []string{Train, Test, Eval}

// Default ratios.
const (
	DefaultTestRatio = 0.1
	DefaultEvalRatio = 0.1
)

// Config controls Split.
type Config struct {
	Seed      uint64
	TestRatio float64
	EvalRatio float64
}

// DefaultConfig returns seed 0 with 10% test and 10% eval.
func DefaultConfig() Config {
	return Config{TestRatio: DefaultTestRatio, EvalRatio: DefaultEvalRatio}
}

// Validate checks that both ratios lie in [0, 1) and leave room for train.
func (c Config) Validate() error {
	if c.TestRatio < 0 || c.TestRatio >= 1 {
		return fmt.Errorf("split: test ratio %v out of range [0, 1)", c.TestRatio)
	}
	if c.EvalRatio < 0 || c.EvalRatio >= 1 {
		return fmt.Errorf("split: eval ratio %v out of range [0, 1)", c.EvalRatio)
	}
	if c.TestRatio+c.EvalRatio >= 1 {
		return errors.New("split: test and eval ratios leave no training data")
	}
	return nil
}

// Sizes returns the split sizes for n items: test and eval get
// floor(n*ratio), train gets the rest.
func (c Config) Sizes(n int) (train, test, eval int) {
	test = int(float64(n) * c.TestRatio)
	eval = int(float64(n) * c.EvalRatio)
	train = n - test - eval
	return
}

// Assignment holds the three splits. Together they are a permutation of the
// input.
type Assignment[T any] struct {
	Train []T
	Test  []T
	Eval  []T
}

// Get returns the split with the given name, or nil.
func (a Assignment[T]) Get(name string) []T {
	switch name {
	case Train:
		return a.Train
	case Test:
		return a.Test
	case Eval:
		return a.Eval
	}
	return nil
}

// Each calls fn for train, test and eval in that order and stops at the
// first error.
func (a Assignment[T]) Each(fn func(name string, items []T) error) error {
	for _, name := range Names {
		if err := fn(name, a.Get(name)); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the total number of items.
func (a Assignment[T]) Len() int {
	return len(a.Train) + len(a.Test) + len(a.Eval)
}

// Split shuffles a copy of items with cfg.Seed and cuts it into train, test
// and eval. items is not modified.
func Split[T any](items []T, cfg Config) Assignment[T] {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	NewMT(cfg.Seed).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTrain, nTest, _ := cfg.Sizes(len(shuffled))
	return Assignment[T]{
		Train: shuffled[:nTrain:nTrain],
		Test:  shuffled[nTrain : nTrain+nTest : nTrain+nTest],
		Eval:  shuffled[nTrain+nTest:],
	}
}
