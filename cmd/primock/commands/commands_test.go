package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ieee0824/primock-go/internal/corpustest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetFlags)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	// An empty, non-nil slice keeps cobra from reading os.Args.
	rootCmd.SetArgs(append([]string{}, args...))
	err := rootCmd.Execute()
	return strings.Join(strings.Fields(buf.String()), " "), err
}

// resetFlags restores every flag, and the variable bound to it, to its
// default so one invocation cannot leak into the next.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	var visit func(c *cobra.Command)
	visit = func(c *cobra.Command) {
		c.PersistentFlags().VisitAll(reset)
		c.Flags().VisitAll(reset)
		for _, sub := range c.Commands() {
			visit(sub)
		}
	}
	visit(rootCmd)
	globalConfig = nil
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, stem := range []string{"day1_consultation1_doctor", "day1_consultation1_patient"} {
		var spans []corpustest.Span
		for i := 0; i < 10; i++ {
			spans = append(spans, corpustest.Span{
				Start: float64(i) * 0.1,
				End:   float64(i)*0.1 + 0.05,
				Text:  "Word number " + string(rune('a'+i)),
			})
		}
		corpustest.WriteTranscript(t, root, stem, spans...)
		corpustest.WriteAudio(t, root, stem, 1)
	}
	return root
}

func TestNoSubcommand(t *testing.T) {
	out, err := run(t)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected usage, got %q", out)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	if _, err := run(t, "bogus"); err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
}

func TestDataThenTest(t *testing.T) {
	root := writeCorpus(t)
	out := t.TempDir()

	got, err := run(t, "data", "--root", root, "--out", out)
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if !strings.Contains(got, "train 16 intervals 16 clips 0 skipped") {
		t.Errorf("data output = %q", got)
	}
	for _, f := range []string{"train.tar.gz", "train.csv", "test.tar.gz", "test.csv", "eval.tar.gz", "eval.csv"} {
		if _, err := os.Stat(filepath.Join(out, "data", f)); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}

	got, err = run(t, "test", "--out", out)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	for _, want := range []string{"train 16 records", "test 2 records", "eval 2 records", "train[2]: id=2"} {
		if !strings.Contains(got, want) {
			t.Errorf("test output missing %q:\n%s", want, got)
		}
	}
}

func TestFlagsResetBetweenRuns(t *testing.T) {
	root := writeCorpus(t)
	out := t.TempDir()
	t.Run("index", func(t *testing.T) {
		if _, err := run(t, "index", "--root", root, "--out", out, "--seed", "7"); err != nil {
			t.Fatalf("index: %v", err)
		}
	})
	if rootDir != "" || outDir != "" || seed != 0 {
		t.Errorf("globals after run: root=%q out=%q seed=%d", rootDir, outDir, seed)
	}
	if f := rootCmd.PersistentFlags().Lookup("seed"); f.Changed {
		t.Error("--seed still marked as changed")
	}
}

func TestTestWithoutData(t *testing.T) {
	if _, err := run(t, "test", "--out", t.TempDir()); err == nil {
		t.Fatal("expected error without data directory")
	}
}

func TestSentAndIndex(t *testing.T) {
	root := writeCorpus(t)
	out := t.TempDir()

	if _, err := run(t, "index", "--root", root, "--out", out); err != nil {
		t.Fatalf("index: %v", err)
	}
	idx := filepath.Join(out, "corpus.msgpack")
	if _, err := os.Stat(idx); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "sent", "--index", idx, "--out", out); err != nil {
		t.Fatalf("sent: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(out, "outputs", "test.s"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "<s> word number ") {
		t.Errorf("test.s = %q", b)
	}
}

func TestStats(t *testing.T) {
	root := writeCorpus(t)
	got, err := run(t, "stats", "--root", root)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Primock57 corpus", "2 (2 with audio, 1 doctor)", "20"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats output missing %q:\n%s", want, got)
		}
	}
}

func TestPublishLocal(t *testing.T) {
	root := writeCorpus(t)
	out := t.TempDir()
	if _, err := run(t, "data", "--root", root, "--out", out); err != nil {
		t.Fatal(err)
	}

	dest := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "primock.yaml")
	os.WriteFile(cfg, []byte("publish:\n  backend: local\n  prefix: primock57\n  dir: "+dest+"\n"), 0o644)

	got, err := run(t, "publish", "--config", cfg, "--out", out)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !strings.Contains(got, "published 6 files") {
		t.Errorf("publish output = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dest, "primock57", "data", "eval.csv")); err != nil {
		t.Error(err)
	}
}
