package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ieee0824/primock-go/corpus"
	"github.com/ieee0824/primock-go/split"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print corpus and split statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

// corpusStats summarizes a DataSet and its split.
type corpusStats struct {
	Transcripts int
	WithAudio   int
	Doctor      int
	Intervals   int
	Seconds     float64
	Words       int
	Splits      map[string]int
}

func collectStats(ds *corpus.DataSet, a split.Assignment[corpus.Interval]) corpusStats {
	s := corpusStats{Transcripts: len(ds.Transcripts), Splits: map[string]int{}}
	for _, t := range ds.Transcripts {
		if t.HasAudio() {
			s.WithAudio++
		}
		if t.Doctor {
			s.Doctor++
		}
		for _, iv := range t.Intervals {
			s.Intervals++
			s.Seconds += iv.End - iv.Start
			s.Words += len(strings.Fields(iv.Text))
		}
	}
	a.Each(func(name string, ivs []corpus.Interval) error {
		s.Splits[name] = len(ivs)
		return nil
	})
	return s
}

func renderStats(w io.Writer, s corpusStats) {
	rows := [][2]string{
		{"transcripts", fmt.Sprintf("%d (%d with audio, %d doctor)", s.Transcripts, s.WithAudio, s.Doctor)},
		{"intervals", fmt.Sprintf("%d", s.Intervals)},
		{"duration", fmt.Sprintf("%.1f s", s.Seconds)},
		{"words", fmt.Sprintf("%d", s.Words)},
	}
	for _, name := range split.Names {
		rows = append(rows, [2]string{name, fmt.Sprintf("%d", s.Splits[name])})
	}

	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	fmt.Fprintln(w, titleStyle.Render("Primock57 corpus"))
	for _, r := range rows {
		label := labelStyle.Render(r[0] + strings.Repeat(" ", width-lipgloss.Width(r[0])))
		fmt.Fprintf(w, "  %s  %s\n", label, r[1])
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	ds, a, err := splitDataSet()
	if err != nil {
		return err
	}
	renderStats(cmd.OutOrStdout(), collectStats(ds, a))
	return nil
}
