package importer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// RenderSummary renders a per-file table of the run followed by totals. Rounded
// box drawing is used for terminals, plain ASCII otherwise.
func RenderSummary(stats *Stats, rounded bool) string {
	tw := table.NewWriter()
	if rounded {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	tw.Style().Format.Footer = text.FormatDefault

	tw.AppendHeader(table.Row{"File", "Status", "Rows", "Events", "Reason"})
	for _, f := range stats.Files {
		reason := ""
		if f.Err != nil {
			reason = f.Err.Error()
		}
		tw.AppendRow(table.Row{f.Path, f.Status, strconv.Itoa(f.Rows), strconv.Itoa(f.Events), reason})
	}
	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d imported, %d skipped, %d failed", stats.Imported, stats.Skipped, stats.Failed),
		"",
		strconv.Itoa(stats.RowsRead),
		strconv.Itoa(stats.EventsWritten),
		stats.Duration.Round(time.Millisecond).String(),
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})

	return tw.Render()
}

// WriteSummary writes the run summary to w.
func WriteSummary(w io.Writer, stats *Stats) error {
	_, err := fmt.Fprintln(w, RenderSummary(stats, isTerminal(w)))
	return err
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
