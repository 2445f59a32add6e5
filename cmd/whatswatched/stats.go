package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"whatswatched/internal/watchindex"
)

const watchedDateLayout = "2006-01-02 15:04"

func renderStats(out io.Writer, doc *watchindex.Document, colorize bool) {
	stats := doc.Stats()

	heading := func(label string, count int) string {
		line := fmt.Sprintf("%s (%d)", label, count)
		if colorize {
			return text.Colors{text.Bold}.Sprint(line)
		}
		return line
	}

	fmt.Fprintln(out, heading("Watched", len(stats.Watched)))
	if len(stats.Watched) == 0 {
		fmt.Fprintln(out, "  none")
	} else {
		rows := make([][]string, 0, len(stats.Watched))
		for _, name := range stats.Watched {
			date, ago := "-", "-"
			if stamp := doc.Files[name].WatchedDate; stamp != nil {
				date = stamp.Format(watchedDateLayout)
				ago = humanize.Time(stamp.Time)
			}
			rows = append(rows, []string{name, date, ago})
		}
		fmt.Fprintln(out, episodeTable([]string{"Episode", "Watched", "When"}, rows))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, heading("Unwatched", len(stats.Unwatched)))
	if len(stats.Unwatched) == 0 {
		fmt.Fprintln(out, "  none")
	} else {
		rows := make([][]string, 0, len(stats.Unwatched))
		for _, name := range stats.Unwatched {
			rows = append(rows, []string{name})
		}
		fmt.Fprintln(out, episodeTable([]string{"Episode"}, rows))
	}
	fmt.Fprintln(out)

	summary := message.NewPrinter(language.English).Sprintf("%d/%d episodes watched (%d%% complete)",
		len(stats.Watched), stats.Total, stats.Percent)
	if colorize {
		summary = text.Colors{text.FgGreen}.Sprint(summary)
	}
	fmt.Fprintln(out, summary)

	current := "none"
	if stats.Current != nil {
		current = *stats.Current
	}
	fmt.Fprintf(out, "Current episode: %s\n", current)
}

func writeStatsJSON(out io.Writer, stats watchindex.Stats) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(stats); err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return nil
}
