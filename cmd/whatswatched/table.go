package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// episodeTable renders one stats section. The first column holds episode
// names; any further columns are right-aligned detail values.
func episodeTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers))
	for _, row := range rows {
		tw.AppendRow(toRow(row))
	}

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i := 2; i <= len(headers); i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
