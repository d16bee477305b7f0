package cmd

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/iksnae/itingen/internal"
)

// textTable is a borderless, left-aligned table for terminal listings.
type textTable struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

func newTextTable(w io.Writer, headers ...string) *textTable {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
	return &textTable{table: table, header: headers}
}

func (t *textTable) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Render writes the table. Rendering failures are logged, not returned.
func (t *textTable) Render() {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		internal.LogWarn("Failed to add table rows: %v", err)
		return
	}
	if err := t.table.Render(); err != nil {
		internal.LogWarn("Failed to render table: %v", err)
	}
}
