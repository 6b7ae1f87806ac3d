package report

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nao1215/casewatch/internal/database"
)

// HistoryTable renders stored runs as a rounded terminal table, newest first.
func HistoryTable(output io.Writer, entries []database.HistoryRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(output)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"ID", "Saved At", "확진자", "격리해제", "사망", "Changed", "Sources"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, e := range entries {
		changed := ""
		if e.Changed {
			changed = "yes"
		}
		t.AppendRow(table.Row{
			strconv.FormatInt(e.ID, 10),
			e.SavedAt.Local().Format("2006-01-02 15:04:05"),
			FormatCount(e.Record.Infected),
			FormatCount(e.Record.Released),
			FormatCount(e.Record.Dead),
			changed,
			len(e.Record.SourceLabels()),
		})
	}

	t.AppendFooter(table.Row{"", "Total", "", "", "", "", len(entries)})
	t.Render()
}
