package report

import (
	"io"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/casewatch/internal/model"
)

// MarkdownWriter outputs snapshots in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the snapshot in Markdown format.
func (w *MarkdownWriter) Write(snapshot model.Snapshot) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("코로나-19 현황")
	md.PlainText("")

	if !snapshot.Present {
		md.Note(NoSnapshotText)
		return len(md.String()), md.Build()
	}

	record := snapshot.Record
	w.writeCounters(md, snapshot)
	w.writeChart(md, &record)
	w.writeExtras(md, &record)
	w.writeSources(md, &record)

	return len(md.String()), md.Build()
}

// writeCounters writes the canonical counters table.
func (w *MarkdownWriter) writeCounters(md *markdown.Markdown, snapshot model.Snapshot) {
	r := snapshot.Record

	md.Table(markdown.TableSet{
		Header: []string{"구분", "누적", "변동"},
		Rows: [][]string{
			{"확진자", FormatCount(r.Infected), FormatDelta(r.InfectedDelta)},
			{"격리해제", FormatCount(r.Released), FormatDelta(r.ReleasedDelta)},
			{"사망", FormatCount(r.Dead), FormatDelta(r.DeadDelta)},
		},
	})
	md.PlainText("")
	md.PlainTextf("Saved at %s", snapshot.SavedAt.Local().Format("2006-01-02 15:04:05 MST"))
	md.PlainText("")
}

// writeChart writes a mermaid pie chart of active, released and dead cases.
func (w *MarkdownWriter) writeChart(md *markdown.Markdown, r *model.StatusRecord) {
	if r.Infected == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("확진자 현황"),
		piechart.WithShowData(true),
	)

	if active := r.Infected - r.Released - r.Dead; active > 0 {
		chart.LabelAndIntValue("치료중", uint64(active))
	}
	if r.Released > 0 {
		chart.LabelAndIntValue("격리해제", uint64(r.Released))
	}
	if r.Dead > 0 {
		chart.LabelAndIntValue("사망", uint64(r.Dead))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeExtras writes source-specific figures.
func (w *MarkdownWriter) writeExtras(md *markdown.Markdown, r *model.StatusRecord) {
	if r.Extras.Len() == 0 {
		return
	}

	md.H2("추가 정보")
	md.PlainText("")

	items := make([]string, 0, r.Extras.Len())
	r.Extras.Each(func(label string, count int) {
		items = append(items, label+": "+FormatCount(count)+" 명")
	})
	md.BulletList(items...)
	md.PlainText("")
}

// writeSources writes the contributing sources.
func (w *MarkdownWriter) writeSources(md *markdown.Markdown, r *model.StatusRecord) {
	md.H2("데이터 출처")
	md.PlainText("")
	md.BulletList(r.SourceLabels()...)
}
