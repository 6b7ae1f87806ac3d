package report

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/casewatch/internal/model"
)

// Section headers of the notification text.
const (
	MessageTitle   = "[코로나-19 현황]"
	SourcesHeading = "[데이터 출처]"
)

var printer = message.NewPrinter(language.Korean)

// FormatCount formats n with grouped digits, e.g. 12,345.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatDelta formats a delta with an explicit sign; zero renders as "+0".
func FormatDelta(delta int) string {
	if delta < 0 {
		return "-" + FormatCount(-delta)
	}
	return "+" + FormatCount(delta)
}

// BuildMessage renders record into the notification text:
//
//	[코로나-19 현황]
//	- 확진자: 12,345 명 (+2)
//	- 격리해제: 5 명 (+0)
//	- 사망: 1 명 (-1)
//	- 검사중: 300 명
//
//	[데이터 출처]
//	- NAVER
//
// Extras follow their insertion order, so identical input always renders
// identical text.
func BuildMessage(record *model.StatusRecord) string {
	var sb strings.Builder

	sb.WriteString(MessageTitle)
	sb.WriteString("\n")
	writeCounter(&sb, "확진자", record.Infected, record.InfectedDelta)
	writeCounter(&sb, "격리해제", record.Released, record.ReleasedDelta)
	writeCounter(&sb, "사망", record.Dead, record.DeadDelta)

	record.Extras.Each(func(label string, count int) {
		sb.WriteString("- ")
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(FormatCount(count))
		sb.WriteString(" 명\n")
	})

	sb.WriteString("\n")
	sb.WriteString(SourcesHeading)
	for _, src := range record.SourceLabels() {
		sb.WriteString("\n- ")
		sb.WriteString(src)
	}

	return sb.String()
}

func writeCounter(sb *strings.Builder, label string, count, delta int) {
	sb.WriteString("- ")
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(FormatCount(count))
	sb.WriteString(" 명 (")
	sb.WriteString(FormatDelta(delta))
	sb.WriteString(")\n")
}
