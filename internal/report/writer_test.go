package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/casewatch/internal/database"
	"github.com/nao1215/casewatch/internal/model"
)

func sampleSnapshot() model.Snapshot {
	return model.PresentSnapshot(*sampleRecord(), time.Date(2020, 3, 10, 9, 0, 0, 0, time.UTC))
}

func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("present snapshot", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewTextWriter(&buf).Write(sampleSnapshot())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		out := buf.String()
		if !strings.HasPrefix(out, BuildMessage(sampleRecord())) {
			t.Errorf("expected output to start with the message, got:\n%s", out)
		}
		if !strings.Contains(out, "saved at 2020-03-10") {
			t.Errorf("expected saved time, got:\n%s", out)
		}
	})

	t.Run("absent snapshot", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(model.AbsentSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), NoSnapshotText) {
			t.Errorf("expected %q, got %q", NoSnapshotText, buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("present snapshot", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# 코로나-19 현황",
			"확진자",
			"12,345",
			"+2",
			"```mermaid",
			"## 추가 정보",
			"- 검사중: 300 명",
			"## 데이터 출처",
			"- SBS 데이터저널리즘팀 마부작침",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("absent snapshot", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.AbsentSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), NoSnapshotText) {
			t.Errorf("expected note about missing snapshot, got:\n%s", buf.String())
		}
		if strings.Contains(buf.String(), "데이터 출처") {
			t.Error("absent snapshot should not list sources")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("snapshot round trip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(sampleSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.Snapshot
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if diff := cmp.Diff(sampleSnapshot(), got); diff != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"present\": true") {
			t.Errorf("expected indented output, got:\n%s", buf.String())
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != "[]" {
			t.Errorf("expected [], got %s", got)
		}
	})
}

func TestHistoryTable(t *testing.T) {
	t.Parallel()

	entries := []database.HistoryRecord{
		{ID: 2, SavedAt: time.Now(), Changed: true, Record: *sampleRecord()},
		{ID: 1, SavedAt: time.Now(), Record: *model.NewStatusRecord("NAVER")},
	}

	var buf bytes.Buffer
	HistoryTable(&buf, entries)

	// go-pretty upper-cases headers and footers by default.
	out := strings.ToUpper(buf.String())
	for _, want := range []string{"SAVED AT", "12,345", "YES", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, out)
		}
	}
}
