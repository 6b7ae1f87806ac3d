package provider

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/casewatch/internal/model"
)

func mustDocument(t *testing.T, body string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

const naverFixture = `<html><body>
<div class="graph_view">
  <p class="txt"><span class="txt_sort">확진환자</span><strong class="num">7,513</strong></p>
  <p class="txt"><span class="txt_sort">격리해제</span><strong class="num">247 명</strong></p>
  <p class="txt"><span class="txt_sort">사망자</span><strong class="num">54</strong></p>
  <p class="txt"><span class="txt_sort">검사진행</span><strong class="num">18,000</strong></p>
</div>
</body></html>`

const mohwFixture = `<html><body>
<div class="liveNumOuter">
  <div class="liveNum_today_new">
    <ul>
      <li><span class="subtit">일일 확진</span><span class="data">+74</span></li>
      <li><span class="subtit">해외유입</span><span class="data">12</span></li>
    </ul>
  </div>
  <ul class="liveNum">
    <li><strong class="tit">확진환자</strong><span class="num">(누적)7,513</span></li>
    <li><strong class="tit">완치자</strong><span class="num">247</span></li>
    <li><strong class="tit">사망자</strong><span class="num">54</span></li>
  </ul>
</div>
</body></html>`

const sbsFixture = `<html><body>
<div class="currentbox">
  <p>확진자</p>
  <p>7,513 명</p>
</div>
<div class="currentbox">
  <p>격리 해제</p>
  <p>247</p>
</div>
<div class="currentbox">
  <p>사망자</p>
  <p>54</p>
</div>
</body></html>`

func TestParseCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    int
		wantErr bool
	}{
		{name: "plain", text: "42", want: 42},
		{name: "grouped", text: "12,345", want: 12345},
		{name: "with unit", text: "7,513 명", want: 7513},
		{name: "with sign and prefix", text: "(누적)+74", want: 74},
		{name: "zero", text: "0", want: 0},
		{name: "no digits", text: "집계중", wantErr: true},
		{name: "empty", text: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseCount(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCount) {
					t.Errorf("expected ErrInvalidCount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseCount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTextLines(t *testing.T) {
	t.Parallel()

	got := textLines("\n  확진자 \n\n  7,513 명\r\n")
	want := []string{"확진자", "7,513명"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("textLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNaver(t *testing.T) {
	t.Parallel()

	t.Run("reads figures", func(t *testing.T) {
		t.Parallel()

		got, err := ParseNaver(mustDocument(t, naverFixture))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &model.StatusRecord{
			Source:   NaverSourceLabel,
			Infected: 7513,
			Released: 247,
			Dead:     54,
			Extras:   model.NewExtras(model.ExtraEntry{Label: "검사진행", Count: 18000}),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ParseNaver() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing container", func(t *testing.T) {
		t.Parallel()

		_, err := ParseNaver(mustDocument(t, `<html><body><div class="other"></div></body></html>`))
		if !errors.Is(err, ErrElementNotFound) {
			t.Errorf("expected ErrElementNotFound, got %v", err)
		}
	})

	t.Run("empty container", func(t *testing.T) {
		t.Parallel()

		_, err := ParseNaver(mustDocument(t, `<div class="graph_view"></div>`))
		if !errors.Is(err, ErrNoFigures) {
			t.Errorf("expected ErrNoFigures, got %v", err)
		}
	})

	t.Run("missing count", func(t *testing.T) {
		t.Parallel()

		body := `<div class="graph_view"><p class="txt"><span class="txt_sort">확진환자</span></p></div>`
		_, err := ParseNaver(mustDocument(t, body))
		if !errors.Is(err, ErrElementNotFound) {
			t.Errorf("expected ErrElementNotFound, got %v", err)
		}
	})

	t.Run("malformed count", func(t *testing.T) {
		t.Parallel()

		body := `<div class="graph_view"><p class="txt"><span class="txt_sort">확진환자</span><strong class="num">-</strong></p></div>`
		_, err := ParseNaver(mustDocument(t, body))
		if !errors.Is(err, ErrInvalidCount) {
			t.Errorf("expected ErrInvalidCount, got %v", err)
		}
	})
}

func TestParseMOHW(t *testing.T) {
	t.Parallel()

	t.Run("reads today and cumulative figures", func(t *testing.T) {
		t.Parallel()

		got, err := ParseMOHW(mustDocument(t, mohwFixture))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &model.StatusRecord{
			Source:   MOHWSourceLabel,
			Infected: 7513,
			Released: 247,
			Dead:     54,
			Extras: model.NewExtras(
				model.ExtraEntry{Label: "일일 확진", Count: 74},
				model.ExtraEntry{Label: "해외유입", Count: 12},
			),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ParseMOHW() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing outer container", func(t *testing.T) {
		t.Parallel()

		_, err := ParseMOHW(mustDocument(t, `<div class="liveNum_today_new"></div>`))
		if !errors.Is(err, ErrElementNotFound) {
			t.Errorf("expected ErrElementNotFound, got %v", err)
		}
	})

	t.Run("missing today block", func(t *testing.T) {
		t.Parallel()

		_, err := ParseMOHW(mustDocument(t, `<div class="liveNumOuter"><ul class="liveNum"></ul></div>`))
		if !errors.Is(err, ErrElementNotFound) {
			t.Errorf("expected ErrElementNotFound, got %v", err)
		}
	})

	t.Run("no figures", func(t *testing.T) {
		t.Parallel()

		body := `<div class="liveNumOuter"><div class="liveNum_today_new"></div><ul class="liveNum"></ul></div>`
		_, err := ParseMOHW(mustDocument(t, body))
		if !errors.Is(err, ErrNoFigures) {
			t.Errorf("expected ErrNoFigures, got %v", err)
		}
	})
}

func TestParseSBS(t *testing.T) {
	t.Parallel()

	t.Run("reads boxes", func(t *testing.T) {
		t.Parallel()

		got, err := ParseSBS(mustDocument(t, sbsFixture))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &model.StatusRecord{
			Source:   SBSSourceLabel,
			Infected: 7513,
			Released: 247,
			Dead:     54,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ParseSBS() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("box with extra lines", func(t *testing.T) {
		t.Parallel()

		body := "<div class=\"currentbox\"><p>확진자</p>\n<p>1</p>\n<p>기준</p></div>"
		_, err := ParseSBS(mustDocument(t, body))
		if !errors.Is(err, ErrUnexpectedLayout) {
			t.Errorf("expected ErrUnexpectedLayout, got %v", err)
		}
	})

	t.Run("no boxes", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSBS(mustDocument(t, `<html><body></body></html>`))
		if !errors.Is(err, ErrElementNotFound) {
			t.Errorf("expected ErrElementNotFound, got %v", err)
		}
	})
}
