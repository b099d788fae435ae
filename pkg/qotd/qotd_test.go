package qotd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type fakeSheet struct {
	tabs   map[string][][]string
	resets int
}

func (f *fakeSheet) Rows(_ context.Context, tab string) ([][]string, error) {
	rows, ok := f.tabs[tab]
	if !ok {
		return nil, errors.New("no such tab")
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (f *fakeSheet) MarkUsed(_ context.Context, tab string, row int, stamp string) error {
	rows := f.tabs[tab]
	if row < 0 || row >= len(rows) {
		return errors.New("row out of range")
	}
	for len(rows[row]) < 2 {
		rows[row] = append(rows[row], "")
	}
	rows[row][1] = stamp
	return nil
}

func (f *fakeSheet) Reset(_ context.Context, tab string, n int) error {
	f.resets++
	rows := f.tabs[tab]
	for i := 0; i < n && i < len(rows); i++ {
		if len(rows[i]) > 1 {
			rows[i][1] = ""
		}
	}
	return nil
}

func testPicker(sheet Sheet, now time.Time) *Picker {
	p := NewPicker(sheet, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.now = func() time.Time { return now }
	return p
}

func TestTabFor(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-03-15", TabRegular},
		{"2026-09-30", TabRegular},
		{"2026-10-01", TabFall},
		{"2026-11-30", TabFall},
		{"2026-12-01", TabChristmas},
		{"2026-12-31", TabChristmas},
		{"2026-01-01", TabRegular},
	}
	for _, tc := range tests {
		day, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := TabFor(day); got != tc.want {
			t.Errorf("TabFor(%s) = %q, want %q", tc.date, got, tc.want)
		}
	}
}

func TestPickSkipsUsedQuestions(t *testing.T) {
	sheet := &fakeSheet{tabs: map[string][][]string{
		TabRegular: {
			{"First?", "Used 2026-02-01"},
			{"Second?"},
			{"Third?", "Used 2026-02-02"},
		},
	}}
	p := testPicker(sheet, time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC))

	q, tab, err := p.Pick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if q != "Second?" {
		t.Errorf("picked %q, want the only unused question", q)
	}
	if tab != TabRegular {
		t.Errorf("tab = %q, want %q", tab, TabRegular)
	}
	if got := sheet.tabs[TabRegular][1][1]; got != "Used 2026-03-01" {
		t.Errorf("marker = %q, want stamp for pick date", got)
	}
}

func TestPickResetsWhenExhausted(t *testing.T) {
	sheet := &fakeSheet{tabs: map[string][][]string{
		TabRegular: {
			{"First?", "Used 2026-01-01"},
			{"Second?", "Used 2026-01-02"},
		},
	}}
	p := testPicker(sheet, time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC))

	q, _, err := p.Pick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sheet.resets != 1 {
		t.Fatalf("resets = %d, want 1", sheet.resets)
	}
	if q != "First?" && q != "Second?" {
		t.Errorf("picked %q, want one of the reset questions", q)
	}
	marked := 0
	for _, row := range sheet.tabs[TabRegular] {
		if len(row) > 1 && row[1] != "" {
			marked++
		}
	}
	if marked != 1 {
		t.Errorf("%d rows marked after reset, want exactly the pick", marked)
	}
}

func TestPickFallsBackToRegularTab(t *testing.T) {
	sheet := &fakeSheet{tabs: map[string][][]string{
		TabRegular: {{"Fallback?"}},
	}}
	p := testPicker(sheet, time.Date(2026, 10, 15, 17, 0, 0, 0, time.UTC))

	q, tab, err := p.Pick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tab != TabRegular {
		t.Errorf("tab = %q, want fallback to %q", tab, TabRegular)
	}
	if q != "Fallback?" {
		t.Errorf("picked %q", q)
	}
}

func TestPickSeasonalTab(t *testing.T) {
	sheet := &fakeSheet{tabs: map[string][][]string{
		TabRegular:   {{"Plain?"}},
		TabChristmas: {{"Festive?"}},
	}}
	p := testPicker(sheet, time.Date(2026, 12, 10, 17, 0, 0, 0, time.UTC))

	q, tab, err := p.Pick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tab != TabChristmas || q != "Festive?" {
		t.Errorf("got (%q, %q), want the Christmas tab question", q, tab)
	}
}

func TestPickEmptySheet(t *testing.T) {
	sheet := &fakeSheet{tabs: map[string][][]string{
		TabRegular: {{""}, {"  "}},
	}}
	p := testPicker(sheet, time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC))

	if _, _, err := p.Pick(context.Background()); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestPickNilPicker(t *testing.T) {
	var p *Picker
	if _, _, err := p.Pick(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestPickTrimsWhitespace(t *testing.T) {
	sheet := &fakeSheet{tabs: map[string][][]string{
		TabRegular: {{"  Padded?  "}},
	}}
	p := testPicker(sheet, time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC))

	q, _, err := p.Pick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(q) != q || q != "Padded?" {
		t.Errorf("picked %q, want trimmed question", q)
	}
}
