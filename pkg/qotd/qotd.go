// Package qotd picks the daily question from a spreadsheet. Column A holds
// the question text, column B a used marker; a question is eligible while
// its marker cell is empty, and the markers are wiped once every question
// has been asked.
package qotd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("qotd is not configured")
	ErrNoQuestions   = errors.New("sheet has no questions")
)

// Worksheet tab names, one per season.
const (
	TabRegular   = "Regular"
	TabFall      = "Fall Season"
	TabChristmas = "Christmas"
)

// TabFor returns the worksheet tab for the given day: Fall Season for
// October and November, Christmas for December, Regular otherwise.
func TabFor(t time.Time) string {
	switch t.UTC().Month() {
	case time.October, time.November:
		return TabFall
	case time.December:
		return TabChristmas
	default:
		return TabRegular
	}
}

// ColorFor returns the embed accent color for a tab.
func ColorFor(tab string) int {
	switch tab {
	case TabFall:
		return 0xe67e22
	case TabChristmas:
		return 0x00ff00
	default:
		return 0x9b59b6
	}
}

// Sheet is the spreadsheet access the picker needs. Row indexes are
// zero-based over the data rows (the header row is never included).
type Sheet interface {
	// Rows returns the data rows of a tab. row[0] is the question,
	// row[1] (if present) the used marker.
	Rows(ctx context.Context, tab string) ([][]string, error)
	// MarkUsed writes the used marker for one data row.
	MarkUsed(ctx context.Context, tab string, row int, stamp string) error
	// Reset clears the used markers of the first n data rows.
	Reset(ctx context.Context, tab string, n int) error
}

// Picker selects unused questions. A nil Picker is a disabled feature:
// Pick returns ErrNotConfigured.
type Picker struct {
	sheet Sheet
	log   *slog.Logger
	now   func() time.Time
}

func NewPicker(sheet Sheet, log *slog.Logger) *Picker {
	if sheet == nil {
		return nil
	}
	return &Picker{sheet: sheet, log: log, now: time.Now}
}

// Pick returns one unused question from the tab for today, marking it
// used. When every question has been asked, the markers are reset and the
// whole tab becomes eligible again. A tab that cannot be read falls back
// to the Regular tab, matching how the sheet is usually maintained (the
// seasonal tabs come and go).
func (p *Picker) Pick(ctx context.Context) (question, tab string, err error) {
	if p == nil {
		return "", "", ErrNotConfigured
	}

	tab = TabFor(p.now())
	rows, err := p.sheet.Rows(ctx, tab)
	if err != nil && tab != TabRegular {
		p.log.Info("QOTD tab unavailable, falling back", "tab", tab, "error", err)
		tab = TabRegular
		rows, err = p.sheet.Rows(ctx, tab)
	}
	if err != nil {
		return "", "", fmt.Errorf("reading qotd sheet: %w", err)
	}

	candidates := unusedRows(rows)
	if len(candidates) == 0 {
		questions := questionRows(rows)
		if len(questions) == 0 {
			return "", "", ErrNoQuestions
		}
		p.log.Info("All questions used, resetting markers", "tab", tab, "count", len(questions))
		if err := p.sheet.Reset(ctx, tab, len(rows)); err != nil {
			return "", "", fmt.Errorf("resetting used markers: %w", err)
		}
		candidates = questions
	}

	row := candidates[rand.IntN(len(candidates))]
	stamp := "Used " + p.now().UTC().Format("2006-01-02")
	if err := p.sheet.MarkUsed(ctx, tab, row, stamp); err != nil {
		return "", "", fmt.Errorf("marking question used: %w", err)
	}
	return strings.TrimSpace(rows[row][0]), tab, nil
}

// unusedRows returns the indexes of rows with a question and no marker.
func unusedRows(rows [][]string) []int {
	var out []int
	for i, row := range rows {
		if questionOf(row) == "" {
			continue
		}
		if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			out = append(out, i)
		}
	}
	return out
}

// questionRows returns the indexes of all rows carrying a question.
func questionRows(rows [][]string) []int {
	var out []int
	for i, row := range rows {
		if questionOf(row) != "" {
			out = append(out, i)
		}
	}
	return out
}

func questionOf(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return strings.TrimSpace(row[0])
}
