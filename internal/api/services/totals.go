package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rohits-web03/worklog/internal/repositories"
)

// now is swapped out by tests.
var now = time.Now

// Totals are logged hours per window.
type Totals struct {
	Day   float64 `json:"day"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Year  float64 `json:"year"`
}

// Window is an inclusive range of YYYY-MM-DD dates.
type Window struct {
	From string
	To   string
}

func dateWindow(from, to time.Time) Window {
	return Window{From: from.Format(time.DateOnly), To: to.Format(time.DateOnly)}
}

// DayWindow covers the calendar day of ref.
func DayWindow(ref time.Time) Window {
	return dateWindow(ref, ref)
}

// WeekWindow covers the ISO week (Monday to Sunday) containing t.
func WeekWindow(t time.Time) Window {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return dateWindow(monday, monday.AddDate(0, 0, 6))
}

// MonthWindow covers the calendar month containing t.
func MonthWindow(t time.Time) Window {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return dateWindow(first, first.AddDate(0, 1, -1))
}

// YearWindow covers the calendar year containing t.
func YearWindow(t time.Time) Window {
	return Window{
		From: time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location()).Format(time.DateOnly),
		To:   time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, t.Location()).Format(time.DateOnly),
	}
}

// AggregateTotals sums the user's logged hours for the day of ref and for
// the week, month and year containing the current time. Only the day
// window follows ref.
func AggregateTotals(ctx context.Context, userID uint, ref time.Time) (Totals, error) {
	current := now()
	windows := []Window{
		DayWindow(ref),
		WeekWindow(current),
		MonthWindow(current),
		YearWindow(current),
	}

	sums := make([]int64, len(windows))
	g, ctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		g.Go(func() error {
			total, err := repositories.SumDurationMinutes(ctx, userID, w.From, w.To)
			if err != nil {
				return err
			}
			sums[i] = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Totals{}, err
	}

	return Totals{
		Day:   minutesToHours(sums[0]),
		Week:  minutesToHours(sums[1]),
		Month: minutesToHours(sums[2]),
		Year:  minutesToHours(sums[3]),
	}, nil
}

// Today is the current date used as the default day reference.
func Today() time.Time {
	return now()
}

func minutesToHours(m int64) float64 {
	return float64(m) / 60
}
