package quiz

import (
	"time"

	"github.com/stemsi/quiz-backend/internal/model"
)

// DefaultDateLayout renders dates the way an en-US locale does (month/day/year).
const DefaultDateLayout = "1/2/2006"

// StatsOptions controls how completion dates are bucketed.
type StatsOptions struct {
	Location   *time.Location
	DateLayout string
}

// DayCount is the number of completions on one calendar date.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Statistics summarises the completions of one quiz.
type Statistics struct {
	Completions       int        `json:"completions"`
	AvgTimeSeconds    float64    `json:"avgTimeSeconds"`
	CompletionsPerDay []DayCount `json:"completionsPerDay"`
	AvgCorrectRatio   float64    `json:"avgCorrectRatio"`
}

// Aggregate computes statistics for completions of q. Dates are listed in the
// order they are first met. The correct ratio is the mean of each
// completion's own ratio, graded against the current quiz.
func Aggregate(q *model.Quiz, completions []model.Completion, opts StatsOptions) Statistics {
	stats := Statistics{
		Completions:       len(completions),
		CompletionsPerDay: []DayCount{},
	}
	if len(completions) == 0 {
		return stats
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}

	var totalTime int
	var ratioSum float64
	dayIndex := make(map[string]int)

	for i := range completions {
		c := &completions[i]
		totalTime += c.TimeTaken

		day := c.CompletedAt.In(loc).Format(layout)
		if idx, ok := dayIndex[day]; ok {
			stats.CompletionsPerDay[idx].Count++
		} else {
			dayIndex[day] = len(stats.CompletionsPerDay)
			stats.CompletionsPerDay = append(stats.CompletionsPerDay, DayCount{Date: day, Count: 1})
		}

		ratioSum += GradeCompletion(q, c).Ratio()
	}

	n := float64(len(completions))
	stats.AvgTimeSeconds = float64(totalTime) / n
	stats.AvgCorrectRatio = ratioSum / n
	return stats
}
