package services

import (
	"math"
	"time"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
)

// Summarize 汇总 [from, to] 区间内的记录，days 覆盖区间内每一天
func Summarize(records []models.ExerciseRecord, from, to time.Time) models.ExerciseSummary {
	summary := models.ExerciseSummary{
		From:   from.Format(models.DateLayout),
		To:     to.Format(models.DateLayout),
		ByType: make(map[string]int),
		Days:   make([]models.DaySummary, 0),
	}

	perDay := make(map[string]*models.DaySummary)
	for d := dateOnly(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		summary.Days = append(summary.Days, models.DaySummary{Date: d.Format(models.DateLayout)})
	}
	for i := range summary.Days {
		perDay[summary.Days[i].Date] = &summary.Days[i]
	}

	var fatigue, difficulty int
	for _, r := range records {
		day, ok := perDay[r.Date]
		if !ok {
			continue
		}
		if day.Sessions == 0 {
			summary.ActiveDays++
		}
		day.Sessions++
		day.Minutes += r.Duration

		summary.Sessions++
		summary.TotalMinutes += r.Duration
		summary.ByType[r.Type] += r.Duration
		fatigue += r.Fatigue
		difficulty += r.Difficulty
	}

	if summary.Sessions > 0 {
		summary.AverageFatigue = round1(float64(fatigue) / float64(summary.Sessions))
		summary.AverageDifficulty = round1(float64(difficulty) / float64(summary.Sessions))
	}
	return summary
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
