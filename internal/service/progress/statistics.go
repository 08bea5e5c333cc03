package progress

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bili-app/bili-api/internal/domain"
)

// Statistics is the aggregate view of a scope's progress, computed on
// demand from the cache.
type Statistics struct {
	Total     int `json:"total"`
	Perfect   int `json:"perfect"`
	Good      int `json:"good"`
	OK        int `json:"ok"`
	Difficult int `json:"difficult"`
	NeedHelp  int `json:"need_help"`

	// MasteryPercentage counts the "perfect" and "good" buckets as
	// mastered: round(100 * (perfect+good) / total), 0 when empty.
	MasteryPercentage int `json:"mastery_percentage"`

	// CurrentStreak is the number of consecutive calendar days with at
	// least one practiced record, walking backward from the most recent
	// practice date. The most recent practice must be today or yesterday
	// for the streak to count at all.
	CurrentStreak int `json:"current_streak"`

	// TotalSessions is the sum of times_practiced across the cache.
	TotalSessions int `json:"total_sessions"`

	// AverageSessionsPerDay is TotalSessions divided by the days since the
	// profile was created (at least 1), rounded to one decimal.
	AverageSessionsPerDay float64 `json:"average_sessions_per_day"`
}

// Statistics implements Tracker.Statistics.
func (t *trackerImpl) Statistics(
	ctx context.Context,
	scope Scope,
	profileCreatedAt time.Time,
	now time.Time,
) Statistics {
	records := t.Records(ctx, scope)

	stats := Statistics{Total: len(records)}
	for _, record := range records {
		switch record.MasteryLevel {
		case domain.MasteryPerfect:
			stats.Perfect++
		case domain.MasteryGood:
			stats.Good++
		case domain.MasteryOK:
			stats.OK++
		case domain.MasteryDifficult:
			stats.Difficult++
		case domain.MasteryNeedHelp:
			stats.NeedHelp++
		}
		stats.TotalSessions += record.TimesPracticed
	}

	if stats.Total > 0 {
		mastered := stats.Perfect + stats.Good
		stats.MasteryPercentage = int(math.Round(100 * float64(mastered) / float64(stats.Total)))
	}

	stats.CurrentStreak = currentStreak(records, now)

	days := daysSince(profileCreatedAt, now)
	if days < 1 {
		days = 1
	}
	avg := float64(stats.TotalSessions) / float64(days)
	stats.AverageSessionsPerDay = math.Round(avg*10) / 10

	return stats
}

// currentStreak counts consecutive practice days ending today or
// yesterday. Dates are taken at day granularity in now's location; a gap
// of more than one day between consecutive practice dates breaks the
// streak.
func currentStreak(records []*domain.ProgressRecord, now time.Time) int {
	if len(records) == 0 {
		return 0
	}

	loc := now.Location()
	seen := make(map[time.Time]bool, len(records))
	var days []time.Time
	for _, record := range records {
		day := dayOf(record.LastPracticed.In(loc))
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := dayOf(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			streak++
			continue
		}
		break
	}
	return streak
}

// dayOf truncates a time to midnight in its own location.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysSince counts whole calendar days from a creation time to now.
func daysSince(createdAt, now time.Time) int {
	if createdAt.IsZero() {
		return 1
	}
	return int(dayOf(now).Sub(dayOf(createdAt.In(now.Location()))).Hours() / 24)
}
