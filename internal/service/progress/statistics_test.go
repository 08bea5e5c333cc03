package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bili-app/bili-api/internal/domain"
)

// seedTracker saves one record per mastery level given, then rewrites the
// cached LastPracticed values via the store so streak tests can control
// practice dates.
func seedTracker(t *testing.T, levels []int) (Tracker, Scope) {
	t.Helper()
	tracker := NewTracker(newFakeProgressStore(), nil)
	scope := testScope()
	for i, level := range levels {
		_, err := tracker.SaveProgress(context.Background(), scope, testWord(i), level)
		require.NoError(t, err)
	}
	return tracker, scope
}

func TestStatisticsBucketsAndPercentage(t *testing.T) {
	tracker, scope := seedTracker(t, []int{5, 5, 4, 3, 1})
	now := time.Now()

	stats := tracker.Statistics(context.Background(), scope, now.Add(-24*time.Hour), now)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Perfect)
	assert.Equal(t, 1, stats.Good)
	assert.Equal(t, 1, stats.OK)
	assert.Equal(t, 0, stats.Difficult)
	assert.Equal(t, 1, stats.NeedHelp)

	// (2 perfect + 1 good) / 5 = 60%.
	assert.Equal(t, 60, stats.MasteryPercentage)
}

func TestStatisticsEmptyScope(t *testing.T) {
	tracker := NewTracker(newFakeProgressStore(), nil)
	scope := testScope()
	now := time.Now()

	stats := tracker.Statistics(context.Background(), scope, now, now)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.MasteryPercentage)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 0, stats.TotalSessions)
	assert.Equal(t, 0.0, stats.AverageSessionsPerDay)
}

func TestStatisticsPercentageRounds(t *testing.T) {
	// 1 mastered of 3 = 33.33 rounds to 33; 2 of 3 = 66.67 rounds to 67.
	tracker, scope := seedTracker(t, []int{5, 1, 1})
	now := time.Now()
	stats := tracker.Statistics(context.Background(), scope, now, now)
	assert.Equal(t, 33, stats.MasteryPercentage)

	tracker, scope = seedTracker(t, []int{5, 4, 1})
	stats = tracker.Statistics(context.Background(), scope, now, now)
	assert.Equal(t, 67, stats.MasteryPercentage)
}

func TestStatisticsTotalSessions(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(newFakeProgressStore(), nil)
	scope := testScope()

	// Word 0 practiced three times, word 1 once.
	for i := 0; i < 3; i++ {
		_, err := tracker.SaveProgress(ctx, scope, testWord(0), domain.MasteryOK)
		require.NoError(t, err)
	}
	_, err := tracker.SaveProgress(ctx, scope, testWord(1), domain.MasteryOK)
	require.NoError(t, err)

	now := time.Now()
	stats := tracker.Statistics(ctx, scope, now, now)
	assert.Equal(t, 4, stats.TotalSessions)
}

func TestStatisticsAverageSessionsPerDay(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(newFakeProgressStore(), nil)
	scope := testScope()

	for i := 0; i < 5; i++ {
		_, err := tracker.SaveProgress(ctx, scope, testWord(i), domain.MasteryOK)
		require.NoError(t, err)
	}

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	createdAt := now.AddDate(0, 0, -2)

	// 5 sessions over 2 days = 2.5.
	stats := tracker.Statistics(ctx, scope, createdAt, now)
	assert.Equal(t, 2.5, stats.AverageSessionsPerDay)

	// A profile created today still divides by at least one day.
	stats = tracker.Statistics(ctx, scope, now, now)
	assert.Equal(t, 5.0, stats.AverageSessionsPerDay)

	// A zero creation time behaves like day one.
	stats = tracker.Statistics(ctx, scope, time.Time{}, now)
	assert.Equal(t, 5.0, stats.AverageSessionsPerDay)
}

func TestCurrentStreak(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	recordAt := func(d time.Time) *domain.ProgressRecord {
		return &domain.ProgressRecord{LastPracticed: d}
	}
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	tests := []struct {
		name    string
		records []*domain.ProgressRecord
		want    int
	}{
		{
			name: "practiced today and yesterday",
			records: []*domain.ProgressRecord{
				recordAt(day(0)), recordAt(day(-1)),
			},
			want: 2,
		},
		{
			name: "most recent practice yesterday keeps streak alive",
			records: []*domain.ProgressRecord{
				recordAt(day(-1)), recordAt(day(-2)), recordAt(day(-3)),
			},
			want: 3,
		},
		{
			name: "gap two days ago breaks streak",
			records: []*domain.ProgressRecord{
				recordAt(day(0)), recordAt(day(-2)),
			},
			want: 1,
		},
		{
			name: "no recent practice",
			records: []*domain.ProgressRecord{
				recordAt(day(-2)), recordAt(day(-3)),
			},
			want: 0,
		},
		{
			name: "multiple practices one day count once",
			records: []*domain.ProgressRecord{
				recordAt(day(0)), recordAt(day(0).Add(2 * time.Hour)), recordAt(day(-1)),
			},
			want: 2,
		},
		{
			name:    "empty",
			records: nil,
			want:    0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, currentStreak(tc.records, now))
		})
	}
}
