package engine

import (
	"testing"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateRange(start time.Time, days int) []time.Time {
	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

func shiftTypePtr(t domain.ShiftType) *domain.ShiftType {
	return &t
}

func TestExpandFixedDays(t *testing.T) {
	pattern := &domain.RotationPattern{
		Kind: domain.PatternFixedDays,
		FixedDays: &domain.FixedDaysPattern{
			WorkDays:  4,
			OffDays:   4,
			ShiftType: domain.ShiftTypeNormal,
		},
	}
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	t.Run("four on four off cycles", func(t *testing.T) {
		entries := Expand(pattern, 1, 1, dateRange(monday, 9), ExpandOptions{})
		require.Len(t, entries, 9)

		for i := 0; i < 4; i++ {
			require.NotNil(t, entries[i].ShiftType, "第 %d 天应该是工作日", i+1)
			assert.Equal(t, domain.ShiftTypeNormal, *entries[i].ShiftType)
			assert.Equal(t, domain.ActivityWork, entries[i].ActivityType)
		}
		for i := 4; i < 8; i++ {
			assert.Nil(t, entries[i].ShiftType, "第 %d 天应该是休息日", i+1)
			assert.Equal(t, domain.AvailabilityUnavailable, entries[i].Availability)
		}
		// 第 9 天回到周期开头
		require.NotNil(t, entries[8].ShiftType)
	})

	t.Run("counter advances on skipped days", func(t *testing.T) {
		// 周一开始 4/4，周末跳过：周六日是周期里第 6、7 天，本来就是休息
		entries := Expand(pattern, 1, 1, dateRange(monday, 14), ExpandOptions{SkipWeekends: true})
		require.Len(t, entries, 14)

		// 第二周的周二是周期里第 9 天，计数器在周末照常前进后回到工作段
		assert.Nil(t, entries[5].ShiftType)    // 周六
		assert.Nil(t, entries[6].ShiftType)    // 周日
		assert.NotNil(t, entries[8].ShiftType) // 第 9 天
	})

	t.Run("holiday skip emits an off entry but keeps the position", func(t *testing.T) {
		holiday := monday.AddDate(0, 0, 1)
		entries := Expand(pattern, 1, 1, dateRange(monday, 4), ExpandOptions{
			SkipHolidays: true,
			HolidaySet:   map[string]bool{DateKey(holiday): true},
		})

		assert.NotNil(t, entries[0].ShiftType)
		assert.Nil(t, entries[1].ShiftType) // 假期被跳过
		assert.NotNil(t, entries[2].ShiftType)
		assert.NotNil(t, entries[3].ShiftType)
	})
}

func TestExpandRepeatingSequence(t *testing.T) {
	pattern := &domain.RotationPattern{
		Kind: domain.PatternRepeatingSequence,
		Sequence: &domain.RepeatingSequencePattern{
			Steps: []domain.SequenceStep{
				{ShiftType: shiftTypePtr(domain.ShiftTypeEarly), Days: 2},
				{ShiftType: shiftTypePtr(domain.ShiftTypeLate), Days: 2},
				{ShiftType: nil, Days: 1},
			},
		},
	}
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	entries := Expand(pattern, 1, 1, dateRange(start, 7), ExpandOptions{})
	require.Len(t, entries, 7)

	expected := []*domain.ShiftType{
		shiftTypePtr(domain.ShiftTypeEarly),
		shiftTypePtr(domain.ShiftTypeEarly),
		shiftTypePtr(domain.ShiftTypeLate),
		shiftTypePtr(domain.ShiftTypeLate),
		nil,
		shiftTypePtr(domain.ShiftTypeEarly), // 序列从头循环
		shiftTypePtr(domain.ShiftTypeEarly),
	}
	for i, want := range expected {
		if want == nil {
			assert.Nil(t, entries[i].ShiftType, "第 %d 天", i+1)
		} else {
			require.NotNil(t, entries[i].ShiftType, "第 %d 天", i+1)
			assert.Equal(t, *want, *entries[i].ShiftType, "第 %d 天", i+1)
		}
	}
}

func TestExpandRepeatingSequenceZeroDaySteps(t *testing.T) {
	pattern := &domain.RotationPattern{
		Kind: domain.PatternRepeatingSequence,
		Sequence: &domain.RepeatingSequencePattern{
			Steps: []domain.SequenceStep{
				{ShiftType: shiftTypePtr(domain.ShiftTypeEarly), Days: 0},
				{ShiftType: shiftTypePtr(domain.ShiftTypeLate), Days: 1},
			},
		},
	}
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	entries := Expand(pattern, 1, 1, dateRange(start, 3), ExpandOptions{})
	require.Len(t, entries, 3)
	for i := range entries {
		require.NotNil(t, entries[i].ShiftType)
		assert.Equal(t, domain.ShiftTypeLate, *entries[i].ShiftType)
	}
}

func TestExpandWeeklyPattern(t *testing.T) {
	pattern := &domain.RotationPattern{
		Kind: domain.PatternWeeklyPattern,
		Weekly: &domain.WeeklyPattern{
			Days: map[string]*domain.ShiftType{
				"monday":    shiftTypePtr(domain.ShiftTypeEarly),
				"wednesday": shiftTypePtr(domain.ShiftTypeLate),
				"friday":    nil, // 显式休息
			},
		},
	}
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	entries := Expand(pattern, 1, 1, dateRange(monday, 7), ExpandOptions{})
	require.Len(t, entries, 7)

	require.NotNil(t, entries[0].ShiftType)
	assert.Equal(t, domain.ShiftTypeEarly, *entries[0].ShiftType)
	assert.Nil(t, entries[1].ShiftType) // 未配置的周二
	require.NotNil(t, entries[2].ShiftType)
	assert.Equal(t, domain.ShiftTypeLate, *entries[2].ShiftType)
	assert.Nil(t, entries[4].ShiftType) // 显式休息的周五
	assert.Nil(t, entries[5].ShiftType)
	assert.Nil(t, entries[6].ShiftType)
}

func TestExpandCustomPattern(t *testing.T) {
	pattern := &domain.RotationPattern{
		Kind: domain.PatternCustom,
		Custom: &domain.CustomPattern{
			CycleLengthDays: 3,
			Days: []domain.CustomPatternDay{
				{DayIndex: 0, ShiftType: shiftTypePtr(domain.ShiftTypeNormal)},
				{DayIndex: 2, ShiftType: shiftTypePtr(domain.ShiftTypeLate)},
			},
		},
	}
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	entries := Expand(pattern, 1, 1, dateRange(start, 6), ExpandOptions{})
	require.Len(t, entries, 6)

	require.NotNil(t, entries[0].ShiftType)
	assert.Equal(t, domain.ShiftTypeNormal, *entries[0].ShiftType)
	assert.Nil(t, entries[1].ShiftType) // 未配置的偏移
	require.NotNil(t, entries[2].ShiftType)
	assert.Equal(t, domain.ShiftTypeLate, *entries[2].ShiftType)
	// 第二个周期重复第一个
	require.NotNil(t, entries[3].ShiftType)
	assert.Equal(t, domain.ShiftTypeNormal, *entries[3].ShiftType)
}

func TestExpandPreservesDateOrderAndIdentity(t *testing.T) {
	pattern := &domain.RotationPattern{
		Kind:      domain.PatternFixedDays,
		FixedDays: &domain.FixedDaysPattern{WorkDays: 1, OffDays: 1, ShiftType: domain.ShiftTypeNormal},
	}
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	dates := dateRange(start, 5)

	entries := Expand(pattern, 42, 7, dates, ExpandOptions{})
	require.Len(t, entries, len(dates))
	for i, entry := range entries {
		assert.True(t, entry.Date.Equal(dates[i]))
		assert.Equal(t, int64(42), entry.WorkerID)
		assert.Equal(t, int64(7), entry.TeamID)
	}
}
