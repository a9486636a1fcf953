package engine

import (
	"testing"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestTargetHoursFor(t *testing.T) {
	testCases := []struct {
		name     string
		date     time.Time
		expected int64
	}{
		{"monday", time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), 8},
		{"thursday", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), 8},
		{"friday", time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC), 6},
		{"saturday", time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC), 0},
		{"sunday", time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, TargetHoursFor(tc.date).Equal(decimal.NewFromInt(tc.expected)))
		})
	}
}

func TestCalculate(t *testing.T) {
	wednesday := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)

	t.Run("regular work day with break", func(t *testing.T) {
		result := Calculate(wednesday, &TimeInput{
			StartTime:    strPtr("08:00"),
			EndTime:      strPtr("17:00"),
			BreakMinutes: 60,
			EntryType:    domain.EntryTypeWork,
		})

		require.True(t, result.GrossHours.Equal(decimal.NewFromInt(9)), "gross = %s", result.GrossHours)
		assert.True(t, result.ActualHours.Equal(decimal.NewFromInt(8)))
		assert.True(t, result.TargetHours.Equal(decimal.NewFromInt(8)))
		assert.True(t, result.FlexDelta.IsZero())
	})

	t.Run("saturday work counts fully against zero target", func(t *testing.T) {
		result := Calculate(saturday, &TimeInput{
			StartTime:    strPtr("10:00"),
			EndTime:      strPtr("14:00"),
			BreakMinutes: 0,
			EntryType:    domain.EntryTypeWork,
		})

		assert.True(t, result.TargetHours.IsZero())
		assert.True(t, result.ActualHours.Equal(decimal.NewFromInt(4)))
		assert.True(t, result.FlexDelta.Equal(decimal.NewFromInt(4)))
	})

	t.Run("no break deduction at six hours or less", func(t *testing.T) {
		result := Calculate(wednesday, &TimeInput{
			StartTime:    strPtr("08:00"),
			EndTime:      strPtr("14:00"),
			BreakMinutes: 30,
			EntryType:    domain.EntryTypeWork,
		})

		// 毛工时恰好 6 小时，不扣休息
		assert.True(t, result.ActualHours.Equal(decimal.NewFromInt(6)))
	})

	t.Run("break deduction floors at zero", func(t *testing.T) {
		result := Calculate(wednesday, &TimeInput{
			StartTime:    strPtr("08:00"),
			EndTime:      strPtr("14:30"),
			BreakMinutes: 600,
			EntryType:    domain.EntryTypeWork,
		})

		assert.True(t, result.ActualHours.IsZero())
	})

	t.Run("vacation is all zeros even with times", func(t *testing.T) {
		result := Calculate(wednesday, &TimeInput{
			StartTime:    strPtr("08:00"),
			EndTime:      strPtr("17:00"),
			BreakMinutes: 60,
			EntryType:    domain.EntryTypeVacation,
		})

		assert.True(t, result.TargetHours.IsZero())
		assert.True(t, result.ActualHours.IsZero())
		assert.True(t, result.FlexDelta.IsZero())
	})

	t.Run("sick and public holiday are all zeros", func(t *testing.T) {
		for _, entryType := range []domain.TimeEntryType{domain.EntryTypeSick, domain.EntryTypePublicHoliday} {
			result := Calculate(wednesday, &TimeInput{EntryType: entryType})
			assert.True(t, result.FlexDelta.IsZero())
			assert.True(t, result.TargetHours.IsZero())
		}
	})

	t.Run("fza withdrawal is always a negative delta", func(t *testing.T) {
		hours := decimal.NewFromInt(4)
		result := Calculate(wednesday, &TimeInput{
			EntryType:       domain.EntryTypeFZAWithdrawal,
			WithdrawalHours: &hours,
		})
		assert.True(t, result.FlexDelta.Equal(decimal.NewFromInt(-4)))

		// 填负数也一样按绝对值扣
		negative := decimal.NewFromInt(-4)
		result = Calculate(wednesday, &TimeInput{
			EntryType:       domain.EntryTypeFZAWithdrawal,
			WithdrawalHours: &negative,
		})
		assert.True(t, result.FlexDelta.Equal(decimal.NewFromInt(-4)))
	})

	t.Run("fza withdrawal without hours is zero", func(t *testing.T) {
		result := Calculate(wednesday, &TimeInput{EntryType: domain.EntryTypeFZAWithdrawal})
		assert.True(t, result.FlexDelta.IsZero())
	})

	t.Run("missing or invalid times give zero gross", func(t *testing.T) {
		result := Calculate(wednesday, &TimeInput{EntryType: domain.EntryTypeWork})
		assert.True(t, result.GrossHours.IsZero())
		assert.True(t, result.FlexDelta.Equal(decimal.NewFromInt(-8)))

		result = Calculate(wednesday, &TimeInput{
			StartTime: strPtr("17:00"),
			EndTime:   strPtr("08:00"),
			EntryType: domain.EntryTypeWork,
		})
		assert.True(t, result.GrossHours.IsZero())
	})
}

func TestValidateBreakRule(t *testing.T) {
	testCases := []struct {
		name         string
		actualHours  int64
		breakMinutes int
		wantErr      bool
	}{
		{"under six hours no break needed", 6, 0, false},
		{"over six hours needs thirty minutes", 7, 15, true},
		{"over six hours with thirty minutes", 7, 30, false},
		{"over nine hours needs forty five minutes", 10, 30, true},
		{"over nine hours with forty five minutes", 10, 45, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBreakRule(decimal.NewFromInt(tc.actualHours), tc.breakMinutes)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDailyLimit(t *testing.T) {
	assert.NoError(t, ValidateDailyLimit(decimal.NewFromInt(10)))
	assert.Error(t, ValidateDailyLimit(decimal.NewFromFloat(10.5)))
}

func TestAggregateMonth(t *testing.T) {
	t.Run("carries starting balance forward", func(t *testing.T) {
		deltas := []decimal.Decimal{
			decimal.NewFromInt(1),
			decimal.NewFromFloat(-0.5),
			decimal.NewFromInt(2),
		}

		monthDelta, ending := AggregateMonth(decimal.NewFromInt(3), deltas)

		assert.True(t, monthDelta.Equal(decimal.NewFromFloat(2.5)), "monthDelta = %s", monthDelta)
		assert.True(t, ending.Equal(decimal.NewFromFloat(5.5)), "ending = %s", ending)
	})

	t.Run("empty month keeps the balance", func(t *testing.T) {
		monthDelta, ending := AggregateMonth(decimal.NewFromFloat(-1.25), nil)

		assert.True(t, monthDelta.IsZero())
		assert.True(t, ending.Equal(decimal.NewFromFloat(-1.25)))
	})
}
