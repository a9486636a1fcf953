package utils

import (
	"testing"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidShiftLabel(t *testing.T) {
	assert.True(t, ValidShiftLabel("normal"))
	assert.True(t, ValidShiftLabel("weekend"))
	assert.True(t, ValidShiftLabel("weekend_early"))
	assert.False(t, ValidShiftLabel("weekend_"))
	assert.False(t, ValidShiftLabel("weekend_weekend"))
	assert.False(t, ValidShiftLabel("night"))
	assert.False(t, ValidShiftLabel(""))
}

func TestValidateShiftTimeDefinition(t *testing.T) {
	valid := &domain.ShiftTimeDefinition{
		ShiftType: domain.ShiftTypeNormal,
		StartTime: "08:00",
		EndTime:   "16:30",
		Weekdays:  []int32{1, 5},
	}
	assert.NoError(t, ValidateShiftTimeDefinition(valid))

	bad := *valid
	bad.StartTime = "8 Uhr"
	assert.Error(t, ValidateShiftTimeDefinition(&bad))

	bad = *valid
	bad.EndTime = "08:00"
	assert.Error(t, ValidateShiftTimeDefinition(&bad), "结束时间不能等于开始时间")

	bad = *valid
	bad.Weekdays = []int32{8}
	assert.Error(t, ValidateShiftTimeDefinition(&bad))
}

func TestValidateRotationPattern(t *testing.T) {
	early := domain.ShiftTypeEarly

	t.Run("fixed days", func(t *testing.T) {
		pattern := &domain.RotationPattern{
			Kind:      domain.PatternFixedDays,
			FixedDays: &domain.FixedDaysPattern{WorkDays: 4, OffDays: 4, ShiftType: domain.ShiftTypeNormal},
		}
		assert.NoError(t, ValidateRotationPattern(pattern))

		pattern.FixedDays.WorkDays = 0
		assert.Error(t, ValidateRotationPattern(pattern))
	})

	t.Run("sequence must consume at least one day", func(t *testing.T) {
		pattern := &domain.RotationPattern{
			Kind: domain.PatternRepeatingSequence,
			Sequence: &domain.RepeatingSequencePattern{
				Steps: []domain.SequenceStep{{ShiftType: &early, Days: 0}},
			},
		}
		assert.Error(t, ValidateRotationPattern(pattern))

		pattern.Sequence.Steps[0].Days = 2
		assert.NoError(t, ValidateRotationPattern(pattern))
	})

	t.Run("weekly rejects unknown day names", func(t *testing.T) {
		pattern := &domain.RotationPattern{
			Kind:   domain.PatternWeeklyPattern,
			Weekly: &domain.WeeklyPattern{Days: map[string]*domain.ShiftType{"wodnesday": &early}},
		}
		assert.Error(t, ValidateRotationPattern(pattern))
	})

	t.Run("custom day index must stay in the cycle", func(t *testing.T) {
		pattern := &domain.RotationPattern{
			Kind: domain.PatternCustom,
			Custom: &domain.CustomPattern{
				CycleLengthDays: 3,
				Days:            []domain.CustomPatternDay{{DayIndex: 3, ShiftType: &early}},
			},
		}
		assert.Error(t, ValidateRotationPattern(pattern))

		pattern.Custom.Days[0].DayIndex = 2
		assert.NoError(t, ValidateRotationPattern(pattern))
	})

	t.Run("kind and payload must match", func(t *testing.T) {
		pattern := &domain.RotationPattern{Kind: domain.PatternFixedDays}
		assert.Error(t, ValidateRotationPattern(pattern))

		pattern = &domain.RotationPattern{Kind: "diagonal"}
		assert.Error(t, ValidateRotationPattern(pattern))
	})
}

func TestValidateRoster(t *testing.T) {
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	off := "off"

	valid := &domain.Roster{
		Name:             "KW-Rotation",
		ShiftTypeLabel:   "weekend_normal",
		CycleLengthWeeks: 4,
		StartDate:        start,
		DefaultShiftType: &off,
	}
	assert.NoError(t, ValidateRoster(valid, nil))

	t.Run("invalid labels are rejected", func(t *testing.T) {
		bad := *valid
		bad.ShiftTypeLabel = "night"
		assert.Error(t, ValidateRoster(&bad, nil))
	})

	t.Run("end date must not precede start date", func(t *testing.T) {
		bad := *valid
		end := start.AddDate(0, 0, -1)
		bad.EndDate = &end
		assert.Error(t, ValidateRoster(&bad, nil))
	})

	t.Run("assignment cycle week must be in range", func(t *testing.T) {
		assert.Error(t, ValidateRoster(valid, []*domain.WeekAssignment{{CycleWeek: 5, TeamID: 1}}))
		assert.NoError(t, ValidateRoster(valid, []*domain.WeekAssignment{{CycleWeek: 4, TeamID: 1}}))
	})
}
