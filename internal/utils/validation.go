package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

var simpleShiftTypes = map[domain.ShiftType]bool{
	domain.ShiftTypeNormal:  true,
	domain.ShiftTypeEarly:   true,
	domain.ShiftTypeLate:    true,
	domain.ShiftTypeWeekend: true,
}

// ValidShiftLabel 检查班次标签是不是已知的简单班次或合法的 weekend_<工作日班次> 复合标签
func ValidShiftLabel(label string) bool {
	if simpleShiftTypes[domain.ShiftType(label)] {
		return true
	}
	compound, ok := domain.ParseCompoundShift(label)
	if !ok {
		return false
	}
	// 复合标签的工作日部分不能再是周末班
	return compound.WeekdayType != domain.ShiftTypeWeekend && simpleShiftTypes[compound.WeekdayType]
}

func ValidateShiftTimeDefinition(def *domain.ShiftTimeDefinition) error {
	startTime, err := time.Parse("15:04", def.StartTime)
	if err != nil {
		return fmt.Errorf("开始时间格式错误，应为 HH:MM")
	}
	endTime, err := time.Parse("15:04", def.EndTime)
	if err != nil {
		return fmt.Errorf("结束时间格式错误，应为 HH:MM")
	}
	if !endTime.After(startTime) {
		return fmt.Errorf("结束时间必须晚于开始时间")
	}

	for _, weekday := range def.Weekdays {
		if weekday < 1 || weekday > 7 {
			return fmt.Errorf("适用日 %d 无效，应在 1 到 7 之间", weekday)
		}
	}

	return nil
}

var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

func ValidateRotationPattern(pattern *domain.RotationPattern) error {
	switch pattern.Kind {
	case domain.PatternFixedDays:
		if pattern.FixedDays == nil {
			return errors.New("fixed_days 模式缺少配置")
		}
		if pattern.FixedDays.WorkDays < 1 {
			return errors.New("工作天数必须大于 0")
		}
		if pattern.FixedDays.OffDays < 0 {
			return errors.New("休息天数不能为负")
		}
		if !simpleShiftTypes[pattern.FixedDays.ShiftType] {
			return fmt.Errorf("班次类型 %s 无效", pattern.FixedDays.ShiftType)
		}
	case domain.PatternRepeatingSequence:
		if pattern.Sequence == nil || len(pattern.Sequence.Steps) == 0 {
			return errors.New("repeating_sequence 模式至少需要一个序列段")
		}
		hasDays := false
		for i, step := range pattern.Sequence.Steps {
			if step.Days < 0 {
				return fmt.Errorf("序列段 %d 的天数不能为负", i+1)
			}
			if step.Days > 0 {
				hasDays = true
			}
			if step.ShiftType != nil && !simpleShiftTypes[*step.ShiftType] {
				return fmt.Errorf("序列段 %d 的班次类型 %s 无效", i+1, *step.ShiftType)
			}
		}
		if !hasDays {
			return errors.New("序列段的天数不能全部为 0")
		}
	case domain.PatternWeeklyPattern:
		if pattern.Weekly == nil {
			return errors.New("weekly_pattern 模式缺少配置")
		}
		for name, shiftType := range pattern.Weekly.Days {
			if !weekdayNames[name] {
				return fmt.Errorf("周几名称 %s 无效", name)
			}
			if shiftType != nil && !simpleShiftTypes[*shiftType] {
				return fmt.Errorf("%s 的班次类型 %s 无效", name, *shiftType)
			}
		}
	case domain.PatternCustom:
		if pattern.Custom == nil {
			return errors.New("custom 模式缺少配置")
		}
		if pattern.Custom.CycleLengthDays < 1 {
			return errors.New("周期天数必须大于 0")
		}
		for _, day := range pattern.Custom.Days {
			if day.DayIndex < 0 || day.DayIndex >= pattern.Custom.CycleLengthDays {
				return fmt.Errorf("天偏移 %d 超出了周期范围", day.DayIndex)
			}
			if day.ShiftType != nil && !simpleShiftTypes[*day.ShiftType] {
				return fmt.Errorf("天偏移 %d 的班次类型 %s 无效", day.DayIndex, *day.ShiftType)
			}
		}
	default:
		return fmt.Errorf("轮班模式类型 %s 无效", pattern.Kind)
	}

	return nil
}

func ValidateRoster(roster *domain.Roster, assignments []*domain.WeekAssignment) error {
	if roster.CycleLengthWeeks < 1 {
		return errors.New("周期周数必须大于 0")
	}

	if !ValidShiftLabel(roster.ShiftTypeLabel) {
		return fmt.Errorf("班次标签 %s 无效", roster.ShiftTypeLabel)
	}

	// 默认班次允许 off 和 none，表示不值班的周整周休息
	if roster.DefaultShiftType != nil {
		label := *roster.DefaultShiftType
		if label != "off" && label != "none" && !ValidShiftLabel(label) {
			return fmt.Errorf("默认班次 %s 无效", label)
		}
	}

	if roster.EndDate != nil && roster.EndDate.Before(roster.StartDate) {
		return errors.New("结束日期不能早于开始日期")
	}

	for i, assignment := range assignments {
		if assignment.CycleWeek < 1 || assignment.CycleWeek > roster.CycleLengthWeeks {
			return fmt.Errorf("第 %d 条值班安排的周期周 %d 超出了范围", i+1, assignment.CycleWeek)
		}
		if assignment.ShiftType != nil && !ValidShiftLabel(*assignment.ShiftType) {
			return fmt.Errorf("第 %d 条值班安排的班次标签 %s 无效", i+1, *assignment.ShiftType)
		}
	}

	return nil
}
