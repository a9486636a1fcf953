package engine

import (
	"strings"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

// ExpandOptions: 展开时的跳过规则，只有 fixed_days 模式会用到
type ExpandOptions struct {
	SkipWeekends bool            `json:"skipWeekends"`
	SkipHolidays bool            `json:"skipHolidays"`
	HolidaySet   map[string]bool `json:"holidaySet"` // key 为 YYYY-MM-DD
}

// DateKey 返回假期集合使用的日期键
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// Expand 把轮换模式配置展开成逐日的排班条目，每个输入日期产出一条，顺序与输入一致
func Expand(pattern *domain.RotationPattern, workerID int64, teamID int64, dates []time.Time, opts ExpandOptions) []*domain.ScheduleEntry {
	entries := make([]*domain.ScheduleEntry, 0, len(dates))

	switch pattern.Kind {
	case domain.PatternFixedDays:
		entries = expandFixedDays(pattern.FixedDays, workerID, teamID, dates, opts)
	case domain.PatternRepeatingSequence:
		entries = expandSequence(pattern.Sequence, workerID, teamID, dates)
	case domain.PatternWeeklyPattern:
		entries = expandWeekly(pattern.Weekly, workerID, teamID, dates)
	case domain.PatternCustom:
		entries = expandCustom(pattern.Custom, workerID, teamID, dates)
	}

	return entries
}

// expandFixedDays: 周期位置计数器在每个日期上都会前进一次，包括被跳过的日期
// 固定顺序：先判断是否跳过、再产出条目、最后无条件推进计数器，不要改动这个顺序
func expandFixedDays(p *domain.FixedDaysPattern, workerID int64, teamID int64, dates []time.Time, opts ExpandOptions) []*domain.ScheduleEntry {
	entries := make([]*domain.ScheduleEntry, 0, len(dates))
	cycle := p.CycleLength()
	counter := 0

	for _, date := range dates {
		skipped := (opts.SkipWeekends && IsWeekend(date)) ||
			(opts.SkipHolidays && opts.HolidaySet[DateKey(date)])

		if skipped {
			entries = append(entries, offEntry(workerID, teamID, date))
		} else {
			position := counter % cycle
			if position < p.WorkDays {
				entries = append(entries, workEntry(workerID, teamID, date, p.ShiftType))
			} else {
				entries = append(entries, offEntry(workerID, teamID, date))
			}
		}

		counter++
	}

	return entries
}

// expandSequence: 按顺序消费每个序列段的天数，段用完后换下一段并循环
// 这个变体不做任何周末/假期跳过
func expandSequence(p *domain.RepeatingSequencePattern, workerID int64, teamID int64, dates []time.Time) []*domain.ScheduleEntry {
	entries := make([]*domain.ScheduleEntry, 0, len(dates))
	if len(p.Steps) == 0 {
		for _, date := range dates {
			entries = append(entries, offEntry(workerID, teamID, date))
		}
		return entries
	}

	stepIndex := 0
	consumed := 0

	for _, date := range dates {
		// 跳过天数为 0 的配置段，防止死循环
		guard := 0
		for p.Steps[stepIndex].Days <= 0 && guard < len(p.Steps) {
			stepIndex = (stepIndex + 1) % len(p.Steps)
			guard++
		}

		step := p.Steps[stepIndex]
		if step.ShiftType != nil {
			entries = append(entries, workEntry(workerID, teamID, date, *step.ShiftType))
		} else {
			entries = append(entries, offEntry(workerID, teamID, date))
		}

		consumed++
		if consumed >= step.Days {
			stepIndex = (stepIndex + 1) % len(p.Steps)
			consumed = 0
		}
	}

	return entries
}

// expandWeekly: 按周几名字查模式表，查不到或为空表示休息
func expandWeekly(p *domain.WeeklyPattern, workerID int64, teamID int64, dates []time.Time) []*domain.ScheduleEntry {
	entries := make([]*domain.ScheduleEntry, 0, len(dates))

	for _, date := range dates {
		name := strings.ToLower(date.Weekday().String())
		shiftType, exists := p.Days[name]
		if !exists || shiftType == nil {
			entries = append(entries, offEntry(workerID, teamID, date))
		} else {
			entries = append(entries, workEntry(workerID, teamID, date, *shiftType))
		}
	}

	return entries
}

// expandCustom: 按日期序号对周期长度取模后查天配置
func expandCustom(p *domain.CustomPattern, workerID int64, teamID int64, dates []time.Time) []*domain.ScheduleEntry {
	entries := make([]*domain.ScheduleEntry, 0, len(dates))

	dayConfigs := make(map[int]*domain.ShiftType, len(p.Days))
	for _, d := range p.Days {
		dayConfigs[d.DayIndex] = d.ShiftType
	}

	for i, date := range dates {
		dayInCycle := i % p.CycleLengthDays
		shiftType, exists := dayConfigs[dayInCycle]
		if !exists || shiftType == nil {
			entries = append(entries, offEntry(workerID, teamID, date))
		} else {
			entries = append(entries, workEntry(workerID, teamID, date, *shiftType))
		}
	}

	return entries
}

func workEntry(workerID int64, teamID int64, date time.Time, shiftType domain.ShiftType) *domain.ScheduleEntry {
	st := shiftType
	return &domain.ScheduleEntry{
		WorkerID:     workerID,
		TeamID:       teamID,
		Date:         date,
		ShiftType:    &st,
		ActivityType: domain.ActivityWork,
		Availability: domain.AvailabilityAvailable,
	}
}

func offEntry(workerID int64, teamID int64, date time.Time) *domain.ScheduleEntry {
	return &domain.ScheduleEntry{
		WorkerID:     workerID,
		TeamID:       teamID,
		Date:         date,
		ShiftType:    nil,
		ActivityType: domain.ActivityOther,
		Availability: domain.AvailabilityUnavailable,
	}
}
