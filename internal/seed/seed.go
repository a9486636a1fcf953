package seed

import (
	"log/slog"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/schichtplan-dev/schichtplan/backend/internal/repository"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// 德国和奥地利的法定假期，复活节等浮动假期按 2026 年写死
var publicHolidays = []*domain.HolidayRecord{
	{Date: date(2026, time.January, 1), Name: "Neujahr", CountryCode: "DE", IsPublic: true},
	{Date: date(2026, time.January, 6), Name: "Heilige Drei Könige", CountryCode: "DE", RegionCode: "BY", IsPublic: true},
	{Date: date(2026, time.April, 3), Name: "Karfreitag", CountryCode: "DE", IsPublic: true},
	{Date: date(2026, time.April, 6), Name: "Ostermontag", CountryCode: "DE", IsPublic: true},
	{Date: date(2026, time.May, 1), Name: "Tag der Arbeit", CountryCode: "DE", IsPublic: true},
	{Date: date(2026, time.October, 3), Name: "Tag der Deutschen Einheit", CountryCode: "DE", IsPublic: true},
	{Date: date(2026, time.November, 1), Name: "Allerheiligen", CountryCode: "DE", RegionCode: "BY", IsPublic: true},
	{Date: date(2026, time.December, 25), Name: "1. Weihnachtstag", CountryCode: "DE", IsPublic: true},
	{Date: date(2026, time.December, 26), Name: "2. Weihnachtstag", CountryCode: "DE", IsPublic: true},
	{Date: date(2026, time.January, 1), Name: "Neujahr", CountryCode: "AT", IsPublic: true},
	{Date: date(2026, time.January, 6), Name: "Heilige Drei Könige", CountryCode: "AT", IsPublic: true},
	{Date: date(2026, time.April, 6), Name: "Ostermontag", CountryCode: "AT", IsPublic: true},
	{Date: date(2026, time.May, 1), Name: "Staatsfeiertag", CountryCode: "AT", IsPublic: true},
	{Date: date(2026, time.October, 26), Name: "Nationalfeiertag", CountryCode: "AT", IsPublic: true},
	{Date: date(2026, time.December, 25), Name: "Christtag", CountryCode: "AT", IsPublic: true},
	{Date: date(2026, time.December, 26), Name: "Stefanitag", CountryCode: "AT", IsPublic: true},
}

func teamScoped(teamID int64) *int64 {
	return &teamID
}

func shiftType(t domain.ShiftType) *domain.ShiftType {
	return &t
}

// SeedDemoData 插入一套可以直接演示完整流程的数据：
// 两个团队和它们的团队组合、公共假期日历、班次时间定义和几种常用的轮班模式
func SeedDemoData(r *repository.Repository) {
	teamSupport := &domain.Team{Name: "Support", Description: "一线支持团队"}
	teamOps := &domain.Team{Name: "Operations", Description: "运维团队"}

	for _, team := range []*domain.Team{teamSupport, teamOps} {
		if err := r.CreateTeam(team); err != nil {
			slog.Error("无法插入团队", "name", team.Name, "error", err)
			return
		}
	}
	slog.Info("插入团队成功", "count", 2)

	partnership := &domain.Partnership{
		Name:    "Support + Operations",
		TeamIDs: []int64{teamSupport.ID, teamOps.ID},
	}
	if err := r.CreatePartnership(partnership); err != nil {
		slog.Error("无法插入团队组合", "error", err)
		return
	}
	slog.Info("插入团队组合成功", "id", partnership.ID)

	cnt := 0
	for _, holiday := range publicHolidays {
		if err := r.CreateHolidayRecord(holiday); err != nil {
			slog.Error("无法插入公共假期", "name", holiday.Name, "error", err)
			continue
		}
		cnt++
	}
	slog.Info("插入公共假期成功", "count", cnt)

	// 全局默认、巴伐利亚地区的覆盖，以及支持团队自己的周五短班
	definitions := []*domain.ShiftTimeDefinition{
		{ShiftType: domain.ShiftTypeNormal, CountryCodes: []string{"DE", "AT"}, StartTime: "08:00", EndTime: "16:30", Description: "常规班"},
		{ShiftType: domain.ShiftTypeEarly, CountryCodes: []string{"DE", "AT"}, StartTime: "06:00", EndTime: "14:00", Description: "早班"},
		{ShiftType: domain.ShiftTypeLate, CountryCodes: []string{"DE", "AT"}, StartTime: "14:00", EndTime: "22:00", Description: "晚班"},
		{ShiftType: domain.ShiftTypeWeekend, CountryCodes: []string{"DE", "AT"}, StartTime: "08:00", EndTime: "16:00", Description: "周末班"},
		{ShiftType: domain.ShiftTypeNormal, RegionCode: "BY", StartTime: "07:30", EndTime: "16:00", Description: "常规班（巴伐利亚）"},
		{ShiftType: domain.ShiftTypeNormal, TeamID: teamScoped(teamSupport.ID), CountryCodes: []string{"DE"}, Weekdays: []int32{5}, StartTime: "08:00", EndTime: "14:00", Description: "周五短班"},
	}
	cnt = 0
	for _, def := range definitions {
		if err := r.CreateShiftTimeDefinition(def); err != nil {
			slog.Error("无法插入班次时间定义", "description", def.Description, "error", err)
			continue
		}
		cnt++
	}
	slog.Info("插入班次时间定义成功", "count", cnt)

	patterns := []*domain.RotationPattern{
		{
			Name: "四班四休",
			Kind: domain.PatternFixedDays,
			FixedDays: &domain.FixedDaysPattern{
				WorkDays:  4,
				OffDays:   4,
				ShiftType: domain.ShiftTypeNormal,
			},
		},
		{
			Name: "早晚轮换",
			Kind: domain.PatternRepeatingSequence,
			Sequence: &domain.RepeatingSequencePattern{
				Steps: []domain.SequenceStep{
					{ShiftType: shiftType(domain.ShiftTypeEarly), Days: 2},
					{ShiftType: shiftType(domain.ShiftTypeLate), Days: 2},
					{ShiftType: nil, Days: 1},
				},
			},
		},
		{
			Name: "标准工作周",
			Kind: domain.PatternWeeklyPattern,
			Weekly: &domain.WeeklyPattern{
				Days: map[string]*domain.ShiftType{
					"monday":    shiftType(domain.ShiftTypeNormal),
					"tuesday":   shiftType(domain.ShiftTypeNormal),
					"wednesday": shiftType(domain.ShiftTypeNormal),
					"thursday":  shiftType(domain.ShiftTypeNormal),
					"friday":    shiftType(domain.ShiftTypeNormal),
				},
			},
		},
	}
	cnt = 0
	for _, pattern := range patterns {
		if err := r.CreateRotationPattern(pattern); err != nil {
			slog.Error("无法插入轮班模式", "name", pattern.Name, "error", err)
			continue
		}
		cnt++
	}
	slog.Info("插入轮班模式成功", "count", cnt)
}
