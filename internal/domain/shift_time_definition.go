package domain

import (
	"strings"
	"time"
)

type ShiftType string

const (
	ShiftTypeNormal  ShiftType = "normal"
	ShiftTypeEarly   ShiftType = "early"
	ShiftTypeLate    ShiftType = "late"
	ShiftTypeWeekend ShiftType = "weekend"
)

// CompoundShift: 一个值班标签中同时包含周末和工作日两套时间规则
// 对外仍然用 "weekend_<工作日班次>" 这一个字符串表示，内部拆成两个字段
type CompoundShift struct {
	WeekendType ShiftType `json:"weekendType"`
	WeekdayType ShiftType `json:"weekdayType"`
}

// ParseCompoundShift 解析形如 weekend_early 的复合班次标签
func ParseCompoundShift(label string) (*CompoundShift, bool) {
	rest, found := strings.CutPrefix(label, "weekend_")
	if !found || rest == "" {
		return nil, false
	}

	return &CompoundShift{
		WeekendType: ShiftTypeWeekend,
		WeekdayType: ShiftType(rest),
	}, true
}

type ShiftTimeDefinition struct {
	ID           int64     `json:"id"`
	ShiftType    ShiftType `json:"shiftType"`
	TeamID       *int64    `json:"teamID"`       // 直接所属团队，可以为空
	TeamIDs      []int64   `json:"teamIDs"`      // 额外适用的团队集合
	RegionCode   string    `json:"regionCode"`   // 为空表示不限地区
	CountryCodes []string  `json:"countryCodes"` // 为空表示不限国家
	Weekdays     []int32   `json:"weekdays"`     // 1 = 周一 ... 7 = 周日，为空表示每天适用
	StartTime    string    `json:"startTime"`    // HH:MM 墙上时钟，不带时区
	EndTime      string    `json:"endTime"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// HasTeamScope 判断定义是否限定了团队
func (d *ShiftTimeDefinition) HasTeamScope() bool {
	return d.TeamID != nil || len(d.TeamIDs) > 0
}

// HasLocaleScope 判断定义是否限定了地区或国家
func (d *ShiftTimeDefinition) HasLocaleScope() bool {
	return d.RegionCode != "" || len(d.CountryCodes) > 0
}

// AppliesToTeam 判断定义是否适用于指定团队
func (d *ShiftTimeDefinition) AppliesToTeam(teamID int64) bool {
	if d.TeamID != nil && *d.TeamID == teamID {
		return true
	}
	for _, id := range d.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
