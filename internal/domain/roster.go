package domain

import "time"

type RosterStatus string

const (
	RosterStatusDraft       RosterStatus = "draft"
	RosterStatusApproval    RosterStatus = "approval"
	RosterStatusImplemented RosterStatus = "implemented"
)

// DefaultRosterWeeks: 班表没有指定结束日期时默认生成的周数
const DefaultRosterWeeks = 52

// Roster: 跨多周循环的轮值班表配置
type Roster struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	ShiftTypeLabel   string       `json:"shiftTypeLabel"` // 可以是简单班次，也可以是 weekend_<工作日班次> 复合标签
	CycleLengthWeeks int          `json:"cycleLengthWeeks"`
	StartDate        time.Time    `json:"startDate"`
	EndDate          *time.Time   `json:"endDate"` // 为空表示开始日期 + 52 周
	DefaultShiftType *string      `json:"defaultShiftType"`
	PartnershipID    int64        `json:"partnershipID"`
	Status           RosterStatus `json:"status"`
	CreatedAt        time.Time    `json:"createdAt"`
	Version          int32        `json:"-"`
}

// EffectiveEndDate 返回班表的实际结束日期
func (r *Roster) EffectiveEndDate() time.Time {
	if r.EndDate != nil {
		return *r.EndDate
	}
	return r.StartDate.AddDate(0, 0, DefaultRosterWeeks*7)
}

// WeekAssignment: 某个周期周内的值班安排
type WeekAssignment struct {
	ID        int64   `json:"id"`
	RosterID  int64   `json:"rosterID"`
	CycleWeek int     `json:"cycleWeek"` // 1 .. CycleLengthWeeks
	WorkerID  *int64  `json:"workerID"`  // 为空表示该周期周尚未分配
	TeamID    int64   `json:"teamID"`
	ShiftType *string `json:"shiftType"` // 为空时使用班表的默认班次
}

type RosterApproval struct {
	ID        int64     `json:"id"`
	RosterID  int64     `json:"rosterID"`
	ManagerID int64     `json:"managerID"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}
