package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TimeEntryType string

const (
	EntryTypeWork          TimeEntryType = "work"
	EntryTypeHomeOffice    TimeEntryType = "home_office"
	EntryTypeSick          TimeEntryType = "sick"
	EntryTypeVacation      TimeEntryType = "vacation"
	EntryTypePublicHoliday TimeEntryType = "public_holiday"
	EntryTypeTeamMeeting   TimeEntryType = "team_meeting"
	EntryTypeTraining      TimeEntryType = "training"
	EntryTypeFZAWithdrawal TimeEntryType = "fza_withdrawal"
)

// IsWorkCounting 判断该类型是否按照工作日目标工时计算
func (t TimeEntryType) IsWorkCounting() bool {
	switch t {
	case EntryTypeWork, EntryTypeHomeOffice, EntryTypeTeamMeeting, EntryTypeTraining:
		return true
	default:
		return false
	}
}

// IsZeroTarget 判断该类型是否不参与工时核算（目标、实际、差额全部为 0）
func (t TimeEntryType) IsZeroTarget() bool {
	switch t {
	case EntryTypeSick, EntryTypeVacation, EntryTypePublicHoliday:
		return true
	default:
		return false
	}
}

// DailyTimeEntry: 每个员工每天最多一条
type DailyTimeEntry struct {
	ID              int64            `json:"id"`
	WorkerID        int64            `json:"workerID"`
	Date            time.Time        `json:"date"`
	StartTime       *string          `json:"startTime"` // HH:MM，可以为空
	EndTime         *string          `json:"endTime"`
	BreakMinutes    int              `json:"breakMinutes"`
	TargetHours     decimal.Decimal  `json:"targetHours"`
	ActualHours     decimal.Decimal  `json:"actualHours"`
	FlexDelta       decimal.Decimal  `json:"flexDelta"` // 实际 - 目标
	EntryType       TimeEntryType    `json:"entryType"`
	WithdrawalHours *decimal.Decimal `json:"withdrawalHours"` // 仅 fza_withdrawal 使用
	Locked          bool             `json:"locked"`
	CreatedAt       time.Time        `json:"createdAt"`
	Version         int32            `json:"-"`
}

// MonthlyFlexSummary: 月度弹性工时汇总，始终整体重算而不是单独编辑
type MonthlyFlexSummary struct {
	ID              int64           `json:"id"`
	WorkerID        int64           `json:"workerID"`
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	StartingBalance decimal.Decimal `json:"startingBalance"` // 等于上个月的期末余额
	MonthDelta      decimal.Decimal `json:"monthDelta"`
	EndingBalance   decimal.Decimal `json:"endingBalance"`
	CreatedAt       time.Time       `json:"createdAt"`
}
