package domain

import "time"

type ActivityType string

const (
	ActivityWork  ActivityType = "work"
	ActivityOther ActivityType = "other"
)

type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
)

// ScheduleEntry: 生成器产出的排班条目
// 唯一性约束 (worker_id, team_id, date) 由数据库的冲突键保证，引擎本身不做去重
type ScheduleEntry struct {
	ID           int64        `json:"id"`
	WorkerID     int64        `json:"workerID"`
	TeamID       int64        `json:"teamID"`
	Date         time.Time    `json:"date"`
	ShiftType    *ShiftType   `json:"shiftType"` // 休息日为空
	ActivityType ActivityType `json:"activityType"`
	Availability Availability `json:"availability"`
	DefinitionID *int64       `json:"definitionID"` // 解析时间时命中的班次时间定义
	Note         string       `json:"note"`         // 通常记录解析出的时间窗口
	CreatedBy    int64        `json:"createdBy"`
	CreatedAt    time.Time    `json:"createdAt"`
}
