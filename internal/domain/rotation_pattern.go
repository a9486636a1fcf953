package domain

import "time"

type RotationPatternKind string

const (
	PatternFixedDays         RotationPatternKind = "fixed_days"
	PatternRepeatingSequence RotationPatternKind = "repeating_sequence"
	PatternWeeklyPattern     RotationPatternKind = "weekly_pattern"
	PatternCustom            RotationPatternKind = "custom"
)

// FixedDaysPattern: 连续工作 WorkDays 天后休息 OffDays 天，周期长度 = WorkDays + OffDays
type FixedDaysPattern struct {
	WorkDays  int       `json:"workDays"`
	OffDays   int       `json:"offDays"`
	ShiftType ShiftType `json:"shiftType"`
}

func (p *FixedDaysPattern) CycleLength() int {
	return p.WorkDays + p.OffDays
}

// SequenceStep: 序列中的一段，ShiftType 为空表示休息
type SequenceStep struct {
	ShiftType *ShiftType `json:"shiftType"`
	Days      int        `json:"days"`
}

type RepeatingSequencePattern struct {
	Steps []SequenceStep `json:"steps"`
}

// WeeklyPatternDay 的 key 为周几的英文名（monday ... sunday），值为空表示该天休息
type WeeklyPattern struct {
	Days map[string]*ShiftType `json:"days"`
}

type CustomPatternDay struct {
	DayIndex  int        `json:"dayIndex"` // 从 0 开始的周期内偏移
	ShiftType *ShiftType `json:"shiftType"`
}

type CustomPattern struct {
	CycleLengthDays int                `json:"cycleLengthDays"`
	Days            []CustomPatternDay `json:"days"`
}

// RotationPattern: 标签联合类型，Kind 决定哪一个变体字段有效
// 一旦被展开过就视为不可变配置
type RotationPattern struct {
	ID        int64                     `json:"id"`
	Name      string                    `json:"name"`
	Kind      RotationPatternKind       `json:"kind"`
	FixedDays *FixedDaysPattern         `json:"fixedDays,omitempty"`
	Sequence  *RepeatingSequencePattern `json:"sequence,omitempty"`
	Weekly    *WeeklyPattern            `json:"weekly,omitempty"`
	Custom    *CustomPattern            `json:"custom,omitempty"`
	CreatedAt time.Time                 `json:"createdAt"`
	Version   int32                     `json:"-"`
}
