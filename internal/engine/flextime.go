package engine

import (
	"fmt"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	sixHours  = decimal.NewFromInt(6)
	nineHours = decimal.NewFromInt(9)
	tenHours  = decimal.NewFromInt(10)
	sixty     = decimal.NewFromInt(60)
)

// TimeInput: 一条工时记录中参与核算的字段
type TimeInput struct {
	StartTime       *string              `json:"startTime"` // HH:MM
	EndTime         *string              `json:"endTime"`
	BreakMinutes    int                  `json:"breakMinutes"`
	EntryType       domain.TimeEntryType `json:"entryType"`
	WithdrawalHours *decimal.Decimal     `json:"withdrawalHours"`
}

// CalcResult: 单日核算结果，全部使用 decimal 避免浮点漂移
type CalcResult struct {
	TargetHours decimal.Decimal `json:"targetHours"`
	ActualHours decimal.Decimal `json:"actualHours"`
	FlexDelta   decimal.Decimal `json:"flexDelta"`
	GrossHours  decimal.Decimal `json:"grossHours"`
}

// TargetHoursFor 返回某一天的目标工时：周六日 0 小时，周五 6 小时，周一到周四 8 小时
// 这是固定的法定日历规则，不按调用配置
func TargetHoursFor(date time.Time) decimal.Decimal {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return decimal.Zero
	case time.Friday:
		return decimal.NewFromInt(6)
	default:
		return decimal.NewFromInt(8)
	}
}

// Calculate 核算一条工时记录的目标、实际、差额和毛工时
func Calculate(date time.Time, input *TimeInput) CalcResult {
	// 病假、休假、公共假期不参与核算，无论是否填写了时间
	if input.EntryType.IsZeroTarget() {
		return CalcResult{
			TargetHours: decimal.Zero,
			ActualHours: decimal.Zero,
			FlexDelta:   decimal.Zero,
			GrossHours:  decimal.Zero,
		}
	}

	// FZA 提取是纯粹的余额扣减，与打卡时间无关
	if input.EntryType == domain.EntryTypeFZAWithdrawal {
		delta := decimal.Zero
		if input.WithdrawalHours != nil {
			delta = input.WithdrawalHours.Abs().Neg()
		}
		return CalcResult{
			TargetHours: decimal.Zero,
			ActualHours: decimal.Zero,
			FlexDelta:   delta,
			GrossHours:  decimal.Zero,
		}
	}

	target := TargetHoursFor(date)
	gross := grossHours(input.StartTime, input.EndTime)

	// 毛工时不超过 6 小时不扣休息，超过 6 小时扣掉休息时间，下限为 0
	actual := gross
	if gross.GreaterThan(sixHours) {
		actual = gross.Sub(decimal.NewFromInt(int64(input.BreakMinutes)).Div(sixty))
		if actual.IsNegative() {
			actual = decimal.Zero
		}
	}
	actual = actual.Round(2)

	return CalcResult{
		TargetHours: target,
		ActualHours: actual,
		FlexDelta:   actual.Sub(target).Round(2),
		GrossHours:  gross,
	}
}

// ValidateBreakRule 检查休息时长是否满足法定要求：
// 实际工时超过 9 小时需要至少 45 分钟休息，超过 6 小时需要至少 30 分钟
// 这是咨询性检查，不影响核算本身
func ValidateBreakRule(actualHours decimal.Decimal, breakMinutes int) error {
	switch {
	case actualHours.GreaterThan(nineHours) && breakMinutes < 45:
		return fmt.Errorf("实际工时超过 9 小时，休息时间至少需要 45 分钟（当前 %d 分钟）", breakMinutes)
	case actualHours.GreaterThan(sixHours) && breakMinutes < 30:
		return fmt.Errorf("实际工时超过 6 小时，休息时间至少需要 30 分钟（当前 %d 分钟）", breakMinutes)
	default:
		return nil
	}
}

// ValidateDailyLimit 检查实际工时是否超过每日 10 小时的法定上限
func ValidateDailyLimit(actualHours decimal.Decimal) error {
	if actualHours.GreaterThan(tenHours) {
		return fmt.Errorf("实际工时 %s 小时超过了每日 10 小时的上限", actualHours.String())
	}
	return nil
}

// AggregateMonth 汇总一个月的每日差额
// 期初余额等于上个月的期末余额（没有上月记录时为 0），期末 = 期初 + 当月差额之和
// 每次保存或删除工时记录都整月重算，不做增量修补
func AggregateMonth(startingBalance decimal.Decimal, dailyDeltas []decimal.Decimal) (monthDelta decimal.Decimal, endingBalance decimal.Decimal) {
	monthDelta = decimal.Zero
	for _, delta := range dailyDeltas {
		monthDelta = monthDelta.Add(delta)
	}
	monthDelta = monthDelta.Round(2)
	endingBalance = startingBalance.Add(monthDelta).Round(2)
	return monthDelta, endingBalance
}

// grossHours 按 HH:MM 计算毛工时（十进制小时），时间缺失或非法时为 0
func grossHours(start *string, end *string) decimal.Decimal {
	if start == nil || end == nil {
		return decimal.Zero
	}

	startMinutes, err := parseClock(*start)
	if err != nil {
		return decimal.Zero
	}
	endMinutes, err := parseClock(*end)
	if err != nil {
		return decimal.Zero
	}
	if endMinutes <= startMinutes {
		return decimal.Zero
	}

	return decimal.NewFromInt(int64(endMinutes - startMinutes)).Div(sixty).Round(2)
}

// parseClock 把 HH:MM 解析为当天零点起的分钟数
func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
