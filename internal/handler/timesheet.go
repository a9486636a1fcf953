package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/schichtplan-dev/schichtplan/backend/internal/engine"
	"github.com/shopspring/decimal"
)

type timeEntryRequest struct {
	Date            string           `json:"date" validate:"required"`
	StartTime       *string          `json:"startTime"`
	EndTime         *string          `json:"endTime"`
	BreakMinutes    int              `json:"breakMinutes" validate:"gte=0"`
	EntryType       string           `json:"entryType" validate:"required,oneof=work home_office sick vacation public_holiday team_meeting training fza_withdrawal"`
	WithdrawalHours *decimal.Decimal `json:"withdrawalHours"`
}

// calcWithWarnings 核算一条工时记录并收集咨询性的劳动法检查结果
func calcWithWarnings(date time.Time, req *timeEntryRequest) (engine.CalcResult, []string) {
	input := &engine.TimeInput{
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		BreakMinutes:    req.BreakMinutes,
		EntryType:       domain.TimeEntryType(req.EntryType),
		WithdrawalHours: req.WithdrawalHours,
	}
	result := engine.Calculate(date, input)

	warnings := make([]string, 0)
	if err := engine.ValidateBreakRule(result.ActualHours, req.BreakMinutes); err != nil {
		warnings = append(warnings, err.Error())
	}
	if err := engine.ValidateDailyLimit(result.ActualHours); err != nil {
		warnings = append(warnings, err.Error())
	}

	return result, warnings
}

// flexSummaryStore 是月度汇总重算需要的最小存储能力
type flexSummaryStore interface {
	GetMonthlyFlexSummary(workerID int64, year int, month int) (*domain.MonthlyFlexSummary, error)
	GetMonthFlexDeltas(workerID int64, year int, month int) ([]decimal.Decimal, error)
	UpsertMonthlyFlexSummary(summary *domain.MonthlyFlexSummary) error
	GetYearlyFlexSummaries(workerID int64, year int) ([]*domain.MonthlyFlexSummary, error)
}

// recomputeMonth 整月重算某个员工的弹性工时汇总并写回存储
// 期初余额取上个月的期末余额，没有上月记录时为 0
func recomputeMonth(store flexSummaryStore, workerID int64, year int, month int) (*domain.MonthlyFlexSummary, error) {
	starting := decimal.Zero
	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}

	prev, err := store.GetMonthlyFlexSummary(workerID, prevYear, prevMonth)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		starting = prev.EndingBalance
	}

	deltas, err := store.GetMonthFlexDeltas(workerID, year, month)
	if err != nil {
		return nil, err
	}

	monthDelta, ending := engine.AggregateMonth(starting, deltas)
	summary := &domain.MonthlyFlexSummary{
		WorkerID:        workerID,
		Year:            year,
		Month:           month,
		StartingBalance: starting,
		MonthDelta:      monthDelta,
		EndingBalance:   ending,
	}

	if err := store.UpsertMonthlyFlexSummary(summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// recomputeFromMonth 从指定月份起逐月重算当年剩余有记录的月份
// 补录历史月份后，后续各月的期初余额要跟着滚动，否则会出现断层
func recomputeFromMonth(store flexSummaryStore, workerID int64, year int, month int) (*domain.MonthlyFlexSummary, error) {
	summary, err := recomputeMonth(store, workerID, year, month)
	if err != nil {
		return nil, err
	}

	existing, err := store.GetYearlyFlexSummaries(workerID, year)
	if err != nil {
		return nil, err
	}
	last := month
	for _, s := range existing {
		if s.Month > last {
			last = s.Month
		}
	}
	for m := month + 1; m <= last; m++ {
		if _, err := recomputeMonth(store, workerID, year, m); err != nil {
			return nil, err
		}
	}

	return summary, nil
}

func (h *Handler) CalculateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var req timeEntryRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.errorResponse(w, r, "日期格式无效，应为 YYYY-MM-DD")
		return
	}

	result, warnings := calcWithWarnings(date, &req)

	h.successResponse(w, r, "工时核算成功", struct {
		engine.CalcResult
		Warnings []string `json:"warnings"`
	}{result, warnings})
}

func (h *Handler) SaveTimeEntry(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var req timeEntryRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.errorResponse(w, r, "日期格式无效，应为 YYYY-MM-DD")
		return
	}

	existing, err := h.repository.GetDailyTimeEntry(myInfo.ID, date)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}
	if existing != nil && existing.Locked {
		h.errorResponse(w, r, "该日期的工时记录已锁定，无法修改")
		return
	}

	result, warnings := calcWithWarnings(date, &req)

	entry := &domain.DailyTimeEntry{
		WorkerID:        myInfo.ID,
		Date:            date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		BreakMinutes:    req.BreakMinutes,
		TargetHours:     result.TargetHours,
		ActualHours:     result.ActualHours,
		FlexDelta:       result.FlexDelta,
		EntryType:       domain.TimeEntryType(req.EntryType),
		WithdrawalHours: req.WithdrawalHours,
	}

	if err := h.repository.UpsertDailyTimeEntry(entry); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	summary, err := recomputeFromMonth(h.repository, myInfo.ID, date.Year(), int(date.Month()))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存工时记录成功", struct {
		Entry    *domain.DailyTimeEntry     `json:"entry"`
		Summary  *domain.MonthlyFlexSummary `json:"summary"`
		Warnings []string                   `json:"warnings"`
	}{entry, summary, warnings})
}

func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	dateParam := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		h.errorResponse(w, r, "日期格式无效，应为 YYYY-MM-DD")
		return
	}

	existing, err := h.repository.GetDailyTimeEntry(myInfo.ID, date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该日期没有工时记录")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if existing.Locked {
		h.errorResponse(w, r, "该日期的工时记录已锁定，无法删除")
		return
	}

	if err := h.repository.DeleteDailyTimeEntry(myInfo.ID, date); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	summary, err := recomputeFromMonth(h.repository, myInfo.ID, date.Year(), int(date.Month()))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除工时记录成功", summary)
}

func (h *Handler) GetTimeEntries(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	// 不带参数时默认查当前月
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if fromParam := r.URL.Query().Get("from"); fromParam != "" {
		parsed, err := time.Parse("2006-01-02", fromParam)
		if err != nil {
			h.errorResponse(w, r, "开始日期格式无效，应为 YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if toParam := r.URL.Query().Get("to"); toParam != "" {
		parsed, err := time.Parse("2006-01-02", toParam)
		if err != nil {
			h.errorResponse(w, r, "结束日期格式无效，应为 YYYY-MM-DD")
			return
		}
		to = parsed
	}

	entries, err := h.repository.GetDailyTimeEntries(myInfo.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工时记录成功", entries)
}

func (h *Handler) GetFlexSummaries(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	year := time.Now().Year()
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		parsed, err := strconv.Atoi(yearParam)
		if err != nil {
			h.errorResponse(w, r, "年份无效")
			return
		}
		year = parsed
	}

	summaries, err := h.repository.GetYearlyFlexSummaries(myInfo.ID, year)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 结转上限只提示不拦截，清零规则由人事流程决定
	warnings := make([]string, 0)
	for _, summary := range summaries {
		if summary.EndingBalance.GreaterThan(myInfo.CarryoverCeiling) {
			warnings = append(warnings, fmt.Sprintf("%d 月期末余额 %s 小时超过了 %s 小时的结转上限", summary.Month, summary.EndingBalance.String(), myInfo.CarryoverCeiling.String()))
		}
	}

	h.successResponse(w, r, "获取弹性工时汇总成功", struct {
		Summaries        []*domain.MonthlyFlexSummary `json:"summaries"`
		CarryoverCeiling decimal.Decimal              `json:"carryoverCeiling"`
		Warnings         []string                     `json:"warnings"`
	}{summaries, myInfo.CarryoverCeiling, warnings})
}
