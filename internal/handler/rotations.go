package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/schichtplan-dev/schichtplan/backend/internal/engine"
	"github.com/schichtplan-dev/schichtplan/backend/internal/utils"
)

// 一次展开允许的最大天数，防止误传日期范围拖垮数据库
const maxExpandDays = 366

func (h *Handler) CreateRotationPattern(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string                           `json:"name" validate:"required"`
		Kind      string                           `json:"kind" validate:"required,oneof=fixed_days repeating_sequence weekly_pattern custom"`
		FixedDays *domain.FixedDaysPattern         `json:"fixedDays"`
		Sequence  *domain.RepeatingSequencePattern `json:"sequence"`
		Weekly    *domain.WeeklyPattern            `json:"weekly"`
		Custom    *domain.CustomPattern            `json:"custom"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	pattern := &domain.RotationPattern{
		Name:      req.Name,
		Kind:      domain.RotationPatternKind(req.Kind),
		FixedDays: req.FixedDays,
		Sequence:  req.Sequence,
		Weekly:    req.Weekly,
		Custom:    req.Custom,
	}

	if err := utils.ValidateRotationPattern(pattern); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateRotationPattern(pattern); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建轮班模式成功", pattern)
}

func (h *Handler) GetAllRotationPatterns(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.repository.GetAllRotationPatterns()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有轮班模式成功", patterns)
}

func (h *Handler) GetRotationPattern(w http.ResponseWriter, r *http.Request) {
	pattern := r.Context().Value(RotationPatternCtx).(*domain.RotationPattern)
	h.successResponse(w, r, "获取轮班模式成功", pattern)
}

func (h *Handler) DeleteRotationPattern(w http.ResponseWriter, r *http.Request) {
	pattern := r.Context().Value(RotationPatternCtx).(*domain.RotationPattern)

	if err := h.repository.DeleteRotationPattern(pattern.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除轮班模式成功", nil)
}

type expandRequest struct {
	WorkerID     int64  `json:"workerID" validate:"required"`
	TeamID       int64  `json:"teamID" validate:"required"`
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate" validate:"required"`
	SkipWeekends bool   `json:"skipWeekends"`
	SkipHolidays bool   `json:"skipHolidays"`
}

// expandDates 解析并校验展开请求的日期范围，返回逐日的日期列表
func (h *Handler) expandDates(req *expandRequest) ([]time.Time, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("开始日期格式无效，应为 YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("结束日期格式无效，应为 YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("结束日期不能早于开始日期")
	}

	dates := make([]time.Time, 0)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if len(dates) >= maxExpandDays {
			return nil, fmt.Errorf("日期范围不能超过 %d 天", maxExpandDays)
		}
		dates = append(dates, d)
	}

	return dates, nil
}

// expandEntries 把模式展开为排班条目，需要跳过假期时带上该员工可见的假期集合
func (h *Handler) expandEntries(pattern *domain.RotationPattern, worker *domain.Worker, teamID int64, dates []time.Time, req *expandRequest) ([]*domain.ScheduleEntry, error) {
	opts := engine.ExpandOptions{
		SkipWeekends: req.SkipWeekends,
		SkipHolidays: req.SkipHolidays,
	}

	if req.SkipHolidays {
		holidays, err := h.loadHolidaysForDates(worker, dates)
		if err != nil {
			return nil, err
		}
		opts.HolidaySet = make(map[string]bool)
		for _, holiday := range holidays {
			opts.HolidaySet[engine.DateKey(holiday.Date)] = true
		}
	}

	return engine.Expand(pattern, worker.ID, teamID, dates, opts), nil
}

func (h *Handler) ExpandRotationPattern(w http.ResponseWriter, r *http.Request) {
	pattern := r.Context().Value(RotationPatternCtx).(*domain.RotationPattern)

	var req expandRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	dates, err := h.expandDates(&req)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	worker, err := h.repository.GetWorkerByID(req.WorkerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	entries, err := h.expandEntries(pattern, worker, req.TeamID, dates, &req)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "轮班模式展开成功", entries)
}

func (h *Handler) ApplyRotationPattern(w http.ResponseWriter, r *http.Request) {
	pattern := r.Context().Value(RotationPatternCtx).(*domain.RotationPattern)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var req expandRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	dates, err := h.expandDates(&req)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	worker, err := h.repository.GetWorkerByID(req.WorkerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	entries, err := h.expandEntries(pattern, worker, req.TeamID, dates, &req)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 工作日条目补上解析出的时间窗口，休息日条目保持原样
	definitions, err := h.loadDefinitions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	// 日期范围可以跨年，判定周末班次的节假日资格时两年的假期都要在场
	holidays, err := h.loadHolidaysForDates(worker, dates)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	resolver := engine.NewResolver(definitions, engine.NewClassifier(holidays))

	for _, entry := range entries {
		entry.CreatedBy = myInfo.ID
		if entry.ShiftType == nil {
			continue
		}
		resolution := resolver.Resolve(&engine.ResolveRequest{
			TeamID:      &req.TeamID,
			CountryCode: worker.CountryCode,
			RegionCode:  worker.RegionCode,
			ShiftType:   *entry.ShiftType,
			Weekday:     isoWeekday(entry.Date),
			Date:        entry.Date,
		})
		entry.DefinitionID = resolution.DefinitionID
		entry.Note = fmt.Sprintf("%s - %s %s", resolution.StartTime, resolution.EndTime, resolution.Description)
	}

	// 分批提交，某一批失败时之前已提交的批次不回滚，重跑依靠冲突键做幂等
	created := 0
	for start := 0; start < len(entries); start += engine.WriteBatchSize {
		end := min(start+engine.WriteBatchSize, len(entries))
		if err := h.repository.InsertScheduleEntries(r.Context(), entries[start:end]); err != nil {
			h.logInternalServerError(r, err)
			h.errorResponse(w, r, fmt.Sprintf("写入中断，已提交 %d 条排班条目，请重试", created))
			return
		}
		created += end - start
	}

	h.successResponse(w, r, "应用轮班模式成功", struct {
		EntriesCreated int `json:"entriesCreated"`
	}{created})
}
