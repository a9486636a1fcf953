package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

func (h *Handler) CreateHolidayRecord(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)
	role := domain.Role(r.Context().Value(RoleCtxKey).(string))

	var req struct {
		Date        string `json:"date" validate:"required"`
		Name        string `json:"name" validate:"required"`
		CountryCode string `json:"countryCode"`
		RegionCode  string `json:"regionCode"`
		IsPublic    bool   `json:"isPublic"`
	}

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

	record := &domain.HolidayRecord{
		Date:        date,
		Name:        req.Name,
		CountryCode: req.CountryCode,
		RegionCode:  req.RegionCode,
		IsPublic:    req.IsPublic,
	}

	if req.IsPublic {
		// 公共假期属于中心维护的日历，只有排班负责人可以创建
		if role != domain.RolePlanner {
			h.errorResponse(w, r, "只有排班负责人可以创建公共假期")
			return
		}
		if record.CountryCode == "" {
			h.errorResponse(w, r, "公共假期必须指定国家")
			return
		}
	} else {
		ownerID := myInfo.ID
		record.OwnerID = &ownerID
		if record.CountryCode == "" {
			record.CountryCode = myInfo.CountryCode
		}
	}

	if err := h.repository.CreateHolidayRecord(record); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 只失效创建者自己的缓存键；公共假期对其他员工的可见性
	// 依靠 Cache.HolidayExpiration 到期兜底，分类接口在此期间可能读到旧结果
	if err := h.invalidateHolidays(myInfo.ID, date.Year()); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建假期记录成功", record)
}

func (h *Handler) GetMyHolidays(w http.ResponseWriter, r *http.Request) {
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

	holidays, err := h.loadHolidays(myInfo, year)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取假期记录成功", holidays)
}

func (h *Handler) DeleteHolidayRecord(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	recordID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "假期记录ID无效")
		return
	}

	record, err := h.repository.GetHolidayRecordByID(recordID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "假期记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.DeleteHolidayRecord(recordID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if record.OwnerID != nil {
		if err := h.invalidateHolidays(*record.OwnerID, record.Date.Year()); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "删除假期记录成功", nil)
}
