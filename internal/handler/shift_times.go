package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/schichtplan-dev/schichtplan/backend/internal/engine"
	"github.com/schichtplan-dev/schichtplan/backend/internal/utils"
)

// isoWeekday 把 Go 的周日起始星期转换为周一为 1 的表示
func isoWeekday(date time.Time) int32 {
	wd := int32(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func (h *Handler) ResolveShiftTime(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var req struct {
		TeamID       *int64 `json:"teamID"`
		ShiftType    string `json:"shiftType" validate:"required,oneof=normal early late weekend"`
		Date         string `json:"date" validate:"required"`
		CountryCode  string `json:"countryCode"`
		RegionCode   string `json:"regionCode"`
		DefinitionID *int64 `json:"definitionID"`
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

	// 请求中没有指定地区信息时用员工本人的
	countryCode := req.CountryCode
	if countryCode == "" {
		countryCode = myInfo.CountryCode
	}
	regionCode := req.RegionCode
	if regionCode == "" {
		regionCode = myInfo.RegionCode
	}

	definitions, err := h.loadDefinitions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	holidays, err := h.loadHolidays(myInfo, date.Year())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	resolver := engine.NewResolver(definitions, engine.NewClassifier(holidays))
	resolution := resolver.Resolve(&engine.ResolveRequest{
		TeamID:       req.TeamID,
		CountryCode:  countryCode,
		RegionCode:   regionCode,
		ShiftType:    domain.ShiftType(req.ShiftType),
		Weekday:      isoWeekday(date),
		Date:         date,
		DefinitionID: req.DefinitionID,
	})

	h.successResponse(w, r, "班次时间解析成功", resolution)
}

func (h *Handler) GetAllShiftTimeDefinitions(w http.ResponseWriter, r *http.Request) {
	definitions, err := h.repository.GetAllShiftTimeDefinitions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有班次时间定义成功", definitions)
}

func (h *Handler) CreateShiftTimeDefinition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftType    string   `json:"shiftType" validate:"required,oneof=normal early late weekend"`
		TeamID       *int64   `json:"teamID"`
		TeamIDs      []int64  `json:"teamIDs"`
		RegionCode   string   `json:"regionCode"`
		CountryCodes []string `json:"countryCodes"`
		Weekdays     []int32  `json:"weekdays" validate:"omitempty,dive,gte=1,lte=7"`
		StartTime    string   `json:"startTime" validate:"required"`
		EndTime      string   `json:"endTime" validate:"required"`
		Description  string   `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	def := &domain.ShiftTimeDefinition{
		ShiftType:    domain.ShiftType(req.ShiftType),
		TeamID:       req.TeamID,
		TeamIDs:      req.TeamIDs,
		RegionCode:   req.RegionCode,
		CountryCodes: req.CountryCodes,
		Weekdays:     req.Weekdays,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Description:  req.Description,
	}

	if err := utils.ValidateShiftTimeDefinition(def); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftTimeDefinition(def); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.invalidateDefinitions(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次时间定义成功", def)
}

func (h *Handler) GetShiftTimeDefinition(w http.ResponseWriter, r *http.Request) {
	def := r.Context().Value(ShiftTimeDefinitionCtx).(*domain.ShiftTimeDefinition)
	h.successResponse(w, r, "获取班次时间定义成功", def)
}

func (h *Handler) UpdateShiftTimeDefinition(w http.ResponseWriter, r *http.Request) {
	def := r.Context().Value(ShiftTimeDefinitionCtx).(*domain.ShiftTimeDefinition)

	var req struct {
		TeamID       *int64    `json:"teamID"`
		TeamIDs      *[]int64  `json:"teamIDs"`
		RegionCode   *string   `json:"regionCode"`
		CountryCodes *[]string `json:"countryCodes"`
		Weekdays     *[]int32  `json:"weekdays" validate:"omitempty,dive,gte=1,lte=7"`
		StartTime    *string   `json:"startTime"`
		EndTime      *string   `json:"endTime"`
		Description  *string   `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.TeamID != nil {
		def.TeamID = req.TeamID
	}
	if req.TeamIDs != nil {
		def.TeamIDs = *req.TeamIDs
	}
	if req.RegionCode != nil {
		def.RegionCode = *req.RegionCode
	}
	if req.CountryCodes != nil {
		def.CountryCodes = *req.CountryCodes
	}
	if req.Weekdays != nil {
		def.Weekdays = *req.Weekdays
	}
	if req.StartTime != nil {
		def.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		def.EndTime = *req.EndTime
	}
	if req.Description != nil {
		def.Description = *req.Description
	}

	if err := utils.ValidateShiftTimeDefinition(def); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftTimeDefinition(def); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.versionConflict(w, r)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.invalidateDefinitions(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次时间定义成功", def)
}

func (h *Handler) DeleteShiftTimeDefinition(w http.ResponseWriter, r *http.Request) {
	def := r.Context().Value(ShiftTimeDefinitionCtx).(*domain.ShiftTimeDefinition)

	if err := h.repository.DeleteShiftTimeDefinition(def.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.invalidateDefinitions(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次时间定义成功", nil)
}
