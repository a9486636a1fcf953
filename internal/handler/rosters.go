package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/schichtplan-dev/schichtplan/backend/internal/engine"
	"github.com/schichtplan-dev/schichtplan/backend/internal/utils"
)

func (h *Handler) CreateRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string  `json:"name" validate:"required"`
		ShiftTypeLabel   string  `json:"shiftTypeLabel" validate:"required"`
		CycleLengthWeeks int     `json:"cycleLengthWeeks" validate:"required,gte=1"`
		StartDate        string  `json:"startDate" validate:"required"`
		EndDate          *string `json:"endDate"`
		DefaultShiftType *string `json:"defaultShiftType"`
		PartnershipID    int64   `json:"partnershipID" validate:"required"`
		Assignments      []struct {
			CycleWeek int     `json:"cycleWeek" validate:"required,gte=1"`
			WorkerID  *int64  `json:"workerID"`
			TeamID    int64   `json:"teamID" validate:"required"`
			ShiftType *string `json:"shiftType"`
		} `json:"assignments" validate:"omitempty,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "开始日期格式无效，应为 YYYY-MM-DD")
		return
	}

	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			h.errorResponse(w, r, "结束日期格式无效，应为 YYYY-MM-DD")
			return
		}
		endDate = &parsed
	}

	if _, err := h.repository.GetPartnershipByID(req.PartnershipID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "团队组合不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	roster := &domain.Roster{
		Name:             req.Name,
		ShiftTypeLabel:   req.ShiftTypeLabel,
		CycleLengthWeeks: req.CycleLengthWeeks,
		StartDate:        startDate,
		EndDate:          endDate,
		DefaultShiftType: req.DefaultShiftType,
		PartnershipID:    req.PartnershipID,
		Status:           domain.RosterStatusDraft,
	}

	assignments := make([]*domain.WeekAssignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		assignments = append(assignments, &domain.WeekAssignment{
			CycleWeek: a.CycleWeek,
			WorkerID:  a.WorkerID,
			TeamID:    a.TeamID,
			ShiftType: a.ShiftType,
		})
	}

	if err := utils.ValidateRoster(roster, assignments); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateRoster(roster, assignments); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建值班表成功", roster)
}

func (h *Handler) GetAllRosters(w http.ResponseWriter, r *http.Request) {
	rosters, err := h.repository.GetAllRosters()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有值班表成功", rosters)
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)

	assignments, err := h.repository.GetWeekAssignments(roster.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取值班表成功", struct {
		*domain.Roster
		Assignments []*domain.WeekAssignment `json:"assignments"`
	}{roster, assignments})
}

func (h *Handler) DeleteRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)

	if roster.Status == domain.RosterStatusImplemented {
		h.errorResponse(w, r, "值班表已实施，无法删除")
		return
	}

	if err := h.repository.DeleteRoster(roster.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除值班表成功", nil)
}

func (h *Handler) GetRosterApprovals(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)

	approvals, err := h.repository.GetRosterApprovals(roster.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取审批记录成功", approvals)
}

// partnershipManagers 收集团队组合中所有团队的经理
func (h *Handler) partnershipManagers(partnershipID int64) ([]*domain.Worker, error) {
	partnership, err := h.repository.GetPartnershipByID(partnershipID)
	if err != nil {
		return nil, err
	}

	managers := make([]*domain.Worker, 0)
	seen := make(map[int64]bool)
	for _, teamID := range partnership.TeamIDs {
		workers, err := h.repository.GetWorkersByTeam(teamID)
		if err != nil {
			return nil, err
		}
		for _, worker := range workers {
			if worker.Role != domain.RoleManager || seen[worker.ID] {
				continue
			}
			seen[worker.ID] = true
			managers = append(managers, worker)
		}
	}

	return managers, nil
}

// checkApprovals 检查是否所有经理都已审批通过，没有审批记录的经理视为未通过
func (h *Handler) checkApprovals(roster *domain.Roster) (bool, []string, error) {
	approvals, err := h.repository.GetRosterApprovals(roster.ID)
	if err != nil {
		return false, nil, err
	}
	managers, err := h.partnershipManagers(roster.PartnershipID)
	if err != nil {
		return false, nil, err
	}

	recorded := make(map[int64]*domain.RosterApproval, len(approvals))
	for _, approval := range approvals {
		recorded[approval.ManagerID] = approval
	}

	full := make([]*domain.RosterApproval, 0, len(managers))
	for _, manager := range managers {
		if approval, exists := recorded[manager.ID]; exists {
			full = append(full, approval)
		} else {
			full = append(full, &domain.RosterApproval{RosterID: roster.ID, ManagerID: manager.ID})
		}
	}

	ok, outstanding := engine.ValidateApprovals(full, managers)
	return ok, outstanding, nil
}

func (h *Handler) SubmitRosterApproval(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	if roster.Status == domain.RosterStatusImplemented {
		h.errorResponse(w, r, "值班表已实施，无法再审批")
		return
	}

	var req struct {
		Approved *bool `json:"approved" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	approval := &domain.RosterApproval{
		RosterID:  roster.ID,
		ManagerID: myInfo.ID,
		Approved:  *req.Approved,
	}

	if err := h.repository.UpsertRosterApproval(approval); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 所有经理都通过后把值班表从草稿推进到已审批
	if roster.Status == domain.RosterStatusDraft {
		allApproved, _, err := h.checkApprovals(roster)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if allApproved {
			if err := h.repository.UpdateRosterStatus(r.Context(), roster.ID, domain.RosterStatusApproval); err != nil {
				h.internalServerError(w, r, err)
				return
			}
		}
	}

	h.successResponse(w, r, "提交审批成功", approval)
}

func (h *Handler) GenerateRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	allApproved, outstanding, err := h.checkApprovals(roster)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !allApproved {
		// 通知发起人哪些经理还没有审批通过
		if err := h.publishNotification(&domain.NotificationMessage{
			Type: "approvals_outstanding",
			To:   myInfo.Email,
			Data: domain.ApprovalsOutstandingData{
				RosterName:          roster.Name,
				OutstandingManagers: outstanding,
			},
		}); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.errorResponse(w, r, fmt.Sprintf("还有经理未审批通过：%s", strings.Join(outstanding, "、")))
		return
	}

	partnership, err := h.repository.GetPartnershipByID(roster.PartnershipID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	members := make([]*engine.Member, 0)
	for _, teamID := range partnership.TeamIDs {
		workers, err := h.repository.GetWorkersByTeam(teamID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if len(workers) == 0 {
			slog.Warn("团队没有在职成员，生成时跳过", "teamID", teamID, "rosterID", roster.ID)
			continue
		}
		for _, worker := range workers {
			members = append(members, &engine.Member{Worker: worker, TeamID: teamID})
		}
	}
	if len(members) == 0 {
		h.errorResponse(w, r, "团队组合中没有任何在职成员")
		return
	}

	assignments, err := h.repository.GetWeekAssignments(roster.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	definitions, err := h.loadDefinitions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 解析器判断周末资格时只需要成员所在国家的公共假期
	endDate := roster.EffectiveEndDate()
	holidays := make([]*domain.HolidayRecord, 0)
	countries := make(map[string]bool)
	for _, member := range members {
		if countries[member.Worker.CountryCode] {
			continue
		}
		countries[member.Worker.CountryCode] = true
		countryHolidays, err := h.repository.GetPublicHolidays(member.Worker.CountryCode, roster.StartDate, endDate)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		holidays = append(holidays, countryHolidays...)
	}

	resolver := engine.NewResolver(definitions, engine.NewClassifier(holidays))
	generator := engine.NewGenerator(resolver, h.repository)

	created, err := generator.Generate(r.Context(), roster, assignments, members, myInfo.ID)
	if err != nil {
		h.logInternalServerError(r, err)
		h.errorResponse(w, r, fmt.Sprintf("生成中断，已提交 %d 条排班条目，重跑会跳过已有条目", created))
		return
	}

	if err := h.publishNotification(&domain.NotificationMessage{
		Type: "roster_implemented",
		To:   myInfo.Email,
		Data: domain.RosterImplementedData{
			RosterName:     roster.Name,
			EntriesCreated: created,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成值班表成功", struct {
		EntriesCreated int `json:"entriesCreated"`
	}{created})
}
