package handler

import (
	"net/http"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)
	h.successResponse(w, r, "获取个人信息成功", myInfo)
}
