package handler

import (
	"net/http"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/schichtplan-dev/schichtplan/backend/internal/engine"
)

func (h *Handler) ClassifyDay(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	dateParam := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		h.errorResponse(w, r, "日期格式无效，应为 YYYY-MM-DD")
		return
	}

	holidays, err := h.loadHolidays(myInfo, date.Year())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	classifier := engine.NewClassifier(holidays)
	h.successResponse(w, r, "日期分类成功", classifier.Classify(date, myInfo))
}
