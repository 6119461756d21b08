package handler

import (
	"net/http"
	"strconv"

	"pocketbook/internal/report"
	"pocketbook/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportHandler exposes balance and period reports over the engine.
type ReportHandler struct {
	Engine *report.Engine
}

func NewReportHandler(engine *report.Engine) *ReportHandler {
	return &ReportHandler{Engine: engine}
}

func (h *ReportHandler) GetBalance(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	bal, err := h.Engine.Balance(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"income":  bal.Income.StringFixed(2),
		"expense": bal.Expense.StringFixed(2),
		"net":     bal.Net.StringFixed(2),
	})
}

// reportRow is the wire shape of one report line; totals are fixed 2dp.
type reportRow struct {
	Category string `json:"category"`
	Kind     string `json:"type"`
	Total    string `json:"total"`
}

func toReportRows(rows []report.Row) []reportRow {
	out := make([]reportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, reportRow{
			Category: r.Category,
			Kind:     r.Kind,
			Total:    r.Total.StringFixed(2),
		})
	}
	return out
}

// queryInt reads a required integer query parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid "+name)
		return 0, false
	}
	return v, true
}

// GetMonthReport handles ?year=&month=&type=&timezone=. The timezone is
// the caller's IANA zone name; month boundaries are resolved in that
// zone, so a late-evening local transaction lands in its local month.
func (h *ReportHandler) GetMonthReport(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	month, ok := queryInt(c, "month")
	if !ok {
		return
	}

	w, err := report.MonthWindow(year, month, c.Query("timezone"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	rows, err := h.Engine.PeriodReport(user.ID, w, c.Query("type"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"rows": toReportRows(rows),
	})
}

// GetDayReport handles ?year=&month=&day=&type=&timezone=.
func (h *ReportHandler) GetDayReport(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	month, ok := queryInt(c, "month")
	if !ok {
		return
	}
	day, ok := queryInt(c, "day")
	if !ok {
		return
	}

	w, err := report.DayWindow(year, month, day, c.Query("timezone"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	rows, err := h.Engine.PeriodReport(user.ID, w, c.Query("type"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"rows": toReportRows(rows),
	})
}
