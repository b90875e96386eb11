package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/samhotchkiss/biztask/internal/store"
	"github.com/samhotchkiss/biztask/internal/workspace"
)

// InsightHandler serves the read-only summaries.
type InsightHandler struct {
	Registry *workspace.Registry
	// Now picks the default calendar month. Defaults to time.Now.
	Now func() time.Time
}

// Dashboard handles GET /api/dashboard
func (h *InsightHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Store.Dashboard())
}

// KPI handles GET /api/stats/kpi
func (h *InsightHandler) KPI(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Store.KPI())
}

// Calendar handles GET /api/calendar?month=YYYY-MM&department_id=
func (h *InsightHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		now := time.Now
		if h.Now != nil {
			now = h.Now
		}
		month = now().Format(store.CalendarMonthLayout)
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	cal, err := ws.Store.Calendar(month, strings.TrimSpace(r.URL.Query().Get("department_id")))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, cal)
}
