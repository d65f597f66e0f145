package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"modreview-dashboard/internal/analytics"
	"modreview-dashboard/internal/export"
	"modreview-dashboard/internal/logging"
	"modreview-dashboard/internal/metrics"
	"modreview-dashboard/internal/models"
	"modreview-dashboard/internal/repository"
	"modreview-dashboard/internal/services"
)

// Dashboards is what the handler needs from the dashboard service.
type Dashboards interface {
	Users(ctx context.Context) ([]string, error)
	Sessions(ctx context.Context, username string) ([]string, error)
	Build(ctx context.Context, sel analytics.Selection) (*models.Dashboard, error)
	Export(ctx context.Context, sel analytics.Selection) ([]models.VideoRow, error)
}

type DashboardHandler struct {
	dashboards Dashboards
}

func NewDashboardHandler(dashboards Dashboards) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

type dashboardQuery struct {
	User    string `query:"user" validate:"max=200"`
	Session string `query:"session" validate:"max=200"`
	Start   string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End     string `query:"end" validate:"omitempty,datetime=2006-01-02"`
}

type usersResponse struct {
	Users []string `json:"users"`
	State string   `json:"state"`
}

type sessionsResponse struct {
	User     string   `json:"user"`
	Sessions []string `json:"sessions"`
	State    string   `json:"state"`
}

// Users lists the selectable users. A failed lookup still answers 200 with
// only ALL so the selection surface keeps working.
func (h *DashboardHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.dashboards.Users(r.Context())
	resp := usersResponse{Users: users, State: models.SectionOK}
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("user list unavailable")
		resp.State = models.SectionUnavailable
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DashboardHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	sessions, err := h.dashboards.Sessions(r.Context(), username)
	resp := sessionsResponse{User: username, Sessions: sessions, State: models.SectionOK}
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("user", username).Msg("session list unavailable")
		resp.State = models.SectionUnavailable
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}

	d, err := h.dashboards.Build(r.Context(), sel)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Export streams the filtered video table as CSV. There is nothing to
// download when the selection is empty.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}

	rows, err := h.dashboards.Export(r.Context(), sel)
	if errors.Is(err, services.ErrNoData) {
		writeJSON(w, http.StatusNotFound, errorResp("NO_DATA", "No video data for this selection", r))
		return
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(sel)+`"`)
	w.WriteHeader(http.StatusOK)
	if err := export.WriteVideos(w, rows); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("csv export interrupted")
		return
	}
	metrics.ExportRows.Add(float64(len(rows)))
}

func (h *DashboardHandler) selection(w http.ResponseWriter, r *http.Request) (analytics.Selection, bool) {
	q := r.URL.Query()
	req := dashboardQuery{
		User:    q.Get("user"),
		Session: q.Get("session"),
		Start:   q.Get("start"),
		End:     q.Get("end"),
	}

	if fields := validateQuery(&req); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid dashboard selection", fields, r))
		return analytics.Selection{}, false
	}

	// both already validated
	start, _ := analytics.ParseDate(req.Start)
	end, _ := analytics.ParseDate(req.End)
	return analytics.NewSelection(req.User, req.Session, start, end), true
}

func (h *DashboardHandler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrStoreUnavailable) {
		logging.Ctx(r.Context()).Error().Err(err).Msg("activity store unavailable")
		writeJSON(w, http.StatusServiceUnavailable, errorResp("STORE_UNAVAILABLE", "The activity database could not be reached", r))
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Msg("dashboard request failed")
	writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Something went wrong", r))
}
