// Package transport exposes the dashboards as a read-only JSON API.
package transport

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/naka-gawa/devdash/internal/domain"
	"github.com/naka-gawa/devdash/internal/usecase"
)

// Dashboards is the use case surface the handler serves.
type Dashboards interface {
	PullRequests(ctx context.Context, sel domain.FilterSelection) (*usecase.PRReport, error)
	Health(ctx context.Context, q usecase.HealthQuery) (*usecase.HealthReport, error)
	AcknowledgeAlert(ctx context.Context, id int) error
	DismissAlert(ctx context.Context, id int) error
	DismissCriticalAlerts(ctx context.Context) ([]int, error)
	PRRefresher() *usecase.Refresher
	HealthRefresher() *usecase.Refresher
}

type Handler struct {
	svc      Dashboards
	defaults usecase.HealthQuery
	log      *zap.Logger
}

// NewHandler creates a handler; defaults fills health query parameters the client omits.
func NewHandler(svc Dashboards, defaults usecase.HealthQuery, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, defaults: defaults, log: logger}
}

// NewRouter wires middleware and routes onto a fresh chi router.
func NewRouter(h *Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware, LoggerMiddleware(logger), Recoverer(logger))
	RegisterRoutes(r, h)
	return r
}

func RegisterRoutes(r *chi.Mux, h *Handler) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/prs", withTimeout(h.getPullRequests))
		r.Get("/health", withTimeout(h.getHealth))
		r.Get("/last-updated", h.getLastUpdated)
		r.Post("/alerts/critical/dismiss", withTimeout(h.dismissCriticalAlerts))
		r.Post("/alerts/{id}/ack", withTimeout(h.acknowledgeAlert))
		r.Post("/alerts/{id}/dismiss", withTimeout(h.dismissAlert))
	})
}

func withTimeout(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

func (h *Handler) getPullRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := domain.DefaultSelection()
	if repo := q.Get("repo"); repo != "" {
		sel.Repository = repo
	}
	sel.Authors = domain.NormalizeAuthors(q["author"])
	if raw := q["status"]; len(raw) > 0 {
		sel.Statuses = make([]domain.Status, 0, len(raw))
		for _, s := range raw {
			st, err := domain.ParseStatus(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, BadRequest, err.Error())
				return
			}
			sel.Statuses = append(sel.Statuses, st)
		}
	}
	if dr := q.Get("date_range"); dr != "" {
		sel.DateRange = dr
	}
	// toggle_* applies filter chip clicks on top of the selection above.
	for _, id := range domain.NormalizeAuthors(q["toggle_author"]) {
		sel.ToggleAuthor(id)
	}
	for _, s := range q["toggle_status"] {
		st, err := domain.ParseStatus(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, BadRequest, err.Error())
			return
		}
		sel.ToggleStatus(st)
	}

	report, err := h.svc.PullRequests(r.Context(), sel)
	if err != nil {
		h.handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := h.defaults
	if raw := q.Get("threshold"); raw != "" {
		v, err := usecase.ParseThreshold(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, BadRequest, err.Error())
			return
		}
		query.Threshold = v
	}
	if sev := q.Get("severity"); sev != "" {
		query.Severity = sev
	}
	if env := q.Get("environment"); env != "" {
		query.Environment = env
	}
	if et := q.Get("event_type"); et != "" {
		query.EventType = et
	}
	if raw := q.Get("sort"); raw != "" {
		field, err := usecase.ParseSortField(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, BadRequest, err.Error())
			return
		}
		query.Sort.Field = field
	}
	if raw := q.Get("dir"); raw != "" {
		dir, err := usecase.ParseSortDirection(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, BadRequest, err.Error())
			return
		}
		query.Sort.Direction = dir
	}
	// toggle_sort is a column header click on top of sort/dir.
	if raw := q.Get("toggle_sort"); raw != "" {
		field, err := usecase.ParseSortField(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, BadRequest, err.Error())
			return
		}
		query.Sort = query.Sort.Toggle(field)
	}

	report, err := h.svc.Health(r.Context(), query)
	if err != nil {
		h.handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) getLastUpdated(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"prs":    h.svc.PRRefresher().LastUpdated(),
		"health": h.svc.HealthRefresher().LastUpdated(),
	})
}

func (h *Handler) acknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := alertID(w, r)
	if !ok {
		return
	}
	if err := h.svc.AcknowledgeAlert(r.Context(), id); err != nil {
		h.handleSvcError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dismissAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := alertID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DismissAlert(r.Context(), id); err != nil {
		h.handleSvcError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dismissCriticalAlerts(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.DismissCriticalAlerts(r.Context())
	if err != nil {
		h.handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dismissed": ids})
}

func alertID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, BadRequest, "alert id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleSvcError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrUnknownSortField),
		errors.Is(err, domain.ErrUnknownSeverity),
		errors.Is(err, domain.ErrInvalidThreshold),
		errors.Is(err, domain.ErrUnknownEventType),
		errors.Is(err, domain.ErrUnknownDirection):
		writeError(w, http.StatusBadRequest, BadRequest, err.Error())
	case errors.Is(err, domain.ErrUnknownAlert):
		writeError(w, http.StatusNotFound, NotFound, err.Error())
	default:
		h.log.Error("dashboard request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, InternalError, "internal error")
	}
}
