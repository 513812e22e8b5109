package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TestimonialCarousel/internal/app"
	"github.com/TestimonialCarousel/internal/carousel"
	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/timing"
	"github.com/TestimonialCarousel/pkg/config"
)

// CarouselAPI is the part of the carousel service exposed over HTTP.
type CarouselAPI interface {
	Snapshot(ctx context.Context) (carousel.Snapshot, error)
	Page(ctx context.Context, n int) ([]domain.Item, int, error)
	Next(ctx context.Context) (app.Outcome, error)
	Previous(ctx context.Context) (app.Outcome, error)
	Goto(ctx context.Context, n int) (app.Outcome, error)
	HandleKey(ctx context.Context, key string) (app.Outcome, error)
	HandleSwipe(ctx context.Context, startX, endX float64) (app.Outcome, error)
	SetAutoPlay(ctx context.Context, enabled bool) (carousel.Snapshot, error)
	SetHovered(ctx context.Context, hovered bool) (carousel.Snapshot, error)
	SetVisible(ctx context.Context, visible bool) (carousel.Snapshot, error)
	AddItem(ctx context.Context, item domain.Item) (domain.Item, error)
	RemoveItem(ctx context.Context, id string) error
}

func NewHTTPServer(cfg *config.Config, api CarouselAPI) *http.Server {
	return &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: NewRouter(api),
	}
}

// NewRouter builds the control routes plus /health and /metrics.
func NewRouter(api CarouselAPI) *mux.Router {
	h := &handler{api: api}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprintf(w, "OK"); err != nil {
			// Log error but don't fail health check
			slog.Debug("Failed to write health response", "error", err)
		}
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	r.HandleFunc("/carousel", h.snapshot).Methods(http.MethodGet)

	c := r.PathPrefix("/carousel").Subrouter()
	c.HandleFunc("/pages/{n:-?[0-9]+}", h.page).Methods(http.MethodGet)
	c.HandleFunc("/next", h.outcome(h.api.Next)).Methods(http.MethodPost)
	c.HandleFunc("/previous", h.outcome(h.api.Previous)).Methods(http.MethodPost)
	c.HandleFunc("/goto/{n:-?[0-9]+}", h.gotoPage).Methods(http.MethodPost)
	c.HandleFunc("/keys/{key}", h.key).Methods(http.MethodPost)
	c.HandleFunc("/swipe", h.swipe).Methods(http.MethodPost)
	c.HandleFunc("/autoplay", h.toggle("enabled", h.api.SetAutoPlay)).Methods(http.MethodPut)
	c.HandleFunc("/hover", h.toggle("hovered", h.api.SetHovered)).Methods(http.MethodPost)
	c.HandleFunc("/visibility", h.toggle("visible", h.api.SetVisible)).Methods(http.MethodPost)
	c.HandleFunc("/items", h.addItem).Methods(http.MethodPost)
	c.HandleFunc("/items/{id}", h.removeItem).Methods(http.MethodDelete)

	return r
}

type handler struct {
	api CarouselAPI
}

type pageResponse struct {
	Page  int           `json:"page"`
	Items []domain.Item `json:"items"`
}

type swipeRequest struct {
	StartX *float64 `json:"startX"`
	EndX   *float64 `json:"endX"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.api.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *handler) page(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(mux.Vars(r)["n"]) // Route pattern guarantees digits
	items, page, err := h.api.Page(r.Context(), n)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, pageResponse{Page: page, Items: items})
}

func (h *handler) outcome(fn func(context.Context) (app.Outcome, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context())
		writeOutcome(w, out, err)
	}
}

func (h *handler) gotoPage(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(mux.Vars(r)["n"])
	out, err := h.api.Goto(r.Context(), n)
	writeOutcome(w, out, err)
}

func (h *handler) key(w http.ResponseWriter, r *http.Request) {
	out, err := h.api.HandleKey(r.Context(), mux.Vars(r)["key"])
	writeOutcome(w, out, err)
}

func (h *handler) swipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StartX == nil || req.EndX == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"startX\": number, \"endX\": number}"})
		return
	}
	out, err := h.api.HandleSwipe(r.Context(), *req.StartX, *req.EndX)
	writeOutcome(w, out, err)
}

func (h *handler) toggle(field string, fn func(context.Context, bool) (carousel.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]*bool
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body[field] == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("body must be {%q: bool}", field)})
			return
		}
		snap, err := fn(r.Context(), *body[field])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid item: " + err.Error()})
		return
	}
	added, err := h.api.AddItem(r.Context(), item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (h *handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.api.RemoveItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeOutcome(w http.ResponseWriter, out app.Outcome, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if !out.Accepted {
		status = http.StatusConflict
	}
	writeJSON(w, status, out)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, app.ErrUnknownKey), errors.Is(err, app.ErrInvalidItem):
		status = http.StatusBadRequest
	case errors.Is(err, app.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrDuplicateItem):
		status = http.StatusConflict
	case errors.Is(err, timing.ErrEngineStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}
