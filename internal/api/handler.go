// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tamzrod/anesthesia-monitor/internal/evaluator"
	"github.com/tamzrod/anesthesia-monitor/internal/metrics"
	"github.com/tamzrod/anesthesia-monitor/internal/monitor"
	"github.com/tamzrod/anesthesia-monitor/internal/shell"
)

// Error codes returned in {"code","message"} bodies.
const (
	CodeInvalidNumericInput = "INVALID_NUMERIC_INPUT"
	CodeInvalidChoice       = "INVALID_CHOICE"
	CodeInvalidBody         = "INVALID_BODY"
	CodeNotFound            = "NOT_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
)

// maxBodyBytes bounds POST bodies; a parameter set is well under 1 KiB.
const maxBodyBytes = 16 << 10

// Options configures the router.
type Options struct {
	RatePerSec float64
	Burst      int
}

// Handler serves the evaluator and the monitor's latest unit views.
type Handler struct {
	units *monitor.Registry // may be nil (evaluate-only)
}

// NewHandler creates the API handler.
func NewHandler(units *monitor.Registry) *Handler {
	return &Handler{units: units}
}

// NewRouter builds the full HTTP surface.
func NewRouter(h *Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(routePattern))

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimiter(opts.RatePerSec, opts.Burst))

		r.Post("/evaluate", h.Evaluate)
		r.Get("/units", h.ListUnits)
		r.Get("/units/{unitID}", h.GetUnit)
	})

	return r
}

// EvaluateResponse is the body of a successful evaluation.
type EvaluateResponse struct {
	ID     string           `json:"id"`
	Result evaluator.Result `json:"result"`
}

// Evaluate classifies one parameter set.
// Out-of-range values are a clinical result (200), not a request error.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeRawInput(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidBody, err.Error())
		return
	}

	p, err := shell.Parse(in)
	if err != nil {
		switch {
		case errors.Is(err, shell.ErrInvalidNumericInput):
			writeError(w, http.StatusBadRequest, CodeInvalidNumericInput, err.Error())
		case errors.Is(err, shell.ErrInvalidChoice):
			writeError(w, http.StatusBadRequest, CodeInvalidChoice, err.Error())
		default:
			writeError(w, http.StatusBadRequest, CodeInvalidBody, err.Error())
		}
		return
	}

	res := evaluator.Evaluate(p)
	metrics.RecordEvaluation("api", string(res.Status), findingCodes(res.Alarms), findingCodes(res.Warnings))

	writeJSON(w, http.StatusOK, EvaluateResponse{
		ID:     uuid.NewString(),
		Result: res,
	})
}

// ListUnits returns the latest view of every monitored unit.
func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	views := []monitor.View{}
	if h.units != nil {
		views = h.units.List()
	}
	writeJSON(w, http.StatusOK, map[string]any{"units": views})
}

// GetUnit returns the latest view of one unit.
func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "unitID")

	if h.units != nil {
		if v, ok := h.units.Get(id); ok {
			writeJSON(w, http.StatusOK, v)
			return
		}
	}
	writeError(w, http.StatusNotFound, CodeNotFound, fmt.Sprintf("unit %q not found", id))
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

func findingCodes(fs []evaluator.Finding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, string(f.Code))
	}
	return out
}
