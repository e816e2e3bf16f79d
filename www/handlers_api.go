package www

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hwstatus/dispatch"
	"hwstatus/engine"
)

// apiListAvailability serves the availability of every inventory item as
// [{"provider","name","availability"}], in inventory order.
func (h *Handlers) apiListAvailability(w http.ResponseWriter, r *http.Request) {
	report, ok := h.runReport(w, r)
	if !ok {
		return
	}
	h.jsonOK(w, report.Results)
}

func (h *Handlers) runReport(w http.ResponseWriter, r *http.Request) (*engine.Report, bool) {
	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}
	report, err := h.engine.ListAvailability(ctx)
	if err != nil {
		h.jsonError(w, err.Error(), statusForError(err))
		return nil, false
	}
	w.Header().Set("X-Report-ID", report.ID)
	return report, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, dispatch.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	case dispatch.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errors.Is(err, dispatch.ErrEvaluation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) apiHealthCheck(w http.ResponseWriter, r *http.Request) {
	dbOK, msgOK := h.engine.Healthy(r.Context())
	status := "ok"
	code := http.StatusOK
	if !dbOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	h.jsonStatus(w, code, map[string]any{
		"status":    status,
		"database":  dbOK,
		"messaging": msgOK,
	})
}

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	h.jsonStatus(w, http.StatusOK, data)
}

func (h *Handlers) jsonStatus(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("www: encode response: %v", err)
	}
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	h.jsonStatus(w, code, map[string]string{"error": msg})
}
