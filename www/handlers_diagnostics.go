package www

import (
	"net/http"
)

func (h *Handlers) apiDiagnostics(w http.ResponseWriter, r *http.Request) {
	cfg := h.engine.AppConfig()
	dbOK, msgOK := h.engine.Healthy(r.Context())

	h.jsonOK(w, map[string]any{
		"database": map[string]any{
			"driver": h.engine.DB().Driver(),
			"ok":     dbOK,
		},
		"evaluator": map[string]any{
			"backend": cfg.Evaluator.Backend,
		},
		"dispatch": map[string]any{
			"task_timeout":    cfg.Dispatch.TaskTimeout.String(),
			"max_concurrency": cfg.Dispatch.MaxConcurrency,
		},
		"messaging": map[string]any{
			"backend":   cfg.Messaging.Backend,
			"topic":     cfg.Messaging.ReportsTopic,
			"connected": msgOK,
		},
	})
}
