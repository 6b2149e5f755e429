package handler

import (
	"github.com/go-chi/chi/v5"
	"net/http"
)

// SetupJobRoutes : static segments (decrypt, cleanup, printers) win over {id} in chi
func SetupJobRoutes(r chi.Router, basePath string, h *JobHandler, printers *PrinterHandler, printerAuth func(http.Handler) http.Handler) {
	r.Route(basePath, func(r chi.Router) {
		r.Post("/", h.SubmitJob)
		r.Get("/", h.ListJobs)
		r.Get("/decrypt/{jobId}", h.DecryptDocument)
		r.Post("/printers/token", printers.Login)

		r.Get("/{id}", h.GetJob)
		r.Post("/{id}/view", h.ViewJob)
		r.Post("/{id}/print-token", h.CreatePrintToken)
		r.Post("/{id}/release", h.ReleaseJob)

		r.With(printerAuth).Get("/cleanup/expired", h.ListExpired)
		r.With(printerAuth).Post("/{id}/complete", h.CompleteJob)
		r.With(printerAuth).Get("/{id}/views", h.ListJobViews)
	})
}
