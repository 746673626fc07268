package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "b3dash/internal/errors"
	"b3dash/internal/exporter"
	"b3dash/internal/services"
)

// DataHandler serves downloads of the cleaned trade table.
type DataHandler struct {
	service      *services.DashboardService
	excel        *exporter.ExcelExporter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler.
func NewDataHandler(service *services.DashboardService, excel *exporter.ExcelExporter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		excel:        excel,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/export.csv", h.ExportCSV)
	r.Get("/export.xlsx", h.ExportExcel)

	return r
}

// ExportCSV handles GET /api/data/export.csv
func (h *DataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trades_cleaned.csv"`)

	if err := exporter.WriteCSV(w, h.service.Dataset()); err != nil {
		// Headers are already on the wire; log rather than rewrite.
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("error", err.Error()))
	}
}

// ExportExcel handles GET /api/data/export.xlsx
func (h *DataHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="trades_cleaned.xlsx"`)

	if err := h.excel.Write(w, h.service.Dataset()); err != nil {
		h.logger.ErrorContext(r.Context(), "excel export failed",
			slog.String("error", err.Error()))
	}
}
