package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/shirt-orders/internal/export"
	"github.com/diewo77/shirt-orders/internal/importer"
	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/diewo77/shirt-orders/internal/services"
	"go.uber.org/zap"
)

const maxUploadSize = 10 << 20

// TransferHandler serves order downloads and workbook uploads.
type TransferHandler struct {
	query    *services.QueryService
	exporter *export.Exporter
	importer *importer.Importer
	now      func() time.Time
}

func NewTransferHandler(query *services.QueryService, exporter *export.Exporter, im *importer.Importer) *TransferHandler {
	return &TransferHandler{query: query, exporter: exporter, importer: im, now: time.Now}
}

func (h *TransferHandler) orders(w http.ResponseWriter, r *http.Request) ([]models.Order, bool) {
	orders, err := h.query.All(r.Context(), adminID(r), parseFilter(r.URL.Query()))
	if err != nil {
		serviceError(w, r, err)
		return nil, false
	}
	return orders, true
}

func (h *TransferHandler) attach(w http.ResponseWriter, contentType, ext string, body *bytes.Buffer) {
	name := export.Filename(h.now().In(h.exporter.Location), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}

// ExportCSV serves GET /orders/export.csv honoring the listing filters.
func (h *TransferHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	orders, ok := h.orders(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.exporter.WriteCSV(&buf, orders); err != nil {
		serverError(w, r, err)
		return
	}
	zap.L().Info("orders exported", zap.String("format", "csv"), zap.Int("count", len(orders)))
	h.attach(w, "text/csv; charset=utf-8", "csv", &buf)
}

// ExportXLSX serves GET /orders/export.xlsx honoring the listing filters.
func (h *TransferHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	orders, ok := h.orders(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.exporter.WriteXLSX(&buf, orders); err != nil {
		serverError(w, r, err)
		return
	}
	zap.L().Info("orders exported", zap.String("format", "xlsx"), zap.Int("count", len(orders)))
	h.attach(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", &buf)
}

// Import serves POST /orders/import (multipart field "file").
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		flash(w, r, "danger", "import_failed")
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}
	defer file.Close()
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		flash(w, r, "danger", "import_failed")
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	res, err := h.importer.Import(r.Context(), adminID(r), file)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			serviceError(w, r, err)
			return
		}
		zap.L().Warn("workbook import rejected", zap.String("file", header.Filename), zap.Error(err))
		flash(w, r, "danger", "import_failed")
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}
	zap.L().Info("workbook uploaded", zap.String("file", header.Filename), zap.Int("orders", res.Created))
	flash(w, r, "success", "imported")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}
