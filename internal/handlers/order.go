package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/diewo77/shirt-orders/httpx"
	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/diewo77/shirt-orders/internal/services"
	"github.com/diewo77/shirt-orders/validation"
	"github.com/diewo77/shirt-orders/view"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orders *services.OrderService
	query  *services.QueryService
}

func NewOrderHandler(orders *services.OrderService, query *services.QueryService) *OrderHandler {
	return &OrderHandler{orders: orders, query: query}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := parseFilter(q)
	page, err := h.query.List(r.Context(), adminID(r), filter, pageNumber(q))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	congregations, err := h.query.DistinctValues(r.Context(), adminID(r), services.FieldCongregation)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if err := view.Render(w, r, "orders/index.html", map[string]any{
		"Page":          page,
		"Query":         q,
		"FilterQuery":   template.URL(filterQuery(q)),
		"Filtered":      !filter.IsEmpty(),
		"Congregations": congregations,
	}); err != nil {
		serverError(w, r, err)
	}
}

// ListJSON serves GET /api/orders with the same filters as List.
func (h *OrderHandler) ListJSON(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.query.List(r.Context(), adminID(r), parseFilter(q), pageNumber(q))
	if err != nil {
		apiError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders":   page.Items,
		"page":     page.Page,
		"per_page": page.PerPage,
		"total":    page.Total,
		"pages":    page.Pages,
	})
}

func (h *OrderHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id uint, in models.OrderInput, errs validation.Violations) {
	action := "/orders"
	if id != 0 {
		action = "/orders/" + strconv.FormatUint(uint64(id), 10)
	}
	price := ""
	if in.UnitPrice.Valid {
		price = in.UnitPrice.Decimal.StringFixed(2)
	}
	if err := view.RenderStatus(w, r, status, "orders/form.html", map[string]any{
		"ID":        id,
		"Action":    action,
		"Input":     in,
		"UnitPrice": price,
		"Errors":    errs,
	}); err != nil {
		serverError(w, r, err)
	}
}

func (h *OrderHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, 0, models.OrderInput{
		Quantity:      1,
		UnitPrice:     decimal.NewNullDecimal(h.orders.DefaultUnitPrice()),
		PaymentStatus: models.PaymentPending,
	}, nil)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, v := parseOrderForm(r)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, 0, in, mergeViolations(in, v))
		return
	}
	if _, err := h.orders.Create(r.Context(), adminID(r), in); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, 0, in, verr.Violations)
			return
		}
		serviceError(w, r, err)
		return
	}
	flash(w, r, "success", "order_created")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (h *OrderHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	o, err := h.orders.Get(r.Context(), adminID(r), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, id, models.InputFromOrder(o), nil)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	in, v := parseOrderForm(r)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, id, in, mergeViolations(in, v))
		return
	}
	if _, err := h.orders.Update(r.Context(), adminID(r), id, in); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, id, in, verr.Violations)
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			flash(w, r, "danger", "order_not_found")
			http.Redirect(w, r, "/orders", http.StatusSeeOther)
			return
		}
		serviceError(w, r, err)
		return
	}
	flash(w, r, "success", "order_updated")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.orders.Delete(r.Context(), adminID(r), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			flash(w, r, "danger", "order_not_found")
			http.Redirect(w, r, "/orders", http.StatusSeeOther)
			return
		}
		serviceError(w, r, err)
		return
	}
	flash(w, r, "success", "order_deleted")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

// mergeViolations adds model-level violations to form parse errors; parse errors win.
func mergeViolations(in models.OrderInput, parsed validation.Violations) validation.Violations {
	out := in.Validate()
	if !in.UnitPrice.Valid {
		delete(out, "unit_price")
	}
	for k, code := range parsed {
		out[k] = code
	}
	return out
}
