package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/shirt-orders/auth"
	"github.com/diewo77/shirt-orders/httpx"
	"github.com/diewo77/shirt-orders/i18n"
	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/diewo77/shirt-orders/internal/services"
	"github.com/diewo77/shirt-orders/validation"
	"github.com/diewo77/shirt-orders/view"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateInputLayout = "2006-01-02"

func adminID(r *http.Request) uint {
	id, _ := auth.AdminIDFromContext(r.Context())
	return id
}

// flash queues a message code; templates translate it on display.
func flash(w http.ResponseWriter, r *http.Request, category, code string) {
	auth.AddFlash(w, r, category, code)
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(r.PathValue("id")), 10, 0)
	return uint(id), err == nil && id > 0
}

// pageNumber reads ?page= in base 10; anything unparseable is page 1.
func pageNumber(q url.Values) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	if err != nil {
		return 1
	}
	return n
}

// serverError logs err and answers 500.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	zap.L().Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	http.Error(w, i18n.T(i18n.LangFromContext(r.Context()), "server_error"), http.StatusInternalServerError)
}

// serviceError maps the service sentinels to HTTP outcomes for HTML routes.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		auth.Deny(w, r)
	case errors.Is(err, services.ErrNotFound):
		http.NotFound(w, r)
	default:
		serverError(w, r, err)
	}
}

// apiError is serviceError for JSON routes.
func apiError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	default:
		zap.L().Error("api request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	t, err := time.ParseInLocation(dateInputLayout, s, view.Location())
	if err != nil {
		return nil, false
	}
	return &t, true
}

// parseDecimal accepts "25", "25.50" and "25,50".
func parseDecimal(s string) (decimal.NullDecimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, true
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

// parseOrderForm reads the order form. Violations holds fields that could not be parsed.
func parseOrderForm(r *http.Request) (models.OrderInput, validation.Violations) {
	v := make(validation.Violations)
	in := models.OrderInput{
		Congregation:  r.FormValue("congregation"),
		BatchNumber:   models.Batch(strings.TrimSpace(r.FormValue("batch_number"))),
		Size:          models.Size(strings.TrimSpace(r.FormValue("size"))),
		PaymentStatus: models.PaymentStatus(strings.TrimSpace(r.FormValue("payment_status"))),
		PaymentMethod: models.PaymentMethod(strings.TrimSpace(r.FormValue("payment_method"))),
		Notes:         r.FormValue("notes"),
	}
	if q := strings.TrimSpace(r.FormValue("quantity")); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			v["quantity"] = "invalid_number"
		}
		in.Quantity = n
	}
	var ok bool
	if in.UnitPrice, ok = parseDecimal(r.FormValue("unit_price")); !ok {
		v["unit_price"] = "invalid_number"
	}
	if in.BatchDate, ok = parseDate(r.FormValue("batch_date")); !ok {
		v["batch_date"] = "invalid_date"
	}
	if in.DeliveryDate, ok = parseDate(r.FormValue("delivery_date")); !ok {
		v["delivery_date"] = "invalid_date"
	}
	return in, v
}

// parseFilter reads listing filters from the query string. Unparseable dates are ignored.
func parseFilter(q url.Values) services.Filter {
	f := services.Filter{
		Congregation:  strings.TrimSpace(q.Get("congregation")),
		Size:          models.Size(q.Get("size")),
		PaymentStatus: models.PaymentStatus(q.Get("status")),
		BatchNumber:   models.Batch(q.Get("batch")),
	}
	f.DateFrom, _ = parseDate(q.Get("date_from"))
	f.DateTo, _ = parseDate(q.Get("date_to"))
	return f
}

// filterQuery re-encodes the active filter for pagination and export links.
func filterQuery(q url.Values) string {
	out := url.Values{}
	for _, k := range []string{"congregation", "size", "status", "batch", "date_from", "date_to"} {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			out.Set(k, v)
		}
	}
	return out.Encode()
}
