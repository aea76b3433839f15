package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("fr-FR,pt-BR;q=0.8") != "pt" {
		t.Fatalf("expected pt from second preference")
	}
	if DetectLanguage("") != "pt" {
		t.Fatalf("expected default pt")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("pt", "required") != "Obrigatório" {
		t.Fatalf("expected Obrigatório")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to pt translation if exists
	if T("es", "required") != "Obrigatório" {
		t.Fatalf("expected pt fallback for es lang")
	}
	// en has no status labels of its own
	if T("en", "status_Paid") != "Pago" {
		t.Fatalf("expected pt fallback for missing en key")
	}
}

func TestLabel(t *testing.T) {
	if Label("pt", "size", "2 years") != "2 anos" {
		t.Fatalf("expected translated age size")
	}
	if Label("pt", "size", "GG") != "GG" {
		t.Fatalf("expected raw size label")
	}
	if Label("en", "status", "Paid") != "Paid" {
		t.Fatalf("expected English status value as-is")
	}
	if Label("pt", "method", "") != "" {
		t.Fatalf("expected empty label for empty value")
	}
}

func TestMiddleware(t *testing.T) {
	var got string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LangFromContext(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	r.Header.Set("Accept-Language", "pt-BR")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if got != "en" {
		t.Fatalf("expected query parameter to win, got %q", got)
	}
}
