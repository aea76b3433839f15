// Package i18n holds the UI strings in Portuguese (default) and English.
package i18n

import (
	"context"
	"net/http"
	"strings"
)

const DefaultLang = "pt"

type langKey struct{}

var messages = map[string]map[string]string{
	"pt": {
		"app_title":       "Pedidos de Camisetas",
		"nav_dashboard":   "Painel",
		"nav_orders":      "Pedidos",
		"nav_new_order":   "Novo pedido",
		"nav_reports":     "Relatórios",
		"nav_logout":      "Sair",
		"login":           "Entrar",
		"email":           "E-mail",
		"password":        "Senha",
		"login_failed":    "E-mail ou senha inválidos.",
		"login_required":  "Você precisa estar logado para acessar esta página.",
		"logged_in":       "Login realizado com sucesso!",
		"logged_out":      "Você saiu do sistema.",
		"congregation":    "Congregação",
		"batch":           "Lote",
		"batch_date":      "Data do lote",
		"delivery_date":   "Data de entrega",
		"size":            "Tamanho",
		"quantity":        "Quantidade",
		"unit_price":      "Preço unitário",
		"total_amount":    "Valor total",
		"payment_status":  "Status do pagamento",
		"payment_method":  "Método de pagamento",
		"order_date":      "Data do pedido",
		"payment_date":    "Data do pagamento",
		"notes":           "Observações",
		"actions":         "Ações",
		"all":             "Todos",
		"none":            "Nenhum",
		"filter":          "Filtrar",
		"clear":           "Limpar",
		"date_from":       "De",
		"date_to":         "Até",
		"export_csv":      "Exportar CSV",
		"export_xlsx":     "Exportar Excel",
		"import":          "Importar planilha",
		"import_file":     "Arquivo .xlsx",
		"imported":        "Pedidos importados",
		"import_failed":   "Falha ao importar planilha",
		"edit":            "Editar",
		"delete":          "Excluir",
		"delete_confirm":  "Tem certeza que deseja excluir este pedido?",
		"save":            "Salvar",
		"cancel":          "Cancelar",
		"new_order":       "Novo pedido",
		"edit_order":      "Editar pedido",
		"order_created":   "Pedido adicionado com sucesso!",
		"order_updated":   "Pedido atualizado com sucesso!",
		"order_deleted":   "Pedido excluído com sucesso!",
		"order_not_found": "Pedido não encontrado.",
		"no_orders":       "Nenhum pedido encontrado.",
		"previous":        "Anterior",
		"next":            "Próxima",
		"view_all":        "Ver todos",
		"total_orders":    "Total de pedidos",
		"total_quantity":  "Camisetas",
		"total_revenue":   "Recebido",
		"pending_amount":  "A receber",
		"paid_orders":     "Pedidos pagos",
		"payment_rate":    "Taxa de pagamento",
		"by_size":         "Por tamanho",
		"by_congregation": "Por congregação",
		"by_batch":        "Por lote",
		"recent_orders":   "Pedidos recentes",
		"unbatched":       "Sem lote",
		"orders":          "Pedidos",
		"amount":          "Valor",
		"mean_quantity":   "Quantidade média",
		"median_quantity": "Quantidade mediana",
		"max_quantity":    "Maior pedido",
		"mean_total":      "Valor médio",
		"server_error":    "Erro interno. Tente novamente.",

		"status_Pending":       "Pendente",
		"status_Paid":          "Pago",
		"method_Cash":          "Dinheiro",
		"method_Bank Transfer": "Transferência",
		"method_Credit Card":   "Cartão de crédito",
		"method_Debit Card":    "Cartão de débito",
		"size_2 years":         "2 anos",
		"size_4 years":         "4 anos",
		"size_6 years":         "6 anos",
		"size_8 years":         "8 anos",
		"size_10 years":        "10 anos",
		"batch_1st batch":      "1º lote",
		"batch_2nd batch":      "2º lote",
		"batch_3rd batch":      "3º lote",
		"batch_4th batch":      "4º lote",
		"batch_5th batch":      "5º lote",
		"batch_6th batch":      "6º lote",

		"required":       "Obrigatório",
		"invalid_choice": "Opção inválida",
		"too_short":      "Muito curto",
		"too_long":       "Muito longo",
		"out_of_range":   "Fora do intervalo permitido",
		"invalid_email":  "E-mail inválido",
		"invalid_date":   "Data inválida",
		"invalid_number": "Número inválido",
		"invalid":        "Inválido",
	},
	"en": {
		"app_title":       "T-Shirt Orders",
		"nav_dashboard":   "Dashboard",
		"nav_orders":      "Orders",
		"nav_new_order":   "New order",
		"nav_reports":     "Reports",
		"nav_logout":      "Log out",
		"login":           "Log in",
		"email":           "Email",
		"password":        "Password",
		"login_failed":    "Invalid email or password.",
		"login_required":  "You need to log in to access this page.",
		"logged_in":       "Logged in successfully!",
		"logged_out":      "You have been logged out.",
		"congregation":    "Congregation",
		"batch":           "Batch",
		"batch_date":      "Batch date",
		"delivery_date":   "Delivery date",
		"size":            "Size",
		"quantity":        "Quantity",
		"unit_price":      "Unit price",
		"total_amount":    "Total amount",
		"payment_status":  "Payment status",
		"payment_method":  "Payment method",
		"order_date":      "Order date",
		"payment_date":    "Payment date",
		"notes":           "Notes",
		"actions":         "Actions",
		"all":             "All",
		"none":            "None",
		"filter":          "Filter",
		"clear":           "Clear",
		"date_from":       "From",
		"date_to":         "To",
		"export_csv":      "Export CSV",
		"export_xlsx":     "Export Excel",
		"import":          "Import workbook",
		"import_file":     ".xlsx file",
		"imported":        "Orders imported",
		"import_failed":   "Workbook import failed",
		"edit":            "Edit",
		"delete":          "Delete",
		"delete_confirm":  "Are you sure you want to delete this order?",
		"save":            "Save",
		"cancel":          "Cancel",
		"new_order":       "New order",
		"edit_order":      "Edit order",
		"order_created":   "Order added successfully!",
		"order_updated":   "Order updated successfully!",
		"order_deleted":   "Order deleted successfully!",
		"order_not_found": "Order not found.",
		"no_orders":       "No orders found.",
		"previous":        "Previous",
		"next":            "Next",
		"view_all":        "View all",
		"total_orders":    "Total orders",
		"total_quantity":  "T-shirts",
		"total_revenue":   "Received",
		"pending_amount":  "Outstanding",
		"paid_orders":     "Paid orders",
		"payment_rate":    "Payment rate",
		"by_size":         "By size",
		"by_congregation": "By congregation",
		"by_batch":        "By batch",
		"recent_orders":   "Recent orders",
		"unbatched":       "No batch",
		"orders":          "Orders",
		"amount":          "Amount",
		"mean_quantity":   "Mean quantity",
		"median_quantity": "Median quantity",
		"max_quantity":    "Largest order",
		"mean_total":      "Mean order total",
		"server_error":    "Internal error. Please try again.",
		"required":        "Required",
		"invalid_choice":  "Invalid choice",
		"too_short":       "Too short",
		"too_long":        "Too long",
		"out_of_range":    "Out of range",
		"invalid_email":   "Invalid email",
		"invalid_date":    "Invalid date",
		"invalid_number":  "Invalid number",
		"invalid":         "Invalid",
	},
}

// T returns the message for code in lang, falling back to Portuguese and then to code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Label translates an enum value such as a size or status; untranslated values are shown as-is.
func Label(lang, kind, value string) string {
	if value == "" {
		return ""
	}
	m, ok := messages[lang]
	if !ok {
		m = messages[DefaultLang]
	}
	if s, ok := m[kind+"_"+value]; ok {
		return s
	}
	return value
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		base := strings.SplitN(tag, "-", 2)[0]
		if _, ok := messages[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}

// Middleware resolves the language from the "lang" query parameter or Accept-Language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		if _, ok := messages[lang]; !ok {
			lang = DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
	})
}
