package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/shirt-orders/auth"
	"github.com/diewo77/shirt-orders/i18n"
	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/diewo77/shirt-orders/view"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, email string) {
	lang := i18n.LangFromContext(r.Context())
	if err := view.RenderStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
		"Error": i18n.T(lang, "login_failed"),
		"Email": email,
	}); err != nil {
		serverError(w, r, err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if _, ok := auth.AdminIDFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		if err := view.Render(w, r, "login.html", nil); err != nil {
			serverError(w, r, err)
		}
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	var admin models.Admin
	if err := h.db.WithContext(r.Context()).Where("email = ?", email).First(&admin).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			serverError(w, r, err)
			return
		}
		zap.L().Info("login failed", zap.String("email", email))
		h.loginFailed(w, r, email)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		zap.L().Info("login failed", zap.String("email", email))
		h.loginFailed(w, r, email)
		return
	}

	if err := auth.CreateSession(w, r, admin.ID); err != nil {
		serverError(w, r, err)
		return
	}
	zap.L().Info("admin logged in", zap.Uint("admin_id", admin.ID))
	flash(w, r, "success", "logged_in")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := auth.ClearSession(w, r); err != nil {
		zap.L().Warn("clear session", zap.Error(err))
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
