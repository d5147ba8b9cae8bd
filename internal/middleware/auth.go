// Package middleware содержит HTTP middleware системы квитанций.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/auth"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionCookieName задаёт имя cookie с токеном администратора.
const SessionCookieName = "admin_session"

const loginPath = "/login"

var publicPaths = map[string]struct{}{
	loginPath:      {},
	"/logo.jpg":    {},
	"/favicon.ico": {},
	"/robots.txt":  {},
	"/sitemap.xml": {},
}

// AdminLookup ищет администратора в хранилище учётных записей.
// Отсутствующий администратор возвращается как (nil, nil).
type AdminLookup interface {
	LookupAdmin(ctx context.Context, id string) (*model.Admin, error)
}

// SessionAdmin содержит данные администратора текущей сессии.
type SessionAdmin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session описывает результат проверки сессии запроса.
type Session struct {
	IsLoggedIn bool
	Admin      SessionAdmin
}

// AuthMiddleware проверяет сессию администратора по подписанному токену в cookie.
type AuthMiddleware struct {
	tokens *auth.TokenService
	admins AdminLookup
	secure bool
	logger *zap.Logger
}

// NewAuthMiddleware создаёт AuthMiddleware. secure включает флаг Secure у cookie.
func NewAuthMiddleware(tokens *auth.TokenService, admins AdminLookup, secure bool, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		tokens: tokens,
		admins: admins,
		secure: secure,
		logger: logger,
	}
}

// Resolve определяет сессию запроса. При checkStore администратор дополнительно
// ищется в хранилище: удалённый администратор или ошибка хранилища означают отсутствие сессии.
func (a *AuthMiddleware) Resolve(r *http.Request, checkStore bool) (*Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return &Session{}, false
	}

	claims, ok := a.tokens.Verify(cookie.Value)
	if !ok {
		return &Session{}, false
	}

	session := &Session{
		IsLoggedIn: true,
		Admin: SessionAdmin{
			ID:    claims.AdminID,
			Email: claims.Email,
			Name:  claims.Name,
		},
	}

	if !checkStore || a.admins == nil {
		return session, true
	}

	admin, err := a.admins.LookupAdmin(r.Context(), claims.AdminID)
	if err != nil {
		a.logger.Error("session admin lookup error", zap.String("admin_id", claims.AdminID), zap.Error(err))
		return &Session{}, false
	}
	if admin == nil {
		return &Session{}, false
	}

	session.Admin.Email = admin.Email
	session.Admin.Name = admin.Name
	return session, true
}

// Middleware защищает API: без действующей сессии отвечает 401 и кладёт сессию в контекст.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := a.Resolve(r, true)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "No autorizado"})
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
	})
}

// PageGate перенаправляет на страницу входа запросы к страницам без действующей сессии.
// API и публичные файлы пропускаются. Хранилище не опрашивается.
func (a *AuthMiddleware) PageGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := a.Resolve(r, false); !ok {
			target := loginPath + "?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IsPublicPath сообщает, доступен ли путь без сессии на уровне страниц.
func IsPublicPath(path string) bool {
	if _, ok := publicPaths[strings.TrimSuffix(path, "/")]; ok {
		return true
	}
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/static/")
}

// SetSessionCookie устанавливает cookie сессии с выданным токеном.
func (a *AuthMiddleware) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет cookie сессии.
func (a *AuthMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromContext извлекает сессию из контекста запроса.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}

// ContextWithSession кладёт сессию в контекст.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}
