package middleware

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth/manager"
)

// Ключи контекста gin, которые выставляет middleware
const (
	AdminEmailKey  = "admin_email"
	AdminSIDKey    = "admin_sid"
	ClientIDKey    = "client_id"
	ClientEmailKey = "client_email"
	ClientSIDKey   = "client_sid"
)

// AuthMiddleware проверяет сессии администратора и клиента
type AuthMiddleware struct {
	adminTokens  *manager.TokenManager
	clientTokens *manager.TokenManager
}

// NewAuthMiddleware создает middleware для двух независимых типов сессий
func NewAuthMiddleware(adminTokens, clientTokens *manager.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{adminTokens: adminTokens, clientTokens: clientTokens}
}

// tokenFromRequest берёт токен из cookie роли, а при её отсутствии из заголовка Bearer
func tokenFromRequest(c *gin.Context, tokens *manager.TokenManager) (string, bool) {
	if token, err := tokens.GetTokenFromCookie(c.Request); err == nil {
		return token, true
	}
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}

func (m *AuthMiddleware) authenticate(c *gin.Context, tokens *manager.TokenManager) (*auth.SessionClaims, error) {
	token, ok := tokenFromRequest(c, tokens)
	if !ok {
		return nil, manager.NewTokenError(manager.MissingToken, "session token missing", nil)
	}
	return tokens.ValidateToken(c.Request.Context(), token)
}

// RequireAdmin пропускает только запросы с действующей сессией администратора
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.authenticate(c, m.adminTokens)
		if err != nil {
			deny(c, err, "admin")
			return
		}
		c.Set(AdminEmailKey, claims.Email)
		c.Set(AdminSIDKey, claims.SessionID)
		c.Next()
	}
}

// RequireClient пропускает только запросы с действующей сессией клиента
func (m *AuthMiddleware) RequireClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.authenticate(c, m.clientTokens)
		if err != nil {
			deny(c, err, "portal")
			return
		}
		setClient(c, claims)
		c.Next()
	}
}

// OptionalClient выставляет клиента в контекст, если сессия есть, и никогда не прерывает запрос.
// Используется публичными формами, которые ведут себя иначе для вошедшего клиента.
func (m *AuthMiddleware) OptionalClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := m.authenticate(c, m.clientTokens); err == nil {
			setClient(c, claims)
		}
		c.Next()
	}
}

func setClient(c *gin.Context, claims *auth.SessionClaims) {
	c.Set(ClientIDKey, claims.Subject)
	c.Set(ClientEmailKey, claims.Email)
	c.Set(ClientSIDKey, claims.SessionID)
}

// deny отвечает 401 для API и перенаправляет на страницу входа для HTML-страниц
func deny(c *gin.Context, err error, area string) {
	var tokenErr *manager.TokenError
	if errors.As(err, &tokenErr) && tokenErr.Type == manager.StoreError {
		log.Printf("[AuthMiddleware] session store unavailable: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if wantsHTML(c) {
		locale := LocaleFromContext(c)
		target := "/" + locale + "/" + area + "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

func wantsHTML(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// AdminEmail возвращает email администратора текущей сессии
func AdminEmail(c *gin.Context) string {
	return c.GetString(AdminEmailKey)
}

// ClientID возвращает id клиента текущей сессии или пустую строку
func ClientID(c *gin.Context) string {
	return c.GetString(ClientIDKey)
}
