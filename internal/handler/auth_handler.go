package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/helper"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth/manager"
)

// AuthHandler обрабатывает вход и выход администраторов и клиентов
type AuthHandler struct {
	authService   *service.AuthService
	clientService *service.ClientService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, clientService *service.ClientService) *AuthHandler {
	return &AuthHandler{authService: authService, clientService: clientService}
}

// AdminLogin обрабатывает вход администратора
// POST /api/admin/auth/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, session, err := h.authService.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}
	h.authService.AdminTokens().SetTokenCookie(c.Writer, session)
	log.Printf("[AuthHandler] admin %s logged in from %s", admin.Email, c.ClientIP())

	c.JSON(http.StatusOK, dto.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      helper.ToAdminDTO(admin),
	})
}

// AdminMe возвращает текущего администратора
// GET /api/admin/auth/me
func (h *AuthHandler) AdminMe(c *gin.Context) {
	admin, err := h.authService.GetAdmin(c.Request.Context(), middleware.AdminEmail(c))
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}
	c.JSON(http.StatusOK, helper.ToAdminDTO(admin))
}

// AdminLogout закрывает сессию администратора
// POST /api/admin/auth/logout
func (h *AuthHandler) AdminLogout(c *gin.Context) {
	h.logout(c, h.authService.AdminTokens())
}

// ClientLogin обрабатывает вход клиента в портал
// POST /api/portal/auth/login
func (h *AuthHandler) ClientLogin(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	client, session, err := h.authService.ClientLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}
	h.authService.ClientTokens().SetTokenCookie(c.Writer, session)
	log.Printf("[AuthHandler] client %s logged in", client.ID)

	c.JSON(http.StatusOK, dto.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      client,
	})
}

// ClientMe возвращает профиль текущего клиента
// GET /api/portal/auth/me
func (h *AuthHandler) ClientMe(c *gin.Context) {
	client, err := h.clientService.Get(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// ClientLogout закрывает сессию клиента
// POST /api/portal/auth/logout
func (h *AuthHandler) ClientLogout(c *gin.Context) {
	h.logout(c, h.authService.ClientTokens())
}

// ChangePassword меняет пароль клиента и завершает остальные его сессии
// POST /api/portal/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.authService.ChangeClientPassword(
		c.Request.Context(),
		middleware.ClientID(c),
		c.GetString(middleware.ClientSIDKey),
		req.CurrentPassword,
		req.NewPassword,
	)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// logout отзывает сессию из cookie (если она ещё действует) и всегда очищает cookie
func (h *AuthHandler) logout(c *gin.Context, tokens *manager.TokenManager) {
	if token, err := tokens.GetTokenFromCookie(c.Request); err == nil {
		if claims, err := tokens.ValidateToken(c.Request.Context(), token); err == nil {
			if err := h.authService.Logout(c.Request.Context(), tokens, claims.SessionID); err != nil {
				log.Printf("[AuthHandler] failed to revoke %s session %s: %v", tokens.Role(), claims.SessionID, err)
			}
		}
	}
	tokens.ClearTokenCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
