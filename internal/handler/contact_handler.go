package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/helper"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
)

// exportLimit - верхняя граница строк в выгрузке обращений
const exportLimit = 10000

// ContactHandler - форма обратной связи и её разбор в админке
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler создает обработчик обращений
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit принимает обращение с сайта
// POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(c, &req) {
		return
	}
	locale := req.Locale
	if locale == "" {
		locale = middleware.LocaleFromContext(c)
	}
	submission, err := h.contactService.Submit(c.Request.Context(), service.SubmitContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Locale:  locale,
	})
	if err != nil {
		respondError(c, "ContactHandler", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": submission.ID})
}

// List возвращает страницу обращений
// GET /api/admin/contacts
func (h *ContactHandler) List(c *gin.Context) {
	page, perPage, offset := helper.ParsePagination(c)
	submissions, total, err := h.contactService.List(c.Request.Context(), perPage, offset)
	if err != nil {
		respondError(c, "ContactHandler", err)
		return
	}
	c.JSON(http.StatusOK, helper.Paginated(submissions, total, page, perPage))
}

// Get возвращает обращение
// GET /api/admin/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	submission, err := h.contactService.Get(c.Request.Context(), c.GetString(idKey))
	if err != nil {
		respondError(c, "ContactHandler", err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// UpdateStatus меняет статус обращения
// PUT /api/admin/contacts/:id/status
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var req dto.ContactStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	submission, err := h.contactService.UpdateStatus(c.Request.Context(), c.GetString(idKey), req.Status)
	if err != nil {
		respondError(c, "ContactHandler", err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// Reply отправляет ответ по email. Если письмо не ушло, ответ не сохраняется.
// POST /api/admin/contacts/:id/reply
func (h *ContactHandler) Reply(c *gin.Context) {
	var req dto.ContactReplyRequest
	if !bindJSON(c, &req) {
		return
	}
	submission, err := h.contactService.Reply(c.Request.Context(), c.GetString(idKey), req.Message, middleware.AdminEmail(c))
	if err != nil {
		respondError(c, "ContactHandler", err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// Delete удаляет обращение
// DELETE /api/admin/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contactService.Delete(c.Request.Context(), c.GetString(idKey)); err != nil {
		respondError(c, "ContactHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact submission deleted"})
}

// Export выгружает обращения в CSV или Excel
// GET /api/admin/contacts/export?format=csv|xlsx
func (h *ContactHandler) Export(c *gin.Context) {
	submissions, _, err := h.contactService.List(c.Request.Context(), exportLimit, 0)
	if err != nil {
		respondError(c, "ContactHandler", err)
		return
	}
	table := helper.Table{
		Sheet:   "Contacts",
		Headers: []string{"id", "created_at", "name", "email", "phone", "subject", "message", "locale", "status", "replies"},
	}
	for _, s := range submissions {
		table.Rows = append(table.Rows, []interface{}{
			s.ID,
			s.CreatedAt.UTC().Format(time.RFC3339),
			s.Name,
			s.Email,
			s.Phone,
			s.Subject,
			strings.TrimSpace(s.Message),
			s.Locale,
			s.Status,
			len(s.Replies),
		})
	}
	filename := fmt.Sprintf("contacts_%s", time.Now().UTC().Format("2006-01-02"))
	helper.SendExport(c, c.DefaultQuery("format", helper.FormatCSV), filename, []helper.Table{table})
}
