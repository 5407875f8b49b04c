package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
)

// ConsentHandler - юридические документы и журнал согласий клиента
type ConsentHandler struct {
	consentService *service.ConsentService
}

// NewConsentHandler создает обработчик согласий
func NewConsentHandler(consentService *service.ConsentService) *ConsentHandler {
	return &ConsentHandler{consentService: consentService}
}

// petIDQuery читает petId из query (pet_id тоже принимается)
func petIDQuery(c *gin.Context) string {
	if petID := c.Query("petId"); petID != "" {
		return petID
	}
	return c.Query("pet_id")
}

// Documents возвращает список действующих документов
// GET /api/consent/documents
func (h *ConsentHandler) Documents(c *gin.Context) {
	c.JSON(http.StatusOK, h.consentService.Documents())
}

// Document возвращает документ с текстом
// GET /api/consent/documents/:id
func (h *ConsentHandler) Document(c *gin.Context) {
	doc, err := h.consentService.Document(c.Param("id"))
	if err != nil {
		respondError(c, "ConsentHandler", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Status возвращает обязательные, принятые и ожидающие документы
// GET /api/consent/status?petId=
func (h *ConsentHandler) Status(c *gin.Context) {
	status, err := h.consentService.Status(c.Request.Context(), middleware.ClientID(c), petIDQuery(c))
	if err != nil {
		respondError(c, "ConsentHandler", err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Accept фиксирует принятие документа с подписью
// POST /api/consent/accept
func (h *ConsentHandler) Accept(c *gin.Context) {
	var req dto.AcceptConsentRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.consentService.Accept(c.Request.Context(), service.AcceptConsentInput{
		ClientID:        middleware.ClientID(c),
		PetID:           req.PetID,
		DocumentID:      req.DocumentID,
		SignatureMethod: req.Signature.Method,
		SignatureValue:  req.Signature.Value,
		IPAddress:       c.ClientIP(),
		UserAgent:       c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, "ConsentHandler", err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Revoke отзывает согласие. История не удаляется: добавляется запись отзыва.
// POST /api/consent/revoke
func (h *ConsentHandler) Revoke(c *gin.Context) {
	var req dto.RevokeConsentRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.consentService.Revoke(c.Request.Context(), service.RevokeConsentInput{
		ClientID:   middleware.ClientID(c),
		PetID:      req.PetID,
		DocumentID: req.DocumentID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, "ConsentHandler", err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// History возвращает все записи журнала, новые первыми
// GET /api/consent/history?petId=
func (h *ConsentHandler) History(c *gin.Context) {
	records, err := h.consentService.History(c.Request.Context(), middleware.ClientID(c), petIDQuery(c))
	if err != nil {
		respondError(c, "ConsentHandler", err)
		return
	}
	c.JSON(http.StatusOK, records)
}
