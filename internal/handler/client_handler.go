package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
)

// idKey - ключ контекста, куда ExtractIDParam кладёт проверенный :id
const idKey = "resource_id"

// ClientHandler - управление клиентами в админке
type ClientHandler struct {
	clientService     *service.ClientService
	petService        *service.PetService
	consentService    *service.ConsentService
	onboardingService *service.OnboardingService
}

// NewClientHandler создает обработчик клиентов
func NewClientHandler(
	clientService *service.ClientService,
	petService *service.PetService,
	consentService *service.ConsentService,
	onboardingService *service.OnboardingService,
) *ClientHandler {
	return &ClientHandler{
		clientService:     clientService,
		petService:        petService,
		consentService:    consentService,
		onboardingService: onboardingService,
	}
}

// List возвращает всех клиентов
// GET /api/admin/clients
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Create создаёт клиента и отправляет приветственное письмо
// POST /api/admin/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.Create(c.Request.Context(), service.CreateClientInput{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		PreferredLocale: req.PreferredLocale,
		Notes:           req.Notes,
		Password:        req.Password,
	})
	if err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// Get возвращает клиента
// GET /api/admin/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clientService.Get(c.Request.Context(), c.GetString(idKey))
	if err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Update изменяет клиента
// PUT /api/admin/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var req dto.UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.Update(c.Request.Context(), c.GetString(idKey), service.UpdateClientInput{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		PreferredLocale: req.PreferredLocale,
		Status:          req.Status,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Delete удаляет клиента вместе с питомцами и завершает его сессии
// DELETE /api/admin/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.clientService.Delete(c.Request.Context(), c.GetString(idKey)); err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}

// ListPets возвращает питомцев клиента
// GET /api/admin/clients/:id/pets
func (h *ClientHandler) ListPets(c *gin.Context) {
	pets, err := h.clientService.ListPets(c.Request.Context(), c.GetString(idKey))
	if err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, pets)
}

// CreatePet добавляет питомца клиенту
// POST /api/admin/clients/:id/pets
func (h *ClientHandler) CreatePet(c *gin.Context) {
	var req dto.PetRequest
	if !bindJSON(c, &req) {
		return
	}
	pet, err := h.petService.Create(c.Request.Context(), c.GetString(idKey), toPetInput(req))
	if err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	c.JSON(http.StatusCreated, pet)
}

// Consents возвращает собственный статус клиента и полную историю, включая согласия по питомцам
// GET /api/admin/clients/:id/consents
func (h *ClientHandler) Consents(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.GetString(idKey)
	if _, err := h.clientService.Get(ctx, clientID); err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	status, err := h.consentService.Status(ctx, clientID, "")
	if err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	history, err := h.consentService.History(ctx, clientID, "")
	if err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "history": history})
}

// Onboarding возвращает прогресс онбординга по всем питомцам клиента
// GET /api/admin/clients/:id/onboarding
func (h *ClientHandler) Onboarding(c *gin.Context) {
	records, err := h.onboardingService.ListForClient(c.Request.Context(), c.GetString(idKey))
	if err != nil {
		respondError(c, "ClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, records)
}
