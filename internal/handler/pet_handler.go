package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
)

// PetHandler - питомцы в админке и в портале клиента
type PetHandler struct {
	petService         *service.PetService
	appointmentService *service.AppointmentService
}

// NewPetHandler создает обработчик питомцев
func NewPetHandler(petService *service.PetService, appointmentService *service.AppointmentService) *PetHandler {
	return &PetHandler{petService: petService, appointmentService: appointmentService}
}

func toPetInput(req dto.PetRequest) service.PetInput {
	return service.PetInput{
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Sex:         req.Sex,
		DateOfBirth: req.DateOfBirth,
		WeightKg:    req.WeightKg,
		Microchip:   req.Microchip,
		Status:      req.Status,
		Notes:       req.Notes,
	}
}

// Get возвращает питомца
// GET /api/admin/pets/:id
func (h *PetHandler) Get(c *gin.Context) {
	pet, err := h.petService.Get(c.Request.Context(), c.GetString(idKey))
	if err != nil {
		respondError(c, "PetHandler", err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

// Update изменяет питомца, включая статус
// PUT /api/admin/pets/:id
func (h *PetHandler) Update(c *gin.Context) {
	var req dto.PetRequest
	if !bindJSON(c, &req) {
		return
	}
	pet, err := h.petService.Update(c.Request.Context(), c.GetString(idKey), toPetInput(req))
	if err != nil {
		respondError(c, "PetHandler", err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

// Delete удаляет питомца
// DELETE /api/admin/pets/:id
func (h *PetHandler) Delete(c *gin.Context) {
	if err := h.petService.Delete(c.Request.Context(), c.GetString(idKey)); err != nil {
		respondError(c, "PetHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pet deleted"})
}

// ListOwn возвращает питомцев текущего клиента
// GET /api/portal/pets
func (h *PetHandler) ListOwn(c *gin.Context) {
	pets, err := h.petService.ListByClient(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		respondError(c, "PetHandler", err)
		return
	}
	c.JSON(http.StatusOK, pets)
}

// CreateOwn добавляет питомца текущему клиенту
// POST /api/portal/pets
func (h *PetHandler) CreateOwn(c *gin.Context) {
	var req dto.PetRequest
	if !bindJSON(c, &req) {
		return
	}
	input := toPetInput(req)
	// Статус питомца меняет только клиника
	input.Status = nil
	pet, err := h.petService.Create(c.Request.Context(), middleware.ClientID(c), input)
	if err != nil {
		respondError(c, "PetHandler", err)
		return
	}
	c.JSON(http.StatusCreated, pet)
}

// GetOwn возвращает питомца текущего клиента
// GET /api/portal/pets/:id
func (h *PetHandler) GetOwn(c *gin.Context) {
	pet, err := h.petService.GetForClient(c.Request.Context(), middleware.ClientID(c), c.GetString(idKey))
	if err != nil {
		respondError(c, "PetHandler", err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

// UpdateOwn изменяет питомца текущего клиента
// PUT /api/portal/pets/:id
func (h *PetHandler) UpdateOwn(c *gin.Context) {
	var req dto.PetRequest
	if !bindJSON(c, &req) {
		return
	}
	pet, err := h.petService.UpdateForClient(c.Request.Context(), middleware.ClientID(c), c.GetString(idKey), toPetInput(req))
	if err != nil {
		respondError(c, "PetHandler", err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

// OwnAppointments возвращает записи на приём по питомцу текущего клиента
// GET /api/portal/pets/:id/appointments
func (h *PetHandler) OwnAppointments(c *gin.Context) {
	appointments, err := h.appointmentService.ListForPet(c.Request.Context(), middleware.ClientID(c), c.GetString(idKey))
	if err != nil {
		respondError(c, "PetHandler", err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}
