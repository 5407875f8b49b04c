package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/helper"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
)

// AppointmentHandler - запись на приём
type AppointmentHandler struct {
	appointmentService *service.AppointmentService
}

// NewAppointmentHandler создает обработчик записей на приём
func NewAppointmentHandler(appointmentService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Create принимает заявку с сайта. Для вошедшего клиента заявка привязывается к его питомцу.
// POST /api/appointments
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	locale := req.Locale
	if locale == "" {
		locale = middleware.LocaleFromContext(c)
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), service.CreateAppointmentInput{
		ClientID:      middleware.ClientID(c),
		PetID:         req.PetID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		PetName:       req.PetName,
		PetSpecies:    req.PetSpecies,
		Service:       req.Service,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Message:       req.Message,
		Locale:        locale,
	})
	if err != nil {
		respondError(c, "AppointmentHandler", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": appointment.ID, "appointment": appointment})
}

// ListOwn возвращает записи текущего клиента
// GET /api/portal/appointments
func (h *AppointmentHandler) ListOwn(c *gin.Context) {
	appointments, err := h.appointmentService.ListForClient(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		respondError(c, "AppointmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// GetOwn возвращает запись текущего клиента
// GET /api/portal/appointments/:id
func (h *AppointmentHandler) GetOwn(c *gin.Context) {
	appointment, err := h.appointmentService.GetForClient(c.Request.Context(), middleware.ClientID(c), c.GetString(idKey))
	if err != nil {
		respondError(c, "AppointmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// List возвращает страницу записей, новые первыми
// GET /api/admin/appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	page, perPage, offset := helper.ParsePagination(c)
	appointments, total, err := h.appointmentService.List(c.Request.Context(), perPage, offset)
	if err != nil {
		respondError(c, "AppointmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, helper.Paginated(appointments, total, page, perPage))
}

// Get возвращает запись
// GET /api/admin/appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	appointment, err := h.appointmentService.Get(c.Request.Context(), c.GetString(idKey))
	if err != nil {
		respondError(c, "AppointmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// Update меняет статус, заметки или время записи
// PUT /api/admin/appointments/:id
func (h *AppointmentHandler) Update(c *gin.Context) {
	var req dto.UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	appointment, err := h.appointmentService.Update(c.Request.Context(), c.GetString(idKey), service.UpdateAppointmentInput{
		Status:        req.Status,
		AdminNotes:    req.AdminNotes,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
	})
	if err != nil {
		respondError(c, "AppointmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// AssignOwner связывает публичную заявку с клиентом и питомцем
// POST /api/admin/appointments/:id/assign
func (h *AppointmentHandler) AssignOwner(c *gin.Context) {
	var req dto.AssignOwnerRequest
	if !bindJSON(c, &req) {
		return
	}
	appointment, err := h.appointmentService.AssignOwner(c.Request.Context(), c.GetString(idKey), req.ClientID, req.PetID)
	if err != nil {
		respondError(c, "AppointmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// Delete удаляет запись
// DELETE /api/admin/appointments/:id
func (h *AppointmentHandler) Delete(c *gin.Context) {
	if err := h.appointmentService.Delete(c.Request.Context(), c.GetString(idKey)); err != nil {
		respondError(c, "AppointmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted"})
}
