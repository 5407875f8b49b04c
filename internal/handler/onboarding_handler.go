package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
)

// OnboardingHandler - прогресс онбординга и анкета медицинского анамнеза
type OnboardingHandler struct {
	onboardingService *service.OnboardingService
}

// NewOnboardingHandler создает обработчик онбординга
func NewOnboardingHandler(onboardingService *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

// onboardingResponse дополняет статус вычисляемыми полями для мастера
func onboardingResponse(status *entity.OnboardingStatus) gin.H {
	return gin.H{
		"status":    status,
		"completed": status.IsComplete(),
		"next_step": status.NextStep(),
		"progress":  status.Progress(),
		"total":     len(entity.OnboardingSteps),
	}
}

// CreateStatus создаёт запись онбординга для питомца (повторный вызов возвращает существующую)
// POST /api/onboarding/status
func (h *OnboardingHandler) CreateStatus(c *gin.Context) {
	var req dto.OnboardingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := h.onboardingService.Create(c.Request.Context(), middleware.ClientID(c), req.PetID)
	if err != nil {
		respondError(c, "OnboardingHandler", err)
		return
	}
	c.JSON(http.StatusOK, onboardingResponse(status))
}

// GetStatus возвращает прогресс онбординга по питомцу
// GET /api/onboarding/status?petId=
func (h *OnboardingHandler) GetStatus(c *gin.Context) {
	status, err := h.onboardingService.Get(c.Request.Context(), middleware.ClientID(c), petIDQuery(c))
	if err != nil {
		respondError(c, "OnboardingHandler", err)
		return
	}
	c.JSON(http.StatusOK, onboardingResponse(status))
}

// UpdateStatus отмечает или снимает отметку с этапа
// PUT /api/onboarding/status
func (h *OnboardingHandler) UpdateStatus(c *gin.Context) {
	var req dto.OnboardingStepRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := h.onboardingService.UpdateStep(c.Request.Context(), middleware.ClientID(c), req.PetID, req.Step, *req.Completed)
	if err != nil {
		respondError(c, "OnboardingHandler", err)
		return
	}
	c.JSON(http.StatusOK, onboardingResponse(status))
}

// SubmitMedicalHistory принимает заполненную анкету
// POST /api/onboarding/medical-history
func (h *OnboardingHandler) SubmitMedicalHistory(c *gin.Context) {
	var req dto.MedicalHistoryRequest
	if !bindJSON(c, &req) {
		return
	}
	submission, err := h.onboardingService.SubmitMedicalHistory(c.Request.Context(), middleware.ClientID(c), req.PetID, req.Data)
	if err != nil {
		respondError(c, "OnboardingHandler", err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

// GetMedicalHistory возвращает отправленную анкету
// GET /api/onboarding/medical-history?petId=
func (h *OnboardingHandler) GetMedicalHistory(c *gin.Context) {
	submission, err := h.onboardingService.GetMedicalHistory(c.Request.Context(), middleware.ClientID(c), petIDQuery(c))
	if err != nil {
		respondError(c, "OnboardingHandler", err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// GetDraft возвращает черновик анкеты
// GET /api/onboarding/draft?petId=
func (h *OnboardingHandler) GetDraft(c *gin.Context) {
	draft, err := h.onboardingService.GetDraft(c.Request.Context(), middleware.ClientID(c), petIDQuery(c))
	if err != nil {
		respondError(c, "OnboardingHandler", err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SaveDraft сохраняет черновик анкеты
// PUT /api/onboarding/draft
func (h *OnboardingHandler) SaveDraft(c *gin.Context) {
	var req dto.IntakeDraftRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.onboardingService.SaveDraft(c.Request.Context(), middleware.ClientID(c), req.PetID, req.Step, req.Data)
	if err != nil {
		respondError(c, "OnboardingHandler", err)
		return
	}
	c.JSON(http.StatusOK, draft)
}
