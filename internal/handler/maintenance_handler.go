package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	redisrepo "github.com/199-biotechnologies/continuum-clinic-sub000/internal/repository/redis"
)

// IndexReconciler удаляет из индексов ссылки на отсутствующие записи
type IndexReconciler interface {
	Run(ctx context.Context) (*redisrepo.ReconcileReport, error)
}

// MaintenanceHandler - служебные операции админки
type MaintenanceHandler struct {
	reconciler IndexReconciler
}

// NewMaintenanceHandler создает обработчик служебных операций
func NewMaintenanceHandler(reconciler IndexReconciler) *MaintenanceHandler {
	return &MaintenanceHandler{reconciler: reconciler}
}

// Reconcile чистит индексы от висячих ссылок. Повторный запуск безопасен.
// POST /api/admin/maintenance/reconcile
func (h *MaintenanceHandler) Reconcile(c *gin.Context) {
	report, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		respondError(c, "MaintenanceHandler", err)
		return
	}
	log.Printf("[MaintenanceHandler] reconcile by %s removed %d entries", middleware.AdminEmail(c), report.TotalRemoved())
	c.JSON(http.StatusOK, report)
}
