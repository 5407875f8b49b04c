package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/helper"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
)

// AnalyticsHandler - маяки посещений и отчёты аналитики
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler создает обработчик аналитики
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Track учитывает просмотр страницы (или визит бота) в фоне
// POST /api/analytics/track
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var req dto.TrackRequest
	if !bindJSON(c, &req) {
		return
	}
	h.analyticsService.TrackPageView(req.Path, c.Request.UserAgent())
	c.Status(http.StatusAccepted)
}

// Conversion учитывает конверсию
// POST /api/analytics/conversion
func (h *AnalyticsHandler) Conversion(c *gin.Context) {
	var req dto.ConversionRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.analyticsService.TrackConversion(req.Type); err != nil {
		respondError(c, "AnalyticsHandler", err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *AnalyticsHandler) summary(c *gin.Context) (*entity.AnalyticsSummary, bool) {
	start, end, err := h.analyticsService.ParseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, "AnalyticsHandler", err)
		return nil, false
	}
	topN := 0
	if top := c.Query("top"); top != "" {
		if topN, err = strconv.Atoi(top); err != nil || topN < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be a positive integer"})
			return nil, false
		}
	}
	summary, err := h.analyticsService.Summary(c.Request.Context(), start, end, topN)
	if err != nil {
		respondError(c, "AnalyticsHandler", err)
		return nil, false
	}
	return summary, true
}

// Summary возвращает свёртку за период
// GET /api/admin/analytics?start=&end=&top=
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, ok := h.summary(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Export выгружает отчёт: CSV с дневной динамикой, Excel со всеми разрезами на отдельных листах
// GET /api/admin/analytics/export?format=xlsx|csv
func (h *AnalyticsHandler) Export(c *gin.Context) {
	summary, ok := h.summary(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("analytics_%s_%s", summary.StartDate, summary.EndDate)
	helper.SendExport(c, c.DefaultQuery("format", helper.FormatXLSX), filename, analyticsTables(summary))
}

// analyticsTables раскладывает отчёт по таблицам выгрузки
func analyticsTables(s *entity.AnalyticsSummary) []helper.Table {
	daily := helper.Table{Sheet: "Daily", Headers: []string{"date", "page_views", "bot_visits", "conversions"}}
	for _, d := range s.Daily {
		daily.Rows = append(daily.Rows, []interface{}{d.Date, d.PageViews, d.BotVisits, d.Conversions})
	}

	pages := helper.Table{Sheet: "Top pages", Headers: []string{"path", "views"}}
	for _, p := range s.TopPages {
		pages.Rows = append(pages.Rows, []interface{}{p.Path, p.Views})
	}

	bots := helper.Table{Sheet: "Bots", Headers: []string{"bot", "visits"}}
	for _, b := range s.TopBots {
		bots.Rows = append(bots.Rows, []interface{}{b.Bot, b.Visits})
	}

	conversions := helper.Table{Sheet: "Conversions", Headers: []string{"type", "count"}}
	kinds := make([]string, 0, len(s.ConversionsByType))
	for kind := range s.ConversionsByType {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		conversions.Rows = append(conversions.Rows, []interface{}{kind, s.ConversionsByType[kind]})
	}

	return []helper.Table{daily, pages, bots, conversions}
}
