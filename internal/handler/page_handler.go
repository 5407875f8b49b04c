package handler

import (
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
)

// PageHandler обслуживает страницы сайта: перенаправления, префикс локали, учёт просмотров и статику
type PageHandler struct {
	redirectService  *service.RedirectService
	analyticsService *service.AnalyticsService
	staticDir        string
}

// NewPageHandler создает page-роутер. staticDir может быть пустым: тогда страницы отдают 404.
func NewPageHandler(redirectService *service.RedirectService, analyticsService *service.AnalyticsService, staticDir string) *PageHandler {
	return &PageHandler{redirectService: redirectService, analyticsService: analyticsService, staticDir: staticDir}
}

// Serve - обработчик NoRoute
func (h *PageHandler) Serve(c *gin.Context) {
	reqPath := c.Request.URL.Path
	if strings.HasPrefix(reqPath, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	redirect, err := h.redirectService.Resolve(c.Request.Context(), reqPath)
	if err != nil {
		// Без перенаправлений сайт продолжает работать
		log.Printf("[PageHandler] redirect lookup for %s failed: %v", reqPath, err)
	}
	if redirect != nil {
		c.Redirect(redirect.StatusCode(), redirect.Destination)
		return
	}

	// Ассеты (файлы с расширением) отдаются как есть, без локали и без учёта просмотра
	if path.Ext(reqPath) != "" {
		if file, ok := h.lookup(reqPath); ok {
			c.File(file)
			return
		}
	}

	if _, _, ok := entity.SplitLocalePath(reqPath); !ok {
		target := "/" + middleware.NegotiateLocale(c.Request)
		if reqPath != "/" {
			target += reqPath
		}
		if c.Request.URL.RawQuery != "" {
			target += "?" + c.Request.URL.RawQuery
		}
		c.Redirect(http.StatusFound, target)
		return
	}

	file, ok := h.lookup(reqPath)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if c.Request.Method == http.MethodGet {
		h.analyticsService.TrackPageView(reqPath, c.Request.UserAgent())
	}
	c.File(file)
}

// lookup ищет файл страницы: точный путь, {path}.html, {path}/index.html
func (h *PageHandler) lookup(reqPath string) (string, bool) {
	if h.staticDir == "" {
		return "", false
	}
	// Clean от корня не даёт выйти за пределы staticDir
	base := filepath.Join(h.staticDir, filepath.FromSlash(path.Clean("/"+reqPath)))
	for _, candidate := range []string{base, base + ".html", filepath.Join(base, "index.html")} {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
