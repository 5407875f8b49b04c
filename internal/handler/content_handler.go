package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
)

// ContentHandler - блог, перенаправления и SEO-метаданные
type ContentHandler struct {
	postService     *service.PostService
	redirectService *service.RedirectService
	seoService      *service.SEOService
}

// NewContentHandler создает обработчик контента
func NewContentHandler(postService *service.PostService, redirectService *service.RedirectService, seoService *service.SEOService) *ContentHandler {
	return &ContentHandler{postService: postService, redirectService: redirectService, seoService: seoService}
}

func toPostInput(req dto.PostRequest) service.PostInput {
	return service.PostInput{
		Slug:       req.Slug,
		Locale:     req.Locale,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Author:     req.Author,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Status:     req.Status,
	}
}

// ListPublishedPosts возвращает опубликованные статьи локали
// GET /api/posts?locale=
func (h *ContentHandler) ListPublishedPosts(c *gin.Context) {
	locale := c.Query("locale")
	if locale == "" {
		locale = middleware.LocaleFromContext(c)
	}
	posts, err := h.postService.ListPublished(c.Request.Context(), locale)
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPublishedPost возвращает статью и учитывает просмотр
// GET /api/posts/:locale/:slug
func (h *ContentHandler) GetPublishedPost(c *gin.Context) {
	post, err := h.postService.GetPublished(c.Request.Context(), c.Param("locale"), c.Param("slug"))
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListPosts возвращает все статьи, включая черновики
// GET /api/admin/posts?locale=
func (h *ContentHandler) ListPosts(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context(), c.Query("locale"))
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePost создаёт статью
// POST /api/admin/posts
func (h *ContentHandler) CreatePost(c *gin.Context) {
	var req dto.PostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.postService.Create(c.Request.Context(), toPostInput(req))
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetPost возвращает статью по id
// GET /api/admin/posts/:id
func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), c.GetString(idKey))
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdatePost изменяет статью
// PUT /api/admin/posts/:id
func (h *ContentHandler) UpdatePost(c *gin.Context) {
	var req dto.PostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.postService.Update(c.Request.Context(), c.GetString(idKey), toPostInput(req))
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost удаляет статью
// DELETE /api/admin/posts/:id
func (h *ContentHandler) DeletePost(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), c.GetString(idKey)); err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// ListRedirects возвращает все перенаправления
// GET /api/admin/redirects
func (h *ContentHandler) ListRedirects(c *gin.Context) {
	redirects, err := h.redirectService.List(c.Request.Context())
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, redirects)
}

// SaveRedirect создаёт или заменяет перенаправление
// PUT /api/admin/redirects
func (h *ContentHandler) SaveRedirect(c *gin.Context) {
	var req dto.RedirectRequest
	if !bindJSON(c, &req) {
		return
	}
	redirect, err := h.redirectService.Save(c.Request.Context(), req.Source, req.Destination, req.Permanent)
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, redirect)
}

// DeleteRedirect удаляет перенаправление по исходному пути
// DELETE /api/admin/redirects?source=
func (h *ContentHandler) DeleteRedirect(c *gin.Context) {
	source := c.Query("source")
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source is required"})
		return
	}
	if err := h.redirectService.Delete(c.Request.Context(), source); err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Redirect deleted"})
}

// ResolveSEO возвращает метаданные страницы с откатом на локаль по умолчанию
// GET /api/seo?locale=&path=
func (h *ContentHandler) ResolveSEO(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	locale := c.Query("locale")
	if locale == "" {
		locale = middleware.LocaleFromContext(c)
	}
	page, err := h.seoService.Resolve(c.Request.Context(), locale, path)
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListSEO возвращает все SEO-записи
// GET /api/admin/seo
func (h *ContentHandler) ListSEO(c *gin.Context) {
	pages, err := h.seoService.List(c.Request.Context())
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

// SaveSEO создаёт или заменяет метаданные страницы
// PUT /api/admin/seo
func (h *ContentHandler) SaveSEO(c *gin.Context) {
	var req dto.SEOPageRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.seoService.Save(c.Request.Context(), service.SEOPageInput{
		Path:        req.Path,
		Locale:      req.Locale,
		Title:       req.Title,
		Description: req.Description,
		Keywords:    req.Keywords,
		OGImage:     req.OGImage,
		Canonical:   req.Canonical,
		NoIndex:     req.NoIndex,
	})
	if err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeleteSEO удаляет метаданные страницы
// DELETE /api/admin/seo?locale=&path=
func (h *ContentHandler) DeleteSEO(c *gin.Context) {
	locale, path := c.Query("locale"), c.Query("path")
	if locale == "" || path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "locale and path are required"})
		return
	}
	if err := h.seoService.Delete(c.Request.Context(), locale, path); err != nil {
		respondError(c, "ContentHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "SEO page deleted"})
}
