package service

import (
	"context"
	"strings"
	"time"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
)

// SEOPageInput - метаданные страницы из админки
type SEOPageInput struct {
	Path        string
	Locale      string
	Title       string
	Description string
	Keywords    []string
	OGImage     string
	Canonical   string
	NoIndex     bool
}

// SEOService управляет SEO-метаданными страниц
type SEOService struct {
	repo repository.SEORepository
	now  func() time.Time
}

// NewSEOService создает сервис SEO
func NewSEOService(repo repository.SEORepository) *SEOService {
	return &SEOService{repo: repo, now: time.Now}
}

// Save создаёт или заменяет метаданные страницы
func (s *SEOService) Save(ctx context.Context, in SEOPageInput) (*entity.SEOPage, error) {
	if !entity.IsSupportedLocale(in.Locale) {
		return nil, validationError("unsupported locale %q", in.Locale)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	page := &entity.SEOPage{
		Path:        entity.NormalizePath(in.Path),
		Locale:      in.Locale,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Keywords:    in.Keywords,
		OGImage:     in.OGImage,
		Canonical:   in.Canonical,
		NoIndex:     in.NoIndex,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.Save(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// Get возвращает метаданные точно для локали и пути
func (s *SEOService) Get(ctx context.Context, locale, path string) (*entity.SEOPage, error) {
	return s.repo.Get(ctx, locale, entity.NormalizePath(path))
}

// Resolve возвращает метаданные локали, а при их отсутствии - локали по умолчанию
func (s *SEOService) Resolve(ctx context.Context, locale, path string) (*entity.SEOPage, error) {
	if !entity.IsSupportedLocale(locale) {
		locale = entity.DefaultLocale
	}
	path = entity.NormalizePath(path)
	page, err := s.repo.Get(ctx, locale, path)
	if err == nil || !isNotFound(err) || locale == entity.DefaultLocale {
		return page, err
	}
	return s.repo.Get(ctx, entity.DefaultLocale, path)
}

// List возвращает все записи SEO
func (s *SEOService) List(ctx context.Context) ([]*entity.SEOPage, error) {
	return s.repo.List(ctx)
}

// Delete удаляет метаданные страницы
func (s *SEOService) Delete(ctx context.Context, locale, path string) error {
	return s.repo.Delete(ctx, locale, entity.NormalizePath(path))
}
