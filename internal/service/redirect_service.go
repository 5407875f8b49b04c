package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
)

// RedirectService управляет перенаправлениями и применяет их к входящим путям
type RedirectService struct {
	repo   repository.RedirectRepository
	runner Runner
	now    func() time.Time
}

// NewRedirectService создает сервис перенаправлений
func NewRedirectService(repo repository.RedirectRepository, runner Runner) *RedirectService {
	return &RedirectService{repo: repo, runner: runner, now: time.Now}
}

// normalizeDestination принимает относительный путь или абсолютный http(s) URL
func normalizeDestination(destination string) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", validationError("destination is required")
	}
	if strings.HasPrefix(destination, "/") {
		return destination, nil
	}
	u, err := url.Parse(destination)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", validationError("destination must be a path or an absolute http(s) URL")
	}
	return destination, nil
}

// Save создаёт или заменяет перенаправление. Петли (A→A и A→B→A) отклоняются.
func (s *RedirectService) Save(ctx context.Context, source, destination string, permanent bool) (*entity.Redirect, error) {
	if strings.TrimSpace(source) == "" {
		return nil, validationError("source is required")
	}
	source = entity.NormalizePath(source)
	if strings.HasPrefix(source, "/api/") {
		return nil, validationError("api routes cannot be redirected")
	}
	destination, err := normalizeDestination(destination)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(destination, "/") {
		target := entity.NormalizePath(destination)
		if target == source {
			return nil, validationError("redirect source and destination are the same")
		}
		back, err := s.repo.Get(ctx, target)
		switch {
		case err == nil && entity.NormalizePath(back.Destination) == source:
			return nil, validationError("redirect would create a loop with %s", target)
		case err != nil && !isNotFound(err):
			return nil, err
		}
	}

	now := s.now().UTC()
	redirect := &entity.Redirect{
		Source:      source,
		Destination: destination,
		Permanent:   permanent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	existing, err := s.repo.Get(ctx, source)
	switch {
	case err == nil:
		redirect.CreatedAt = existing.CreatedAt
		redirect.Hits = existing.Hits
	case !isNotFound(err):
		return nil, err
	}
	if err := s.repo.Save(ctx, redirect); err != nil {
		return nil, err
	}
	return redirect, nil
}

// Get возвращает перенаправление по исходному пути
func (s *RedirectService) Get(ctx context.Context, source string) (*entity.Redirect, error) {
	return s.repo.Get(ctx, entity.NormalizePath(source))
}

// List возвращает все перенаправления
func (s *RedirectService) List(ctx context.Context) ([]*entity.Redirect, error) {
	return s.repo.List(ctx)
}

// Delete удаляет перенаправление
func (s *RedirectService) Delete(ctx context.Context, source string) error {
	return s.repo.Delete(ctx, entity.NormalizePath(source))
}

// Resolve ищет перенаправление для пути и в фоне учитывает срабатывание.
// Возвращает nil без ошибки, если перенаправления нет.
func (s *RedirectService) Resolve(ctx context.Context, path string) (*entity.Redirect, error) {
	redirect, err := s.repo.Get(ctx, entity.NormalizePath(path))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve redirect: %w", err)
	}
	source := redirect.Source
	s.runner.Go("redirects.hit", func(ctx context.Context) error {
		return s.repo.RecordHit(ctx, source)
	})
	return redirect, nil
}
