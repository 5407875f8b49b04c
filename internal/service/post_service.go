package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// PostInput - поля статьи. При обновлении nil-поля не меняются.
type PostInput struct {
	Slug       *string
	Locale     *string
	Title      *string
	Excerpt    *string
	Content    *string
	Author     *string
	CoverImage *string
	Tags       []string
	Status     *string
}

// PostService управляет статьями блога
type PostService struct {
	repo   repository.PostRepository
	runner Runner
	now    func() time.Time
}

// NewPostService создает сервис блога
func NewPostService(repo repository.PostRepository, runner Runner) *PostService {
	return &PostService{repo: repo, runner: runner, now: time.Now}
}

func (s *PostService) apply(p *entity.Post, in PostInput) error {
	if in.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*in.Slug))
		if !slugPattern.MatchString(slug) {
			return validationError("slug must contain lowercase letters, digits and dashes")
		}
		p.Slug = slug
	}
	if in.Locale != nil {
		if !entity.IsSupportedLocale(*in.Locale) {
			return validationError("unsupported locale %q", *in.Locale)
		}
		p.Locale = *in.Locale
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return validationError("title is required")
		}
		p.Title = title
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Author != nil {
		p.Author = *in.Author
	}
	if in.CoverImage != nil {
		p.CoverImage = *in.CoverImage
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.PostStatusPublished:
			if p.PublishedAt == nil {
				t := s.now().UTC()
				p.PublishedAt = &t
			}
		case entity.PostStatusDraft:
			p.PublishedAt = nil
		default:
			return validationError("status must be draft or published")
		}
		p.Status = *in.Status
	}
	return nil
}

// Create создаёт статью. По умолчанию - черновик.
func (s *PostService) Create(ctx context.Context, in PostInput) (*entity.Post, error) {
	if in.Slug == nil || in.Locale == nil || in.Title == nil {
		return nil, validationError("slug, locale and title are required")
	}
	now := s.now().UTC()
	post := &entity.Post{
		ID:        uuid.New().String(),
		Status:    entity.PostStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(post, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update применяет изменения к статье
func (s *PostService) Update(ctx context.Context, id string, in PostInput) (*entity.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(post, in); err != nil {
		return nil, err
	}
	post.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get возвращает статью по id (админка)
func (s *PostService) Get(ctx context.Context, id string) (*entity.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает все статьи локали (админка)
func (s *PostService) List(ctx context.Context, locale string) ([]*entity.Post, error) {
	return s.repo.List(ctx, locale)
}

// ListPublished возвращает опубликованные статьи локали
func (s *PostService) ListPublished(ctx context.Context, locale string) ([]*entity.Post, error) {
	if !entity.IsSupportedLocale(locale) {
		return nil, validationError("unsupported locale %q", locale)
	}
	return s.repo.ListPublished(ctx, locale)
}

// GetPublished возвращает опубликованную статью и в фоне учитывает просмотр
func (s *PostService) GetPublished(ctx context.Context, locale, slug string) (*entity.Post, error) {
	post, err := s.repo.GetBySlug(ctx, locale, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, fmt.Errorf("%w: post %s/%s", apperrors.ErrNotFound, locale, slug)
	}
	id := post.ID
	s.runner.Go("posts.views", func(ctx context.Context) error {
		_, err := s.repo.IncrementViews(ctx, id)
		return err
	})
	return post, nil
}

// Delete удаляет статью
func (s *PostService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
