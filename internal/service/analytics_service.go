package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/metrics"
)

// knownBots - подстроки user agent и имя, под которым считается визит
var knownBots = []struct {
	token string
	name  string
}{
	{"googlebot", "googlebot"},
	{"bingbot", "bingbot"},
	{"duckduckbot", "duckduckbot"},
	{"yandexbot", "yandexbot"},
	{"baiduspider", "baiduspider"},
	{"applebot", "applebot"},
	{"gptbot", "gptbot"},
	{"chatgpt-user", "chatgpt-user"},
	{"oai-searchbot", "oai-searchbot"},
	{"claudebot", "claudebot"},
	{"claude-web", "claudebot"},
	{"anthropic-ai", "anthropic-ai"},
	{"perplexitybot", "perplexitybot"},
	{"ccbot", "ccbot"},
	{"bytespider", "bytespider"},
	{"facebookexternalhit", "facebook"},
	{"twitterbot", "twitterbot"},
	{"linkedinbot", "linkedinbot"},
	{"slurp", "yahoo"},
	{"semrushbot", "semrushbot"},
	{"ahrefsbot", "ahrefsbot"},
}

// DetectBot определяет краулер по user agent. Неизвестные боты считаются как "other".
func DetectBot(userAgent string) (string, bool) {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return "", false
	}
	for _, b := range knownBots {
		if strings.Contains(ua, b.token) {
			return b.name, true
		}
	}
	for _, generic := range []string{"bot", "crawler", "spider", "headless"} {
		if strings.Contains(ua, generic) {
			return "other", true
		}
	}
	return "", false
}

// AnalyticsService считает посещения и конверсии и строит отчёты
type AnalyticsService struct {
	repo         repository.AnalyticsRepository
	runner       Runner
	metrics      *metrics.Metrics
	topN         int
	maxRangeDays int
	now          func() time.Time
}

// NewAnalyticsService создает сервис аналитики
func NewAnalyticsService(repo repository.AnalyticsRepository, runner Runner, m *metrics.Metrics, topN, maxRangeDays int) *AnalyticsService {
	if topN <= 0 {
		topN = 10
	}
	if maxRangeDays <= 0 {
		maxRangeDays = 366
	}
	return &AnalyticsService{
		repo:         repo,
		runner:       runner,
		metrics:      m,
		topN:         topN,
		maxRangeDays: maxRangeDays,
		now:          time.Now,
	}
}

func (s *AnalyticsService) today() string {
	return s.now().UTC().Format(entity.DateLayout)
}

// RecordPageView синхронно увеличивает счётчик страницы или бота
func (s *AnalyticsService) RecordPageView(ctx context.Context, path, userAgent string) error {
	if bot, ok := DetectBot(userAgent); ok {
		if _, err := s.repo.Increment(ctx, entity.AnalyticsBots, s.today(), bot); err != nil {
			s.metrics.IncrementAnalyticsFailure(entity.AnalyticsBots)
			return err
		}
		return nil
	}
	if _, err := s.repo.Increment(ctx, entity.AnalyticsPageViews, s.today(), entity.NormalizePath(path)); err != nil {
		s.metrics.IncrementAnalyticsFailure(entity.AnalyticsPageViews)
		return err
	}
	return nil
}

// TrackPageView учитывает просмотр в фоне
func (s *AnalyticsService) TrackPageView(path, userAgent string) {
	s.runner.Go("analytics.pageview", func(ctx context.Context) error {
		return s.RecordPageView(ctx, path, userAgent)
	})
}

// TrackConversion проверяет тип конверсии и учитывает её в фоне
func (s *AnalyticsService) TrackConversion(kind string) error {
	if !entity.IsValidConversion(kind) {
		return validationError("unknown conversion type %q", kind)
	}
	date := s.today()
	s.runner.Go("analytics.conversion", func(ctx context.Context) error {
		if _, err := s.repo.Increment(ctx, entity.AnalyticsConversions, date, kind); err != nil {
			s.metrics.IncrementAnalyticsFailure(entity.AnalyticsConversions)
			return err
		}
		return nil
	})
	return nil
}

// ParseRange разбирает границы отчёта. Пустые значения - последние 30 дней.
func (s *AnalyticsService) ParseRange(startStr, endStr string) (time.Time, time.Time, error) {
	end := s.now().UTC()
	if endStr != "" {
		parsed, err := time.Parse(entity.DateLayout, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, validationError("end must be a YYYY-MM-DD date")
		}
		end = parsed
	}
	start := end.AddDate(0, 0, -29)
	if startStr != "" {
		parsed, err := time.Parse(entity.DateLayout, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, validationError("start must be a YYYY-MM-DD date")
		}
		start = parsed
	}
	return start, end, s.checkRange(start, end)
}

func (s *AnalyticsService) checkRange(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: %w", ErrInvalidDateRange, validationError("end date is before start date"))
	}
	if days := entity.DaysInRange(start, end); days > int64(s.maxRangeDays) {
		return fmt.Errorf("%w: %w", ErrInvalidDateRange, validationError("range of %d days exceeds the %d day limit", days, s.maxRangeDays))
	}
	return nil
}

func (s *AnalyticsService) dimension(ctx context.Context, dimension string, start, end time.Time) (entity.DailyCounts, error) {
	if err := s.checkRange(start, end); err != nil {
		return nil, err
	}
	return s.repo.Range(ctx, dimension, entity.DateRange(start, end))
}

// PageViews возвращает date → path → count
func (s *AnalyticsService) PageViews(ctx context.Context, start, end time.Time) (entity.DailyCounts, error) {
	return s.dimension(ctx, entity.AnalyticsPageViews, start, end)
}

// BotVisits возвращает date → bot → count
func (s *AnalyticsService) BotVisits(ctx context.Context, start, end time.Time) (entity.DailyCounts, error) {
	return s.dimension(ctx, entity.AnalyticsBots, start, end)
}

// Conversions возвращает date → type → count
func (s *AnalyticsService) Conversions(ctx context.Context, start, end time.Time) (entity.DailyCounts, error) {
	return s.dimension(ctx, entity.AnalyticsConversions, start, end)
}

// Summary сворачивает три измерения за диапазон. Измерения читаются параллельно.
func (s *AnalyticsService) Summary(ctx context.Context, start, end time.Time, topN int) (*entity.AnalyticsSummary, error) {
	if err := s.checkRange(start, end); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = s.topN
	}
	dates := entity.DateRange(start, end)

	var pages, bots, conversions entity.DailyCounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pages, err = s.repo.Range(gctx, entity.AnalyticsPageViews, dates)
		return err
	})
	g.Go(func() (err error) {
		bots, err = s.repo.Range(gctx, entity.AnalyticsBots, dates)
		return err
	})
	g.Go(func() (err error) {
		conversions, err = s.repo.Range(gctx, entity.AnalyticsConversions, dates)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}

	summary := &entity.AnalyticsSummary{
		StartDate:         dates[0],
		EndDate:           dates[len(dates)-1],
		TotalPageViews:    pages.Total(),
		TotalBotVisits:    bots.Total(),
		TotalConversions:  conversions.Total(),
		TopPages:          []entity.PageCount{},
		TopBots:           []entity.BotCount{},
		ConversionsByType: conversions.TotalsByKey(),
		Daily:             make([]entity.DailyStats, 0, len(dates)),
	}
	for _, r := range entity.TopN(pages.TotalsByKey(), topN) {
		summary.TopPages = append(summary.TopPages, entity.PageCount{Path: r.Key, Views: r.Count})
	}
	for _, r := range entity.TopN(bots.TotalsByKey(), topN) {
		summary.TopBots = append(summary.TopBots, entity.BotCount{Bot: r.Key, Visits: r.Count})
	}
	for _, date := range dates {
		summary.Daily = append(summary.Daily, entity.DailyStats{
			Date:        date,
			PageViews:   pages.DayTotal(date),
			BotVisits:   bots.DayTotal(date),
			Conversions: conversions.DayTotal(date),
		})
	}
	return summary, nil
}
