package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// AnalyticsRepository - посуточные счётчики по измерениям (pageviews, bots, conversions)
type AnalyticsRepository interface {
	Increment(ctx context.Context, dimension, date, key string) (int64, error)
	// Range сканирует ключи измерения для каждой даты из dates и возвращает date → key → count
	Range(ctx context.Context, dimension string, dates []string) (entity.DailyCounts, error)
}
