package entity

import (
	"sort"
	"time"
)

// DateLayout - формат даты в ключах аналитики (ISO)
const DateLayout = "2006-01-02"

// Измерения счётчиков аналитики
const (
	AnalyticsPageViews   = "pageviews"
	AnalyticsBots        = "bots"
	AnalyticsConversions = "conversions"
)

// Типы конверсий
const (
	ConversionBooking      = "booking"
	ConversionContact      = "contact"
	ConversionNewsletter   = "newsletter"
	ConversionPortalSignup = "portal_signup"
	ConversionPhoneClick   = "phone_click"
)

// IsValidConversion проверяет тип конверсии
func IsValidConversion(kind string) bool {
	switch kind {
	case ConversionBooking, ConversionContact, ConversionNewsletter, ConversionPortalSignup, ConversionPhoneClick:
		return true
	}
	return false
}

// DailyCounts - date → dimension → count
type DailyCounts map[string]map[string]int64

// PageCount - строка рейтинга страниц
type PageCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// BotCount - строка рейтинга ботов
type BotCount struct {
	Bot    string `json:"bot"`
	Visits int64  `json:"visits"`
}

// DailyStats - агрегаты за один день
type DailyStats struct {
	Date        string `json:"date"`
	PageViews   int64  `json:"page_views"`
	BotVisits   int64  `json:"bot_visits"`
	Conversions int64  `json:"conversions"`
}

// AnalyticsSummary - свёртка счётчиков за диапазон дат
type AnalyticsSummary struct {
	StartDate         string           `json:"start_date"`
	EndDate           string           `json:"end_date"`
	TotalPageViews    int64            `json:"total_page_views"`
	TotalBotVisits    int64            `json:"total_bot_visits"`
	TotalConversions  int64            `json:"total_conversions"`
	TopPages          []PageCount      `json:"top_pages"`
	TopBots           []BotCount       `json:"top_bots"`
	ConversionsByType map[string]int64 `json:"conversions_by_type"`
	Daily             []DailyStats     `json:"daily"`
}

// DaysInRange - число дат в DateRange(start, end) без построения списка.
// Считается через Unix-секунды: Sub переполняется на диапазонах длиннее ~290 лет.
func DaysInRange(start, end time.Time) int64 {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	return (end.Unix()-start.Unix())/(24*60*60) + 1
}

// DateRange перечисляет даты [start, end] включительно в формате DateLayout
func DateRange(start, end time.Time) []string {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// RankedCount - пара ключ/значение для рейтинга
type RankedCount struct {
	Key   string
	Count int64
}

// TotalsByKey суммирует счётчики по измерению за все даты
func (d DailyCounts) TotalsByKey() map[string]int64 {
	totals := make(map[string]int64)
	for _, byKey := range d {
		for key, n := range byKey {
			totals[key] += n
		}
	}
	return totals
}

// Total - сумма всех счётчиков
func (d DailyCounts) Total() int64 {
	var total int64
	for _, byKey := range d {
		for _, n := range byKey {
			total += n
		}
	}
	return total
}

// DayTotal - сумма за конкретную дату
func (d DailyCounts) DayTotal(date string) int64 {
	var total int64
	for _, n := range d[date] {
		total += n
	}
	return total
}

// TopN сортирует по убыванию счётчика, при равенстве - по ключу, и обрезает до n (n <= 0 - без ограничения)
func TopN(totals map[string]int64, n int) []RankedCount {
	ranked := make([]RankedCount, 0, len(totals))
	for key, count := range totals {
		ranked = append(ranked, RankedCount{Key: key, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Key < ranked[j].Key
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
