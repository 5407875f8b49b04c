package entity

import "strings"

// Locales - поддерживаемые локали сайта
var Locales = []string{"en", "es", "fr", "zh", "ru", "ar"}

// DefaultLocale - локаль по умолчанию
const DefaultLocale = "en"

// IsSupportedLocale проверяет, поддерживается ли локаль
func IsSupportedLocale(locale string) bool {
	for _, l := range Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// SplitLocalePath отделяет префикс локали от пути: "/fr/about" -> ("fr", "/about", true).
// Для путей без поддерживаемого префикса возвращает ("", path, false).
func SplitLocalePath(path string) (string, string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, _ := strings.Cut(trimmed, "/")
	if !IsSupportedLocale(segment) {
		return "", path, false
	}
	return segment, "/" + rest, true
}

// NormalizePath убирает query, завершающий слэш и приводит путь к нижнему регистру
func NormalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
