package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// LocaleCookie - cookie с выбранной пользователем локалью (совместимо с фронтендом)
const LocaleCookie = "NEXT_LOCALE"

// LocaleKey - ключ контекста с локалью запроса
const LocaleKey = "locale"

var (
	localeTags    []language.Tag
	localeMatcher language.Matcher
)

func init() {
	for _, l := range entity.Locales {
		localeTags = append(localeTags, language.Make(l))
	}
	localeMatcher = language.NewMatcher(localeTags)
}

// NegotiateLocale выбирает локаль: cookie NEXT_LOCALE, затем Accept-Language, затем локаль по умолчанию
func NegotiateLocale(r *http.Request) string {
	if cookie, err := r.Cookie(LocaleCookie); err == nil && entity.IsSupportedLocale(cookie.Value) {
		return cookie.Value
	}
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return entity.DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return entity.DefaultLocale
	}
	_, index, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return entity.DefaultLocale
	}
	return entity.Locales[index]
}

// Locale определяет локаль запроса: префикс пути важнее cookie и заголовков
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale, _, ok := entity.SplitLocalePath(c.Request.URL.Path)
		if !ok {
			locale = NegotiateLocale(c.Request)
		}
		c.Set(LocaleKey, locale)
		c.Next()
	}
}

// LocaleFromContext возвращает локаль, выставленную Locale(), или определяет её заново
func LocaleFromContext(c *gin.Context) string {
	if locale := c.GetString(LocaleKey); locale != "" {
		return locale
	}
	if locale, _, ok := entity.SplitLocalePath(c.Request.URL.Path); ok {
		return locale
	}
	return NegotiateLocale(c.Request)
}
