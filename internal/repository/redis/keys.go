package redis

import (
	"fmt"
	"strings"
)

// Ключи индексов верхнего уровня
const (
	keyClients      = "clients"
	keyAppointments = "appointments"
	keyPosts        = "posts"
	keyContacts     = "contacts"
	keyRedirects    = "redirects"
	keySEOPages     = "seo:pages"
)

func clientKey(id string) string { return "client:" + id }
func clientEmailKey(email string) string { return "client:email:" + email }
func clientPetsKey(id string) string { return "client:" + id + ":pets" }
func clientAppointmentsKey(id string) string { return "client:" + id + ":appointments" }

func petKey(id string) string { return "pet:" + id }
func petAppointmentsKey(id string) string { return "pet:" + id + ":appointments" }

func appointmentKey(id string) string { return "appointment:" + id }

func postKey(id string) string { return "post:" + id }
func postViewsKey(id string) string { return "post:" + id + ":views" }
func postSlugKey(locale, slug string) string { return "post:slug:" + locale + ":" + slug }

func contactKey(id string) string { return "contact:" + id }

func redirectKey(source string) string { return "redirect:" + source }
func redirectHitsKey(source string) string { return "redirect:hits:" + source }

func seoKey(locale, path string) string { return "seo:" + locale + ":" + path }

// seoMember - элемент множества seo:pages
func seoMember(locale, path string) string { return locale + "|" + path }

func splitSEOMember(member string) (string, string, bool) {
	return strings.Cut(member, "|")
}

func adminKey(email string) string { return "admin:" + email }

func sessionKey(role, sid string) string { return "session:" + role + ":" + sid }
func sessionSubjectKey(role, subject string) string { return "session:" + role + ":subject:" + subject }

func consentKey(id string) string { return "consent:" + id }
func consentClientKey(clientID string) string { return "consent:client:" + clientID }
func consentPetKey(clientID, petID string) string {
	return "consent:client:" + clientID + ":pet:" + petID
}

func onboardingKey(clientID, petID string) string { return "onboarding:" + clientID + ":" + petID }
func onboardingHistoryKey(clientID, petID string) string {
	return onboardingKey(clientID, petID) + ":history"
}
func onboardingDraftKey(clientID, petID string) string {
	return onboardingKey(clientID, petID) + ":draft"
}
func onboardingClientKey(clientID string) string { return "onboarding:client:" + clientID }

// analyticsPrefix - общий префикс счётчиков измерения за дату
func analyticsPrefix(dimension, date string) string {
	return fmt.Sprintf("analytics:%s:%s:", dimension, date)
}

func analyticsKey(dimension, date, key string) string {
	return analyticsPrefix(dimension, date) + key
}
