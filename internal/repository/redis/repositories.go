package redis

import (
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Repositories собирает все Redis-репозитории поверх одного клиента
type Repositories struct {
	Clients      *ClientRepo
	Pets         *PetRepo
	Appointments *AppointmentRepo
	Posts        *PostRepo
	Contacts     *ContactRepo
	Redirects    *RedirectRepo
	SEO          *SEORepo
	Admins       *AdminRepo
	Sessions     *SessionRepo
	Consents     *ConsentRepo
	Onboarding   *OnboardingRepo
	Analytics    *AnalyticsRepo
	Reconciler   *Reconciler
}

// NewRepositories создает репозитории и возвращает ошибку при отсутствии клиента
func NewRepositories(client redis.UniversalClient) (*Repositories, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for repositories")
	}
	return &Repositories{
		Clients:      NewClientRepo(client),
		Pets:         NewPetRepo(client),
		Appointments: NewAppointmentRepo(client),
		Posts:        NewPostRepo(client),
		Contacts:     NewContactRepo(client),
		Redirects:    NewRedirectRepo(client),
		SEO:          NewSEORepo(client),
		Admins:       NewAdminRepo(client),
		Sessions:     NewSessionRepo(client),
		Consents:     NewConsentRepo(client),
		Onboarding:   NewOnboardingRepo(client),
		Analytics:    NewAnalyticsRepo(client),
		Reconciler:   NewReconciler(client),
	}, nil
}
