package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
)

// Handlers - все обработчики HTTP API
type Handlers struct {
	Auth         *AuthHandler
	Clients      *ClientHandler
	Pets         *PetHandler
	Appointments *AppointmentHandler
	Contacts     *ContactHandler
	Consents     *ConsentHandler
	Onboarding   *OnboardingHandler
	Analytics    *AnalyticsHandler
	Content      *ContentHandler
	Maintenance  *MaintenanceHandler
	Pages        *PageHandler
}

// RegisterRoutes регистрирует маршруты API и page-роутер
func RegisterRoutes(router *gin.Engine, h *Handlers, authMiddleware *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	RegisterValidators()
	router.Use(middleware.Locale())

	loginLimit := limiter.Limit(middleware.LoginRateLimitConfig())
	formLimit := limiter.Limit(middleware.FormRateLimitConfig())
	trackLimit := limiter.LimitByIP(middleware.TrackingRateLimitConfig())
	withID := middleware.ExtractIDParam("id", idKey)

	api := router.Group("/api")
	{
		// Публичные формы и маяки
		api.POST("/appointments", formLimit, authMiddleware.OptionalClient(), h.Appointments.Create)
		api.POST("/contact", formLimit, h.Contacts.Submit)
		api.POST("/analytics/track", trackLimit, h.Analytics.Track)
		api.POST("/analytics/conversion", trackLimit, h.Analytics.Conversion)

		api.GET("/posts", h.Content.ListPublishedPosts)
		api.GET("/posts/:locale/:slug", h.Content.GetPublishedPost)
		api.GET("/seo", h.Content.ResolveSEO)

		api.GET("/consent/documents", h.Consents.Documents)
		api.GET("/consent/documents/:id", h.Consents.Document)

		// Клиентская сессия
		consent := api.Group("/consent")
		consent.Use(authMiddleware.RequireClient())
		{
			consent.GET("/status", h.Consents.Status)
			consent.POST("/accept", h.Consents.Accept)
			consent.POST("/revoke", h.Consents.Revoke)
			consent.GET("/history", h.Consents.History)
		}

		onboarding := api.Group("/onboarding")
		onboarding.Use(authMiddleware.RequireClient())
		{
			onboarding.POST("/status", h.Onboarding.CreateStatus)
			onboarding.GET("/status", h.Onboarding.GetStatus)
			onboarding.PUT("/status", h.Onboarding.UpdateStatus)
			onboarding.POST("/medical-history", h.Onboarding.SubmitMedicalHistory)
			onboarding.GET("/medical-history", h.Onboarding.GetMedicalHistory)
			onboarding.GET("/draft", h.Onboarding.GetDraft)
			onboarding.PUT("/draft", h.Onboarding.SaveDraft)
		}

		portal := api.Group("/portal")
		{
			portal.POST("/auth/login", loginLimit, h.Auth.ClientLogin)
			portal.POST("/auth/logout", h.Auth.ClientLogout)

			authed := portal.Group("")
			authed.Use(authMiddleware.RequireClient())
			{
				authed.GET("/auth/me", h.Auth.ClientMe)
				authed.POST("/auth/change-password", h.Auth.ChangePassword)

				authed.GET("/pets", h.Pets.ListOwn)
				authed.POST("/pets", h.Pets.CreateOwn)
				authed.GET("/pets/:id", withID, h.Pets.GetOwn)
				authed.PUT("/pets/:id", withID, h.Pets.UpdateOwn)
				authed.GET("/pets/:id/appointments", withID, h.Pets.OwnAppointments)

				authed.GET("/appointments", h.Appointments.ListOwn)
				authed.GET("/appointments/:id", withID, h.Appointments.GetOwn)
			}
		}

		// Админка
		admin := api.Group("/admin")
		{
			admin.POST("/auth/login", loginLimit, h.Auth.AdminLogin)
			admin.POST("/auth/logout", h.Auth.AdminLogout)

			authed := admin.Group("")
			authed.Use(authMiddleware.RequireAdmin())
			{
				authed.GET("/auth/me", h.Auth.AdminMe)

				clients := authed.Group("/clients")
				{
					clients.GET("", h.Clients.List)
					clients.POST("", h.Clients.Create)
					clientWithID := clients.Group("/:id")
					clientWithID.Use(withID)
					{
						clientWithID.GET("", h.Clients.Get)
						clientWithID.PUT("", h.Clients.Update)
						clientWithID.DELETE("", h.Clients.Delete)
						clientWithID.GET("/pets", h.Clients.ListPets)
						clientWithID.POST("/pets", h.Clients.CreatePet)
						clientWithID.GET("/consents", h.Clients.Consents)
						clientWithID.GET("/onboarding", h.Clients.Onboarding)
					}
				}

				pets := authed.Group("/pets/:id")
				pets.Use(withID)
				{
					pets.GET("", h.Pets.Get)
					pets.PUT("", h.Pets.Update)
					pets.DELETE("", h.Pets.Delete)
				}

				appointments := authed.Group("/appointments")
				{
					appointments.GET("", h.Appointments.List)
					appointments.GET("/:id", withID, h.Appointments.Get)
					appointments.PUT("/:id", withID, h.Appointments.Update)
					appointments.POST("/:id/assign", withID, h.Appointments.AssignOwner)
					appointments.DELETE("/:id", withID, h.Appointments.Delete)
				}

				contacts := authed.Group("/contacts")
				{
					contacts.GET("", h.Contacts.List)
					contacts.GET("/export", h.Contacts.Export)
					contacts.GET("/:id", withID, h.Contacts.Get)
					contacts.PUT("/:id/status", withID, h.Contacts.UpdateStatus)
					contacts.POST("/:id/reply", withID, h.Contacts.Reply)
					contacts.DELETE("/:id", withID, h.Contacts.Delete)
				}

				posts := authed.Group("/posts")
				{
					posts.GET("", h.Content.ListPosts)
					posts.POST("", h.Content.CreatePost)
					posts.GET("/:id", withID, h.Content.GetPost)
					posts.PUT("/:id", withID, h.Content.UpdatePost)
					posts.DELETE("/:id", withID, h.Content.DeletePost)
				}

				authed.GET("/redirects", h.Content.ListRedirects)
				authed.PUT("/redirects", h.Content.SaveRedirect)
				authed.DELETE("/redirects", h.Content.DeleteRedirect)

				authed.GET("/seo", h.Content.ListSEO)
				authed.PUT("/seo", h.Content.SaveSEO)
				authed.DELETE("/seo", h.Content.DeleteSEO)

				authed.GET("/analytics", h.Analytics.Summary)
				authed.GET("/analytics/export", h.Analytics.Export)

				authed.POST("/maintenance/reconcile", h.Maintenance.Reconcile)
			}
		}
	}

	router.NoRoute(h.Pages.Serve)
}
