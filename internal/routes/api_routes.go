package routes

import (
	"tacticalops/clanhub/internal/api"
	"tacticalops/clanhub/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies, limiter *middleware.RateLimiter) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)

		// Public reads
		v1.Get("/clans", handlers.ListClans())
		v1.Get("/clans/top", handlers.TopClans())
		v1.Get("/clans/search", handlers.SearchClans())
		v1.Get("/clans/{clan_id}", handlers.GetClan())
		v1.Get("/clans/{clan_id}/members", handlers.GetMembers())
		v1.Get("/ranks/progress", handlers.RankProgress())
		v1.Get("/fields", handlers.ValidFields())

		// Signed-in players
		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(deps.Services.Tokens))

			authed.Post("/clans", handlers.CreateClan())
			authed.Put("/clans/{clan_id}", handlers.UpdateClan())
			authed.Post("/clans/{clan_id}/join", handlers.JoinClan())
			authed.Post("/clans/{clan_id}/leave", handlers.LeaveClan())
			authed.Post("/clans/{clan_id}/invite", handlers.InviteMember())
			authed.Delete("/clans/{clan_id}/members/{user_id}", handlers.RemoveMember())
			authed.Put("/clans/{clan_id}/officer", handlers.AssignSeniorOfficer())
			authed.Delete("/clans/{clan_id}/officer", handlers.RemoveSeniorOfficer())
			authed.Get("/clans/{clan_id}/can-manage", handlers.CanManage())
			authed.Post("/clans/{clan_id}/deactivate", handlers.DeactivateClan())

			// Site admins
			authed.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())
				admin.Post("/clans/{clan_id}/points", handlers.AwardPoints())
				admin.Post("/clans/{clan_id}/achievements", handlers.AddAchievement())
			})
		})
	})
}
