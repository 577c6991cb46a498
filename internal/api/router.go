package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/config"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/auth"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, tokens *auth.TokenIssuer, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Public routes
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authed := api.Group("")
		authed.Use(mw.RequireAuth(tokens))
		{
			authed.GET("/auth/me", handler.Me)
			authed.POST("/auth/logout", handler.Logout)

			authed.GET("/requests", handler.ListRequests)
			authed.POST("/requests", handler.CreateRequest)
			authed.GET("/requests/kanban", handler.GetKanban)
			authed.GET("/requests/calendar", caching, handler.GetCalendar)
			authed.GET("/requests/:id", handler.GetRequest)
			authed.PUT("/requests/:id", handler.UpdateRequest)
			authed.DELETE("/requests/:id", handler.DeleteRequest)
			authed.PATCH("/requests/:id/status", handler.UpdateStatus)
			authed.GET("/requests/:id/history", handler.GetRequestHistory)

			authed.GET("/equipment", handler.ListEquipment)
			authed.POST("/equipment", handler.CreateEquipment)
			authed.GET("/equipment/:id", handler.GetEquipment)
			authed.PUT("/equipment/:id", handler.UpdateEquipment)
			authed.DELETE("/equipment/:id", handler.DeleteEquipment)

			authed.GET("/teams", handler.ListTeams)
			authed.POST("/teams", handler.CreateTeam)
			authed.GET("/teams/:id", handler.GetTeam)
			authed.PUT("/teams/:id", handler.UpdateTeam)
			authed.DELETE("/teams/:id", handler.DeleteTeam)
			authed.GET("/teams/:id/members", handler.ListTeamMembers)
			authed.POST("/teams/:id/members", handler.AddTeamMember)
			authed.DELETE("/teams/:id/members/:user_id", handler.RemoveTeamMember)

			authed.GET("/users", handler.ListUsers)

			authed.GET("/dashboard/kpis", caching, handler.GetDashboardKPIs)
			authed.GET("/dashboard/recent-activity", handler.GetRecentActivity)

			authed.GET("/subscriptions", handler.GetSubscriptions)
			authed.PUT("/subscriptions", handler.PutSubscription)
			authed.DELETE("/subscriptions", handler.DeleteSubscription)
		}
	}

	return r
}
