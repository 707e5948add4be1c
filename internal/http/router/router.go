package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/kaamwala-backend/internal/config"
	"github.com/ignatzorin/kaamwala-backend/internal/http/handlers"
	"github.com/ignatzorin/kaamwala-backend/internal/http/middleware"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
)

// Handlers набор хэндлеров API. Seed и Icons могут быть nil.
type Handlers struct {
	Categories    *handlers.CategoryHandler
	SubCategories *handlers.SubCategoryHandler
	Icons         *handlers.IconHandler
	Workers       *handlers.WorkerHandler
	Skills        *handlers.SkillHandler
	Health        *handlers.HealthHandler
	WS            *handlers.WSHandler
	Seed          *handlers.SeedHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.TokenParser, rateStore limiter.Store) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.IconStorage == config.IconStorageLocal {
		r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))
	}

	api := r.Group("/api")
	api.GET("/ws", h.WS.Handle)

	if h.Seed != nil && cfg.Env == "development" {
		api.POST("/seed", h.Seed.Seed)
	}

	// Публичное чтение каталога и поиск
	public := api.Group("/")
	if rateStore != nil {
		public.Use(middleware.RateLimitMiddleware(rateStore, cfg.RateLimitLimit, cfg.RateLimitPeriod))
	}
	{
		public.GET("/categories", h.Categories.List)
		public.GET("/categories/:id", middleware.IDValidator("id"), h.Categories.Get)
		public.GET("/categories/:id/subcategories", middleware.IDValidator("id"), h.SubCategories.ListInCategory)
		public.GET("/categories/:id/subcategories/:subId", middleware.IDValidator("id", "subId"), h.SubCategories.GetInCategory)

		public.GET("/subcategories", h.SubCategories.List)
		public.GET("/subcategories/:id", middleware.IDValidator("id"), h.SubCategories.Get)
		public.GET("/subcategories/:id/workers", middleware.IDValidator("id"), h.SubCategories.Workers)

		public.GET("/workers", h.Workers.Search)
		public.GET("/workers/search/category/:name", h.Workers.ByCategory)
		public.GET("/workers/search/skill/:name", h.Workers.BySkill)
		public.GET("/workers/search/location/:location", h.Workers.ByLocation)
		public.GET("/workers/top-rated", h.Workers.TopRated)
		public.GET("/workers/recent", h.Workers.Recent)

		public.GET("/users", h.Workers.ByRole)
		public.GET("/users/:id/skills", middleware.IDValidator("id"), h.Skills.ListForUser)
	}

	// Навыки текущего пользователя
	profile := api.Group("/profile")
	profile.Use(middleware.AuthMiddleware(tokens))
	{
		profile.GET("/skills", h.Skills.ListMine)
		profile.POST("/skills", h.Skills.Assign)
		profile.GET("/skills/primary", h.Skills.ListPrimary)
		profile.PUT("/skills/:id", middleware.IDValidator("id"), h.Skills.Update)
		profile.DELETE("/skills/:subCategoryId", middleware.IDValidator("subCategoryId"), h.Skills.Unassign)
	}

	// Изменение каталога только для администратора
	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/categories", h.Categories.Create)
		admin.PUT("/categories/:id", middleware.IDValidator("id"), h.Categories.Update)
		admin.DELETE("/categories/:id", middleware.IDValidator("id"), h.Categories.Deactivate)
		admin.POST("/categories/:id/reactivate", middleware.IDValidator("id"), h.Categories.Reactivate)
		if h.Icons != nil {
			admin.PUT("/categories/:id/icon", middleware.IDValidator("id"), h.Icons.Upload)
		}

		admin.POST("/categories/:id/subcategories", middleware.IDValidator("id"), h.SubCategories.Create)
		admin.PUT("/categories/:id/subcategories/:subId", middleware.IDValidator("id", "subId"), h.SubCategories.Update)
		admin.DELETE("/categories/:id/subcategories/:subId", middleware.IDValidator("id", "subId"), h.SubCategories.Deactivate)
		admin.POST("/categories/:id/subcategories/:subId/reactivate", middleware.IDValidator("id", "subId"), h.SubCategories.Reactivate)
	}

	return r
}
