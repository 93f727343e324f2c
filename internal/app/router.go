package app

import (
	"quiz_hub_backend/docs"
	"quiz_hub_backend/internal/config"
	"quiz_hub_backend/internal/middleware"
	"quiz_hub_backend/internal/model"
	"quiz_hub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/token", c.auth.Token)
		public.POST("/token/refresh", c.auth.TokenRefresh)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/me", c.auth.Me)
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/users", c.user.ListUsers)

		quiz := authGroup.Group("/quiz")
		{
			quiz.GET("", c.quiz.ListQuizzes)
			quiz.GET("/:id", c.quiz.GetQuiz)
			quiz.GET("/:id/progress", c.membership.GetProgress)
			quiz.POST("/:id/submit", c.membership.Submit)

			// owner 专属操作
			owner := quiz.Group("")
			owner.Use(middleware.RoleMiddleware(model.Owner))
			{
				owner.POST("", c.quiz.CreateQuiz)
				owner.PATCH("/:id", c.quiz.UpdateQuiz)
				owner.DELETE("/:id", c.quiz.DeleteQuiz)
				owner.POST("/:id/publish", c.quiz.PublishQuiz)
				owner.POST("/:id/close", c.quiz.CloseQuiz)
				owner.POST("/:id/members", c.membership.AddMembers)
			}
		}
	}
}
