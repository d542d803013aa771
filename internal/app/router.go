package app

import (
	"lingua_edu_backend/docs"
	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/middleware"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
	router.GET("/health", c.health.HealthCheck)
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.GetProfile)
	group.PUT("/profile", c.user.UpdateProfile)

	// 课程浏览
	group.GET("/lessons/listening", c.lesson.GetPublishedListening)
	group.GET("/lessons/reading", c.lesson.GetPublishedReading)
	group.GET("/lessons/listening/:id", c.lesson.GetListening)
	group.GET("/lessons/reading/:id", c.lesson.GetReading)
	group.GET("/questions/:kind/:id", c.lesson.GetQuestions)
	group.GET("/categories", c.lesson.ListCategories)

	// 答题与进度
	group.POST("/submit", c.grade.SubmitLesson)
	group.GET("/progress", c.grade.GetMyProgress)
	group.GET("/analytics/me", c.analytics.GetMyReport)

	// 词汇
	group.GET("/vocabulary", c.vocabulary.List)
	group.POST("/vocabulary/:id/learned", c.vocabulary.MarkLearned)
	group.GET("/vocabulary/learned/count", c.vocabulary.CountLearned)
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/lessons/listening", c.lesson.CreateListening)
		teacher.GET("/lessons/listening", c.lesson.ListListening)
		teacher.PUT("/lessons/listening/:id", c.lesson.UpdateListening)
		teacher.DELETE("/lessons/listening/:id", c.lesson.DeleteListening)
		teacher.POST("/lessons/listening/:id/audio", c.lesson.UploadAudio)

		teacher.POST("/lessons/reading", c.lesson.CreateReading)
		teacher.GET("/lessons/reading", c.lesson.ListReading)
		teacher.PUT("/lessons/reading/:id", c.lesson.UpdateReading)
		teacher.DELETE("/lessons/reading/:id", c.lesson.DeleteReading)

		teacher.POST("/questions", c.lesson.CreateQuestion)
		teacher.PUT("/questions/:id", c.lesson.UpdateQuestion)
		teacher.DELETE("/questions/:id", c.lesson.DeleteQuestion)

		teacher.POST("/categories", c.lesson.CreateCategory)

		teacher.POST("/vocabulary", c.vocabulary.Create)
		teacher.PUT("/vocabulary/:id", c.vocabulary.Update)
		teacher.DELETE("/vocabulary/:id", c.vocabulary.Delete)
	}

	analytics := group.Group("/analytics")
	analytics.Use(middleware.RoleMiddleware(model.Teacher))
	{
		analytics.GET("/summary", c.analytics.GetSystemSummary)
		analytics.GET("/activity", c.analytics.GetWeeklyActivity)
		analytics.GET("/lessons", c.analytics.GetAllLessonsAnalytics)
		analytics.GET("/lessons/:kind/:id", c.analytics.GetLessonAnalytics)
		analytics.GET("/students", c.analytics.GetAllStudentReports)
		analytics.GET("/students/:id", c.analytics.GetStudentReport)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.PUT("/users/:id/active", c.user.SetActive)
	}
}
