package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shiine-academy-backend/internal/config"
	"shiine-academy-backend/internal/handlers"
	"shiine-academy-backend/internal/middleware"
	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/payments"
	"shiine-academy-backend/internal/payments/edahab"
	"shiine-academy-backend/internal/payments/waafi"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/internal/seed"
	"shiine-academy-backend/internal/service"
	"shiine-academy-backend/internal/statestore"
	"shiine-academy-backend/pkg/cache"
	"shiine-academy-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	db    *gorm.DB
	cache *cache.Cache
	store *statestore.Store

	rateLimits      *middleware.RateLimitManager
	unbindAuthHooks func()

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	User       repository.UserRepository
	Course     repository.CourseRepository
	Lesson     repository.LessonRepository
	Quiz       repository.QuizQuestionRepository
	Enrollment repository.EnrollmentRepository
	Attempt    repository.PaymentAttemptRepository
}

type serviceContainer struct {
	Auth     *service.AuthService
	Catalog  *service.CatalogService
	Access   *service.AccessService
	Lesson   *service.LessonService
	Progress *service.ProgressService
	Quiz     *service.QuizService
	Payment  *service.PaymentService
	Admin    *service.AdminService
	Upload   *service.UploadService
	Email    *service.EmailService
}

type handlerContainer struct {
	Auth    *handlers.AuthHandler
	Course  *handlers.CourseHandler
	Access  *handlers.AccessHandler
	Player  *handlers.PlayerHandler
	Payment *handlers.PaymentHandler
	Upload  *handlers.UploadHandler
	User    *handlers.UserHandler
}

func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.runMigrations(); err != nil {
		return nil, err
	}
	if err := app.createIndexes(); err != nil {
		return nil, err
	}

	app.initCache()
	app.initRepositories()
	app.initServices()
	app.unbindAuthHooks = service.BindAuthEvents(app.services.Auth, app.services.Access)

	seed.EnsureSampleCourses(app.repositories.Course, app.repositories.Lesson)

	app.rateLimits = middleware.NewRateLimitManager(ctx)
	app.initHandlers()
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.unbindAuthHooks != nil {
		a.unbindAuthHooks()
	}

	if a.rateLimits != nil {
		if err := a.rateLimits.Shutdown(); err != nil {
			logger.Error(err, "Failed to stop rate limit manager", nil)
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.QuizQuestion{},
		&models.Enrollment{},
		&models.PaymentAttempt{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_courses_type_id ON courses(type, id)",
		"CREATE INDEX IF NOT EXISTS idx_payment_attempts_user_created ON payment_attempts(user_id, created_at DESC)",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() {
	if a.cfg.EnableRedis {
		a.cache = cache.NewCache(a.cfg.RedisURL, true)
	} else {
		a.cache = cache.NewCache("", false)
	}
	a.store = statestore.NewStore(a.cache)
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User:       repository.NewUserRepository(a.db),
		Course:     repository.NewCourseRepository(a.db),
		Lesson:     repository.NewLessonRepository(a.db),
		Quiz:       repository.NewQuizQuestionRepository(a.db),
		Enrollment: repository.NewEnrollmentRepository(a.db),
		Attempt:    repository.NewPaymentAttemptRepository(a.db),
	}
}

func (a *Application) initServices() {
	email := service.NewEmailService(a.cfg)
	auth := service.NewAuthService(a.repositories.User, a.cache, a.cfg, email)
	catalog := service.NewCatalogService(a.repositories.Course, a.cache)
	access := service.NewAccessService(a.repositories.Course, a.repositories.Enrollment, a.store)

	a.services = serviceContainer{
		Email:    email,
		Auth:     auth,
		Catalog:  catalog,
		Access:   access,
		Lesson:   service.NewLessonService(a.repositories.Course, a.repositories.Lesson, access, a.store),
		Progress: service.NewProgressService(a.repositories.Lesson, a.store),
		Quiz:     service.NewQuizService(a.repositories.Quiz, a.store),
		Payment: service.NewPaymentService(
			a.buildPaymentProviders(),
			a.repositories.Course,
			a.repositories.Enrollment,
			a.repositories.Attempt,
			access,
		),
		Admin:  service.NewAdminService(a.repositories.Course, a.repositories.Lesson, a.repositories.Quiz, catalog),
		Upload: service.NewUploadService(a.cfg.UploadDir, a.cfg.MaxUploadSize),
	}
}

// buildPaymentProviders wires the configured gateways. EVC Plus and Waafi
// wallets ride the same Waafi purchase API; eDahab has its own invoice API.
// Unconfigured gateways are simply absent, and charges against them fail
// before any network call.
func (a *Application) buildPaymentProviders() map[payments.Method]payments.Provider {
	providers := make(map[payments.Method]payments.Provider)

	if a.cfg.WaafiConfigured() {
		provider, err := waafi.NewProvider(waafi.Config{
			APIURL:      a.cfg.WaafiAPIURL,
			MerchantUID: a.cfg.WaafiMerchantUID,
			APIUserID:   a.cfg.WaafiAPIUserID,
			APIKey:      a.cfg.WaafiAPIKey,
		})
		if err != nil {
			logger.Error(err, "Failed to initialise waafi provider", nil)
		} else {
			providers[payments.MethodEVC] = provider
			providers[payments.MethodWaafi] = provider
		}
	}

	if a.cfg.EdahabConfigured() {
		provider, err := edahab.NewProvider(edahab.Config{
			APIURL:    a.cfg.EdahabAPIURL,
			APIKey:    a.cfg.EdahabAPIKey,
			AgentCode: a.cfg.EdahabAgentCode,
			Secret:    a.cfg.EdahabSecret,
			ReturnURL: a.cfg.PaymentReturnURL,
		})
		if err != nil {
			logger.Error(err, "Failed to initialise edahab provider", nil)
		} else {
			providers[payments.MethodEdahab] = provider
		}
	}

	if len(providers) == 0 {
		logger.Warn("No payment gateways configured, paid courses cannot be purchased", nil)
	}

	return providers
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:    handlers.NewAuthHandler(a.services.Auth, a.services.Access, a.cfg.IsProduction()),
		Course:  handlers.NewCourseHandler(a.services.Catalog, a.services.Admin),
		Access:  handlers.NewAccessHandler(a.services.Access),
		Player:  handlers.NewPlayerHandler(a.services.Lesson, a.services.Progress, a.services.Quiz),
		Payment: handlers.NewPaymentHandler(a.services.Payment),
		Upload:  handlers.NewUploadHandler(a.services.Upload),
		User:    handlers.NewUserHandler(a.services.Auth, a.services.Access),
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.RateLimitMiddleware(a.rateLimits, a.cfg))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.Static("/uploads", a.cfg.UploadDir)

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(middleware.OptionalAuthMiddleware(a.cfg.JWTSecret))
		{
			public.POST("/auth/request-code",
				middleware.CriticalRateLimit(a.rateLimits, "otp", 5, 600),
				a.handlers.Auth.RequestCode)
			public.POST("/auth/signup", a.handlers.Auth.SignUp)
			public.POST("/auth/login", a.handlers.Auth.Login)

			public.GET("/courses", a.handlers.Course.List)
			public.GET("/courses/:id", a.handlers.Course.Get)

			public.GET("/state", a.handlers.Access.State)
			public.POST("/state/select", a.handlers.Access.Select)
			public.POST("/state/preview", a.handlers.Access.Preview)

			public.GET("/courses/:id/player", a.handlers.Player.Player)
			public.GET("/courses/:id/quiz", a.handlers.Player.Quiz)
			public.POST("/courses/:id/lessons/:lessonId/open", a.handlers.Player.OpenLesson)
			public.GET("/courses/:id/lessons/:lessonId/next", a.handlers.Player.NextLesson)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		{
			protected.POST("/auth/logout", a.handlers.Auth.Logout)
			protected.GET("/profile", a.handlers.Auth.Me)
			protected.PUT("/profile", a.handlers.Auth.UpdateProfile)

			protected.POST("/state/enroll", a.handlers.Access.Enroll)

			protected.POST("/courses/:id/progress", a.handlers.Player.MarkComplete)
			protected.GET("/courses/:id/progress", a.handlers.Player.Progress)
			protected.POST("/courses/:id/quiz/submit", a.handlers.Player.SubmitQuiz)

			protected.POST("/payments",
				middleware.CriticalRateLimit(a.rateLimits, "payment", 10, 600),
				a.handlers.Payment.Process)
			protected.GET("/payments/history", a.handlers.Payment.History)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		admin.Use(middleware.AdminMiddleware(a.cfg.AdminEmails))
		{
			admin.POST("/courses", a.handlers.Course.Create)
			admin.PUT("/courses/:id", a.handlers.Course.Update)
			admin.DELETE("/courses/:id", a.handlers.Course.Delete)

			admin.GET("/courses/:id/lessons", a.handlers.Course.ListLessons)
			admin.POST("/courses/:id/lessons", a.handlers.Course.AddLesson)
			admin.DELETE("/courses/:id/lessons/:lessonId", a.handlers.Course.DeleteLesson)

			admin.GET("/courses/:id/quiz", a.handlers.Course.ListQuizQuestions)
			admin.POST("/courses/:id/quiz", a.handlers.Course.AddQuizQuestion)
			admin.DELETE("/courses/:id/quiz/:questionId", a.handlers.Course.DeleteQuizQuestion)

			admin.POST("/upload",
				middleware.CriticalRateLimit(a.rateLimits, "upload", 20, 600),
				a.handlers.Upload.UploadImage)
			admin.DELETE("/upload", a.handlers.Upload.DeleteImage)

			admin.GET("/users", a.handlers.User.List)
			admin.DELETE("/users/:id", a.handlers.User.Delete)
			admin.PUT("/users/:id/role", a.handlers.User.UpdateRole)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "route not found",
			"path":  c.Request.URL.Path,
		})
	})

	a.router = router
}
