package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yourusername/drivetest-api/internal/config"
	"github.com/yourusername/drivetest-api/internal/handler"
	"github.com/yourusername/drivetest-api/internal/middleware"
	"github.com/yourusername/drivetest-api/internal/quiz"
	pgRepo "github.com/yourusername/drivetest-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/drivetest-api/internal/repository/redis"
	"github.com/yourusername/drivetest-api/internal/service"
	"github.com/yourusername/drivetest-api/pkg/auth"
	"github.com/yourusername/drivetest-api/pkg/database"
)

func main() {
	// .env для локальной разработки; в проде переменные задаются окружением
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	testRepo := pgRepo.NewTestRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)
	settingsRepo := pgRepo.NewSettingsRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Почтовые уведомления: Resend в проде, заглушка при выключенной отправке
	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
	} else {
		emailService = &service.NoopEmailService{}
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService, emailService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo, resultRepo)
	testService := service.NewTestService(testRepo, questionRepo, cacheRepo)
	questionService := service.NewQuestionService(questionRepo, testRepo)
	resultService := service.NewResultService(resultRepo)
	settingsService := service.NewSettingsService(settingsRepo, cacheRepo)

	uploadService, err := service.NewUploadService(cfg.Upload.Dir, cfg.Upload.MaxSizeMB)
	if err != nil {
		log.Printf("Failed to initialize UploadService: %v", err)
		os.Exit(1)
	}

	sessionManager := quiz.NewManager()
	quizService := service.NewQuizService(sessionManager, questionService, settingsService, resultService)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	testHandler := handler.NewTestHandler(testService)
	questionHandler := handler.NewQuestionHandler(questionService)
	resultHandler := handler.NewResultHandler(resultService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	quizHandler := handler.NewQuizHandler(quizService)
	wsHandler := handler.NewWSHandler(quizService, jwtService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.Default()

	if gin.Mode() == gin.ReleaseMode {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Раздача загруженных изображений
	router.Static("/uploads/images", uploadService.Dir())

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация и профиль
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.GET("/me", authHandler.GetMe)
				authedAuth.PUT("/profile", authHandler.UpdateProfile)
			}
		}

		// Тесты (темы)
		testGroup := api.Group("/tests")
		{
			testGroup.GET("", testHandler.GetTests)
			testGroup.GET("/topics", testHandler.GetTopics)
			testGroup.GET("/:id", middleware.ExtractUintParam("id", "testID"), testHandler.GetTest)
			testGroup.GET("/:id/questions", middleware.ExtractUintParam("id", "testID"), questionHandler.GetTestQuestions)

			adminTests := testGroup.Group("")
			adminTests.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminTests.POST("", testHandler.CreateTest)
				adminTests.PUT("/:id", middleware.ExtractUintParam("id", "testID"), testHandler.UpdateTest)
				adminTests.DELETE("/:id", middleware.ExtractUintParam("id", "testID"), testHandler.DeleteTest)
			}
		}

		// Вопросы
		questionGroup := api.Group("/questions")
		{
			questionGroup.GET("", questionHandler.GetQuestions)
			questionGroup.GET("/random", questionHandler.GetRandomQuestions)
			questionGroup.GET("/:id", middleware.ExtractUintParam("id", "questionID"), questionHandler.GetQuestion)

			adminQuestions := questionGroup.Group("")
			adminQuestions.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminQuestions.POST("", questionHandler.CreateQuestion)
				adminQuestions.PUT("/:id", middleware.ExtractUintParam("id", "questionID"), questionHandler.UpdateQuestion)
				adminQuestions.DELETE("/:id", middleware.ExtractUintParam("id", "questionID"), questionHandler.DeleteQuestion)
				adminQuestions.GET("/export", questionHandler.ExportQuestions)
			}
		}

		// Сессии прохождения тестов
		quizGroup := api.Group("/quiz")
		quizGroup.Use(authMiddleware.RequireAuth())
		{
			quizGroup.GET("/session", quizHandler.GetSession)
			quizGroup.POST("/mode", quizHandler.SelectMode)
			quizGroup.PUT("/settings", quizHandler.UpdateSettings)
			quizGroup.POST("/practice-override", quizHandler.SetPracticeOverride)
			quizGroup.POST("/start", quizHandler.Start)
			quizGroup.POST("/answer", quizHandler.Answer)
			quizGroup.POST("/confirm", quizHandler.ConfirmAnswer)
			quizGroup.POST("/navigate", quizHandler.Navigate)
			quizGroup.POST("/finish", quizHandler.Finish)
			quizGroup.POST("/cancel", quizHandler.Cancel)
		}

		// Результаты
		resultGroup := api.Group("/results")
		resultGroup.Use(authMiddleware.RequireAuth())
		{
			resultGroup.POST("", resultHandler.SaveResult)
			resultGroup.GET("", resultHandler.GetMyResults)
			resultGroup.GET("/latest", resultHandler.GetLatestResult)
			resultGroup.GET("/stats", resultHandler.GetMyStats)
			resultGroup.GET("/:id", middleware.ExtractUintParam("id", "resultID"), resultHandler.GetResult)
		}

		// Настройки экзамена
		settingsGroup := api.Group("/exam-settings")
		{
			settingsGroup.GET("", settingsHandler.GetSettings)

			adminSettings := settingsGroup.Group("")
			adminSettings.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminSettings.PUT("", settingsHandler.UpdateSettings)
			}
		}

		// Загрузка изображений
		uploadGroup := api.Group("/upload")
		uploadGroup.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			uploadGroup.POST("/image", uploadHandler.UploadImage)
			uploadGroup.DELETE("/image/:fileName", uploadHandler.DeleteImage)
		}

		// Администрирование пользователей и статистика
		adminGroup := api.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			adminGroup.GET("/users", userHandler.GetUsers)
			adminGroup.POST("/users", userHandler.CreateUser)
			adminGroup.GET("/users/:id", middleware.ExtractUintParam("id", "userID"), userHandler.GetUser)
			adminGroup.PUT("/users/:id", middleware.ExtractUintParam("id", "userID"), userHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", middleware.ExtractUintParam("id", "userID"), userHandler.DeleteUser)
			adminGroup.GET("/stats", userHandler.GetOverallStats)
		}
	}

	// WebSocket таймер экзамена
	router.GET("/ws/quiz", wsHandler.HandleTimer)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
