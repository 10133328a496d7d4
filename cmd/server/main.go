package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ci-insights/actionscope/internal/handlers"
	"github.com/ci-insights/actionscope/internal/middleware"
	"github.com/ci-insights/actionscope/internal/repositories"
	"github.com/ci-insights/actionscope/internal/services"
	"github.com/ci-insights/actionscope/internal/workers"
	"github.com/ci-insights/actionscope/pkg/config"
	"github.com/ci-insights/actionscope/pkg/database"
	"github.com/ci-insights/actionscope/pkg/logger"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set Gin mode
	gin.SetMode(config.AppConfig.Server.Mode)

	// Initialize structured logging
	logger.Init()

	// Initialize database
	if err := database.Init(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize repositories
	repositoryRepo := repositories.NewRepositoryRepository(database.DB)
	changeRepo := repositories.NewChangeRepository(database.DB)
	ownershipRepo := repositories.NewOwnershipRepository(database.DB)
	jobRepo := repositories.NewJobRepository(database.DB)

	// Initialize services
	githubService := services.NewGitHubService()
	repositoryService := services.NewRepositoryService(repositoryRepo, changeRepo, ownershipRepo, githubService)
	jobService := services.NewJobService(jobRepo)
	cloneService := services.NewCloneService(repositoryRepo)
	gitLogService := services.NewGitLogService()
	importService := services.NewImportService()
	filterService := services.NewWorkflowFilterService(
		config.AppConfig.Workflow.Dir,
		config.AppConfig.Workflow.Extensions,
	)
	ownershipService := services.NewOwnershipService()
	authorStatsService := services.NewAuthorStatsService(changeRepo, ownershipRepo)
	chartService := services.NewChartService(authorStatsService)
	exportService := services.NewExportService(authorStatsService)

	// Initialize worker manager
	workerManager := workers.NewWorkerManager(
		jobRepo, repositoryRepo, changeRepo, ownershipRepo,
		cloneService, gitLogService, filterService, ownershipService,
	)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	// Setup static files
	router.Static("/static", "./web/static")

	// Setup routes
	setupRoutes(router, repositoryService, jobService, authorStatsService, importService, changeRepo, chartService, exportService)
	loadTemplates(router)

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}
	defer workerManager.StopAll()

	// Setup server
	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	repositoryService *services.RepositoryService,
	jobService *services.JobService,
	authorStatsService *services.AuthorStatsService,
	importService *services.ImportService,
	changeRepo *repositories.ChangeRepository,
	chartService *services.ChartService,
	exportService *services.ExportService,
) {
	// Initialize handlers
	homeHandler := handlers.NewHomeHandler(repositoryService)
	repositoryHandler := handlers.NewRepositoryHandler(repositoryService, jobService, authorStatsService, importService, changeRepo)
	chartHandler := handlers.NewChartHandler(chartService)
	exportHandler := handlers.NewExportHandler(repositoryService, exportService)
	apiHandler := handlers.NewAPIHandler(repositoryService, authorStatsService)
	healthHandler := handlers.NewHealthHandler()
	notFoundHandler := handlers.NewNotFoundHandler()

	// Home page
	router.GET("/", homeHandler.Index)

	// Repository pages
	repos := router.Group("/repositories")
	{
		repos.GET("/create", repositoryHandler.RegisterForm)
		repos.POST("/create", repositoryHandler.Register)
		repos.GET("/:id", repositoryHandler.View)
		repos.GET("/:id/files/:file", repositoryHandler.ViewFile)
		repos.POST("/:id/analyze", repositoryHandler.Analyze)
		repos.POST("/:id/import", repositoryHandler.Import)
		repos.POST("/:id/delete", repositoryHandler.Delete)
		repos.GET("/:id/charts/contributions", chartHandler.Contributions)
		repos.GET("/:id/charts/ownership/:file", chartHandler.Ownership)
		repos.GET("/:id/export", exportHandler.Export)
	}

	// JSON API
	api := router.Group("/api")
	{
		api.GET("/repositories", apiHandler.ListRepositories)
		api.GET("/repositories/:id/files", apiHandler.FileSummaries)
		api.GET("/repositories/:id/authors", apiHandler.AuthorStats)
		api.GET("/repositories/:id/files/:file/timeline", apiHandler.FileTimeline)
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)

	// 404 for everything else
	router.NoRoute(notFoundHandler.NotFound)
}

func loadTemplates(router *gin.Engine) {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal("Couldn't get working directory:", err)
	}

	router.LoadHTMLFiles(
		filepath.Join(cwd, "web/templates/layouts/header.html"),
		filepath.Join(cwd, "web/templates/layouts/footer.html"),
		filepath.Join(cwd, "web/templates/index.html"),
		filepath.Join(cwd, "web/templates/error.html"),
		filepath.Join(cwd, "web/templates/404.html"),
		filepath.Join(cwd, "web/templates/repositories/create.html"),
		filepath.Join(cwd, "web/templates/repositories/view.html"),
		filepath.Join(cwd, "web/templates/repositories/file.html"),
	)
}
