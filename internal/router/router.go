package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	commonmw "github.com/OrangesCloud/wealist-advanced-go-pkg/middleware"

	"school-portal-api/internal/auth"
	"school-portal-api/internal/cache"
	"school-portal-api/internal/client"
	"school-portal-api/internal/config"
	"school-portal-api/internal/domain"
	"school-portal-api/internal/handler"
	"school-portal-api/internal/metrics"
	"school-portal-api/internal/middleware"
	"school-portal-api/internal/repository"
	"school-portal-api/internal/service"
)

const serviceName = "school-portal-api"

// Config holds the dependencies the router wires into handlers
type Config struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *zap.Logger

	JWTSecret string
	// Guard overrides the JWT guard built from JWTSecret
	Guard auth.AccessGuard

	BasePath       string
	AllowedOrigins []string
	Content        config.ContentConfig
	Metrics        *metrics.Metrics

	Store     client.ObjectStore
	ListCache cache.ListCache
	Notifier  client.NotificationClient
}

// Setup builds the gin engine with every route of the portal
func Setup(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Content.MaxFileSizeBytes

	r.Use(middleware.Recovery(logger))
	r.Use(commonmw.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.Credential())

	guard := cfg.Guard
	if guard == nil {
		guard = auth.NewJWTGuard(cfg.JWTSecret, logger)
	}

	// Initialize repositories
	contentRepo := repository.NewContentRepository(cfg.DB)
	attachmentRepo := repository.NewAttachmentRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)

	// Initialize services
	registry := service.NewAttachmentRegistry(attachmentRepo, cfg.Store, cfg.Content, cfg.Metrics, logger)
	contentService := service.NewContentService(contentRepo, registry, guard, cfg.ListCache, cfg.Content, cfg.Metrics, logger)
	commentService := service.NewCommentService(commentRepo, contentRepo, guard, cfg.Notifier, cfg.Metrics, logger)

	// Initialize handlers
	contentHandler := handler.NewContentHandler(contentService, cfg.Content, logger)
	attachmentHandler := handler.NewAttachmentHandler(contentService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis, serviceName)

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.BasePath)
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))
		api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		for _, kind := range domain.AllKinds {
			spec, _ := domain.SpecFor(kind)
			group := api.Group("/" + spec.PathSegment)

			group.GET("", contentHandler.List(kind))
			group.POST("", contentHandler.Create(kind))
			group.GET("/:id/attachments", contentHandler.ListAttachments(kind))
			group.DELETE("/:id", contentHandler.Delete(kind))

			// roadmaps are addressed by type as well as by id
			if spec.KeyedByType {
				group.GET("/:id", contentHandler.GetRoadmap)
				group.PUT("/:id", contentHandler.PutRoadmap)
				continue
			}
			group.GET("/:id", contentHandler.Get(kind))
			group.PUT("/:id", contentHandler.Update(kind))
		}

		api.DELETE("/attachments/:id", attachmentHandler.DeleteAttachment)

		comments := api.Group("/comments")
		{
			comments.GET("/:type/:postId", commentHandler.GetComments)
			comments.POST("/:type/:postId", commentHandler.CreateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	return r
}
