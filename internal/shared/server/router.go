package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shelfvision-backend/internal/analysis"
	"shelfvision-backend/internal/llm"
	"shelfvision-backend/internal/llm/azure"
	"shelfvision-backend/internal/media"
	"shelfvision-backend/internal/pricing"
	"shelfvision-backend/internal/ratelimit"
	"shelfvision-backend/internal/shared/config"
	"shelfvision-backend/internal/shared/metrics"
	"shelfvision-backend/internal/shared/server/middleware"
	"shelfvision-backend/internal/shared/server/respond"
	"shelfvision-backend/internal/shared/storage/db"
	"shelfvision-backend/internal/shared/storage/object"
	localstore "shelfvision-backend/internal/shared/storage/object/local"
	s3store "shelfvision-backend/internal/shared/storage/object/s3"
	"shelfvision-backend/internal/video"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Session(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Polling GETs run on a looser budget than mutating calls so the UI can
	// refresh analysis status without tripping the default limit.
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet {
				switch c.FullPath() {
				case "/api/v1/analyses/:id", "/api/v1/analyses":
					return "POLLING"
				}
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 2, Burst: 10},
			"POLLING": {Rate: 10, Burst: 30},
		},
	}))

	// Object storage
	var store object.ObjectStore
	if cfg.ObjectStoreType == "s3" {
		s3, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3KMSKeyID)
		if err != nil {
			log.Printf("failed to init s3 store, falling back to local: %v", err)
		} else {
			store = s3
		}
	}
	if store == nil {
		store = localstore.New(cfg.LocalStoreDir)
	}

	// Database (media metadata only; analysis history is in-process)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.ConnectAndMigrate(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("database unavailable, falling back to memory: %v", err)
		} else {
			sqlDB = dbConn
		}
	}

	var mediaRepo media.MediaRepo
	if sqlDB != nil {
		mediaRepo = &media.PGRepo{DB: sqlDB}
	} else {
		mediaRepo = media.NewMemoryRepo()
	}
	mediaSvc := &media.Service{Store: store, Repo: mediaRepo}
	mediaHandler := media.NewHandler(mediaSvc)

	// Vision pipeline
	var llmClient llm.Client
	client, err := azure.NewClient(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIKey, cfg.AzureOpenAIAPIVersion, cfg.AzureOpenAIDeployment)
	if err != nil {
		log.Printf("llm client unavailable: %v", err)
	} else {
		llmClient = client
	}
	limiter := ratelimit.New(ratelimit.Limits{
		TokensPerMinute:   cfg.TokensPerMinute,
		RequestsPerMinute: cfg.RequestsPerMinute,
		EstimatedTokens:   cfg.EstimatedTokens,
	})
	pipe := analysis.NewPipeline(llmClient, limiter, video.NewSampler())
	pipe.MaxConcurrent = cfg.MaxConcurrentCalls

	analysisSvc := &analysis.Service{
		Repo:  analysis.NewMemoryRepo(),
		Media: mediaSvc,
		Pipe:  pipe,
	}
	analysisHandler := analysis.NewHandler(analysisSvc)

	// Price comparison
	pricingSvc := &pricing.Service{Engine: pricing.NewRecommendationEngine()}
	if cfg.SerpAPIKey != "" {
		pricingSvc.Search = pricing.NewSerpClient(cfg.SerpAPIKey)
	}
	pricingHandler := pricing.NewHandler(pricingSvc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	mediaHandler.RegisterRoutes(api)
	analysisHandler.RegisterRoutes(api)
	pricingHandler.RegisterRoutes(api)
	if cfg.Env == "dev" {
		api.GET("/metrics", metrics.Handler())
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
