package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"campusai/internal/ai"
	"campusai/internal/config"
	"campusai/internal/handler"
	authHandler "campusai/internal/handler/auth"
	"campusai/internal/pkg/cache"
	"campusai/internal/pkg/jwt"
	"campusai/internal/pkg/mongodb"
	"campusai/internal/pkg/paystack"
	"campusai/internal/repository"
	authRepo "campusai/internal/repository/auth"
	"campusai/internal/server/middleware"
	"campusai/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg      *config.Config
	engine   *gin.Engine
	mongo    *mongodb.Client
	redis    *cache.RedisCache
	aiClient *ai.Client
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 初始化 MongoDB (可选)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			// 创建索引
			if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 初始化 AI 客户端 (可选)
	var aiClient *ai.Client
	if cfg.AI.APIKey != "" {
		client, err := ai.NewClient(context.Background(), &cfg.AI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize AI client, continuing without it")
		} else {
			aiClient = client
			log.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model).Msg("initialized AI client")
		}
	} else {
		log.Warn().Msg("AI API key not configured, completions will fail")
	}

	srv := &Server{
		cfg:      cfg,
		engine:   engine,
		mongo:    mongoClient,
		redis:    redisCache,
		aiClient: aiClient,
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// unavailableCompleter AI 未配置时的占位实现
// 对话返回可见错误，人设合成走确定性兜底
type unavailableCompleter struct{}

func (unavailableCompleter) Complete(context.Context, string, *ai.SafetyConfig) (string, error) {
	return "", errors.New("AI provider not configured")
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 从配置读取JWT参数，如果没有配置则使用默认值
	jwtSecret := s.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}

	accessTokenExpiry := s.cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}

	refreshTokenExpiry := s.cfg.Auth.RefreshTokenExpiry
	if refreshTokenExpiry == 0 {
		refreshTokenExpiry = 7 * 24 * time.Hour
	}

	// AI 能力，未配置时降级为占位实现
	var completer service.Completer = unavailableCompleter{}
	if s.aiClient != nil {
		completer = s.aiClient
	}

	// API v1
	v1 := s.engine.Group("/api/v1")

	if s.mongo == nil {
		log.Warn().Msg("MongoDB not configured, API endpoints disabled")
		return
	}
	db := s.mongo.Database()

	// 仓库层
	userRepo := authRepo.NewUserRepo(db)
	refreshTokenRepo := authRepo.NewRefreshTokenRepo(db)
	botRepo := repository.NewBotRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)

	// 订阅缓存，Redis 不可用时直接读库
	var subCache service.SubscriptionCache
	if s.redis != nil {
		subCache = s.redis
	}

	// Paystack，未配置密钥时禁用支付核验
	var verifier service.TransactionVerifier
	if s.cfg.Paystack.SecretKey != "" {
		verifier = paystack.NewClient(&s.cfg.Paystack)
	} else {
		log.Warn().Msg("Paystack secret key not configured, payment verification disabled")
	}

	// 服务层
	authSvc := service.NewAuthService(userRepo, refreshTokenRepo, jwtSecret, accessTokenExpiry, refreshTokenExpiry)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, subCache, verifier)
	botSvc := service.NewBotService(botRepo, subscriptionSvc, completer, s.cfg.Quota.FreeBotLimit)
	resolver := service.NewBotResolver(botRepo)
	chatSvc := service.NewChatService(completer, messageRepo, resolver)

	// 处理器层
	authHdl := authHandler.NewHandler(authSvc)
	botHdl := handler.NewBotHandler(botSvc)
	chatHdl := handler.NewChatHandler(chatSvc)
	subscriptionHdl := handler.NewSubscriptionHandler(subscriptionSvc)
	webhookHdl := handler.NewWebhookHandler(s.cfg.Paystack.SecretKey, subscriptionSvc)

	// 认证接口（公开）
	v1.POST("/auth/register", authHdl.Register)
	v1.POST("/auth/login", authHdl.Login)
	v1.POST("/auth/refresh", authHdl.Refresh)
	v1.POST("/auth/logout", authHdl.Logout)

	// Webhook（公开，HMAC验签）
	v1.POST("/webhooks/paystack", webhookHdl.Paystack)

	// 需要认证的接口
	authorized := v1.Group("")
	authorized.Use(middleware.Auth(jwt.NewJWT(jwtSecret, accessTokenExpiry)))
	{
		authorized.GET("/auth/me", authHdl.GetMe)

		// Bot 接口
		authorized.GET("/bots", botHdl.List)
		authorized.POST("/bots", botHdl.Create)
		authorized.GET("/bots/watch", botHdl.Watch)
		authorized.DELETE("/bots/:id", botHdl.Delete)

		// 对话接口
		// 无 kind/id 的简写路由落到默认通用知识 Bot
		authorized.POST("/chat/messages", chatHdl.SendMessage)
		authorized.GET("/chat/messages", chatHdl.History)
		authorized.POST("/chat/:kind/:id/messages", chatHdl.SendMessage)
		authorized.GET("/chat/:kind/:id/messages", chatHdl.History)
		authorized.GET("/chat/:kind/:id/watch", chatHdl.Watch)

		// 订阅接口
		authorized.GET("/subscription", subscriptionHdl.Get)
		authorized.POST("/subscription/verify", subscriptionHdl.Verify)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}
		if s.aiClient != nil {
			if err := s.aiClient.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close AI client")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
