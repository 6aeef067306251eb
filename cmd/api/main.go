package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"github.com/rohit30san/thapar-olx/internal/adapter/api"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	apimiddleware "github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/router"
	"github.com/rohit30san/thapar-olx/internal/adapter/repository"
	"github.com/rohit30san/thapar-olx/internal/adapter/repository/memstore"
	domainrepo "github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/cache"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/firebase"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/mailer"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/messaging"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/metrics"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/ratelimit"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/storage"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/websocket"
	"github.com/rohit30san/thapar-olx/internal/usecase"
	"github.com/rohit30san/thapar-olx/pkg/config"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

type stores struct {
	users         domainrepo.UserRepository
	listings      domainrepo.ListingRepository
	deals         domainrepo.DealRepository
	conversations domainrepo.ConversationRepository
	reviews       domainrepo.ReviewRepository
	reports       domainrepo.ReportRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]handler.Pinger{}

	var (
		st       stores
		identity service.IdentityProvider
		assets   service.AssetStore
		devAuth  *firebase.DevIdentityProvider
		uploads  *storage.MemoryAssetStore
	)

	if cfg.UseMemoryStore() {
		logger.Warn("Using the in-memory store: data is lost on restart and tokens are unsigned")

		mem := memstore.New()
		st = stores{
			users:         mem.Users(),
			listings:      mem.Listings(),
			deals:         mem.Deals(),
			conversations: mem.Conversations(),
			reviews:       mem.Reviews(),
			reports:       mem.Reports(),
		}
		devAuth = firebase.NewDevIdentityProvider(cfg.PublicBaseURL)
		identity = devAuth
		uploads = storage.NewMemoryAssetStore(cfg.PublicBaseURL + "/dev/uploads")
		assets = uploads
	} else {
		var opt option.ClientOption
		switch {
		case cfg.FirebaseCredentialsJSON != "":
			logger.Info("Using Firebase service account from environment variable")
			opt = option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON))
		case cfg.FirebaseCredentialsPath != "":
			if _, err := os.Stat(cfg.FirebaseCredentialsPath); os.IsNotExist(err) {
				log.Fatalf("Service account file does not exist: %s", cfg.FirebaseCredentialsPath)
			}
			logger.Info("Using Firebase service account from file: %s", cfg.FirebaseCredentialsPath)
			opt = option.WithCredentialsFile(cfg.FirebaseCredentialsPath)
		default:
			logger.Info("Using application default credentials")
		}

		var opts []option.ClientOption
		if opt != nil {
			opts = append(opts, opt)
		}

		firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
			ProjectID:     cfg.FirebaseProject,
			StorageBucket: cfg.StorageBucket,
		}, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}

		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}

		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage: %v", err)
		}
		defer storageClient.Close()

		st = stores{
			users:         repository.NewFirestoreUserRepository(firestoreClient),
			listings:      repository.NewFirestoreListingRepository(firestoreClient),
			deals:         repository.NewFirestoreDealRepository(firestoreClient),
			conversations: repository.NewFirestoreConversationRepository(firestoreClient),
			reviews:       repository.NewFirestoreReviewRepository(firestoreClient),
			reports:       repository.NewFirestoreReportRepository(firestoreClient),
		}
		identity = firebase.NewFirebaseAuthClient(authClient)
		assets = storageClient

		checks["firestore"] = func(ctx context.Context) error {
			return repository.Ping(ctx, firestoreClient)
		}
	}

	var ratingCache service.RatingCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRatingCache(cfg.RedisAddr)
		if err != nil {
			logger.Warn("Redis unavailable at %s, ratings are computed on every request: %v", cfg.RedisAddr, err)
		} else {
			defer redisCache.Close()
			ratingCache = redisCache
			checks["redis"] = redisCache.Ping
		}
	}

	var publisher service.EventPublisher
	if cfg.NATSURL != "" {
		natsPublisher, err := messaging.NewPublisher(cfg.NATSURL)
		if err != nil {
			logger.Warn("NATS unavailable at %s, domain events are not published: %v", cfg.NATSURL, err)
		} else {
			defer natsPublisher.Close()
			publisher = natsPublisher
			checks["nats"] = natsPublisher.Ping
		}
	}

	var verificationMailer service.VerificationMailer
	if cfg.SMTPUser != "" {
		verificationMailer = mailer.NewSMTPMailer(mailer.Config{
			Host:         cfg.SMTPHost,
			Port:         cfg.SMTPPort,
			Username:     cfg.SMTPUser,
			Password:     cfg.SMTPPassword,
			From:         cfg.SMTPFrom,
			PlatformName: cfg.PlatformName,
		})
	}

	m := metrics.New("thapar_olx")
	policy := service.NewPolicy(cfg.AdminEmail, cfg.AllowedEmailDomain)

	rateLimiter := ratelimit.NewRateLimiter(map[string]ratelimit.Limit{
		ratelimit.ActionSendMessage: ratelimit.PerMinute(cfg.MessageRatePerMinute),
		ratelimit.ActionCreateDeal:  ratelimit.PerHour(cfg.DealRatePerHour),
	})
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	rateLimiter.StartCleanupRoutine(stopCleanup)

	authUseCase := usecase.NewAuthUseCase(st.users, identity, verificationMailer, policy)
	conversationUseCase := usecase.NewConversationUseCase(st.conversations, st.listings, st.users, rateLimiter, m)
	dealUseCase := usecase.NewDealUseCase(st.deals, st.listings, conversationUseCase, publisher, rateLimiter, m, cfg.DefaultPaymentMethod)
	listingUseCase := usecase.NewListingUseCase(st.listings, st.users, assets, policy)
	reviewUseCase := usecase.NewReviewUseCase(st.reviews, st.users, ratingCache, policy)
	userUseCase := usecase.NewUserUseCase(st.users, st.listings, reviewUseCase)
	reportUseCase := usecase.NewReportUseCase(st.reports, st.users, policy, rateLimiter)
	moderationUseCase := usecase.NewModerationUseCase(
		st.users,
		st.listings,
		st.deals,
		st.reports,
		st.conversations,
		conversationUseCase,
		policy,
		publisher,
		m,
		cfg.PlatformName,
	)
	feedUseCase := usecase.NewFeedUseCase(st.listings, st.deals, st.conversations, st.reports, policy, m)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authUseCase),
		User:         handler.NewUserHandler(userUseCase),
		Listing:      handler.NewListingHandler(listingUseCase),
		Deal:         handler.NewDealHandler(dealUseCase),
		Conversation: handler.NewConversationHandler(conversationUseCase),
		Review:       handler.NewReviewHandler(reviewUseCase),
		Report:       handler.NewReportHandler(reportUseCase),
		Admin:        handler.NewAdminHandler(moderationUseCase),
		WebSocket:    handler.NewWebSocketHandler(wsManager, websocket.NewMessageHandler(feedUseCase)),
		Health:       handler.NewHealthHandler(checks),
	}
	if devAuth != nil {
		handlers.Dev = handler.NewDevHandler(devAuth, st.users, uploads)
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	adminMiddleware := apimiddleware.NewAdminMiddleware(policy)

	router.Setup(e, handlers, authMiddleware, adminMiddleware, rateLimiter)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	go func() {
		logger.Info("Starting server on port %s (store=%s)", cfg.ServerPort, cfg.StoreBackend)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}
}
