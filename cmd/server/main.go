package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/api"
	"hoa-backend-go/internal/config"
	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/crypto"
	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/identity"
	"hoa-backend-go/internal/middleware"
	"hoa-backend-go/internal/push"
	"hoa-backend-go/internal/storage"
	"hoa-backend-go/internal/worker"
	"hoa-backend-go/pkg/cache"
	"hoa-backend-go/pkg/mailer"
	"hoa-backend-go/pkg/messagequeue"
)

func newLogger(ginMode string) (*zap.Logger, error) {
	if strings.ToLower(ginMode) == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	// --- 1. Configuration and logger ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}
	zapLogger, err := newLogger(appConfig.GinMode)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 2. Firebase (Firestore, Auth, Storage) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := db.InitFirebase(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Firestore.Close()

	cipher, err := crypto.NewFieldCipher(appConfig.EncryptionKey)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Invalid encryption key", zap.Error(err))
	}

	// --- 3. Optional infrastructure: Redis, RabbitMQ, SMTP ---
	var tallyCache cache.Cache = cache.Noop{}
	redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
		Address:  appConfig.RedisAddr,
		Password: appConfig.RedisPassword,
		DB:       appConfig.RedisDB,
	}, zapLogger)
	if err != nil {
		zapLogger.Warn("Redis unavailable, election results will not be cached", zap.Error(err))
	} else {
		tallyCache = redisCache
		defer redisCache.Close()
	}

	var mq messagequeue.MessageQueue
	rabbit, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, zapLogger)
	if err != nil {
		zapLogger.Warn("RabbitMQ unavailable, notifications are disabled", zap.Error(err))
	} else {
		mq = rabbit
		defer rabbit.Close()
	}

	var mail worker.MailSender
	if appConfig.MailEnabled() {
		m, err := mailer.New(mailer.Config{
			Host:     appConfig.SMTPHost,
			Port:     appConfig.SMTPPort,
			Username: appConfig.SMTPUsername,
			Password: appConfig.SMTPPassword,
			From:     appConfig.MailFrom,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Invalid SMTP configuration", zap.Error(err))
		}
		mail = m
	}

	// --- 4. Repositories ---
	memberRepo := db.NewFirestoreMemberRepository(clients.Firestore)
	postRepo := db.NewFirestorePostRepository(clients.Firestore)
	eventRepo := db.NewFirestoreEventRepository(clients.Firestore)
	contributionRepo := db.NewFirestoreContributionRepository(clients.Firestore)
	complaintRepo := db.NewFirestoreComplaintRepository(clients.Firestore)
	committeeRepo := db.NewFirestoreCommitteeRepository(clients.Firestore)
	documentRepo := db.NewFirestoreDocumentRepository(clients.Firestore)
	electionRepo := db.NewFirestoreElectionRepository(clients.Firestore)
	auditRepo := db.NewFirestoreAuditRepository(clients.Firestore)

	// --- 5. Services ---
	files := storage.NewBucket(clients.Bucket, appConfig.SignedURLTTL)
	idp := identity.NewClient(identity.Config{
		APIKey:         appConfig.FirebaseWebAPIKey,
		ToolkitURL:     appConfig.IdentityToolkitURL,
		SecureTokenURL: appConfig.SecureTokenURL,
	})
	notifier := core.NewNotifier(mq, appConfig.NotificationQueue, zapLogger)
	maxUpload := appConfig.MaxUploadBytes

	auditService := core.NewAuditService(auditRepo)
	memberService := core.NewMemberService(memberRepo, contributionRepo, complaintRepo, cipher, files, maxUpload, zapLogger)
	services := api.Services{
		Auth:       core.NewAuthService(idp, memberService, memberRepo, zapLogger),
		Members:    memberService,
		Feed:       core.NewFeedService(postRepo, memberRepo, files, auditService, notifier, zapLogger),
		Calendar:   core.NewCalendarService(eventRepo, auditService, notifier, zapLogger),
		Accounting: core.NewAccountingService(contributionRepo, memberRepo, files, auditService, notifier, maxUpload, zapLogger),
		Complaints: core.NewComplaintService(complaintRepo, memberRepo, files, auditService, notifier, maxUpload, zapLogger),
		Committee:  core.NewCommitteeService(committeeRepo, auditService, zapLogger),
		Documents:  core.NewDocumentService(documentRepo, memberRepo, files, auditService, maxUpload, zapLogger),
		Elections:  core.NewElectionService(electionRepo, memberRepo, files, tallyCache, appConfig.TallyCacheTTL, auditService, maxUpload, zapLogger),
		Audit:      auditService,
	}
	zapLogger.Info("Core services initialized successfully.")

	// --- 6. Gin engine and routes ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig, zapLogger))

	authMW := middleware.NewAuthMiddleware(clients.Auth, memberRepo, zapLogger)
	api.SetupRoutes(router, appConfig, zapLogger, authMW, services)

	// --- 7. Notification worker ---
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workerWG sync.WaitGroup
	if mq != nil {
		nw := worker.NewNotificationWorker(mq, appConfig.NotificationQueue, memberRepo, push.NewClient(appConfig.ExpoPushURL), mail, zapLogger)
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			if err := nw.Run(workerCtx); err != nil {
				zapLogger.Error("Notification worker failed", zap.Error(err))
			}
		}()
	}

	// --- 8. HTTP server with graceful shutdown ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancelShutdown()

	// Open event streams end when their request contexts are cancelled.
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown timed out, closing connections", zap.Error(err))
		httpServer.Close()
	}
	stopWorker()
	workerDone := make(chan struct{})
	go func() {
		workerWG.Wait()
		close(workerDone)
	}()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		zapLogger.Warn("Notification worker did not stop before the shutdown deadline")
	}

	zapLogger.Info("Server exiting gracefully.")
}
