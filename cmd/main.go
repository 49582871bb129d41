package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/api/handler"
	"relaynode/backend/internal/auth"
	"relaynode/backend/internal/config"
	"relaynode/backend/internal/content"
	"relaynode/backend/internal/notify"
	"relaynode/backend/internal/relay"
	"relaynode/backend/internal/storage"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	if cfg.Version {
		sugar.Infow("relaynode", "version", handler.Version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Case store
	db, err := storage.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// Redis is optional: without it the relay runs single-node and
	// presence has no mirror.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			sugar.Fatalw("failed to connect redis", "addr", cfg.RedisAddr, "error", err)
		}
	}

	store := storage.NewService(db, rdb)

	// Activity recorder: the single writer of the audit trail.
	recorder := activity.NewRecorder(store, sugar)

	if cfg.TelegramToken != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, sugar)
		if err != nil {
			sugar.Fatalw("failed to start telegram notifier", "error", err)
		}
		recorder.AddListener(notifier.Listener())
	}
	go recorder.Run(ctx)

	// Content store
	var cs content.Store
	if cfg.IPFSAPIURL != "" {
		cs = content.NewIPFSStore(cfg.IPFSAPIURL)
		sugar.Infow("using external IPFS backend", "api", cfg.IPFSAPIURL)
	} else {
		cs = content.NewMemoryStore()
		sugar.Infow("using in-process content store")
	}

	// Auth
	authSvc := auth.NewService(cfg.AuthSecret, cfg.TokenTTL)
	seedCredentials(authSvc, sugar)

	// Relay hub on its own port, independent of JWT.
	hub := relay.NewManager(relay.NewEventStore(config.RelayStoreCapacity), rdb, uuid.New().String(), sugar)
	go hub.Run(ctx)

	relayRouter := gin.New()
	relayRouter.Use(gin.Recovery())
	relayRouter.GET("/", hub.HandleWS)

	relayServer := &http.Server{
		Addr:           cfg.RelayAddr,
		Handler:        relayRouter,
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		sugar.Infow("relay listening", "addr", cfg.RelayAddr)
		if err := relayServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("relay server failed", "error", err)
		}
	}()

	// REST API
	h := handler.NewHandler(store, cs, authSvc, recorder, sugar)
	apiServer := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        h.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		sugar.Infow("api listening", "addr", cfg.HTTPAddr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("api server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Infow("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = apiServer.Shutdown(shutdownCtx)
	_ = relayServer.Shutdown(shutdownCtx)
}

// seedCredentials loads operator accounts from RELAY_USERS: a
// comma-separated list of user:bcrypt-hash:role triples as printed by
// `admin seed-user`.
func seedCredentials(svc *auth.Service, sugar *zap.SugaredLogger) {
	raw := os.Getenv("RELAY_USERS")
	if raw == "" {
		return
	}
	for _, entry := range strings.Split(raw, ",") {
		first := strings.Index(entry, ":")
		last := strings.LastIndex(entry, ":")
		if first < 0 || last <= first {
			sugar.Warnw("skipping malformed RELAY_USERS entry")
			continue
		}
		svc.RegisterCredential(auth.Credential{
			UserID:       entry[:first],
			PasswordHash: entry[first+1 : last],
			Role:         auth.Role(entry[last+1:]),
		})
	}
}
