package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gokmency/web3turkiyetoplulugu/adapters/events"
	"github.com/gokmency/web3turkiyetoplulugu/adapters/objects"
	"github.com/gokmency/web3turkiyetoplulugu/adapters/store"
	"github.com/gokmency/web3turkiyetoplulugu/adapters/tokenizer"
	"github.com/gokmency/web3turkiyetoplulugu/internal/config"
	"github.com/gokmency/web3turkiyetoplulugu/internal/logging"
	"github.com/gokmency/web3turkiyetoplulugu/internal/siwe"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
	"github.com/gokmency/web3turkiyetoplulugu/service"
	transport "github.com/gokmency/web3turkiyetoplulugu/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg, err := logging.Init(logging.Config{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	log := lg.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, err := service.SelectDataSource(ctx, cfg.DataSource, cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalw("failed to open data source", "err", err)
	}
	defer sources.Close()
	log.Infow("data source selected", "mode", sources.Mode)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalw("failed to parse redis url", "err", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	publisher, err := events.NewPublisher(redisClient, events.NewZapLogger(log))
	if err != nil {
		log.Fatalw("failed to create event publisher", "err", err)
	}
	defer publisher.Close()

	signKey, err := tokenizer.LoadSigningKey(cfg.SessionKeyFile)
	if err != nil {
		log.Fatalw("failed to load session key", "err", err)
	}
	if cfg.SessionKeyFile == "" {
		log.Warn("SESSION_KEY_FILE not set, tokens will not survive a restart")
	}

	authOpts := []service.AuthOption{
		service.WithDomain(cfg.AppDomain, true),
		service.WithTokenizer(tokenizer.NewJWTTokenizer(signKey, cfg.AppDomain)),
		service.WithEventPublisher(events.NewWatermillPublisher(publisher)),
		service.WithChainID(cfg.ChainID),
		service.WithChallengeTTL(cfg.ChallengeTTL),
		service.WithSessionTTL(cfg.SessionTTL),
	}
	if cfg.NonceTracking {
		var nonces ports.NonceStore = store.NewMemoryNonceStore()
		if redisClient != nil {
			nonces = store.NewRedisNonceStore(redisClient)
		}
		authOpts = append(authOpts, service.WithNonceStore(nonces))
	}
	authService := service.NewAuthService(siwe.NewVerifier(), sources.Users, log, authOpts...)

	objs, err := objects.NewFileSystemStore(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalw("failed to open object store", "err", err)
	}

	if !cfg.LogDev {
		gin.SetMode(gin.ReleaseMode)
	}
	router := transport.SetupRouter(transport.Services{
		Auth:      authService,
		Directory: service.NewDirectoryService(sources.Directory, log),
		Avatars:   service.NewAvatarService(objs, log),
		MediaDir:  objs.Dir(),
		Log:       log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "err", err)
		}
	}()
	log.Infow("directory server listening", "addr", cfg.HTTPAddr, "domain", cfg.AppDomain)

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("http server shutdown failed", "err", err)
	}
}
