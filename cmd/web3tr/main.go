package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/adapters/events"
	"github.com/gokmency/web3turkiyetoplulugu/adapters/objects"
	"github.com/gokmency/web3turkiyetoplulugu/adapters/store"
	"github.com/gokmency/web3turkiyetoplulugu/internal/cli"
	"github.com/gokmency/web3turkiyetoplulugu/internal/config"
	"github.com/gokmency/web3turkiyetoplulugu/internal/logging"
	"github.com/gokmency/web3turkiyetoplulugu/internal/siwe"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
	"github.com/gokmency/web3turkiyetoplulugu/service"
)

func main() {
	if len(os.Args) < 2 {
		cli.PrintUsage()
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout belongs to command output; logs only go to LOG_FILE
	log := zap.NewNop().Sugar()
	if cfg.LogFile != "" {
		lg, err := logging.Init(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile})
		if err != nil {
			return err
		}
		defer lg.Sync()
		log = lg.Sugar()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sources, err := service.SelectDataSource(ctx, cfg.DataSource, cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer sources.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %w", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	var sessions ports.SessionStore
	switch cfg.SessionBackend {
	case "redis":
		sessions = store.NewRedisSessionStore(redisClient, cfg.SessionDeviceID)
	case "memory":
		sessions = store.NewMemorySessionStore()
	default:
		bolt, err := store.OpenBoltSessionStore(cfg.SessionPath)
		if err != nil {
			return err
		}
		defer bolt.Close()
		sessions = bolt
	}

	var eventPub ports.EventPublisher
	if redisClient != nil {
		publisher, err := events.NewPublisher(redisClient, events.NewZapLogger(log))
		if err != nil {
			return err
		}
		defer publisher.Close()
		eventPub = events.NewWatermillPublisher(publisher)
	}

	objs, err := objects.NewFileSystemStore(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		return err
	}

	c := cli.New(cli.Deps{
		IO:         cli.NewStdio(),
		Resolver:   service.NewAuthService(siwe.NewVerifier(), sources.Users, log),
		Sessions:   sessions,
		Events:     eventPub,
		Directory:  service.NewDirectoryService(sources.Directory, log),
		Avatars:    service.NewAvatarService(objs, log),
		Log:        log,
		Domain:     cfg.AppDomain,
		SessionTTL: cfg.SessionTTL,
		WalletKey:  cfg.WalletPrivateKey,
	})
	return c.Run(ctx, command, args)
}
