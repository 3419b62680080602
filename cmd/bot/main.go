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

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"FuelSentinel/internal/api"
	"FuelSentinel/internal/chart"
	"FuelSentinel/internal/collector"
	"FuelSentinel/internal/config"
	"FuelSentinel/internal/notifier"
	"FuelSentinel/internal/router"
	"FuelSentinel/internal/scheduler"
	"FuelSentinel/internal/subscriber"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	setupLogging(cfg)
	log.Info("FuelSentinel starting...")

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init price source
	fetcher := collector.NewAnreFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Timeout, cfg.Proxy, loc)
	col := collector.NewCollector(fetcher, loc)
	log.WithField("base_url", cfg.DataSource.BaseURL).Infof("data source: %s", fetcher.Name())

	// Init subscriber stores
	reminders, sessions, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	// Init Telegram notifier
	tn, err := notifier.NewTelegramNotifier(notifier.Config{
		BotToken:    cfg.Telegram.BotToken,
		Proxy:       cfg.Proxy,
		PollTimeout: cfg.Telegram.PollTimeout,
		RateLimit:   cfg.Delivery.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("init telegram notifier: %w", err)
	}

	// Init command router
	contact := notifier.Contact{
		Name:     cfg.Contact.Name,
		LinkedIn: cfg.Contact.LinkedIn,
		GitHub:   cfg.Contact.GitHub,
		Email:    cfg.Contact.Email,
	}
	rt := router.New(col, tn, chart.NewRenderer(), reminders, sessions, contact)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, tn, reminders, loc, cfg.Delivery.Workers)
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional HTTP API
	var srv *http.Server
	if cfg.HTTP.Addr != "" {
		srv = api.NewServer(cfg.HTTP.Addr, col)
		go func() {
			log.WithField("addr", cfg.HTTP.Addr).Info("HTTP API listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("HTTP API: %v", err)
			}
		}()
	}

	// Start Telegram polling
	go tn.StartPolling(ctx, rt.Handle)
	log.Info("Telegram polling started")

	// Optional: run immediately on start
	if cfg.Schedule.RunOnStart {
		log.Info("RUN_ON_START enabled, sending daily updates now")
		go sched.RunNow()
	}

	log.Info("FuelSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("HTTP API shutdown: %v", err)
		}
	}
	log.Info("FuelSentinel stopped")
	return nil
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Log.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// openStores builds and loads the reminder and session stores. The returned
// func releases backend connections; on error nothing is left open.
func openStores(ctx context.Context, cfg *config.Config) (*subscriber.Store, *subscriber.Store, func(), error) {
	closeFn := func() {}
	var reminderBackend, sessionBackend subscriber.Backend
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		rdb := subscriber.NewRedisClient(cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
		closeFn = func() { closeRedis(rdb) }
		if err := rdb.Ping(ctx).Err(); err != nil {
			closeFn()
			return nil, nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Storage.Redis.Addr, err)
		}
		prefix := cfg.Storage.Redis.Prefix + ":"
		reminderBackend = subscriber.NewRedisBackend(rdb, prefix, "reminders")
		sessionBackend = subscriber.NewRedisBackend(rdb, prefix, "sessions")
	default:
		reminderBackend = subscriber.NewFileBackend(cfg.Storage.RemindersFile)
		sessionBackend = subscriber.NewFileBackend(cfg.Storage.SessionsFile)
	}

	reminders := subscriber.NewStore("reminders", reminderBackend)
	sessions := subscriber.NewStore("sessions", sessionBackend)
	for _, s := range []*subscriber.Store{reminders, sessions} {
		if err := s.Load(ctx); err != nil {
			closeFn()
			return nil, nil, nil, fmt.Errorf("init subscriber store: %w", err)
		}
	}
	return reminders, sessions, closeFn, nil
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		log.Warnf("close redis: %v", err)
	}
}
