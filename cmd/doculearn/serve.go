package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/docu-learn/internal/ai"
	"github.com/thywilljoshua/docu-learn/internal/config"
	"github.com/thywilljoshua/docu-learn/internal/extract"
	"github.com/thywilljoshua/docu-learn/internal/infra/memory"
	redisstore "github.com/thywilljoshua/docu-learn/internal/infra/redis"
	"github.com/thywilljoshua/docu-learn/internal/study"
	transport "github.com/thywilljoshua/docu-learn/internal/transport/http"
)

func serveCmd(configPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// newService wires the extractor and model client around the given store.
func newService(ctx context.Context, cfg config.Config, store study.SessionRepository) (*study.Service, error) {
	backend, err := ai.NewBackend(ctx, cfg.ProviderConfig())
	if err != nil {
		return nil, err
	}
	client := ai.NewClient(backend)

	var ocr extract.OCR
	if cfg.OCREnabled() && ai.SupportsAttachments(backend) {
		ocr = client
	}
	return study.NewService(store, extract.New(cfg.MaxUploadBytes(), ocr), client,
		study.WithGenerationTimeout(cfg.GenerationTimeout()),
	), nil
}

func runServer(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var store study.SessionRepository
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		store = redisstore.NewSessionStore(client, cfg.SessionTTL())
		log.Printf("using redis session store at %s", cfg.Redis.Addr)
	} else {
		store = memory.NewSessionStore(cfg.SessionTTL())
	}

	service, err := newService(ctx, cfg, store)
	if err != nil {
		return err
	}

	requestTimeout := cfg.GenerationTimeout() + 30*time.Second
	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: transport.NewRouter(service, transport.RouterOptions{
			CORSOrigins:    cfg.Server.CORSOrigins,
			MaxUploadBytes: cfg.MaxUploadBytes(),
			RequestTimeout: requestTimeout,
		}),
		ReadHeaderTimeout: 15 * time.Second,
		// Generation requests block until the model answers.
		WriteTimeout: requestTimeout + 5*time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("starting doculearn on %s (provider %s, model %s)", cfg.Server.Addr, cfg.AI.Provider, cfg.AI.Model)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	case err := <-errc:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
