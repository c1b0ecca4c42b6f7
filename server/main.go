package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pongsync/game"
)

// Config is read from the environment; flags override it
type Config struct {
	Addr        string `config:"ADDR"`
	TuningFile  string `config:"TUNING_FILE"`
	TokenSecret string `config:"TOKEN_SECRET"`
	LogLevel    string `config:"LOG_LEVEL"`
	LogPretty   bool   `config:"LOG_PRETTY"`
}

func loadConfig() (Config, error) {
	cfg := Config{Addr: ":8080", LogLevel: "info"}
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "read environment")
	}
	return cfg, nil
}

func newLogger(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Str("svc", "relay").Logger()
}

func newRootCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "relay",
		Short:         "Pairs pong peers into rooms and relays their updates",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), *cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	f.StringVar(&cfg.TuningFile, "tuning", cfg.TuningFile, "YAML tuning file")
	f.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "HMAC secret for peer tokens, empty admits everyone")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	f.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "human readable logs")
	return cmd
}

func run(ctx context.Context, cfg Config) error {
	log := newLogger(cfg)

	tuning := game.DefaultTuning()
	if cfg.TuningFile != "" {
		t, err := game.LoadTuning(cfg.TuningFile)
		if err != nil {
			return err
		}
		tuning = t
	}

	stats, err := NewStats("pongsync")
	if err != nil {
		return err
	}
	hub := NewHub(tuning, stats, log)
	go hub.Run(ctx)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           SetupRoutes(hub, NewAuth(cfg.TokenSecret), stats),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Bool("auth", cfg.TokenSecret != "").Msg("relay starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- eris.Wrap(err, "listen")
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fatal := zerolog.New(os.Stderr)
	cfg, err := loadConfig()
	if err != nil {
		fatal.Fatal().Err(err).Msg("config")
	}
	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		fatal.Fatal().Err(err).Msg("relay")
	}
}
