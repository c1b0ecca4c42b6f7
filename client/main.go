package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JeremyLoy/config"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pongsync/admission"
	"pongsync/game"
)

// Config is read from the environment; flags override it
type Config struct {
	URL         string `config:"RELAY_URL"`
	TokenSecret string `config:"TOKEN_SECRET"`
	Subject     string `config:"PLAYER_NAME"`
	TuningFile  string `config:"TUNING_FILE"`
	LogLevel    string `config:"LOG_LEVEL"`
	LogPretty   bool   `config:"LOG_PRETTY"`
	Offline     bool   `config:"OFFLINE"`
	ProfileDir  string `config:"PROFILE_DIR"`
}

func loadConfig() (Config, error) {
	cfg := Config{
		URL:      "ws://localhost:8080/ws",
		Subject:  "bot",
		LogLevel: "info",
	}
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
	return logger.Level(level).With().Timestamp().Str("svc", "client").Logger()
}

func newRootCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pong-client",
		Short:         "Headless pong peer driven by the built-in bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.ProfileDir != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.ProfileDir), profile.NoShutdownHook).Stop()
			}
			return run(cmd.Context(), *cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.URL, "url", cfg.URL, "relay WebSocket URL")
	f.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "HMAC secret shared with the relay")
	f.StringVar(&cfg.Subject, "name", cfg.Subject, "player name carried in the token")
	f.StringVar(&cfg.TuningFile, "tuning", cfg.TuningFile, "YAML tuning file, reloaded on change")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	f.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "human readable logs")
	f.BoolVar(&cfg.Offline, "offline", cfg.Offline, "play single-player against the computer")
	f.StringVar(&cfg.ProfileDir, "profile", cfg.ProfileDir, "write a CPU profile to this directory")
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

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var reload chan game.Tuning
	if cfg.TuningFile != "" {
		watcher, err := game.NewTuningWatcher(cfg.TuningFile, log)
		if err != nil {
			return err
		}
		reload = make(chan game.Tuning)
		g.Go(func() error { return watcher.Run(ctx, reload) })
	}

	var (
		peer *game.Peer
		opts = []game.Option{game.WithBot()}
	)
	if !cfg.Offline {
		var token string
		if cfg.TokenSecret != "" {
			var err error
			token, err = admission.Mint([]byte(cfg.TokenSecret), cfg.Subject, admission.DefaultTTL)
			if err != nil {
				return err
			}
		}
		var err error
		peer, err = game.Dial(ctx, cfg.URL, token, log)
		if err != nil {
			return err
		}
		opts = append(opts, game.WithSender(peer), game.WithRematch())
		g.Go(func() error { return peer.Run(ctx) })
	}

	w := game.NewWorld(tuning, log, opts...)
	w.Play(!cfg.Offline)
	loop := game.NewLoop(w, peer, reload, log)

	g.Go(func() error {
		defer cancel()
		err := loop.Run(ctx)
		player, opponent := w.Scores()
		log.Info().Int("player", player).Int("opponent", opponent).Msg("game over")
		return err
	})

	log.Info().Bool("offline", cfg.Offline).Str("url", cfg.URL).Msg("client starting")
	return g.Wait()
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
		fatal.Fatal().Err(err).Msg("client")
	}
}
