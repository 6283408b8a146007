// ABOUTME: Entry point for the wfc-server marketplace backend
// ABOUTME: Serves the auth, chat, and job APIs over HTTP

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/wfconnect/marketplace/internal/api"
	"github.com/wfconnect/marketplace/internal/auth"
	"github.com/wfconnect/marketplace/internal/chat"
	"github.com/wfconnect/marketplace/internal/config"
	"github.com/wfconnect/marketplace/internal/jobs"
	"github.com/wfconnect/marketplace/internal/notify"
	"github.com/wfconnect/marketplace/internal/seed"
	"github.com/wfconnect/marketplace/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
           __                                _
 __      _/ _| ___ ___  _ __  _ __   ___  __| |_
 \ \ /\ / / |_ / __/ _ \| '_ \| '_ \ / _ \/ _| __|
  \ V  V /|  _| (_| (_) | | | | | | |  __/ (_| |_
   \_/\_/ |_|  \___\___/|_| |_|_| |_|\___|\___|\__|
`

// getConfigPath returns the path to the server config file.
// Priority: WFC_CONFIG env var > XDG_CONFIG_HOME/wfconnect/server.yaml > ~/.config/wfconnect/server.yaml
func getConfigPath() string {
	if envPath := os.Getenv("WFC_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "server.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "wfconnect", "server.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: wfc-server <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve       Start the marketplace server")
		fmt.Println("  init        Create a config file with a random token secret")
		fmt.Println("  seed-check  Validate the embedded demo fixture")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "seed-check":
		err = runSeedCheck()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	fmt.Println()

	logger.Info("starting wfc-server",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"database", cfg.Database.Path,
	)

	users, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening user database: %w", err)
	}
	defer users.Close()

	tokens := auth.NewJWTManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	authSvc := auth.NewService(users, tokens, logger)

	notifier := notify.NewLogNotifier(logger)

	var chatOpts []chat.Option
	if cfg.Chat.SweepInterval > 0 {
		chatOpts = append(chatOpts, chat.WithSweepInterval(cfg.Chat.SweepInterval))
	}
	chatSvc := chat.NewService(authSvc, notifier, logger, chatOpts...)
	defer chatSvc.Close()

	if cfg.Chat.SeedDemoData {
		if err := seed.Apply(chatSvc); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
		logger.Info("demo conversations loaded")
	}

	jobSvc := jobs.NewService(authSvc, notifier, logger)

	server := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: api.NewServer(authSvc, chatSvc, jobSvc, logger).Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// runInit writes a starter config with a randomly generated token secret.
// Existing config files are never overwritten.
func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("generating token secret: %w", err)
	}
	secret := base64.StdEncoding.EncodeToString(secretBytes)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	content := fmt.Sprintf(`server:
  http_addr: ":8420"

database:
  path: "marketplace.db"

auth:
  jwt_secret: "%s"
  token_ttl: "24h"

chat:
  seed_demo_data: true
  pin_sweep_interval: "1m"

logging:
  level: "info"
  format: "text"
`, secret)

	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("    ✓ ")
	fmt.Printf("Config created at %s\n", configPath)
	fmt.Println("    Run 'wfc-server serve' to start.")
	return nil
}

// runSeedCheck decodes the embedded demo fixture and prints a summary.
func runSeedCheck() error {
	convs, online, err := seed.Preview()
	if err != nil {
		return fmt.Errorf("seed fixture invalid: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("    ✓ ")
	fmt.Printf("Fixture OK: %d conversations, %d users online\n", len(convs), len(online))
	for _, conv := range convs {
		name := conv.Name
		if name == "" {
			name = "(direct)"
		}
		fmt.Printf("      %-20s %d participants, %d messages\n", name, len(conv.Participants), len(conv.Messages))
	}
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(&colorHandler{level: level})
}

// colorHandler writes compact colorized log lines for terminal use.
type colorHandler struct {
	mu    sync.Mutex
	level slog.Level
	attrs []slog.Attr
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{level: h.level, attrs: newAttrs}
}

func (h *colorHandler) WithGroup(_ string) slog.Handler {
	return h
}
