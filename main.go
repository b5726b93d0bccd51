package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"companion_bot/internal/bot"
	"companion_bot/internal/config"
	"companion_bot/internal/llm"
	"companion_bot/internal/logger"
	"companion_bot/internal/resilience"
	"companion_bot/internal/session"
	"companion_bot/internal/storage"

	"github.com/joho/godotenv"
)

// consoleTransport is the thin local transport for running the bot from a
// terminal. The real messaging platform plugs in through the same interface.
type consoleTransport struct {
	mu sync.Mutex
}

func (t *consoleTransport) Send(userID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Printf("[bot → %s] %s\n", userID, text)
	return err
}

func (t *consoleTransport) SendTyping(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Printf("[bot → %s] ...\n", userID)
}

func main() {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Printf("Error loading config.yaml: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Log); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := llm.NewClient(ctx, cfg.LLM, cfg.Env.APIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create model client")
	}

	history, err := storage.NewHistoryLog(cfg.History.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create history log")
	}

	registry := session.NewRegistry()
	dispatcherCfg := bot.Config{
		Registry:    registry,
		Transport:   &consoleTransport{},
		Model:       model,
		History:     history,
		Guard:       resilience.NewGuard(cfg.Retry),
		Template:    cfg.Prompt.Template,
		MemoryLimit: cfg.Memory.MaxTokenLimit,
	}

	// Snapshot persistence is enabled only when Redis is configured.
	if cfg.Env.RedisURL != "" {
		snapshots, err := storage.NewSnapshotStore(ctx, cfg.Env.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect snapshot store")
		}
		defer snapshots.Close()
		dispatcherCfg.Snapshots = snapshots

		interval := time.Duration(cfg.Snapshot.IntervalSeconds) * time.Second
		go bot.RunSnapshotLoop(ctx, interval, registry, snapshots)
	} else {
		logger.Warn().Msg("REDIS_URL not set, conversation snapshots disabled")
	}

	dispatcher := bot.NewDispatcher(dispatcherCfg)

	logger.Info().
		Str("provider", cfg.LLM.Provider).
		Str("model", cfg.LLM.Model).
		Msg("Companion bot started, type /start to begin")

	// One worker per inbound line; the registry serializes per user.
	const userID = "console"
	scanner := bufio.NewScanner(os.Stdin)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "" {
				continue
			}
			dispatcher.HandleMessage(ctx, userID, line)
		}
	}
}
