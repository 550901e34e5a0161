// Command ingen runs an interactive chat loop against the dispatch engine,
// wiring storage, history and model backends from configuration.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	ingenious "github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/config"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/engine"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/flows/chat"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/history"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/logging"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/model"
	anthropicmodel "github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/model/anthropic"
	openaimodel "github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/model/openai"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/storage"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ingen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format).
		WithComponent("ingen")

	fileStorage, err := buildStorage(cfg)
	if err != nil {
		return err
	}

	historyRepo, closeHistory, err := buildHistory(cfg, logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	mdl := buildModel(cfg)

	app := ingenious.New(func(o *ingenious.Options) {
		o.EngineConfig = engine.Config{
			ChunkSize:        cfg.Engine.ChunkSize,
			HistoryWindow:    cfg.Engine.HistoryWindow,
			HistoryCharLimit: cfg.Engine.HistoryCharLimit,
			MaxTokenCount:    cfg.Engine.MaxTokenCount,
		}
		o.History = historyRepo
		o.Storage = fileStorage
		o.Logger = logger
		o.Model = mdl
		o.MemoryMaxWords = cfg.Engine.MemoryMaxWords
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return repl(ctx, app)
}

func buildStorage(cfg *config.Config) (core.FileStorage, error) {
	switch cfg.Storage.Backend {
	case "local":
		return storage.NewLocalStorage(cfg.Storage.LocalPath), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Storage.RedisAddr,
			DB:   cfg.Storage.RedisDB,
		})
		return storage.NewRedisStorage(client), nil
	case "blob":
		return storage.NewBlobStorage(cfg.Storage.BlobBaseURL), nil
	default:
		return storage.NewInMemoryStorage(), nil
	}
}

func buildHistory(cfg *config.Config, logger logging.Logger) (core.ChatHistoryRepository, func(), error) {
	if cfg.History.Backend == "sqlite" {
		repo, err := history.NewSQLiteRepository(cfg.History.SQLitePath, func(o *history.SQLiteOptions) {
			o.Logger = logger
		})
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	}
	return history.NewInMemoryRepository(), func() {}, nil
}

func buildModel(cfg *config.Config) model.Model {
	switch cfg.Model.Provider {
	case "openai":
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
		})
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
		})
	default:
		return model.NewMockModel("ingen-mock")
	}
}

func repl(ctx context.Context, app *ingenious.Ingenious) error {
	fmt.Println("ingen interactive chat. Type a prompt, or 'quit' to exit.")

	threadID := core.NewID()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		req := &core.ChatRequest{
			ThreadID:         threadID,
			UserID:           "local",
			Prompt:           line,
			ConversationFlow: chat.Name,
		}

		for chunk := range app.ChatStream(ctx, req) {
			switch chunk.ChunkType {
			case core.ChunkTypeContent:
				fmt.Print(chunk.Content)
			case core.ChunkTypeFinal:
				fmt.Printf("\n[tokens: %d]\n", chunk.TokenCount)
			case core.ChunkTypeError:
				fmt.Printf("\nerror: %s\n", chunk.ErrorMessage)
			}
		}

		if ctx.Err() != nil {
			break
		}
	}
	return scanner.Err()
}
