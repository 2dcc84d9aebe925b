package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/ai"
	"github.com/nyaysetu/nyaysetu/internal/config"
	"github.com/nyaysetu/nyaysetu/internal/db"
	"github.com/nyaysetu/nyaysetu/internal/embedcache"
	"github.com/nyaysetu/nyaysetu/internal/filestore"
	"github.com/nyaysetu/nyaysetu/internal/handler"
	"github.com/nyaysetu/nyaysetu/internal/index"
	"github.com/nyaysetu/nyaysetu/internal/job"
	"github.com/nyaysetu/nyaysetu/internal/middleware"
	"github.com/nyaysetu/nyaysetu/internal/pipeline"
	"github.com/nyaysetu/nyaysetu/internal/repo"
	"github.com/nyaysetu/nyaysetu/internal/retrieval"
	"github.com/nyaysetu/nyaysetu/internal/schedule"
	"github.com/nyaysetu/nyaysetu/internal/service"
	"github.com/nyaysetu/nyaysetu/internal/synthesis"
	"github.com/nyaysetu/nyaysetu/internal/vectorstore"
	"github.com/nyaysetu/nyaysetu/internal/voice"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "nyaysetu",
		Short: "nyaysetu legal assistant backend",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dbConn, err := setup(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg, dbConn)
		},
	}

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "rebuild the legal knowledge index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dbConn, err := setup(configPath)
			if err != nil {
				return err
			}
			return runIndex(cfg, dbConn)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(indexCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func setup(configPath string) (*config.Config, *sqlx.DB, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

	dbConn, err := db.Open(cfg.DBDsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(dbConn); err != nil {
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return cfg, dbConn, nil
}

func buildEmbedder(cfg *config.Config, dbConn *sqlx.DB) (ai.IEmbedder, *repo.EmbeddingCacheRepo, error) {
	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	provider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return nil, nil, fmt.Errorf("init ai provider: %w", err)
	}
	cacheRepo := repo.NewEmbeddingCacheRepo(dbConn)
	embedder := ai.NewEmbedder(provider, cfg.AI.EmbedModel)
	embedder = embedcache.WrapDBCacheToEmbedder(embedder, cacheRepo)
	embedder = embedcache.WrapLruCacheToEmbedder(embedder, 8192, time.Hour)
	return embedder, cacheRepo, nil
}

func buildPolisher(cfg *config.Config) (ai.IGenerator, error) {
	if !cfg.AI.EnablePolish {
		return nil, nil
	}
	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	provider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return nil, fmt.Errorf("init ai provider: %w", err)
	}
	return ai.NewGenerator(provider, cfg.AI.Model), nil
}

func runIndex(cfg *config.Config, dbConn *sqlx.DB) error {
	ctx := context.Background()
	embedder, _, err := buildEmbedder(cfg, dbConn)
	if err != nil {
		return err
	}
	store := vectorstore.NewPostgresStore(dbConn)
	builder := index.NewBuilder(cfg.Corpus, embedder, store)
	report, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("index build: %w", err)
	}
	logutil.GetLogger(ctx).Info("index build finished",
		zap.Int("docs_processed", report.DocsProcessed),
		zap.Int("docs_skipped", report.DocsSkipped),
		zap.Int("chunks_written", report.ChunksWritten),
		zap.Int("dimension", report.Dimension),
		zap.Duration("elapsed", report.Elapsed),
	)
	return nil
}

func runServer(cfg *config.Config, dbConn *sqlx.DB) error {
	ctx := context.Background()
	logutil.GetLogger(ctx).Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("collection", cfg.Corpus.Collection),
		zap.String("file_store", cfg.FileStore.Type),
	)

	embedder, cacheRepo, err := buildEmbedder(cfg, dbConn)
	if err != nil {
		return err
	}
	polisher, err := buildPolisher(cfg)
	if err != nil {
		return err
	}

	store := vectorstore.NewPostgresStore(dbConn)
	retriever := retrieval.NewRetriever(embedder, store, cfg.Corpus.Collection, cfg.Retrieval.TopK)
	if err := retriever.VerifyCollection(ctx); err != nil {
		return fmt.Errorf("verify collection: %w", err)
	}

	synthesizer := synthesis.NewSynthesizer(polisher)
	answerer := pipeline.New(retriever, synthesizer)

	files, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	transcriber := voice.NewTranscriber(cfg.Voice)
	speaker := voice.NewSpeaker(cfg.Voice)
	chatService := service.NewChatService(answerer, transcriber, speaker, files, cfg.BaseURL)

	deps := handler.RouterDeps{
		Chat:      handler.NewChatHandler(chatService),
		Voice:     handler.NewVoiceHandler(chatService),
		Health:    handler.NewHealthHandler(store, cfg.Corpus.Collection, chatService),
		RateLimit: middleware.NewRateLimiter(time.Second),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORS),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	scheduler := schedule.NewCronScheduler()
	if cfg.Jobs.AudioCleanupSpec != "" {
		cleanup := job.NewAudioCleanupJob(files, time.Duration(cfg.Jobs.AudioKeepHours)*time.Hour)
		if err := scheduler.AddJob(cleanup, cfg.Jobs.AudioCleanupSpec); err != nil {
			return err
		}
	}
	if cfg.Jobs.EmbedCacheCleanSpec != "" {
		cleanup := job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.Jobs.EmbedCacheKeepDays)
		if err := scheduler.AddJob(cleanup, cfg.Jobs.EmbedCacheCleanSpec); err != nil {
			return err
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(runCtx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	<-runCtx.Done()
	logutil.GetLogger(ctx).Info("server stopping...")
	return nil
}
