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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/askroom-backend/internal/clients/gcp"
	openaiclient "github.com/yungbote/askroom-backend/internal/clients/openai"
	redisclient "github.com/yungbote/askroom-backend/internal/clients/redis"
	"github.com/yungbote/askroom-backend/internal/data/db"
	"github.com/yungbote/askroom-backend/internal/data/repos"
	"github.com/yungbote/askroom-backend/internal/http/handlers"
	"github.com/yungbote/askroom-backend/internal/observability"
	"github.com/yungbote/askroom-backend/internal/platform/envutil"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
	"github.com/yungbote/askroom-backend/internal/server"
	"github.com/yungbote/askroom-backend/internal/services"
)

const serviceName = "askroom-backend"

func main() {
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: envutil.GetEnv("APP_ENV", "development", log),
		Version:     envutil.GetEnv("APP_VERSION", "dev", log),
	}); shutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	roomRepo := repos.NewRoomRepo(thePG, log)
	audioChunkRepo := repos.NewAudioChunkRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)

	// Gateway clients
	transcriber, err := gcp.NewSpeechTranscriber(log)
	if err != nil {
		log.Fatal("Could not init speech transcriber", "error", err)
	}
	defer transcriber.Close()

	aiClient, err := openaiclient.NewClient(log)
	if err != nil {
		log.Fatal("Could not init OpenAI client", "error", err)
	}

	embedCache, err := redisclient.NewEmbeddingCache(log)
	if err != nil {
		log.Warn("Embedding cache unavailable, continuing without it", "error", err)
		embedCache = nil
	}
	if embedCache != nil {
		defer embedCache.Close()
	}

	audioArchive, err := gcp.NewAudioArchive(log)
	if err != nil {
		log.Warn("Audio archive unavailable, continuing without it", "error", err)
		audioArchive = nil
	}
	if audioArchive != nil {
		defer audioArchive.Close()
	}

	// Services
	embeddingService := services.NewEmbeddingService(aiClient, embedCache, aiClient.EmbedModel(), log)
	ingestionService := services.NewIngestionService(thePG, log, roomRepo, audioChunkRepo, transcriber, embeddingService, audioArchive)
	retrievalService := services.NewRetrievalService(
		thePG,
		log,
		roomRepo,
		audioChunkRepo,
		questionRepo,
		embeddingService,
		aiClient,
		envutil.GetEnvAsFloat("SIMILARITY_THRESHOLD", services.DefaultSimilarityThreshold, log),
		envutil.GetEnvAsInt("SEARCH_TOP_K", services.DefaultTopK, log),
	)
	roomService := services.NewRoomService(thePG, log, roomRepo, questionRepo, audioChunkRepo)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		TracingEnabled:  observability.Enabled(),
		HealthHandler:   handlers.NewHealthHandler(),
		RoomHandler:     handlers.NewRoomHandler(log, roomService),
		AudioHandler:    handlers.NewAudioHandler(log, ingestionService),
		QuestionHandler: handlers.NewQuestionHandler(log, retrievalService),
	})

	port := envutil.GetEnv("PORT", "8080", log)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
