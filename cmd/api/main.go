package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/compositor"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/janitor"
	"server/internal/notify"
	"server/internal/providers/chat"
	"server/internal/providers/describe"
	"server/internal/providers/image"
	"server/internal/service"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare output directory")
	}

	imagen, err := image.NewImagenGenerator(image.ImagenOptions{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.ImagenModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image provider")
	}

	describer := describe.NewSonarDescriber(describe.SonarOptions{
		APIKey:  cfg.SonarAPIKey,
		Model:   cfg.SonarModel,
		BaseURL: cfg.SonarBaseURL,
	})

	var mailer service.Mailer = notify.NopMailer{}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}

	leads := repo.NewLeadRepository(dbpool)
	generations := repo.NewGenerationRepository(dbpool)
	events := repo.NewEventRepository(dbpool)

	generator := service.NewGenerator(service.Deps{
		Leads:       leads,
		Generations: generations,
		Images:      imagen,
		Describer:   describer,
		Composite:   compositor.Composite,
		Store:       store,
		Mailer:      mailer,
		BaseURL:     cfg.PublicBaseURL,
		Logger:      logger,
	})

	var chatClient handlers.ChatClient
	if cfg.GeminiAPIKey != "" {
		gc, err := chat.NewGeminiChat(chat.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure chat provider")
		}
		chatClient = gc
	}

	app := &handlers.App{
		Cfg:         cfg,
		Log:         logger,
		Generator:   generator,
		Leads:       leads,
		Generations: generations,
		Events:      events,
		Chat:        chatClient,
		Geo:         geo,
	}

	sweeper := janitor.New(cfg.UploadDir, logger)
	if err := sweeper.Start(); err != nil {
		logger.Warn().Err(err).Msg("upload janitor disabled")
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	sweeper.Stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
