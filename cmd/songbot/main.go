package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sukalov/songbot/internal/bot"
	"github.com/sukalov/songbot/internal/bot/client"
	"github.com/sukalov/songbot/internal/catalog"
	"github.com/sukalov/songbot/internal/config"
	"github.com/sukalov/songbot/internal/logger"
	"github.com/sukalov/songbot/internal/lyrics"
	"github.com/sukalov/songbot/internal/pdf"
	"github.com/sukalov/songbot/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	songBot, err := bot.New("songbot", cfg.BotToken)
	if err != nil {
		log.Fatalf("failed to start bot: %v", err)
	}

	if cfg.LogChannelID != 0 {
		if err := logger.Init(songBot, cfg.LogChannelID); err != nil {
			logger.Warn(fmt.Sprintf("log channel disabled: %v", err))
		}
	}

	renderer, err := pdf.NewRenderer(cfg.PDF)
	if err != nil {
		log.Fatalf("failed to set up pdf renderer: %v", err)
	}
	if cfg.PDF.FontPath == "" {
		logger.Warn("PDF_FONT_PATH is not set, sheets use a core font without Cyrillic glyphs")
	}

	handlers := client.NewClientHandlers(
		catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout),
		session.NewStore(),
		lyrics.NewService(lyrics.DefaultDisplayLimit),
		pdf.NewExporter(renderer, cfg.Fit),
		cfg.ExportTimeout,
	)
	client.SetupHandlers(songBot, handlers)

	logger.SystemEvent("startup", fmt.Sprintf("bot started, catalog %s", cfg.CatalogURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.SystemEvent("shutdown", "stopping bot")
	songBot.Stop()
}
