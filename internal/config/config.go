package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sukalov/songbot/internal/catalog"
	"github.com/sukalov/songbot/internal/pagefit"
	"github.com/sukalov/songbot/internal/pdf"
	"github.com/sukalov/songbot/internal/utils"
)

type Config struct {
	BotToken string

	CatalogURL     string
	CatalogTimeout time.Duration

	LogChannelID int64
	LogLevel     string
	LogFormat    string

	PDF           pdf.Config
	Fit           pagefit.Config
	ExportTimeout time.Duration
}

// Load reads the bot configuration from the environment (and .env).
func Load() (*Config, error) {
	env, err := utils.LoadEnv([]string{"TOKEN"})
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional()
	if err != nil {
		return nil, err
	}
	cfg.BotToken = env["TOKEN"]
	return cfg, nil
}

// LoadOptional reads every setting that has a default. The CLI uses it
// directly since it needs no bot token.
func LoadOptional() (*Config, error) {
	p := parser{}
	pdfDefaults := pdf.DefaultConfig()
	fitDefaults := pagefit.DefaultConfig()

	cfg := &Config{
		CatalogURL:     getEnv("CATALOG_URL", catalog.DefaultBaseURL),
		CatalogTimeout: p.duration("CATALOG_TIMEOUT", 15*time.Second),
		LogChannelID:   p.int64("LOG_CHANNEL_ID", 0),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		PDF: pdf.Config{
			Margin:     p.float("PDF_MARGIN", pdfDefaults.Margin),
			FontPath:   getEnv("PDF_FONT_PATH", pdfDefaults.FontPath),
			FontFamily: getEnv("PDF_FONT_FAMILY", pdfDefaults.FontFamily),
			PageSize:   getEnv("PDF_PAGE_SIZE", pdfDefaults.PageSize),
		},
		Fit: pagefit.Config{
			MinFontSize:       p.float("PDF_MIN_FONT_SIZE", fitDefaults.MinFontSize),
			StartFontSize:     p.float("PDF_START_FONT_SIZE", fitDefaults.StartFontSize),
			CoarseStep:        p.float("PDF_COARSE_STEP", fitDefaults.CoarseStep),
			RefineStep:        p.float("PDF_REFINE_STEP", fitDefaults.RefineStep),
			MaxRefineAttempts: int(p.int64("PDF_REFINE_ATTEMPTS", int64(fitDefaults.MaxRefineAttempts))),
		},
		ExportTimeout: p.duration("EXPORT_TIMEOUT", 60*time.Second),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// parser collects conversion errors so all bad variables are reported at once.
type parser struct {
	errs []error
}

func (p *parser) float(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s=%q: %w", k, v, err))
		return def
	}
	return f
}

func (p *parser) int64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s=%q: %w", k, v, err))
		return def
	}
	return n
}

func (p *parser) duration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s=%q: %w", k, v, err))
		return def
	}
	return d
}
