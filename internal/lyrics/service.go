package lyrics

import (
	"fmt"
	"time"

	"github.com/sukalov/songbot/internal/logger"
)

const (
	// DefaultDisplayLimit keeps a lyrics message under Telegram's 4096 char cap.
	DefaultDisplayLimit = 4000
	truncatedMarker     = "\n...\n(текст обрезан)"
	noTitle             = "Без названия"
	noText              = "Нет текста."
)

// LyricsResult represents lyrics prepared for a chat message
type LyricsResult struct {
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Truncated  bool      `json:"truncated"`
	PreparedAt time.Time `json:"prepared_at"`
}

// Service prepares catalog lyrics for display
type Service struct {
	limit int
}

// NewService creates a new lyrics service. A non-positive limit disables truncation.
func NewService(limit int) *Service {
	return &Service{limit: limit}
}

// Display normalizes raw lyrics and cuts them to the message limit
func (s *Service) Display(title, raw string) *LyricsResult {
	if title == "" {
		title = noTitle
	}
	if raw == "" {
		raw = noText
	}

	text := Normalize(raw)
	logger.Debug(fmt.Sprintf("Display: normalized %q (%d -> %d chars)", title, len(raw), len(text)))

	result := &LyricsResult{
		Title:      title,
		Text:       text,
		PreparedAt: time.Now(),
	}

	if s.limit > 0 {
		if runes := []rune(text); len(runes) > s.limit {
			result.Text = string(runes[:s.limit]) + truncatedMarker
			result.Truncated = true
		}
	}
	return result
}

// Printable returns normalized lyrics for export, with the same placeholder
// as Display for songs without text.
func (s *Service) Printable(raw string) string {
	if raw == "" {
		raw = noText
	}
	return Normalize(raw)
}
