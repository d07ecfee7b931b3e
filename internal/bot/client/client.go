package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/songbot/internal/bot"
	"github.com/sukalov/songbot/internal/catalog"
	"github.com/sukalov/songbot/internal/logger"
	"github.com/sukalov/songbot/internal/lyrics"
	"github.com/sukalov/songbot/internal/pdf"
	"github.com/sukalov/songbot/internal/session"
	"github.com/sukalov/songbot/internal/utils"
)

const welcomeText = "🎤 Напиши *название песни*, и я помогу тебе:\n" +
	"• Найти 🎼 *текст песни*\n" +
	"• Скачать 🎵 *плюс* и 🎶 *минус* версии\n" +
	"• Получить 📄 *PDF для распечатки*\n\n" +
	"💬 Введи название песни, и начнём!"

type ClientHandlers struct {
	catalog       *catalog.Client
	sessions      *session.Store
	lyrics        *lyrics.Service
	exporter      *pdf.Exporter
	exportTimeout time.Duration
}

func NewClientHandlers(
	catalogClient *catalog.Client,
	sessions *session.Store,
	lyricsService *lyrics.Service,
	exporter *pdf.Exporter,
	exportTimeout time.Duration,
) *ClientHandlers {
	return &ClientHandlers{
		catalog:       catalogClient,
		sessions:      sessions,
		lyrics:        lyricsService,
		exporter:      exporter,
		exportTimeout: exportTimeout,
	}
}

func (h *ClientHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	logger.UserAction(message.From.UserName, message.From.ID, "start", nil)
	return b.SendMessageWithMarkdown(message.Chat.ID, welcomeText, true)
}

func (h *ClientHandlers) searchHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	chatID := message.Chat.ID
	query := strings.TrimSpace(message.Text)

	logger.UserAction(message.From.UserName, message.From.ID, "search", map[string]any{"query": query})

	songs, err := h.catalog.Search(context.Background(), query)
	if err != nil {
		logger.ErrorEvent("search", fmt.Sprintf("query %q: %v", query, err), message.From.ID)
		return b.SendMessage(chatID, "⚠️ Произошла ошибка при поиске. Попробуй снова позже.")
	}

	if len(songs) == 0 {
		return b.SendMessage(chatID, "❌ Песни не найдены. Попробуй уточнить запрос.")
	}

	h.sessions.SetResults(chatID, songs)

	if len(songs) == 1 {
		h.sessions.Select(chatID, songs[0])
		return h.showSong(b, chatID, songs[0])
	}

	_, err = b.SendMessageWithButtons(
		chatID,
		"🔍 Вот несколько песен, выбери одну для просмотра текста:",
		songChoiceKeyboard(songs),
	)
	return err
}

// showSong sends the lyrics followed by the download buttons.
func (h *ClientHandlers) showSong(b *bot.Bot, chatID int64, song catalog.Song) error {
	result := h.lyrics.Display(song.DisplayName(), song.Text)
	text := fmt.Sprintf("🎤 *%s*\n\n%s", result.Title, result.Text)

	// Lyrics can contain stray markdown characters; plain text still reads fine.
	if err := b.SendMessageWithMarkdown(chatID, text, true); err != nil {
		logger.Warn(fmt.Sprintf("showSong: markdown rejected for %q: %v", result.Title, err))
		if err := b.SendMessage(chatID, fmt.Sprintf("🎤 %s\n\n%s", result.Title, result.Text)); err != nil {
			return fmt.Errorf("failed to send lyrics: %w", err)
		}
	}

	_, err := b.SendMessageWithButtons(chatID, "👇 Нажми на кнопку для скачивания:", downloadKeyboard())
	return err
}

func (h *ClientHandlers) chooseHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	idx, err := parseChoice(query.Data)
	if err != nil {
		logger.Warn(err.Error())
		return b.SendMessage(chatID, "⚠️ Ошибка при выборе песни.")
	}

	song, err := h.sessions.Choose(chatID, idx)
	if err != nil {
		return b.SendMessage(chatID, "⚠️ Не удалось выбрать песню.")
	}

	logger.UserAction(query.From.UserName, query.From.ID, "choose", map[string]any{
		"song": song.ButtonLabel(),
		"id":   song.ID,
	})
	return h.showSong(b, chatID, song)
}

func (h *ClientHandlers) pdfHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	song, ok := h.sessions.Selected(chatID)
	if !ok {
		return b.SendMessage(chatID, "⚠️ Не найден текст песни.")
	}

	logger.UserAction(query.From.UserName, query.From.ID, "download_pdf", map[string]any{"song": song.DisplayName()})

	ctx, cancel := context.WithTimeout(context.Background(), h.exportTimeout)
	defer cancel()

	var buf bytes.Buffer
	res, err := h.exporter.Export(ctx, &buf, h.lyrics.Printable(song.Text))
	if err != nil {
		logger.ErrorEvent("pdf", fmt.Sprintf("song %s: %v", song.ID, err), query.From.ID)
		return b.SendMessage(chatID, "⚠️ Ошибка при создании PDF.")
	}
	logger.Debug(fmt.Sprintf("pdf for %q: %.1fpt, %d pages, %d probes", song.DisplayName(), res.FontSize, res.Pages, res.Probes))

	name := utils.SafeFileName(song.DisplayName()) + ".pdf"
	if err := b.SendDocument(chatID, name, buf.Bytes()); err != nil {
		logger.ErrorEvent("pdf", fmt.Sprintf("send %s: %v", name, err), query.From.ID)
		return b.SendMessage(chatID, "⚠️ Ошибка при создании PDF.")
	}
	return nil
}

func (h *ClientHandlers) plusHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	song, ok := h.sessions.Selected(chatID)
	if !ok {
		return b.SendMessage(chatID, "⚠️ Не найден плюс песни.")
	}

	logger.UserAction(query.From.UserName, query.From.ID, "download_plus", map[string]any{"song": song.DisplayName()})
	if !song.HasPlus() {
		return b.SendMessage(chatID, plusAudio.failedText())
	}
	return h.sendAudio(b, chatID, h.catalog.PlusURL(song), plusAudio.title(song.DisplayName()), plusAudio)
}

func (h *ClientHandlers) minusHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	song, ok := h.sessions.Selected(chatID)
	if !ok {
		return b.SendMessage(chatID, "⚠️ Не найден минус песни.")
	}

	logger.UserAction(query.From.UserName, query.From.ID, "download_minus", map[string]any{"song": song.DisplayName()})

	ids, err := h.catalog.MinusVersions(context.Background(), song.ID)
	if err != nil {
		logger.ErrorEvent("minus", fmt.Sprintf("song %s: %v", song.ID, err), query.From.ID)
		return b.SendMessage(chatID, "⚠️ Ошибка при поиске минуса.")
	}

	switch len(ids) {
	case 0:
		return b.SendMessage(chatID, "⚠️ Минус не найден.")
	case 1:
		return h.sendAudio(b, chatID, h.catalog.MinusURL(ids[0]), minusAudio.title(song.DisplayName()), minusAudio)
	}

	messageID, err := b.SendMessageWithButtons(
		chatID,
		"🎶 Найдено несколько версий минусовки. Выбери нужную:",
		minusVersionKeyboard(ids),
	)
	if err != nil {
		return err
	}
	h.sessions.SetVersionPick(chatID, messageID)
	return nil
}

func (h *ClientHandlers) specificMinusHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	song, ok := h.sessions.Selected(chatID)
	if !ok {
		return b.SendMessage(chatID, "⚠️ Песня не найдена.")
	}

	minusID, ok := bot.CallbackArg(query.Data)
	if !ok || minusID == "" {
		return b.SendMessage(chatID, "⚠️ Ошибка при загрузке выбранной версии минуса.")
	}

	logger.UserAction(query.From.UserName, query.From.ID, "download_minus_version", map[string]any{
		"song":  song.DisplayName(),
		"minus": minusID,
	})

	title := fmt.Sprintf("%s #%s", minusAudio.title(song.DisplayName()), minusID)
	if err := h.sendAudio(b, chatID, h.catalog.MinusURL(minusID), title, minusAudio); err != nil {
		return err
	}

	if messageID, ok := h.sessions.TakeVersionPick(chatID); ok {
		if err := b.DeleteMessage(chatID, messageID); err != nil {
			logger.Warn(fmt.Sprintf("failed to delete version picker %d: %v", messageID, err))
		}
	}
	return nil
}

// sendAudio downloads url and sends it as a track, with a loading message
// shown for the duration of the download.
func (h *ClientHandlers) sendAudio(b *bot.Bot, chatID int64, url, title string, kind audioKind) error {
	loadingID, err := b.SendText(chatID, kind.loadingText())
	if err != nil {
		return err
	}
	defer func() {
		if err := b.DeleteMessage(chatID, loadingID); err != nil {
			logger.Warn(fmt.Sprintf("failed to delete loading message %d: %v", loadingID, err))
		}
	}()

	data, err := h.catalog.Download(context.Background(), url)
	switch {
	case errors.Is(err, catalog.ErrStatus), err == nil && len(data) == 0:
		logger.Warn(fmt.Sprintf("sendAudio: nothing at %s: %v", url, err))
		return b.SendMessage(chatID, kind.failedText())
	case err != nil:
		logger.Error(fmt.Sprintf("sendAudio: download %s: %v", url, err))
		return b.SendMessage(chatID, kind.errorText())
	}

	if err := b.SendAudio(chatID, title, data); err != nil {
		logger.Error(fmt.Sprintf("sendAudio: send %q: %v", title, err))
		return b.SendMessage(chatID, kind.errorText())
	}
	return nil
}

func unknownHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(update.Message.Chat.ID, "этого я не понимаю...\n\nпросто напиши название песни")
}

// answered acknowledges the button press before running h.
func answered(h bot.HandlerFunc) bot.HandlerFunc {
	return func(b *bot.Bot, update tgbotapi.Update) error {
		if err := b.AnswerCallback(update.CallbackQuery.ID, ""); err != nil {
			logger.Warn(fmt.Sprintf("failed to answer callback: %v", err))
		}
		return h(b, update)
	}
}

func SetupHandlers(clientBot *bot.Bot, handlers *ClientHandlers) {
	commandHandlers := map[string]bot.HandlerFunc{
		"start": handlers.startHandler,
	}

	messageHandlers := []bot.HandlerFunc{
		func(b *bot.Bot, update tgbotapi.Update) error {
			if update.Message == nil {
				return nil
			}
			if update.Message.IsCommand() || strings.TrimSpace(update.Message.Text) == "" {
				return unknownHandler(b, update)
			}
			return handlers.searchHandler(b, update)
		},
	}

	callbackHandlers := map[string]bot.HandlerFunc{
		callbackChoose:        answered(handlers.chooseHandler),
		callbackPDF:           answered(handlers.pdfHandler),
		callbackPlus:          answered(handlers.plusHandler),
		callbackMinus:         answered(handlers.minusHandler),
		callbackSpecificMinus: answered(handlers.specificMinusHandler),
	}

	go clientBot.Start(commandHandlers, messageHandlers, callbackHandlers)
}
