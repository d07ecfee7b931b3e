package client

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/songbot/internal/bot"
	"github.com/sukalov/songbot/internal/catalog"
	"github.com/sukalov/songbot/internal/session"
)

const (
	callbackChoose        = "choose" + bot.CallbackSeparator
	callbackPDF           = "download_pdf"
	callbackPlus          = "download_mp3+"
	callbackMinus         = "download_mp3-"
	callbackSpecificMinus = "download_specific_minus" + bot.CallbackSeparator
)

// songChoiceKeyboard offers at most session.MaxChoices songs, one per row.
func songChoiceKeyboard(songs []catalog.Song) tgbotapi.InlineKeyboardMarkup {
	if len(songs) > session.MaxChoices {
		songs = songs[:session.MaxChoices]
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(songs))
	for i, song := range songs {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(song.ButtonLabel(), callbackChoose+strconv.Itoa(i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func downloadKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 Скачать PDF", callbackPDF),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎵 Скачать MP3+ (с голосом)", callbackPlus),
			tgbotapi.NewInlineKeyboardButtonData("🎶 Скачать MP3- (минус)", callbackMinus),
		),
	)
}

func minusVersionKeyboard(ids []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(ids))
	for i, id := range ids {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Минус - Версия %d (ID: %s)", i+1, id),
				callbackSpecificMinus+id,
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// parseChoice extracts the result index from "choose::<i>".
func parseChoice(data string) (int, error) {
	arg, ok := bot.CallbackArg(data)
	if !ok {
		return 0, fmt.Errorf("malformed choice %q", data)
	}
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("malformed choice %q: %w", data, err)
	}
	return idx, nil
}

// audioKind describes a plus or minus track in chat messages.
type audioKind struct {
	label      string // appended to the title
	accusative string
	genitive   string
}

var (
	plusAudio  = audioKind{label: "🎵 (с голосом)", accusative: "плюсовку", genitive: "плюсовки"}
	minusAudio = audioKind{label: "🎶 (минус)", accusative: "минусовку", genitive: "минусовки"}
)

func (k audioKind) title(songName string) string {
	return songName + " " + k.label
}

func (k audioKind) loadingText() string {
	return "⏳ Скачиваю " + k.accusative + "..."
}

func (k audioKind) failedText() string {
	return "❌ Не удалось скачать " + k.accusative + "."
}

func (k audioKind) errorText() string {
	return "⚠️ Ошибка при скачивании " + k.genitive + "."
}
