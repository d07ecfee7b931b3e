package bot

import (
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/songbot/internal/logger"
)

// HandlerFunc handles a single update.
type HandlerFunc = func(b *Bot, update tgbotapi.Update) error

// CallbackSeparator splits callback data into a handler key and an argument,
// as in "choose::2".
const CallbackSeparator = "::"

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     *tgbotapi.BotAPI
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	name       string
	mu         sync.Mutex
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot %s: %w", name, err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		updateChan: updateChan,
		stopChan:   make(chan struct{}),
		name:       name,
	}, nil
}

// Start begins processing updates with custom handler
func (b *Bot) Start(
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	logger.Info(fmt.Sprintf("[%s] authorized on account %s", b.name, b.Client.Self.UserName))
	b.loop(commandHandlers, messageHandlers, callbackHandlers)
}

// loop dispatches updates until Stop is called or the update channel closes.
func (b *Bot) loop(
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	for {
		select {
		case update, ok := <-b.updateChan:
			if !ok {
				return
			}
			go b.processUpdate(update, commandHandlers, messageHandlers, callbackHandlers)
		case <-b.stopChan:
			return
		}
	}
}

// CallbackKey returns the handler key for callback data: the data itself, or
// "prefix::" when the data carries an argument.
func CallbackKey(data string) string {
	if i := strings.Index(data, CallbackSeparator); i >= 0 {
		return data[:i+len(CallbackSeparator)]
	}
	return data
}

// CallbackArg returns the part of callback data after the separator.
func CallbackArg(data string) (string, bool) {
	_, arg, ok := strings.Cut(data, CallbackSeparator)
	return arg, ok
}

func lookupCallback(handlers map[string]HandlerFunc, data string) (HandlerFunc, bool) {
	if handler, ok := handlers[data]; ok {
		return handler, true
	}
	handler, ok := handlers[CallbackKey(data)]
	return handler, ok
}

// processUpdate handles incoming updates with custom handlers
func (b *Bot) processUpdate(
	update tgbotapi.Update,
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("[%s] handler panic: %v", b.name, r))
		}
	}()

	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := commandHandlers[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				logger.Error(fmt.Sprintf("[%s] command handler error: %v", b.name, err))
			}
			return
		}
	}

	if update.CallbackQuery != nil {
		if handler, exists := lookupCallback(callbackHandlers, update.CallbackQuery.Data); exists {
			if err := handler(b, update); err != nil {
				logger.Error(fmt.Sprintf("[%s] callback handler error: %v", b.name, err))
			}
			return
		}
		logger.Warn(fmt.Sprintf("[%s] no handler for callback %q", b.name, update.CallbackQuery.Data))
		return
	}

	for _, handler := range messageHandlers {
		if err := handler(b, update); err != nil {
			logger.Error(fmt.Sprintf("[%s] message handler error: %v", b.name, err))
		}
	}
}

// Stop halts the bot
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Client.StopReceivingUpdates()
	select {
	case b.stopChan <- struct{}{}:
	default:
	}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithMarkdown(chatID int64, text string, disableLinks bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = disableLinks
	_, err := b.Client.Send(msg)
	return err
}

// SendMessageWithButtons sends text with an inline keyboard and returns the
// id of the sent message.
func (b *Bot) SendMessageWithButtons(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	sent, err := b.Client.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendText sends a plain message and returns its id.
func (b *Bot) SendText(chatID int64, text string) (int, error) {
	sent, err := b.Client.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (b *Bot) SendDocument(chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := b.Client.Send(doc)
	return err
}

func (b *Bot) SendAudio(chatID int64, title string, data []byte) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{Name: title + ".mp3", Bytes: data})
	audio.Title = title
	_, err := b.Client.Send(audio)
	return err
}

func (b *Bot) DeleteMessage(chatID int64, messageID int) error {
	_, err := b.Client.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// AnswerCallback stops the loading indicator on the pressed button.
func (b *Bot) AnswerCallback(callbackID, text string) error {
	_, err := b.Client.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}
