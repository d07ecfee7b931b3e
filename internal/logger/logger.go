package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sukalov/songbot/internal/utils"
)

var (
	ChannelID int64
	once      sync.Once
	mu        sync.RWMutex
	botClient BotClient
	local     = newLocal(os.Stderr, "info", "text")
)

type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Setup configures the local log sink. level is debug|info|warn|error,
// format is text|json.
func Setup(w io.Writer, level, format string) {
	l := newLocal(w, level, format)
	mu.Lock()
	local = l
	mu.Unlock()
}

func newLocal(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init mirrors log messages to a Telegram channel through client.
func Init(client BotClient, channelID int64) error {
	var initErr error
	once.Do(func() {
		if client == nil || channelID == 0 {
			initErr = fmt.Errorf("log channel is not configured")
			return
		}
		mu.Lock()
		ChannelID = channelID
		botClient = client
		mu.Unlock()
	})

	return initErr
}

func Info(message string) {
	sendLog(slog.LevelInfo, "ℹ️ INFO", message)
}

func Warn(message string) {
	sendLog(slog.LevelWarn, "⚠️ WARN", message)
}

func Error(message string) {
	sendLog(slog.LevelError, "❌ ERROR", message)
}

func Debug(message string) {
	sendLog(slog.LevelDebug, "🔍 DEBUG", message)
}

func Success(message string) {
	sendLog(slog.LevelInfo, "✅ SUCCESS", message)
}

func sendLog(level slog.Level, prefix, message string) {
	mu.RLock()
	l, client, channel := local, botClient, ChannelID
	mu.RUnlock()

	if !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, message)

	if client == nil {
		return
	}

	timestamp := utils.FormatMoscowTime(time.Now())
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	go func() {
		if err := client.SendMessage(channel, logMessage); err != nil {
			l.Warn("failed to send log to channel", "error", err, "log", logMessage)
		}
	}()
}

// LogWithErr logs message as info when err is nil, otherwise as an error,
// and returns err wrapped with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))
	return fmt.Errorf("%s: %w", message, err)
}

// UserAction logs something a chat user did.
func UserAction(username string, userID int64, action string, details map[string]any) {
	Info(formatUserAction(username, userID, action, details))
}

// ErrorEvent logs a categorized error, optionally tied to a user.
func ErrorEvent(kind, message string, userID int64) {
	Error(formatErrorEvent(kind, message, userID))
}

// SystemEvent logs lifecycle events such as startup.
func SystemEvent(kind, message string) {
	Info(fmt.Sprintf("SYSTEM: %s | %s", kind, message))
}

func formatUserAction(username string, userID int64, action string, details map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "USER: %s (ID: %d) | ACTION: %s", username, userID, action)

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " | %s: %v", strings.ToUpper(k), details[k])
	}
	return b.String()
}

func formatErrorEvent(kind, message string, userID int64) string {
	msg := fmt.Sprintf("ERROR: %s | MESSAGE: %s", kind, message)
	if userID != 0 {
		msg = fmt.Sprintf("USER_ID: %d | %s", userID, msg)
	}
	return msg
}
