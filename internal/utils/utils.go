package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var moscowLocation = time.FixedZone("Moscow Time", 3*60*60)

// LoadEnv reads .env if present and returns the required variables.
func LoadEnv(requiredVars []string) (map[string]string, error) {
	_ = godotenv.Load()

	envVars := make(map[string]string)

	for _, key := range requiredVars {
		value := os.Getenv(key)
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", key)
		}
		envVars[key] = value
	}

	return envVars, nil
}

// FormatMoscowTime formats t for log channel messages.
func FormatMoscowTime(t time.Time) string {
	return t.In(moscowLocation).Format("2006-01-02 15:04:05")
}

// SafeFileName strips characters that Telegram clients and filesystems
// reject in document names.
func SafeFileName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '\n', '\r', '\t':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "lyrics"
	}
	return string(out)
}
