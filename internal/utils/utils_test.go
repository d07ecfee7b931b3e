package utils

import (
	"testing"
	"time"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv("SONGBOT_TEST_PRESENT", "value")

	env, err := LoadEnv([]string{"SONGBOT_TEST_PRESENT"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if env["SONGBOT_TEST_PRESENT"] != "value" {
		t.Errorf("got %q", env["SONGBOT_TEST_PRESENT"])
	}

	if _, err := LoadEnv([]string{"SONGBOT_TEST_PRESENT", "SONGBOT_TEST_MISSING"}); err == nil {
		t.Error("expected error for missing variable")
	}
}

func TestFormatMoscowTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 21, 30, 0, 0, time.UTC)
	if got := FormatMoscowTime(ts); got != "2024-03-02 00:30:00" {
		t.Errorf("FormatMoscowTime = %q", got)
	}
}

func TestSafeFileName(t *testing.T) {
	tests := map[string]string{
		"Song":         "Song",
		"AC/DC: Thund": "AC_DC_ Thund",
		"":             "lyrics",
		"Кино?":        "Кино_",
	}
	for in, want := range tests {
		if got := SafeFileName(in); got != want {
			t.Errorf("SafeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
