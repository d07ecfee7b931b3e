package session

import (
	"sync"
	"testing"

	"github.com/sukalov/songbot/internal/catalog"
)

func TestChoose(t *testing.T) {
	s := NewStore()
	results := []catalog.Song{{ID: "1", Name: "one"}, {ID: "2", Name: "two"}}
	s.SetResults(10, results)

	tests := []struct {
		name    string
		chatID  int64
		index   int
		wantID  string
		wantErr bool
	}{
		{name: "first", chatID: 10, index: 0, wantID: "1"},
		{name: "second", chatID: 10, index: 1, wantID: "2"},
		{name: "out of range", chatID: 10, index: 2, wantErr: true},
		{name: "negative", chatID: 10, index: -1, wantErr: true},
		{name: "unknown chat", chatID: 11, index: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			song, err := s.Choose(tc.chatID, tc.index)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", song)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if song.ID != tc.wantID {
				t.Errorf("ID = %q, want %q", song.ID, tc.wantID)
			}
			selected, ok := s.Selected(tc.chatID)
			if !ok || selected.ID != tc.wantID {
				t.Errorf("Selected = %+v, %v", selected, ok)
			}
		})
	}
}

func TestResultsAreCopied(t *testing.T) {
	s := NewStore()
	results := []catalog.Song{{ID: "1"}}
	s.SetResults(1, results)
	results[0].ID = "changed"

	got := s.Results(1)
	if got[0].ID != "1" {
		t.Errorf("store shares caller slice: %+v", got)
	}
	got[0].ID = "mutated"
	if s.Results(1)[0].ID != "1" {
		t.Error("Results returned internal slice")
	}
}

func TestSelectedSurvivesNewSearch(t *testing.T) {
	s := NewStore()
	s.Select(1, catalog.Song{ID: "a"})
	s.SetResults(1, []catalog.Song{{ID: "b"}})

	if song, ok := s.Selected(1); !ok || song.ID != "a" {
		t.Errorf("Selected = %+v, %v", song, ok)
	}
	if _, ok := s.Selected(2); ok {
		t.Error("unexpected selection for unknown chat")
	}
}

func TestVersionPick(t *testing.T) {
	s := NewStore()
	if _, ok := s.TakeVersionPick(1); ok {
		t.Fatal("unexpected pending pick")
	}

	s.SetVersionPick(1, 42)
	id, ok := s.TakeVersionPick(1)
	if !ok || id != 42 {
		t.Fatalf("TakeVersionPick = %d, %v", id, ok)
	}
	if _, ok := s.TakeVersionPick(1); ok {
		t.Error("pick was not cleared")
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Select(1, catalog.Song{ID: "a"})
	s.Select(2, catalog.Song{ID: "b"})
	s.Clear(1)

	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if _, ok := s.Selected(1); ok {
		t.Error("chat 1 not cleared")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			s.SetResults(chatID, []catalog.Song{{ID: "x"}})
			if _, err := s.Choose(chatID, 0); err != nil {
				t.Error(err)
			}
			s.Selected(chatID)
		}(int64(i % 5))
	}
	wg.Wait()

	if s.Len() != 5 {
		t.Errorf("Len = %d, want 5", s.Len())
	}
}
