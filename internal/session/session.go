// Package session keeps what each chat is currently looking at: the last
// search results, the selected song and a pending minus-version picker.
// Everything lives in memory and is lost on restart.
package session

import (
	"fmt"
	"sync"

	"github.com/sukalov/songbot/internal/catalog"
)

// MaxChoices is how many search results are offered as buttons.
const MaxChoices = 5

type State struct {
	Results  []catalog.Song `json:"results"`
	Selected *catalog.Song  `json:"selected,omitempty"`
	// VersionPickMessageID is the message with minus-version buttons, 0 if none.
	VersionPickMessageID int `json:"version_pick_message_id"`
}

// Store manages chat states with thread-safety
type Store struct {
	states map[int64]*State
	mu     sync.RWMutex
}

func NewStore() *Store {
	return &Store{states: make(map[int64]*State)}
}

func (s *Store) state(chatID int64) *State {
	st, ok := s.states[chatID]
	if !ok {
		st = &State{}
		s.states[chatID] = st
	}
	return st
}

// SetResults replaces the search results of a chat. The selection is kept
// until a new song is chosen.
func (s *Store) SetResults(chatID int64, results []catalog.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state(chatID).Results = append([]catalog.Song(nil), results...)
}

// Results returns a copy of the last search results.
func (s *Store) Results(chatID int64) []catalog.Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[chatID]
	if !ok {
		return nil
	}
	return append([]catalog.Song(nil), st.Results...)
}

// Choose selects the result at index and returns it.
func (s *Store) Choose(chatID int64, index int) (catalog.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[chatID]
	if !ok || index < 0 || index >= len(st.Results) {
		return catalog.Song{}, fmt.Errorf("no search result %d for chat %d", index, chatID)
	}
	song := st.Results[index]
	st.Selected = &song
	return song, nil
}

// Select marks song as the chat's current song.
func (s *Store) Select(chatID int64, song catalog.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state(chatID).Selected = &song
}

// Selected returns the chat's current song.
func (s *Store) Selected(chatID int64) (catalog.Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[chatID]
	if !ok || st.Selected == nil {
		return catalog.Song{}, false
	}
	return *st.Selected, true
}

func (s *Store) SetVersionPick(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state(chatID).VersionPickMessageID = messageID
}

// TakeVersionPick returns and forgets the pending picker message.
func (s *Store) TakeVersionPick(chatID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[chatID]
	if !ok || st.VersionPickMessageID == 0 {
		return 0, false
	}
	id := st.VersionPickMessageID
	st.VersionPickMessageID = 0
	return id, true
}

// Clear forgets everything about a chat.
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, chatID)
}

// Len returns the number of chats with state.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.states)
}
