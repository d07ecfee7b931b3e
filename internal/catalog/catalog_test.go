package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

const searchJSON = `{
  "musics": {
    "data": [
      {"id": 101, "name": "Группа крови", "text": "1 куплет\nТёплое место", "file": "/files/101.mp3", "artist": {"name": "Кино"}},
      {"id": "102", "name": "", "text": "", "file": "/files/102.mp3"}
    ]
  }
}`

const minusHTML = `<html><body>
<div class="player" data-source="/plugin/sounds/uploads/555.mp3"></div>
<div class="player" data-source="/plugin/sounds/uploads/777.mp3"></div>
<div class="player" data-source="/plugin/sounds/uploads/555.mp3"></div>
<div class="player" data-source="/other/888.mp3"></div>
<span>nothing</span>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "группа крови" {
			w.Write([]byte(`{"musics": {"data": []}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchJSON))
	})
	mux.HandleFunc("/minus/101", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		gz.Write([]byte(minusHTML))
	})
	mux.HandleFunc("/plugin/sounds/uploads/555.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ID3audio"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/", time.Second)

	songs, err := c.Search(context.Background(), "группа крови")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("got %d songs, want 2", len(songs))
	}

	first := songs[0]
	if first.ID != "101" || first.Artist != "Кино" || first.File != "/files/101.mp3" {
		t.Errorf("unexpected first song %+v", first)
	}
	if got := first.ButtonLabel(); got != "Группа крови - Кино" {
		t.Errorf("ButtonLabel = %q", got)
	}
	if got := songs[1].ButtonLabel(); got != "Без названия - Unknown" {
		t.Errorf("ButtonLabel fallback = %q", got)
	}
	if !first.HasPlus() {
		t.Error("first song should have a plus track")
	}
	if (Song{ID: "103"}).HasPlus() {
		t.Error("song without file reports a plus track")
	}
	if got := c.PlusURL(first); got != srv.URL+"/files/101.mp3" {
		t.Errorf("PlusURL = %q", got)
	}

	none, err := c.Search(context.Background(), "nothing")
	if err != nil || len(none) != 0 {
		t.Errorf("Search(nothing) = %v, %v", none, err)
	}
}

func TestParseSearchInvalid(t *testing.T) {
	if _, err := parseSearch([]byte("<html>")); err == nil {
		t.Error("expected error for non-JSON body")
	}
	songs, err := parseSearch([]byte(`{"error": "x"}`))
	if err != nil || len(songs) != 0 {
		t.Errorf("missing data: got %v, %v", songs, err)
	}
}

func TestMinusVersions(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second)

	ids, err := c.MinusVersions(context.Background(), "101")
	if err != nil {
		t.Fatalf("MinusVersions: %v", err)
	}
	if want := []string{"555", "777"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if got := c.MinusURL("555"); got != srv.URL+"/plugin/sounds/uploads/555.mp3" {
		t.Errorf("MinusURL = %q", got)
	}
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second)

	data, err := c.Download(context.Background(), c.MinusURL("555"))
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !bytes.Equal(data, []byte("ID3audio")) {
		t.Errorf("data = %q", data)
	}

	_, err = c.Download(context.Background(), c.MinusURL("404"))
	if !errors.Is(err, ErrStatus) {
		t.Errorf("err = %v, want ErrStatus", err)
	}
}
