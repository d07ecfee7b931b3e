// Package catalog is a small client for the remote song catalog: search,
// instrumental ("minus") versions and audio downloads.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

const (
	untitled      = "Без названия"
	unknownArtist = "Unknown"
)

// Song is a search hit
type Song struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Text   string `json:"text"`
	File   string `json:"file"`
}

// DisplayName returns the song name or a placeholder
func (s Song) DisplayName() string {
	if s.Name == "" {
		return untitled
	}
	return s.Name
}

// ButtonLabel is the "name - artist" label used in selection keyboards
func (s Song) ButtonLabel() string {
	artist := s.Artist
	if artist == "" {
		artist = unknownArtist
	}
	return s.DisplayName() + " - " + artist
}

var minusSourceRegex = regexp.MustCompile(`^/plugin/sounds/uploads/(\d+)\.mp3$`)

// Search looks songs up by name.
func (c *Client) Search(ctx context.Context, query string) ([]Song, error) {
	body, err := c.get(ctx, searchPath(query), "application/json, text/javascript, */*; q=0.01")
	if err != nil {
		return nil, err
	}
	return parseSearch(body)
}

func parseSearch(body []byte) ([]Song, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid search response: %.80q", body)
	}

	items := gjson.GetBytes(body, "musics.data").Array()
	songs := make([]Song, 0, len(items))
	for _, item := range items {
		songs = append(songs, Song{
			ID:     item.Get("id").String(),
			Name:   item.Get("name").String(),
			Artist: item.Get("artist.name").String(),
			Text:   item.Get("text").String(),
			File:   item.Get("file").String(),
		})
	}
	return songs, nil
}

// MinusVersions returns the ids of instrumental versions for a song, in
// page order.
func (c *Client) MinusVersions(ctx context.Context, songID string) ([]string, error) {
	body, err := c.get(ctx, "/minus/"+songID, "text/html,application/xhtml+xml,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	return parseMinusPage(body)
}

func parseMinusPage(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse minus page: %w", err)
	}

	var ids []string
	seen := make(map[string]bool)
	doc.Find("[data-source]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("data-source")
		m := minusSourceRegex.FindStringSubmatch(src)
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	})
	return ids, nil
}

// MinusURL is the download URL of an instrumental version.
func (c *Client) MinusURL(minusID string) string {
	return fmt.Sprintf("%s/plugin/sounds/uploads/%s.mp3", c.baseURL, minusID)
}

// HasPlus reports whether the song has a track with vocals.
func (s Song) HasPlus() bool {
	return strings.TrimSpace(s.File) != ""
}

// PlusURL is the download URL of the song with vocals.
func (c *Client) PlusURL(song Song) string {
	return c.baseURL + song.File
}

// Download fetches an audio file.
func (c *Client) Download(ctx context.Context, fileURL string) ([]byte, error) {
	return c.get(ctx, fileURL, "audio/mpeg,*/*")
}
